package domain

import (
	"fmt"
	"sort"

	analysisdto "smarttrack/internal/modules/analysis/dto"
	trackerdomain "smarttrack/internal/modules/tracker/domain"
)

const (
	AnalysisRunning  = "Running analysis..."
	AnalysisFallback = "Error"
)

func AnalysisPlaceholder() Document {
	doc := Document{Title: "Analysis"}
	doc.Text(AnalysisRunning)
	return doc
}

// AnalysisError replaces the results with the backend's message.
func AnalysisError(message string) Document {
	if message == "" {
		message = AnalysisFallback
	}
	doc := Document{Title: "Analysis"}
	doc.Text(message)
	return doc
}

func AnalysisDocument(report analysisdto.ReportOutput) Document {
	doc := Document{Title: "Analysis"}

	doc.Heading(2, "GPA by Semester")
	summary := make([]string, 0, len(report.GPABySemester))
	for _, g := range report.GPABySemester {
		summary = append(summary, fmt.Sprintf("%s: GPA %s (%s → %s)", g.SemesterID, formatNumber(g.GPA), g.Start, g.End))
	}
	doc.List(summary...)
	doc.Divider()

	for _, s := range report.Semesters {
		doc.Heading(3, fmt.Sprintf("Semester %s — GPA %s (%s → %s, days seen: %d)",
			s.ID, formatNumber(s.GPA), s.Start, s.End, s.DaysSeen))
		doc.Chips(hourChips(s.AvgHoursPerDay)...)
		doc.Heading(4, "Decision & Recommendations")
		doc.List(s.Recommendations...)
	}

	if len(report.TimeVsGPA) > 0 {
		doc.Heading(3, "Time vs GPA")
		rows := make([]string, 0, len(report.TimeVsGPA))
		for _, c := range report.TimeVsGPA {
			rows = append(rows, fmt.Sprintf("%s: GPA %s, correlation %.2f", c.SemesterID, formatNumber(c.GPA), c.Correlation))
		}
		doc.List(rows...)
	}

	if report.Note != "" {
		doc.Note(report.Note)
	}
	return doc
}

// hourChips lists known platforms in display order, then any other keys
// the backend sent, sorted.
func hourChips(avg map[string]float64) []string {
	chips := make([]string, 0, len(avg))
	known := make(map[string]bool, len(trackerdomain.Platforms))
	for _, p := range trackerdomain.Platforms {
		known[string(p)] = true
		if v, ok := avg[string(p)]; ok {
			chips = append(chips, fmt.Sprintf("%s: %.2f h/day", p, v))
		}
	}
	extra := make([]string, 0)
	for k := range avg {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		chips = append(chips, fmt.Sprintf("%s: %.2f h/day", k, avg[k]))
	}
	return chips
}
