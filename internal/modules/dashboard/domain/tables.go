package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	gpadto "smarttrack/internal/modules/gpa/dto"
	trackerdomain "smarttrack/internal/modules/tracker/domain"
	trackerdto "smarttrack/internal/modules/tracker/dto"
)

// KPICounter is today's rounded seconds for one platform.
func KPICounter(p trackerdomain.Platform, seconds float64) CounterView {
	v := math.Round(seconds)
	return CounterView{
		Label: p.Label(),
		Value: v,
		Text:  humanize.Comma(int64(v)),
		Unit:  "s",
		Color: p.Color(),
	}
}

var sessionColumns = []string{"ID", "Platform", "Seconds", "Start", "End"}

// SessionTable renders one row per session. The platform is shown by label;
// timestamps are passed through verbatim.
func SessionTable(sessions []trackerdto.SessionOutput) TableView {
	view := TableView{Columns: sessionColumns, Rows: make([][]string, 0, len(sessions))}
	for _, s := range sessions {
		view.Rows = append(view.Rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Platform.Label(),
			strconv.FormatFloat(math.Round(s.Seconds), 'f', 0, 64),
			s.StartTS,
			s.EndTS,
		})
	}
	return view
}

var gpaColumns = []string{"Course", "Credits", "Grade", "Explanation"}

func GPATable(report gpadto.ReportOutput) TableView {
	view := TableView{Columns: gpaColumns, Rows: make([][]string, 0, len(report.Rows))}
	for _, r := range report.Rows {
		view.Rows = append(view.Rows, []string{r.Name, formatNumber(r.Credits), r.Grade, r.Explain})
	}
	return view
}

func GPASummary(report gpadto.ReportOutput) Document {
	doc := Document{Title: "GPA"}
	doc.Text(fmt.Sprintf("GPA: %.3f", report.GPA))
	doc.Text("Total Credits: " + formatNumber(report.TotalCredits))
	return doc
}

func GPACounter(report gpadto.ReportOutput) CounterView {
	return CounterView{Label: "GPA", Value: report.GPA, Text: fmt.Sprintf("%.3f", report.GPA)}
}

// formatNumber prints the shortest exact decimal form: 3, 3.5, 14.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
