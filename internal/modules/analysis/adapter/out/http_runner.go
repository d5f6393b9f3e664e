package out

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"smarttrack/internal/modules/analysis/domain"
	analysisout "smarttrack/internal/modules/analysis/port/out"
)

type JSONFetcher interface {
	FetchJSON(ctx context.Context, path string, query url.Values, out any) error
}

type HTTPRunner struct {
	api JSONFetcher
}

func NewHTTPRunner(api JSONFetcher) analysisout.Runner {
	return &HTTPRunner{api: api}
}

// looseString accepts a JSON string or number; semester ids and dates come
// from a dataframe and are not consistently typed.
type looseString string

func (s *looseString) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*s = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

type analysisPayload struct {
	GPABySemester []struct {
		SemesterID looseString `json:"semester_id"`
		Start      looseString `json:"start"`
		End        looseString `json:"end"`
		GPA        float64     `json:"gpa"`
	} `json:"gpa_by_semester"`
	TimeVsGPA []struct {
		SemesterID  looseString `json:"semester_id"`
		GPA         float64     `json:"gpa"`
		Correlation float64     `json:"correlation"`
	} `json:"time_vs_gpa"`
	Semesters []struct {
		SemesterID        looseString        `json:"semester_id"`
		Start             looseString        `json:"start"`
		End               looseString        `json:"end"`
		GPA               float64            `json:"gpa"`
		DaysSeen          int                `json:"days_seen"`
		AvgHoursPerDay    map[string]float64 `json:"avg_hours_per_day"`
		PlatformTotalsSec map[string]float64 `json:"platform_totals_sec"`
		Recommendations   []string           `json:"recommendations"`
	} `json:"semesters"`
	Note string `json:"note"`
}

func (r *HTTPRunner) Run(ctx context.Context, weights domain.Weights) (domain.Report, error) {
	query := url.Values{
		"cat":  {strconv.FormatFloat(weights.Cat, 'f', -1, 64)},
		"exam": {strconv.FormatFloat(weights.Exam, 'f', -1, 64)},
	}
	var payload analysisPayload
	if err := r.api.FetchJSON(ctx, "analysis/run/", query, &payload); err != nil {
		return domain.Report{}, err
	}

	report := domain.Report{Note: payload.Note}
	for _, g := range payload.GPABySemester {
		report.GPABySemester = append(report.GPABySemester, domain.SemesterGPA{
			SemesterID: string(g.SemesterID),
			Start:      string(g.Start),
			End:        string(g.End),
			GPA:        g.GPA,
		})
	}
	for _, c := range payload.TimeVsGPA {
		report.TimeVsGPA = append(report.TimeVsGPA, domain.Correlation{
			SemesterID:  string(c.SemesterID),
			GPA:         c.GPA,
			Correlation: c.Correlation,
		})
	}
	for _, s := range payload.Semesters {
		report.Semesters = append(report.Semesters, domain.Semester{
			ID:                string(s.SemesterID),
			Start:             string(s.Start),
			End:               string(s.End),
			GPA:               s.GPA,
			DaysSeen:          s.DaysSeen,
			AvgHoursPerDay:    s.AvgHoursPerDay,
			PlatformTotalsSec: s.PlatformTotalsSec,
			Recommendations:   s.Recommendations,
		})
	}
	return report, nil
}
