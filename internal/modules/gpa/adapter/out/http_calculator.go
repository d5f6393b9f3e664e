package out

import (
	"context"

	"smarttrack/internal/modules/gpa/domain"
	gpaout "smarttrack/internal/modules/gpa/port/out"
)

// JSONPoster is the subset of the API client the calculator needs.
type JSONPoster interface {
	PostJSON(ctx context.Context, path string, body any, out any) error
}

type HTTPCalculator struct {
	api JSONPoster
}

func NewHTTPCalculator(api JSONPoster) gpaout.Calculator {
	return &HTTPCalculator{api: api}
}

type courseBody struct {
	Name    string  `json:"name,omitempty"`
	Credits float64 `json:"credits"`
	Grade   string  `json:"grade"`
}

// calcRequest always carries a courses array and an explicit null scale.
type calcRequest struct {
	Courses     []courseBody       `json:"courses"`
	CustomScale map[string]float64 `json:"custom_scale"`
}

type calcResponse struct {
	GPA          float64 `json:"gpa"`
	TotalCredits float64 `json:"total_credits"`
	Rows         []struct {
		Name    string  `json:"name"`
		Credits float64 `json:"credits"`
		Grade   string  `json:"grade"`
		Explain string  `json:"explain"`
	} `json:"rows"`
}

func (c *HTTPCalculator) Calculate(ctx context.Context, courses []domain.Course) (domain.Report, error) {
	req := calcRequest{Courses: make([]courseBody, 0, len(courses))}
	for _, course := range courses {
		req.Courses = append(req.Courses, courseBody{Name: course.Name, Credits: course.Credits, Grade: string(course.Grade)})
	}
	var resp calcResponse
	if err := c.api.PostJSON(ctx, "calc/", req, &resp); err != nil {
		return domain.Report{}, err
	}
	report := domain.Report{GPA: resp.GPA, TotalCredits: resp.TotalCredits, Rows: make([]domain.ReportRow, 0, len(resp.Rows))}
	for _, r := range resp.Rows {
		report.Rows = append(report.Rows, domain.ReportRow{Name: r.Name, Credits: r.Credits, Grade: r.Grade, Explain: r.Explain})
	}
	return report, nil
}
