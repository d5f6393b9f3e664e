package service

import (
	"context"
	"errors"
	"fmt"

	"smarttrack/internal/modules/analysis/domain"
	analysisout "smarttrack/internal/modules/analysis/port/out"
	apperrors "smarttrack/internal/platform/errors"
)

type AnalysisService struct {
	runner    analysisout.Runner
	sanitizer analysisout.Sanitizer
}

func NewAnalysisService(runner analysisout.Runner, sanitizer analysisout.Sanitizer) *AnalysisService {
	return &AnalysisService{runner: runner, sanitizer: sanitizer}
}

// Run fetches the analysis and strips markup from every backend string,
// including the message of a reported failure.
func (s *AnalysisService) Run(ctx context.Context, weights domain.Weights) (domain.Report, error) {
	report, err := s.runner.Run(ctx, weights)
	if err != nil {
		var fe *apperrors.FetchError
		if errors.As(err, &fe) {
			fe.Message = s.clean(fe.Message)
		}
		return domain.Report{}, fmt.Errorf("run analysis: %w", err)
	}

	report.Note = s.clean(report.Note)
	for i := range report.GPABySemester {
		g := &report.GPABySemester[i]
		g.SemesterID, g.Start, g.End = s.clean(g.SemesterID), s.clean(g.Start), s.clean(g.End)
	}
	for i := range report.TimeVsGPA {
		report.TimeVsGPA[i].SemesterID = s.clean(report.TimeVsGPA[i].SemesterID)
	}
	for i := range report.Semesters {
		sem := &report.Semesters[i]
		sem.ID, sem.Start, sem.End = s.clean(sem.ID), s.clean(sem.Start), s.clean(sem.End)
		recs := make([]string, 0, len(sem.Recommendations))
		for _, r := range sem.Recommendations {
			if cleaned := s.clean(r); cleaned != "" {
				recs = append(recs, cleaned)
			}
		}
		sem.Recommendations = recs
	}
	return report, nil
}

func (s *AnalysisService) clean(in string) string {
	if s.sanitizer == nil {
		return in
	}
	return s.sanitizer.Text(in)
}
