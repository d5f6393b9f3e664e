package usecase

import (
	"context"

	"smarttrack/internal/modules/analysis/domain"
	analysisdto "smarttrack/internal/modules/analysis/dto"
	analysisin "smarttrack/internal/modules/analysis/port/in"
	"smarttrack/internal/modules/analysis/service"
)

type Interactor struct {
	svc *service.AnalysisService
}

func NewInteractor(svc *service.AnalysisService) analysisin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Run(ctx context.Context, input analysisdto.RunInput) (analysisdto.ReportOutput, error) {
	weights, err := domain.ParseWeights(input.Cat, input.Exam)
	if err != nil {
		return analysisdto.ReportOutput{}, err
	}
	report, err := i.svc.Run(ctx, weights)
	if err != nil {
		return analysisdto.ReportOutput{}, err
	}

	out := analysisdto.ReportOutput{CatWeight: weights.Cat, ExamWeight: weights.Exam, Note: report.Note}
	for _, g := range report.GPABySemester {
		out.GPABySemester = append(out.GPABySemester, analysisdto.SemesterGPAOutput{
			SemesterID: g.SemesterID, Start: g.Start, End: g.End, GPA: g.GPA,
		})
	}
	for _, c := range report.TimeVsGPA {
		out.TimeVsGPA = append(out.TimeVsGPA, analysisdto.CorrelationOutput{
			SemesterID: c.SemesterID, GPA: c.GPA, Correlation: c.Correlation,
		})
	}
	for _, s := range report.Semesters {
		out.Semesters = append(out.Semesters, analysisdto.SemesterOutput{
			ID:                s.ID,
			Start:             s.Start,
			End:               s.End,
			GPA:               s.GPA,
			DaysSeen:          s.DaysSeen,
			AvgHoursPerDay:    s.AvgHoursPerDay,
			PlatformTotalsSec: s.PlatformTotalsSec,
			Recommendations:   s.Recommendations,
		})
	}
	return out, nil
}
