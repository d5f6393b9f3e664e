package in

import (
	"context"

	analysisdto "smarttrack/internal/modules/analysis/dto"
	"smarttrack/internal/modules/dashboard/dto"
	dashboardin "smarttrack/internal/modules/dashboard/port/in"
	gpadto "smarttrack/internal/modules/gpa/dto"
)

type CLIHandler struct {
	usecase dashboardin.Usecase
}

func NewCLIHandler(usecase dashboardin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Refresh(ctx context.Context, trigger dto.Trigger) error {
	return h.usecase.RefreshAll(ctx, trigger)
}

func (h CLIHandler) CalculateGPA(ctx context.Context, courses []gpadto.CourseInput) error {
	return h.usecase.SubmitGPACalculation(ctx, courses)
}

func (h CLIHandler) RunAnalysis(ctx context.Context, cat, exam string) error {
	return h.usecase.RunAnalysis(ctx, analysisdto.RunInput{Cat: cat, Exam: exam})
}

func (h CLIHandler) ExportAnalysis(ctx context.Context, path string) (dto.ExportOutput, error) {
	return h.usecase.ExportAnalysis(ctx, path)
}

func (h CLIHandler) Journal(ctx context.Context, limit int) ([]dto.CycleOutput, error) {
	return h.usecase.RecentCycles(ctx, limit)
}
