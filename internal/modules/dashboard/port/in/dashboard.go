package in

import (
	"context"

	analysisdto "smarttrack/internal/modules/analysis/dto"
	"smarttrack/internal/modules/dashboard/dto"
	gpadto "smarttrack/internal/modules/gpa/dto"
)

type Usecase interface {
	RefreshAll(ctx context.Context, trigger dto.Trigger) error
	SubmitGPACalculation(ctx context.Context, courses []gpadto.CourseInput) error
	RunAnalysis(ctx context.Context, input analysisdto.RunInput) error
	ExportAnalysis(ctx context.Context, path string) (dto.ExportOutput, error)
	RecentCycles(ctx context.Context, limit int) ([]dto.CycleOutput, error)
}
