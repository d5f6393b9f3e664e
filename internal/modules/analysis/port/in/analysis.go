package in

import (
	"context"

	"smarttrack/internal/modules/analysis/dto"
)

type Usecase interface {
	Run(ctx context.Context, input dto.RunInput) (dto.ReportOutput, error)
}
