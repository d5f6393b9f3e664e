package out

import (
	"context"

	"smarttrack/internal/modules/analysis/domain"
)

// Runner asks the backend for a semester analysis.
type Runner interface {
	Run(ctx context.Context, weights domain.Weights) (domain.Report, error)
}

// Sanitizer strips markup from backend-provided free text.
type Sanitizer interface {
	Text(s string) string
}
