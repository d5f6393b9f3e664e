package out

import (
	"context"

	"smarttrack/internal/modules/tracker/domain"
)

// Gateway reads usage summaries from the tracker backend.
type Gateway interface {
	Today(ctx context.Context) (domain.Today, error)
	AverageHoursPerDay(ctx context.Context) (domain.Totals, error)
	TotalAll(ctx context.Context) (domain.AllTime, error)
	Last7(ctx context.Context) ([]domain.DailyUsage, error)
	RecentSessions(ctx context.Context, limit int) ([]domain.Session, error)
	TodaySessions(ctx context.Context) ([]domain.Session, error)
	Health(ctx context.Context) (domain.Health, error)
}

// SessionWriter records and removes sessions on the backend.
type SessionWriter interface {
	AddSession(ctx context.Context, session domain.NewSession) (domain.Session, error)
	DeleteSession(ctx context.Context, id int64) error
}
