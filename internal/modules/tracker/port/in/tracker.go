package in

import (
	"context"

	"smarttrack/internal/modules/tracker/domain"
	"smarttrack/internal/modules/tracker/dto"
)

type Usecase interface {
	Today(ctx context.Context) (dto.TodayOutput, error)
	AverageHoursPerDay(ctx context.Context) (map[domain.Platform]float64, error)
	TotalAll(ctx context.Context) (dto.AllTimeOutput, error)
	Last7(ctx context.Context) ([]dto.DailyUsageOutput, error)
	RecentSessions(ctx context.Context, limit int) ([]dto.SessionOutput, error)
	TodaySessions(ctx context.Context) ([]dto.SessionOutput, error)
	Health(ctx context.Context) (dto.HealthOutput, error)
	AddSession(ctx context.Context, input dto.AddSessionInput) (dto.SessionOutput, error)
	DeleteSession(ctx context.Context, id int64) error
}
