package service

import (
	"context"
	"fmt"

	"smarttrack/internal/modules/tracker/domain"
	trackerout "smarttrack/internal/modules/tracker/port/out"
	apperrors "smarttrack/internal/platform/errors"
)

type TrackerService struct {
	gateway trackerout.Gateway
	writer  trackerout.SessionWriter
}

func NewTrackerService(gateway trackerout.Gateway, writer trackerout.SessionWriter) *TrackerService {
	return &TrackerService{gateway: gateway, writer: writer}
}

func (s *TrackerService) Today(ctx context.Context) (domain.Today, error) {
	today, err := s.gateway.Today(ctx)
	if err != nil {
		return domain.Today{}, fmt.Errorf("fetch today summary: %w", err)
	}
	today.Totals = today.Totals.Complete()
	return today, nil
}

func (s *TrackerService) AverageHoursPerDay(ctx context.Context) (domain.Totals, error) {
	avg, err := s.gateway.AverageHoursPerDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch average hours: %w", err)
	}
	return avg.Complete(), nil
}

// TotalAll recomputes the grand total from the per-platform values so the
// two can never disagree on screen.
func (s *TrackerService) TotalAll(ctx context.Context) (domain.AllTime, error) {
	all, err := s.gateway.TotalAll(ctx)
	if err != nil {
		return domain.AllTime{}, fmt.Errorf("fetch all-time totals: %w", err)
	}
	all.TotalsSec = all.TotalsSec.Complete()
	all.GrandTotalSec = all.TotalsSec.Sum()
	return all, nil
}

func (s *TrackerService) Last7(ctx context.Context) ([]domain.DailyUsage, error) {
	points, err := s.gateway.Last7(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch last 7 days: %w", err)
	}
	return points, nil
}

func (s *TrackerService) RecentSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	sessions, err := s.gateway.RecentSessions(ctx, domain.ClampSessionLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("fetch recent sessions: %w", err)
	}
	return sessions, nil
}

func (s *TrackerService) TodaySessions(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.gateway.TodaySessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch today sessions: %w", err)
	}
	return sessions, nil
}

func (s *TrackerService) Health(ctx context.Context) (domain.Health, error) {
	health, err := s.gateway.Health(ctx)
	if err != nil {
		return domain.Health{}, fmt.Errorf("check health: %w", err)
	}
	return health, nil
}

func (s *TrackerService) AddSession(ctx context.Context, session domain.NewSession) (domain.Session, error) {
	if s.writer == nil {
		return domain.Session{}, fmt.Errorf("session writer is not configured")
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	added, err := s.writer.AddSession(ctx, session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("add session: %w", err)
	}
	return added, nil
}

func (s *TrackerService) DeleteSession(ctx context.Context, id int64) error {
	if s.writer == nil {
		return fmt.Errorf("session writer is not configured")
	}
	if id <= 0 {
		return fmt.Errorf("%w: session id %d", apperrors.ErrInvalidInput, id)
	}
	if err := s.writer.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}
