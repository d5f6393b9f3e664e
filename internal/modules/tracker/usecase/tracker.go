package usecase

import (
	"context"

	"smarttrack/internal/modules/tracker/domain"
	trackerdto "smarttrack/internal/modules/tracker/dto"
	trackerin "smarttrack/internal/modules/tracker/port/in"
	"smarttrack/internal/modules/tracker/service"
)

type Interactor struct {
	svc *service.TrackerService
}

func NewInteractor(svc *service.TrackerService) trackerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Today(ctx context.Context) (trackerdto.TodayOutput, error) {
	today, err := i.svc.Today(ctx)
	if err != nil {
		return trackerdto.TodayOutput{}, err
	}
	return trackerdto.TodayOutput{Date: today.Date, Totals: today.Totals}, nil
}

func (i *Interactor) AverageHoursPerDay(ctx context.Context) (map[domain.Platform]float64, error) {
	avg, err := i.svc.AverageHoursPerDay(ctx)
	if err != nil {
		return nil, err
	}
	return avg, nil
}

func (i *Interactor) TotalAll(ctx context.Context) (trackerdto.AllTimeOutput, error) {
	all, err := i.svc.TotalAll(ctx)
	if err != nil {
		return trackerdto.AllTimeOutput{}, err
	}
	return trackerdto.AllTimeOutput{TotalsSec: all.TotalsSec, GrandTotalSec: all.GrandTotalSec}, nil
}

func (i *Interactor) Last7(ctx context.Context) ([]trackerdto.DailyUsageOutput, error) {
	points, err := i.svc.Last7(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]trackerdto.DailyUsageOutput, 0, len(points))
	for _, p := range points {
		out = append(out, trackerdto.DailyUsageOutput{Date: p.Date, Platform: p.Platform, Seconds: p.Seconds})
	}
	return out, nil
}

func (i *Interactor) RecentSessions(ctx context.Context, limit int) ([]trackerdto.SessionOutput, error) {
	sessions, err := i.svc.RecentSessions(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions), nil
}

func (i *Interactor) TodaySessions(ctx context.Context) ([]trackerdto.SessionOutput, error) {
	sessions, err := i.svc.TodaySessions(ctx)
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions), nil
}

func (i *Interactor) Health(ctx context.Context) (trackerdto.HealthOutput, error) {
	health, err := i.svc.Health(ctx)
	if err != nil {
		return trackerdto.HealthOutput{}, err
	}
	return trackerdto.HealthOutput{OK: health.OK, Timezone: health.Timezone, Timestamp: health.Timestamp}, nil
}

func (i *Interactor) AddSession(ctx context.Context, input trackerdto.AddSessionInput) (trackerdto.SessionOutput, error) {
	platform, err := domain.ParsePlatform(input.Platform)
	if err != nil {
		return trackerdto.SessionOutput{}, err
	}
	added, err := i.svc.AddSession(ctx, domain.NewSession{
		Platform: platform,
		Seconds:  input.Seconds,
		Date:     input.Date,
		Start:    input.Start,
		End:      input.End,
	})
	if err != nil {
		return trackerdto.SessionOutput{}, err
	}
	return toSessionOutputs([]domain.Session{added})[0], nil
}

func (i *Interactor) DeleteSession(ctx context.Context, id int64) error {
	return i.svc.DeleteSession(ctx, id)
}

func toSessionOutputs(sessions []domain.Session) []trackerdto.SessionOutput {
	out := make([]trackerdto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, trackerdto.SessionOutput{
			ID:       s.ID,
			Platform: s.Platform,
			Seconds:  s.Seconds,
			Date:     s.Date,
			StartTS:  s.StartTS,
			EndTS:    s.EndTS,
		})
	}
	return out
}
