package in

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"smarttrack/internal/modules/dashboard/dto"
	dashboardin "smarttrack/internal/modules/dashboard/port/in"
	apperrors "smarttrack/internal/platform/errors"
	"smarttrack/internal/platform/logging"
)

// Scheduler re-runs the full refresh at a fixed interval. A failed cycle is
// logged and never unschedules the job.
type Scheduler struct {
	usecase  dashboardin.Usecase
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewScheduler(usecase dashboardin.Usecase, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{usecase: usecase, interval: interval, log: logger}
}

// Start schedules the refresh job and stops it when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	cl := logging.CronLogger{L: s.log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(cron.Every(s.interval), cron.FuncJob(func() { s.Tick(ctx) }))
	c.Start()
	s.cron = c
	s.running = true
	s.log.Info("refresh scheduler started", zap.Duration("interval", s.interval))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Tick runs one timer-triggered refresh.
func (s *Scheduler) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	err := s.usecase.RefreshAll(ctx, dto.TriggerTimer)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrRefreshInFlight):
		s.log.Debug("refresh skipped, previous cycle still running")
	default:
		s.log.Warn("scheduled refresh failed", zap.Error(err))
	}
}

// Scheduled reports whether the refresh job is still registered.
func (s *Scheduler) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && len(s.cron.Entries()) > 0
}

// Stop unschedules the job and waits for a running refresh to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	s.mu.Unlock()

	<-c.Stop().Done()
	s.log.Info("refresh scheduler stopped")
}
