package out

import (
	"context"
	"errors"

	"smarttrack/internal/modules/dashboard/domain"
	dashboardout "smarttrack/internal/modules/dashboard/port/out"
	"smarttrack/internal/platform/metrics"
)

// MetricsRecorder exports refresh cycles as prometheus series.
type MetricsRecorder struct {
	m *metrics.Metrics
}

func NewMetricsRecorder(m *metrics.Metrics) *MetricsRecorder {
	return &MetricsRecorder{m: m}
}

func (r *MetricsRecorder) RecordCycle(_ context.Context, cycle domain.Cycle) error {
	r.m.CyclesTotal.WithLabelValues(cycle.Trigger, string(cycle.Outcome)).Inc()
	if cycle.Outcome == domain.OutcomeSkipped {
		return nil
	}
	r.m.CycleDuration.WithLabelValues(cycle.Trigger).Observe(cycle.Duration.Seconds())
	if cycle.Outcome == domain.OutcomeOK {
		r.m.LastCycleEpoch.Set(float64(cycle.StartedAt.Add(cycle.Duration).Unix()))
	}
	return nil
}

// CountingNotifier counts notifications by level before passing them on.
type CountingNotifier struct {
	next dashboardout.Notifier
	m    *metrics.Metrics
}

func NewCountingNotifier(next dashboardout.Notifier, m *metrics.Metrics) *CountingNotifier {
	return &CountingNotifier{next: next, m: m}
}

func (n *CountingNotifier) Notify(note domain.Notification) {
	n.m.Notifications.WithLabelValues(string(note.Level)).Inc()
	if n.next != nil {
		n.next.Notify(note)
	}
}

// MultiRecorder fans a cycle out to every recorder and joins their errors.
type MultiRecorder []dashboardout.CycleRecorder

func (m MultiRecorder) RecordCycle(ctx context.Context, cycle domain.Cycle) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.RecordCycle(ctx, cycle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
