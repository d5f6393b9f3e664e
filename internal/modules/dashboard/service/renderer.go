package service

import (
	"sync"
	"time"

	"smarttrack/internal/modules/dashboard/domain"
	dashboardout "smarttrack/internal/modules/dashboard/port/out"
	"smarttrack/internal/platform/clock"
	"smarttrack/internal/platform/id"
)

// ChartTable maps a panel key to the chart currently drawn for it.
// It holds at most one live handle per key.
type ChartTable struct {
	live map[domain.PanelKey]dashboardout.ChartHandle
}

func NewChartTable() *ChartTable {
	return &ChartTable{live: map[domain.PanelKey]dashboardout.ChartHandle{}}
}

// Replace disposes the handle at key, then stores the one create returns.
// Callers must hold the renderer lock.
func (t *ChartTable) Replace(key domain.PanelKey, create func() dashboardout.ChartHandle) {
	if prev, ok := t.live[key]; ok && prev != nil {
		prev.Dispose()
		delete(t.live, key)
	}
	if h := create(); h != nil {
		t.live[key] = h
	}
}

func (t *ChartTable) Len() int {
	return len(t.live)
}

func (t *ChartTable) DisposeAll() {
	for key, h := range t.live {
		h.Dispose()
		delete(t.live, key)
	}
}

// PanelRenderer serialises every sink call so a sink observes a single
// render thread, whichever loader goroutine produced the view.
type PanelRenderer struct {
	mu       sync.Mutex
	sink     dashboardout.RenderSink
	notifier dashboardout.Notifier
	charts   *ChartTable
	clock    clock.Clock
	ids      id.Generator
	ttl      time.Duration
}

func NewPanelRenderer(sink dashboardout.RenderSink, notifier dashboardout.Notifier, clock clock.Clock, ids id.Generator, ttl time.Duration) *PanelRenderer {
	return &PanelRenderer{
		sink:     sink,
		notifier: notifier,
		charts:   NewChartTable(),
		clock:    clock,
		ids:      ids,
		ttl:      ttl,
	}
}

func (r *PanelRenderer) Counter(key domain.PanelKey, view domain.CounterView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink.RenderCounter(key, view)
}

func (r *PanelRenderer) Donut(key domain.PanelKey, spec domain.DonutSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts.Replace(key, func() dashboardout.ChartHandle {
		return r.sink.RenderDonut(key, spec)
	})
}

func (r *PanelRenderer) BarSeries(key domain.PanelKey, spec domain.BarSeriesSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts.Replace(key, func() dashboardout.ChartHandle {
		return r.sink.RenderBarSeries(key, spec)
	})
}

func (r *PanelRenderer) Table(key domain.PanelKey, view domain.TableView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink.RenderTable(key, view)
}

func (r *PanelRenderer) Document(key domain.PanelKey, doc domain.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink.RenderDocument(key, doc)
}

// Notify emits an error-level notification with the configured TTL.
func (r *PanelRenderer) Notify(message string) domain.Notification {
	n := domain.Notification{
		ID:        r.ids.New(),
		Level:     domain.LevelError,
		Message:   message,
		TTL:       r.ttl,
		CreatedAt: r.clock.Now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.notifier != nil {
		r.notifier.Notify(n)
	}
	return n
}

// LiveCharts is the number of chart handles not yet disposed.
func (r *PanelRenderer) LiveCharts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.charts.Len()
}

// Close disposes every live chart.
func (r *PanelRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts.DisposeAll()
}
