package out

import (
	"context"

	"smarttrack/internal/modules/dashboard/domain"
)

// ChartHandle is a live chart drawn by a sink. Dispose releases it; it is
// called exactly once, before a replacement for the same panel is drawn.
type ChartHandle interface {
	Dispose()
}

// RenderSink draws panels. Every call for a key replaces what the key
// showed before.
type RenderSink interface {
	RenderCounter(key domain.PanelKey, view domain.CounterView)
	RenderDonut(key domain.PanelKey, spec domain.DonutSpec) ChartHandle
	RenderBarSeries(key domain.PanelKey, spec domain.BarSeriesSpec) ChartHandle
	RenderTable(key domain.PanelKey, view domain.TableView)
	RenderDocument(key domain.PanelKey, doc domain.Document)
}

type Notifier interface {
	Notify(n domain.Notification)
}

type CycleRecorder interface {
	RecordCycle(ctx context.Context, cycle domain.Cycle) error
}

type CycleJournal interface {
	Recent(ctx context.Context, limit int) ([]domain.Cycle, error)
}

// ReportWriter persists a rendered document, merging into any existing file.
type ReportWriter interface {
	WriteReport(ctx context.Context, path string, meta map[string]any, body string) error
}
