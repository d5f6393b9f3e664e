package out_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboardout "smarttrack/internal/modules/dashboard/adapter/out"
	"smarttrack/internal/modules/dashboard/domain"
	trackerdomain "smarttrack/internal/modules/tracker/domain"
)

func TestTextSinkFlushesPanelsInDisplayOrder(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	sink := dashboardout.NewTextSink(&out, &errOut)

	sink.RenderTable(domain.PanelSessions, domain.TableView{
		Columns: []string{"ID", "Platform"},
		Rows:    [][]string{{"7", "Instagram"}},
	})
	sink.RenderCounter(domain.KPIKey(trackerdomain.Facebook), domain.KPICounter(trackerdomain.Facebook, 1234))
	sink.RenderDonut(domain.DonutKey(trackerdomain.X), domain.UsageDonut(trackerdomain.X, 1, 4))

	require.NoError(t, sink.RecordCycle(context.Background(), domain.Cycle{Outcome: domain.OutcomeOK}))
	text := out.String()
	today := strings.Index(text, "Today")
	avg := strings.Index(text, "Average per day")
	sessions := strings.Index(text, "Recent sessions")
	require.True(t, today >= 0 && avg > today && sessions > avg, text)
	assert.Contains(t, text, "1,234 s")
	assert.Contains(t, text, "1.00h")
	assert.Contains(t, text, "Instagram")

	out.Reset()
	require.NoError(t, sink.Flush())
	assert.Empty(t, out.String(), "nothing changed since last flush")
}

func TestTextSinkDisposeDropsChart(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	sink := dashboardout.NewTextSink(&out, &out)

	first := sink.RenderBarSeries(domain.PanelLast7, domain.BarSeriesSpec{Axis: []string{"2026-10-18"}, Series: []domain.Series{{Label: "Facebook", Values: []float64{30}}}})
	first.Dispose()
	assert.NotContains(t, sink.String(), "2026-10-18")

	second := sink.RenderBarSeries(domain.PanelLast7, domain.BarSeriesSpec{Axis: []string{"2026-10-19"}, Series: []domain.Series{{Label: "Facebook", Values: []float64{5}}}})
	first.Dispose()
	assert.Contains(t, sink.String(), "2026-10-19", "stale handle must not drop the replacement")
	second.Dispose()
	assert.NotContains(t, sink.String(), "2026-10-19")
}

func TestTextSinkNotifyWritesToErrOut(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	sink := dashboardout.NewTextSink(&out, &errOut)
	sink.Notify(domain.Notification{Level: domain.LevelError, Message: domain.MsgRefreshFailed})
	assert.Contains(t, errOut.String(), "Failed to refresh data")
	assert.Empty(t, out.String())
}

func TestTextSinkSkippedCycleDoesNotFlush(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	sink := dashboardout.NewTextSink(&out, &out)
	sink.RenderDocument(domain.PanelAnalysis, domain.AnalysisError("bad weights"))
	require.NoError(t, sink.RecordCycle(context.Background(), domain.Cycle{Outcome: domain.OutcomeSkipped}))
	assert.Empty(t, out.String())
	require.NoError(t, sink.Flush())
	assert.Contains(t, out.String(), "bad weights")
}

func TestTextSinkReplacesSessionTable(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	sink := dashboardout.NewTextSink(&out, &out)
	columns := []string{"ID", "Platform", "Seconds", "Start", "End"}

	sink.RenderTable(domain.PanelSessions, domain.TableView{Columns: columns, Rows: [][]string{
		{"9001", "Facebook", "60", "2026-03-08T08:00:00", "2026-03-08T08:01:00"},
		{"9002", "Tiktok", "90", "2026-03-08T09:00:00", "2026-03-08T09:01:30"},
	}})
	require.Contains(t, sink.String(), "9002")

	sink.RenderTable(domain.PanelSessions, domain.TableView{Columns: columns, Rows: [][]string{
		{"9003", "X", "30", "2026-03-09T10:00:00", "2026-03-09T10:00:30"},
	}})
	text := sink.String()
	assert.Contains(t, text, "9003")
	assert.NotContains(t, text, "9001")
	assert.NotContains(t, text, "9002")
	assert.NotContains(t, text, "2026-03-08")
}
