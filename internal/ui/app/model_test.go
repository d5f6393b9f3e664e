package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysisdto "smarttrack/internal/modules/analysis/dto"
	"smarttrack/internal/modules/dashboard/domain"
	dashboarddto "smarttrack/internal/modules/dashboard/dto"
	gpadto "smarttrack/internal/modules/gpa/dto"
	trackerdomain "smarttrack/internal/modules/tracker/domain"
	apperrors "smarttrack/internal/platform/errors"
	"smarttrack/internal/ui/components"
	"smarttrack/internal/ui/sink"
)

type fakeDashboard struct {
	mu       sync.Mutex
	triggers []dashboarddto.Trigger
	courses  []gpadto.CourseInput
	runs     []analysisdto.RunInput
	exports  []string
}

func (f *fakeDashboard) RefreshAll(_ context.Context, trigger dashboarddto.Trigger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	return nil
}

func (f *fakeDashboard) SubmitGPACalculation(_ context.Context, courses []gpadto.CourseInput) error {
	f.courses = courses
	return nil
}

func (f *fakeDashboard) RunAnalysis(_ context.Context, input analysisdto.RunInput) error {
	f.runs = append(f.runs, input)
	return nil
}

func (f *fakeDashboard) ExportAnalysis(_ context.Context, path string) (dashboarddto.ExportOutput, error) {
	f.exports = append(f.exports, path)
	return dashboarddto.ExportOutput{Path: path}, nil
}

type fakeCourses struct {
	file  string
	specs []string
}

func (f *fakeCourses) Courses(_ context.Context, file string, specs []string) ([]gpadto.CourseInput, error) {
	f.file, f.specs = file, specs
	return []gpadto.CourseInput{{Name: "Math", Credits: 3, Grade: "A"}}, nil
}

func newTestModel() (Model, *fakeDashboard, *fakeCourses) {
	d := &fakeDashboard{}
	c := &fakeCourses{}
	m := NewModel(context.Background(), d, c, Options{CourseFile: "courses.yaml"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), d, c
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRefreshKeyRunsManualRefresh(t *testing.T) {
	t.Parallel()
	m, d, _ := newTestModel()

	m, cmd := step(t, m, keyMsg("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.busy)

	m, _ = step(t, m, cmd())
	assert.Equal(t, []dashboarddto.Trigger{dashboarddto.TriggerManual}, d.triggers)
	assert.Equal(t, 0, m.busy)
	assert.True(t, strings.HasPrefix(m.status, "updated"))
}

func TestRefreshInFlightStatus(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	m.busy = 1
	m, _ = step(t, m, refreshDoneMsg{err: apperrors.ErrRefreshInFlight})
	assert.Equal(t, "refresh already running", m.status)
}

func TestPanelMessagesReachOwningViewFromAnyTab(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	m.activeTab = tabAnalysis

	m, _ = step(t, m, sink.CounterMsg{Key: domain.KPIKey(trackerdomain.Facebook), View: domain.KPICounter(trackerdomain.Facebook, 4321)})
	m, _ = step(t, m, sink.DonutMsg{Key: domain.PanelDonutTotal, Spec: domain.DonutSpec{Title: "All time"}, Handle: 1})
	m, _ = step(t, m, sink.CounterMsg{Key: domain.PanelGPAKPI, View: domain.CounterView{Text: "3.250"}})

	assert.Equal(t, 1, m.trackerView.LiveCharts())
	m.activeTab = tabTracker
	assert.Contains(t, m.View(), "4,321")
	m.activeTab = tabGPA
	assert.NotContains(t, m.View(), "4,321")
}

func TestDisposeOnlyDropsMatchingChart(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	m, _ = step(t, m, sink.DonutMsg{Key: domain.PanelDonutTotal, Handle: 1})
	m, _ = step(t, m, sink.DisposeMsg{Key: domain.PanelDonutTotal, Handle: 1})
	m, _ = step(t, m, sink.DonutMsg{Key: domain.PanelDonutTotal, Handle: 2})
	m, _ = step(t, m, sink.DisposeMsg{Key: domain.PanelDonutTotal, Handle: 1})
	assert.Equal(t, 1, m.trackerView.LiveCharts())
}

func TestNotificationExpires(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	n := domain.Notification{ID: "n1", Message: domain.MsgRefreshFailed, TTL: time.Millisecond}

	m, cmd := step(t, m, sink.NotifyMsg{Notification: n})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), domain.MsgRefreshFailed)

	m, _ = step(t, m, cmd())
	assert.Empty(t, m.notes)
	assert.NotContains(t, m.View(), domain.MsgRefreshFailed)
}

func TestNotificationArrivesWhilePaletteOpen(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	m, _ = step(t, m, keyMsg(":"))
	require.True(t, m.palette.Visible())

	m, _ = step(t, m, sink.NotifyMsg{Notification: domain.Notification{ID: "n1", Message: domain.MsgGPAFailed, TTL: time.Second}})
	assert.Len(t, m.notes, 1)
}

func TestGPAKeyUsesConfiguredCourseFile(t *testing.T) {
	t.Parallel()
	m, d, c := newTestModel()

	m, cmd := step(t, m, keyMsg("g"))
	assert.Equal(t, tabGPA, m.activeTab)
	m, _ = step(t, m, cmd())

	assert.Equal(t, "courses.yaml", c.file)
	assert.Len(t, d.courses, 1)
	assert.Equal(t, 0, m.busy)
}

func TestPaletteCommands(t *testing.T) {
	t.Parallel()
	m, d, c := newTestModel()

	m, cmd := step(t, m, components.PaletteSubmitMsg{Input: "gpa:calc Math:3:A Art:2:B"})
	_, _ = step(t, m, cmd())
	assert.Equal(t, []string{"Math:3:A", "Art:2:B"}, c.specs)
	assert.Empty(t, c.file)

	m, cmd = step(t, m, components.PaletteSubmitMsg{Input: "analysis:run 0.5 0.5"})
	assert.Equal(t, tabAnalysis, m.activeTab)
	_, _ = step(t, m, cmd())
	assert.Equal(t, []analysisdto.RunInput{{Cat: "0.5", Exam: "0.5"}}, d.runs)

	m, cmd = step(t, m, components.PaletteSubmitMsg{Input: "analysis:export out/report.md"})
	m, _ = step(t, m, cmd())
	assert.Equal(t, []string{"out/report.md"}, d.exports)
	assert.Equal(t, "exported out/report.md", m.status)

	m, _ = step(t, m, components.PaletteSubmitMsg{Input: "tab:tracker"})
	assert.Equal(t, tabTracker, m.activeTab)

	m, _ = step(t, m, components.PaletteSubmitMsg{Input: "nope"})
	assert.Equal(t, "unknown command: nope", m.status)
}

func TestTabCycles(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	for i := 0; i < int(tabCount); i++ {
		m, _ = step(t, m, keyMsg("tab"))
	}
	assert.Equal(t, tabTracker, m.activeTab)
	assert.Contains(t, m.View(), "smarttrack")
}

func TestExportWithoutPathUsesReportsDir(t *testing.T) {
	t.Parallel()
	m, d, _ := newTestModel()
	m, cmd := step(t, m, components.PaletteSubmitMsg{Input: "analysis:export"})
	_, _ = step(t, m, cmd())
	require.Len(t, d.exports, 1)
	assert.True(t, strings.HasPrefix(d.exports[0], "reports/analysis-"))
	assert.True(t, strings.HasSuffix(d.exports[0], ".md"))
}

func TestDefaultReportPath(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 9, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "reports/analysis-2026-03-09-14-05.md", defaultReportPath(at))
}
