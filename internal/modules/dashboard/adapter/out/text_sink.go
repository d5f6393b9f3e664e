package out

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"smarttrack/internal/modules/dashboard/domain"
	dashboardout "smarttrack/internal/modules/dashboard/port/out"
)

const barWidth = 24

var (
	sectionStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

type textPanel struct {
	gen     int
	counter *domain.CounterView
	donut   *domain.DonutSpec
	bars    *domain.BarSeriesSpec
	table   *domain.TableView
	doc     *domain.Document
}

// TextSink renders panels as plain terminal text. Panels are kept until the
// next render for the same key and written on Flush in display order.
type TextSink struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	panels map[domain.PanelKey]*textPanel
	gen    int
	dirty  bool
}

var (
	_ dashboardout.RenderSink    = (*TextSink)(nil)
	_ dashboardout.Notifier      = (*TextSink)(nil)
	_ dashboardout.CycleRecorder = (*TextSink)(nil)
)

func NewTextSink(out, errOut io.Writer) *TextSink {
	return &TextSink{out: out, errOut: errOut, panels: map[domain.PanelKey]*textPanel{}}
}

type textChart struct {
	sink *TextSink
	key  domain.PanelKey
	gen  int
}

func (c textChart) Dispose() {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	if p, ok := c.sink.panels[c.key]; ok && p.gen == c.gen {
		delete(c.sink.panels, c.key)
	}
}

func (s *TextSink) put(key domain.PanelKey, p *textPanel) int {
	s.gen++
	p.gen = s.gen
	s.panels[key] = p
	s.dirty = true
	return p.gen
}

func (s *TextSink) RenderCounter(key domain.PanelKey, view domain.CounterView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, &textPanel{counter: &view})
}

func (s *TextSink) RenderDonut(key domain.PanelKey, spec domain.DonutSpec) dashboardout.ChartHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return textChart{sink: s, key: key, gen: s.put(key, &textPanel{donut: &spec})}
}

func (s *TextSink) RenderBarSeries(key domain.PanelKey, spec domain.BarSeriesSpec) dashboardout.ChartHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return textChart{sink: s, key: key, gen: s.put(key, &textPanel{bars: &spec})}
}

func (s *TextSink) RenderTable(key domain.PanelKey, view domain.TableView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, &textPanel{table: &view})
}

func (s *TextSink) RenderDocument(key domain.PanelKey, doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, &textPanel{doc: &doc})
}

// Notify prints immediately; a terminal has no toast to expire.
func (s *TextSink) Notify(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.errOut, errorStyle.Render("! "+n.Message))
}

// RecordCycle flushes the panels a refresh cycle rendered.
func (s *TextSink) RecordCycle(_ context.Context, cycle domain.Cycle) error {
	if cycle.Outcome == domain.OutcomeSkipped {
		return nil
	}
	return s.Flush()
}

// Flush writes every known panel when something changed since the last flush.
func (s *TextSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	s.dirty = false
	if _, err := io.WriteString(s.out, s.renderLocked()); err != nil {
		return fmt.Errorf("write panels: %w", err)
	}
	return nil
}

// String renders the current panels without flushing.
func (s *TextSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

func (s *TextSink) renderLocked() string {
	var sb strings.Builder
	keys := make([]domain.PanelKey, 0, len(s.panels))
	for k := range s.panels {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool { return panelRank(keys[i]) < panelRank(keys[j]) })

	group := ""
	for _, k := range keys {
		p := s.panels[k]
		if g := sectionTitle(k); g != group {
			group = g
			sb.WriteString("\n" + sectionStyle.Render("─── "+g+" ───") + "\n")
		}
		switch {
		case p.counter != nil:
			sb.WriteString(renderCounter(*p.counter))
		case p.donut != nil:
			sb.WriteString(renderDonut(*p.donut))
		case p.bars != nil:
			sb.WriteString(renderTable(barsAsTable(*p.bars)))
		case p.table != nil:
			sb.WriteString(renderTable(*p.table))
		case p.doc != nil:
			sb.WriteString(p.doc.PlainText())
		}
	}
	return sb.String()
}

var panelOrder = func() map[domain.PanelKey]int {
	order := map[domain.PanelKey]int{}
	keys := append(domain.RefreshPanels(), domain.PanelGPAKPI, domain.PanelGPASummary, domain.PanelGPAReport, domain.PanelAnalysis)
	for i, k := range keys {
		order[k] = i
	}
	return order
}()

func panelRank(k domain.PanelKey) int {
	if r, ok := panelOrder[k]; ok {
		return r
	}
	return len(panelOrder)
}

func sectionTitle(k domain.PanelKey) string {
	switch {
	case k == domain.PanelGPAKPI || k.Group() == "gpa":
		return "GPA"
	case k.Group() == "kpi":
		return "Today"
	case k == domain.PanelDonutTotal || k == domain.PanelTotalBreakdown:
		return "All time"
	case k.Group() == "donut":
		return "Average per day"
	case k == domain.PanelLast7:
		return "Last 7 days"
	case k == domain.PanelSessions:
		return "Recent sessions"
	case k == domain.PanelAnalysis:
		return "Analysis"
	default:
		return string(k)
	}
}

func renderCounter(v domain.CounterView) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color)).Width(12).Render(v.Label)
	text := v.Text
	if v.Unit != "" {
		text += " " + v.Unit
	}
	return label + text + "\n"
}

// renderDonut draws a donut as one proportional bar per slice set.
func renderDonut(d domain.DonutSpec) string {
	total := d.Total()
	var bar strings.Builder
	used := 0
	for i, sl := range d.Slices {
		cells := 0
		if total > 0 {
			cells = int(math.Round(sl.Value / total * barWidth))
		}
		if i == len(d.Slices)-1 {
			cells = barWidth - used
		}
		if cells < 0 {
			cells = 0
		}
		used += cells
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(sl.Color)).Render(strings.Repeat("█", cells)))
	}
	if total == 0 {
		bar.WriteString(mutedStyle.Render(strings.Repeat("░", barWidth)))
	}
	label := lipgloss.NewStyle().Width(12).Render(d.Title)
	return fmt.Sprintf("%s%s %s %s\n", label, bar.String(), d.CenterText, mutedStyle.Render(d.CenterSub))
}

func barsAsTable(spec domain.BarSeriesSpec) domain.TableView {
	view := domain.TableView{Columns: []string{"Date"}}
	for _, s := range spec.Series {
		view.Columns = append(view.Columns, s.Label)
	}
	view.Columns = append(view.Columns, "Total")
	for i, date := range spec.Axis {
		row := []string{date}
		var sum float64
		for _, s := range spec.Series {
			row = append(row, fmt.Sprintf("%.0f", s.Values[i]))
			sum += s.Values[i]
		}
		view.Rows = append(view.Rows, append(row, fmt.Sprintf("%.0f", sum)))
	}
	return view
}

func renderTable(view domain.TableView) string {
	if len(view.Rows) == 0 {
		return mutedStyle.Render("(no rows)") + "\n"
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(view.Columns...).
		Rows(view.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String() + "\n"
}
