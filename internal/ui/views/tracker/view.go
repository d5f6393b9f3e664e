package tracker

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smarttrack/internal/modules/dashboard/domain"
	trackerdomain "smarttrack/internal/modules/tracker/domain"
	"smarttrack/internal/ui/sink"
	"smarttrack/internal/ui/theme"
)

const (
	remainingColor = "#e5e7eb"
	maxTableRows   = 12
)

type donutChart struct {
	spec   domain.DonutSpec
	handle uint64
}

type barChart struct {
	spec   domain.BarSeriesSpec
	handle uint64
}

// Model shows today's counters, the usage rings, the last seven days and the
// recent sessions. It only draws what the sink sent; it never fetches.
type Model struct {
	counters  map[domain.PanelKey]domain.CounterView
	donuts    map[domain.PanelKey]donutChart
	last7     *barChart
	breakdown *domain.Document
	sessions  table.Model
	hasRows   bool
	width     int
	height    int
}

func New() Model {
	return Model{
		counters: map[domain.PanelKey]domain.CounterView{},
		donuts:   map[domain.PanelKey]donutChart{},
		sessions: newTable(nil, nil),
	}
}

// Owns reports whether key is drawn by this view.
func Owns(key domain.PanelKey) bool {
	switch key {
	case domain.PanelDonutTotal, domain.PanelTotalBreakdown, domain.PanelLast7, domain.PanelSessions:
		return true
	case domain.PanelGPAKPI:
		return false
	}
	g := key.Group()
	return g == "kpi" || g == "donut"
}

// LiveCharts counts the charts currently drawn.
func (m Model) LiveCharts() int {
	n := len(m.donuts)
	if m.last7 != nil {
		n++
	}
	return n
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sessions.SetWidth(max(m.width-4, 20))

	case sink.CounterMsg:
		m.counters[msg.Key] = msg.View

	case sink.DonutMsg:
		m.donuts[msg.Key] = donutChart{spec: msg.Spec, handle: msg.Handle}

	case sink.BarSeriesMsg:
		m.last7 = &barChart{spec: msg.Spec, handle: msg.Handle}

	case sink.DisposeMsg:
		if d, ok := m.donuts[msg.Key]; ok && d.handle == msg.Handle {
			delete(m.donuts, msg.Key)
		}
		if msg.Key == domain.PanelLast7 && m.last7 != nil && m.last7.handle == msg.Handle {
			m.last7 = nil
		}

	case sink.DocumentMsg:
		if msg.Key == domain.PanelTotalBreakdown {
			doc := msg.Doc
			m.breakdown = &doc
		}

	case sink.TableMsg:
		if msg.Key == domain.PanelSessions {
			m.sessions = newTable(msg.View.Columns, msg.View.Rows)
			m.sessions.SetWidth(max(m.width-4, 20))
			m.hasRows = true
		}
	}
	return m, nil
}

func (m Model) View() string {
	w := m.width
	if w < 40 {
		w = 100
	}
	sections := []string{
		m.renderCounters(w),
		m.renderDonuts(w),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderLast7(w/2), m.renderBreakdown(w-w/2)),
		m.renderSessions(w),
	}
	return strings.Join(sections, "\n")
}

// ─── sections ────────────────────────────────────────────────────────────────

func (m Model) renderCounters(w int) string {
	cardW := max(w/len(trackerdomain.Platforms)-2, 12)
	cards := make([]string, 0, len(trackerdomain.Platforms))
	for _, p := range trackerdomain.Platforms {
		c, ok := m.counters[domain.KPIKey(p)]
		value := theme.Muted.Render("—")
		if ok {
			value = theme.Value.Render(c.Text) + " " + theme.Muted.Render(c.Unit)
		}
		body := theme.Platform(p.Color()).Bold(true).Render(p.Label()) + "\n" + value
		cards = append(cards, theme.Pane.Width(cardW).Render(body))
	}
	return theme.Title.Render("Today") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderDonuts(w int) string {
	barW := max(w-40, 10)
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Average per day") + "\n")
	for _, p := range trackerdomain.Platforms {
		d, ok := m.donuts[domain.DonutKey(p)]
		label := theme.Platform(p.Color()).Width(12).Render(p.Label())
		if !ok {
			sb.WriteString(label + theme.Muted.Render("no data") + "\n")
			continue
		}
		sb.WriteString(label + ringBar(d.spec, barW) + "  " + d.spec.CenterText + " " + theme.Muted.Render(d.spec.CenterSub) + "\n")
	}
	if total, ok := m.donuts[domain.PanelDonutTotal]; ok {
		sb.WriteString(lipgloss.NewStyle().Width(12).Render("All time") + stackedBar(total.spec.Slices, total.spec.Total(), barW) +
			"  " + total.spec.CenterText + " " + theme.Muted.Render(total.spec.CenterSub) + "\n")
	}
	return sb.String()
}

func (m Model) renderLast7(w int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Last 7 days") + "\n")
	if m.last7 == nil || len(m.last7.spec.Axis) == 0 {
		sb.WriteString(theme.Muted.Render("no data"))
		return theme.Pane.Width(max(w-2, 20)).Render(sb.String())
	}
	spec := m.last7.spec
	peak := 0.0
	totals := make([]float64, len(spec.Axis))
	for i := range spec.Axis {
		for _, s := range spec.Series {
			totals[i] += s.Values[i]
		}
		peak = math.Max(peak, totals[i])
	}
	barW := max(w-26, 8)
	for i, date := range spec.Axis {
		slices := make([]domain.Slice, 0, len(spec.Series))
		for _, s := range spec.Series {
			slices = append(slices, domain.Slice{Label: s.Label, Value: s.Values[i], Color: s.Color})
		}
		width := 0
		if peak > 0 {
			width = int(math.Round(totals[i] / peak * float64(barW)))
		}
		sb.WriteString(date + " " + stackedBar(slices, totals[i], width) + fmt.Sprintf(" %.0f", totals[i]) + "\n")
	}
	legend := make([]string, 0, len(spec.Series))
	for _, s := range spec.Series {
		legend = append(legend, theme.Platform(s.Color).Render("■ "+s.Label))
	}
	sb.WriteString(theme.Muted.Render(spec.YTitle+": ") + strings.Join(legend, "  "))
	return theme.Pane.Width(max(w-2, 20)).Render(sb.String())
}

func (m Model) renderBreakdown(w int) string {
	body := theme.Muted.Render("no data")
	if m.breakdown != nil {
		body = strings.TrimRight(m.breakdown.PlainText(), "\n")
	}
	return theme.Pane.Width(max(w-2, 20)).Render(theme.Title.Render("Breakdown") + "\n" + body)
}

func (m Model) renderSessions(w int) string {
	title := theme.Title.Render("Recent sessions")
	if !m.hasRows {
		return title + "\n" + theme.Muted.Render("no data")
	}
	if len(m.sessions.Rows()) == 0 {
		return title + "\n" + theme.Muted.Render("no sessions")
	}
	return title + "\n" + m.sessions.View()
}

// ─── drawing helpers ─────────────────────────────────────────────────────────

// ringBar draws a usage ring as a progress bar: the used slice against the
// ring's total.
func ringBar(spec domain.DonutSpec, width int) string {
	pct := 0.0
	if total := spec.Total(); total > 0 && len(spec.Slices) > 0 {
		pct = spec.Slices[0].Value / total
	}
	color := remainingColor
	if len(spec.Slices) > 0 {
		color = spec.Slices[0].Color
	}
	bar := progress.New(progress.WithSolidFill(color), progress.WithoutPercentage(), progress.WithWidth(width))
	bar.EmptyColor = remainingColor
	return bar.ViewAs(pct)
}

func stackedBar(slices []domain.Slice, total float64, width int) string {
	if width <= 0 {
		return ""
	}
	if total <= 0 {
		return theme.Muted.Render(strings.Repeat("░", width))
	}
	var sb strings.Builder
	used := 0
	for i, s := range slices {
		cells := int(math.Round(s.Value / total * float64(width)))
		if i == len(slices)-1 {
			cells = width - used
		}
		cells = max(min(cells, width-used), 0)
		used += cells
		sb.WriteString(theme.Platform(s.Color).Render(strings.Repeat("█", cells)))
	}
	return sb.String()
}

func newTable(columns []string, rows [][]string) table.Model {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = lipgloss.Width(c)
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		for i, cell := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
		tableRows = append(tableRows, table.Row(r))
	}
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c, Width: widths[i] + 1}
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderForeground(theme.Surface1).Foreground(theme.Sapphire).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Text).Bold(false)

	return table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithHeight(min(len(tableRows)+1, maxTableRows)),
		table.WithStyles(styles),
	)
}
