package gpa

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smarttrack/internal/modules/dashboard/domain"
	"smarttrack/internal/ui/sink"
	"smarttrack/internal/ui/theme"
)

// Model shows the last GPA report. Nothing is shown until a calculation
// succeeds; a failed calculation leaves the previous report in place.
type Model struct {
	counter *domain.CounterView
	summary *domain.Document
	report  table.Model
	rows    int
	loaded  bool
	width   int
}

func New() Model {
	return Model{report: table.New()}
}

func Owns(key domain.PanelKey) bool {
	return key == domain.PanelGPAKPI || key == domain.PanelGPAReport || key == domain.PanelGPASummary
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case sink.CounterMsg:
		if msg.Key == domain.PanelGPAKPI {
			v := msg.View
			m.counter = &v
		}

	case sink.DocumentMsg:
		if msg.Key == domain.PanelGPASummary {
			doc := msg.Doc
			m.summary = &doc
		}

	case sink.TableMsg:
		if msg.Key == domain.PanelGPAReport {
			m.report = newReportTable(msg.View)
			m.rows = len(msg.View.Rows)
			m.loaded = true
		}
	}
	return m, nil
}

// Rows is the number of course rows in the last report.
func (m Model) Rows() int { return m.rows }

func (m Model) View() string {
	if !m.loaded {
		return theme.Title.Render("GPA") + "\n" +
			theme.Muted.Render("press g to calculate with the configured courses, or :gpa:calc name:credits:grade …")
	}
	var head []string
	if m.counter != nil {
		head = append(head, theme.PaneActive.Render(theme.Muted.Render("GPA")+"\n"+theme.Hot.Render(m.counter.Text)))
	}
	if m.summary != nil {
		head = append(head, theme.Pane.Render(strings.TrimRight(m.summary.PlainText(), "\n")))
	}
	body := theme.Muted.Render("no courses submitted")
	if m.rows > 0 {
		body = m.report.View()
	}
	return theme.Title.Render("GPA") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, head...) + "\n" + body
}

func newReportTable(view domain.TableView) table.Model {
	widths := make([]int, len(view.Columns))
	for i, c := range view.Columns {
		widths[i] = lipgloss.Width(c)
	}
	rows := make([]table.Row, 0, len(view.Rows))
	for _, r := range view.Rows {
		for i, cell := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
		rows = append(rows, table.Row(r))
	}
	cols := make([]table.Column, len(view.Columns))
	for i, c := range view.Columns {
		cols[i] = table.Column{Title: c, Width: widths[i] + 1}
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Text).Bold(false)
	return table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithStyles(styles),
	)
}
