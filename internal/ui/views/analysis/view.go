package analysis

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"smarttrack/internal/modules/dashboard/domain"
	"smarttrack/internal/ui/sink"
	"smarttrack/internal/ui/theme"
)

// Model shows the analysis report as rendered markdown in a scrollable
// viewport.
type Model struct {
	doc      *domain.Document
	viewport viewport.Model
	width    int
	height   int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(0, 1)
	return Model{viewport: vp}
}

func Owns(key domain.PanelKey) bool {
	return key == domain.PanelAnalysis
}

// Document is the last document drawn, if any.
func (m Model) Document() (domain.Document, bool) {
	if m.doc == nil {
		return domain.Document{}, false
	}
	return *m.doc, true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-2, 20)
		m.viewport.Height = max(msg.Height-4, 5)
		m.refreshContent()
		return m, nil

	case sink.DocumentMsg:
		if msg.Key == domain.PanelAnalysis {
			doc := msg.Doc
			m.doc = &doc
			m.refreshContent()
			m.viewport.GotoTop()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.doc == nil {
		return theme.Title.Render("Analysis") + "\n" +
			theme.Muted.Render("press a to run with the default weights, or :analysis:run <cat> <exam>")
	}
	return theme.Title.Render("Analysis") + "\n" + m.viewport.View()
}

func (m *Model) refreshContent() {
	if m.doc == nil {
		return
	}
	m.viewport.SetContent(Render(*m.doc, m.viewport.Width))
}

// Render turns a document into styled terminal text, falling back to plain
// text when markdown rendering fails.
func Render(doc domain.Document, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc.PlainText()
	}
	out, err := r.Render(doc.Markdown())
	if err != nil {
		return doc.PlainText()
	}
	return strings.TrimRight(out, "\n")
}
