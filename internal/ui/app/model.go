package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analysisdto "smarttrack/internal/modules/analysis/dto"
	"smarttrack/internal/modules/dashboard/domain"
	dashboarddto "smarttrack/internal/modules/dashboard/dto"
	gpadto "smarttrack/internal/modules/gpa/dto"
	apperrors "smarttrack/internal/platform/errors"
	"smarttrack/internal/platform/slug"
	"smarttrack/internal/ui/components"
	"smarttrack/internal/ui/sink"
	"smarttrack/internal/ui/theme"
	analysisview "smarttrack/internal/ui/views/analysis"
	gpaview "smarttrack/internal/ui/views/gpa"
	trackerview "smarttrack/internal/ui/views/tracker"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type dashboardPort interface {
	RefreshAll(ctx context.Context, trigger dashboarddto.Trigger) error
	SubmitGPACalculation(ctx context.Context, courses []gpadto.CourseInput) error
	RunAnalysis(ctx context.Context, input analysisdto.RunInput) error
	ExportAnalysis(ctx context.Context, path string) (dashboarddto.ExportOutput, error)
}

type coursesPort interface {
	Courses(ctx context.Context, file string, specs []string) ([]gpadto.CourseInput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTracker tabID = iota
	tabGPA
	tabAnalysis
	tabCount
)

var tabLabels = [tabCount]string{"Tracker", "GPA", "Analysis"}

// ─── async messages ──────────────────────────────────────────────────────────

type refreshDoneMsg struct {
	trigger dashboarddto.Trigger
	err     error
}

type gpaDoneMsg struct{ err error }

type analysisDoneMsg struct{ err error }

type exportDoneMsg struct {
	out dashboarddto.ExportOutput
	err error
}

type expireMsg struct{ id string }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Refresh  key.Binding
	GPA      key.Binding
	Analysis key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh now")),
		GPA:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "calculate GPA")),
		Analysis: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "run analysis")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Refresh, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh},
		{k.GPA, k.Analysis},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Options struct {
	// CourseFile is used by the g key; empty means the sample courses.
	CourseFile string
	CatWeight  string
	ExamWeight string
}

// Model is the root Bubble Tea model. It routes sink messages to the view
// that owns the panel key, whichever tab is showing, and runs dashboard
// operations as async commands.
type Model struct {
	ctx       context.Context
	dashboard dashboardPort
	courses   coursesPort
	opts      Options

	trackerView  trackerview.Model
	gpaView      gpaview.Model
	analysisView analysisview.Model

	activeTab  tabID
	keys       keyMap
	help       help.Model
	showHelp   bool
	palette    components.Palette
	spinner    spinner.Model
	busy       int
	notes      []domain.Notification
	status     string
	lastUpdate time.Time
	width      int
	height     int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(ctx context.Context, dashboard dashboardPort, courses coursesPort, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		ctx:          ctx,
		dashboard:    dashboard,
		courses:      courses,
		opts:         opts,
		trackerView:  trackerview.New(),
		gpaView:      gpaview.New(),
		analysisView: analysisview.New(),
		activeTab:    tabTracker,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		spinner:      sp,
		status:       "loading…",
	}
}

// Init runs the startup refresh. Later cycles come from the scheduler.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(dashboarddto.TriggerStartup), m.spinner.Tick)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Panel messages go to their owner even while the palette is open.
	if routed, cmd, ok := m.routePanel(msg); ok {
		return routed, cmd
	}

	// The palette takes all key input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case sink.NotifyMsg:
		m.notes = append(m.notes, msg.Notification)
		id := msg.Notification.ID
		ttl := msg.Notification.TTL
		if ttl <= 0 {
			ttl = 5 * time.Second
		}
		return m, tea.Tick(ttl, func(time.Time) tea.Msg { return expireMsg{id: id} })

	case expireMsg:
		kept := m.notes[:0]
		for _, n := range m.notes {
			if n.ID != msg.id {
				kept = append(kept, n)
			}
		}
		m.notes = kept
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshDoneMsg:
		m.busy--
		switch {
		case msg.err == nil:
			m.lastUpdate = time.Now()
			m.status = "updated " + m.lastUpdate.Format("15:04:05")
		case errors.Is(msg.err, apperrors.ErrRefreshInFlight):
			m.status = "refresh already running"
		default:
			m.status = "refresh failed"
		}
		return m, nil

	case gpaDoneMsg:
		m.busy--
		if msg.err != nil {
			m.status = "gpa: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("gpa: %d course(s) calculated", m.gpaView.Rows())
		}
		return m, nil

	case analysisDoneMsg:
		m.busy--
		if msg.err != nil {
			m.status = "analysis: " + msg.err.Error()
		} else {
			m.status = "analysis ready"
		}
		return m, nil

	case exportDoneMsg:
		m.busy--
		if msg.err != nil {
			m.status = "export: " + msg.err.Error()
		} else {
			m.status = "exported " + msg.out.Path
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "r":
			return m.startRefresh()
		case "g":
			m.activeTab = tabGPA
			return m.startGPA(m.opts.CourseFile, nil)
		case "a":
			m.activeTab = tabAnalysis
			return m.startAnalysis(m.opts.CatWeight, m.opts.ExamWeight)
		}
	}

	// Anything left goes to the open palette or the analysis viewport.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.activeTab == tabAnalysis {
		var cmd tea.Cmd
		m.analysisView, cmd = m.analysisView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) routePanel(msg tea.Msg) (Model, tea.Cmd, bool) {
	var k domain.PanelKey
	switch msg := msg.(type) {
	case sink.CounterMsg:
		k = msg.Key
	case sink.DonutMsg:
		k = msg.Key
	case sink.BarSeriesMsg:
		k = msg.Key
	case sink.TableMsg:
		k = msg.Key
	case sink.DocumentMsg:
		k = msg.Key
	case sink.DisposeMsg:
		k = msg.Key
	default:
		return m, nil, false
	}
	var cmd tea.Cmd
	switch {
	case gpaview.Owns(k):
		m.gpaView, cmd = m.gpaView.Update(msg)
	case analysisview.Owns(k):
		m.analysisView, cmd = m.analysisView.Update(msg)
	case trackerview.Owns(k):
		m.trackerView, cmd = m.trackerView.Update(msg)
	}
	return m, cmd, true
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	toasts := m.renderNotifications()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	if toasts != "" {
		content = toasts + "\n" + content
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTracker:
		return m.trackerView.View()
	case tabGPA:
		return m.gpaView.View()
	case tabAnalysis:
		return m.analysisView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "smarttrack  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderNotifications() string {
	if len(m.notes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.notes))
	for _, n := range m.notes {
		lines = append(lines, n.Message)
	}
	box := theme.Toast.Render(strings.Join(lines, "\n"))
	if m.width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, box)
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.busy > 0 {
		left = m.spinner.View() + " " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  r:refresh  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "refresh":
		return m.startRefresh()

	case "gpa:calc":
		m.activeTab = tabGPA
		if len(parts) == 1 {
			return m.startGPA(m.opts.CourseFile, nil)
		}
		return m.startGPA("", parts[1:])

	case "gpa:file":
		if len(parts) < 2 {
			m.status = "usage: gpa:file <courses.yaml>"
			return m, nil
		}
		m.activeTab = tabGPA
		return m.startGPA(parts[1], nil)

	case "gpa:sample":
		m.activeTab = tabGPA
		return m.startGPA("", nil)

	case "analysis:run":
		cat, exam := m.opts.CatWeight, m.opts.ExamWeight
		if len(parts) >= 2 {
			cat = parts[1]
		}
		if len(parts) >= 3 {
			exam = parts[2]
		}
		m.activeTab = tabAnalysis
		return m.startAnalysis(cat, exam)

	case "analysis:export":
		path := defaultReportPath(time.Now())
		if len(parts) >= 2 {
			path = parts[1]
		}
		m.busy++
		return m, m.exportCmd(path)

	case "tab:tracker":
		m.activeTab = tabTracker
	case "tab:gpa":
		m.activeTab = tabGPA
	case "tab:analysis":
		m.activeTab = tabAnalysis

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// defaultReportPath names an export under reports/ by its generation time.
func defaultReportPath(now time.Time) string {
	return filepath.Join("reports", slug.Make("analysis "+now.Format("2006-01-02 15:04"))+".md")
}

func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	m.busy++
	m.status = "refreshing…"
	return m, m.refreshCmd(dashboarddto.TriggerManual)
}

func (m Model) startGPA(file string, specs []string) (tea.Model, tea.Cmd) {
	m.busy++
	m.status = "calculating GPA…"
	return m, m.gpaCmd(file, specs)
}

func (m Model) startAnalysis(cat, exam string) (tea.Model, tea.Cmd) {
	m.busy++
	m.status = "running analysis…"
	return m, m.analysisCmd(cat, exam)
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.trackerView, _ = m.trackerView.Update(sz)
	m.gpaView, _ = m.gpaView.Update(sz)
	m.analysisView, _ = m.analysisView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) refreshCmd(trigger dashboarddto.Trigger) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{trigger: trigger, err: m.dashboard.RefreshAll(m.ctx, trigger)}
	}
}

func (m Model) gpaCmd(file string, specs []string) tea.Cmd {
	return func() tea.Msg {
		courses, err := m.courses.Courses(m.ctx, file, specs)
		if err != nil {
			return gpaDoneMsg{err: err}
		}
		return gpaDoneMsg{err: m.dashboard.SubmitGPACalculation(m.ctx, courses)}
	}
}

func (m Model) analysisCmd(cat, exam string) tea.Cmd {
	return func() tea.Msg {
		return analysisDoneMsg{err: m.dashboard.RunAnalysis(m.ctx, analysisdto.RunInput{Cat: cat, Exam: exam})}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.dashboard.ExportAnalysis(m.ctx, path)
		return exportDoneMsg{out: out, err: err}
	}
}
