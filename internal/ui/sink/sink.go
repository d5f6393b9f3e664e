package sink

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"smarttrack/internal/modules/dashboard/domain"
	dashboardout "smarttrack/internal/modules/dashboard/port/out"
)

// ─── messages ────────────────────────────────────────────────────────────────

type CounterMsg struct {
	Key  domain.PanelKey
	View domain.CounterView
}

type DonutMsg struct {
	Key    domain.PanelKey
	Spec   domain.DonutSpec
	Handle uint64
}

type BarSeriesMsg struct {
	Key    domain.PanelKey
	Spec   domain.BarSeriesSpec
	Handle uint64
}

type TableMsg struct {
	Key  domain.PanelKey
	View domain.TableView
}

type DocumentMsg struct {
	Key domain.PanelKey
	Doc domain.Document
}

// DisposeMsg releases the chart drawn under Handle. Views ignore it when a
// newer chart already took the key.
type DisposeMsg struct {
	Key    domain.PanelKey
	Handle uint64
}

type NotifyMsg struct {
	Notification domain.Notification
}

// ─── sink ────────────────────────────────────────────────────────────────────

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Tea turns render calls into tea messages. Calls made before Attach are
// dropped.
type Tea struct {
	mu     sync.RWMutex
	sender Sender
	next   atomic.Uint64
}

var (
	_ dashboardout.RenderSink = (*Tea)(nil)
	_ dashboardout.Notifier   = (*Tea)(nil)
)

func New() *Tea {
	return &Tea{}
}

func (t *Tea) Attach(s Sender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sender = s
}

func (t *Tea) send(msg tea.Msg) {
	t.mu.RLock()
	s := t.sender
	t.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

type handle struct {
	t   *Tea
	key domain.PanelKey
	id  uint64
}

func (h handle) Dispose() {
	h.t.send(DisposeMsg{Key: h.key, Handle: h.id})
}

func (t *Tea) RenderCounter(key domain.PanelKey, view domain.CounterView) {
	t.send(CounterMsg{Key: key, View: view})
}

func (t *Tea) RenderDonut(key domain.PanelKey, spec domain.DonutSpec) dashboardout.ChartHandle {
	h := handle{t: t, key: key, id: t.next.Add(1)}
	t.send(DonutMsg{Key: key, Spec: spec, Handle: h.id})
	return h
}

func (t *Tea) RenderBarSeries(key domain.PanelKey, spec domain.BarSeriesSpec) dashboardout.ChartHandle {
	h := handle{t: t, key: key, id: t.next.Add(1)}
	t.send(BarSeriesMsg{Key: key, Spec: spec, Handle: h.id})
	return h
}

func (t *Tea) RenderTable(key domain.PanelKey, view domain.TableView) {
	t.send(TableMsg{Key: key, View: view})
}

func (t *Tea) RenderDocument(key domain.PanelKey, doc domain.Document) {
	t.send(DocumentMsg{Key: key, Doc: doc})
}

func (t *Tea) Notify(n domain.Notification) {
	t.send(NotifyMsg{Notification: n})
}
