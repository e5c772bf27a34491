package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// Backend is the desk the TUI drives. *ipc.Client and desk.Local both
// satisfy it.
type Backend interface {
	GetState() (desk.State, error)
	ListApps() ([]apps.App, error)
	Open(appID string) (window.Record, error)
	Close(id string) error
	Minimize(id string) error
	Maximize(id string) error
	Focus(id string) error
	SwitchDesktop(desktopID string) error
	PointerDown(id, region string, pointer geom.Point) error
	PointerMove(pointer geom.Point) error
	PointerUp() error
}

// Rows above the desktop area: status bar and apps bar.
const desktopTop = 2

type (
	changedMsg struct{}
	tickMsg    time.Time
)

// model is the root bubbletea model for the TUI.
type model struct {
	backend Backend
	source  string
	poll    time.Duration

	state       desk.State
	apps        []apps.App
	selectedApp int
	lastError   string

	// pressed is set between a mouse press on a window and its release.
	pressed bool

	width  int
	height int
}

func newModel(backend Backend, source string, poll time.Duration) model {
	m := model{backend: backend, source: source, poll: poll}
	if list, err := backend.ListApps(); err == nil {
		m.apps = list
	} else {
		m.lastError = err.Error()
	}
	m.sync()
	return m
}

// sync refetches the desk state.
func (m *model) sync() {
	state, err := m.backend.GetState()
	if err != nil {
		m.lastError = err.Error()
		return
	}
	m.state = state
}

// do runs a backend call and resyncs.
func (m *model) do(err error) {
	if err != nil {
		m.lastError = err.Error()
	} else {
		m.lastError = ""
	}
	m.sync()
}

func (m model) tick() tea.Cmd {
	if m.poll <= 0 {
		return nil
	}
	return tea.Tick(m.poll, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.tick()
}

// desktopRows is the height available for the desktop area.
func (m model) desktopRows() int {
	// status + apps bars, taskbar, help bar
	h := m.height - desktopTop - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) scale() scale {
	return newScale(m.state.Viewport, m.width, m.desktopRows())
}

func (m model) frames() []frame {
	return layoutFrames(m.state.Visible(), m.state.ActiveWindow, m.scale())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case changedMsg:
		m.sync()
		return m, nil

	case tickMsg:
		m.sync()
		return m, m.tick()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(m.state.Desktops) {
			m.do(m.backend.SwitchDesktop(m.state.Desktops[idx].ID))
		}

	case "left", "h":
		if len(m.apps) > 0 {
			m.selectedApp = (m.selectedApp - 1 + len(m.apps)) % len(m.apps)
		}

	case "right", "l":
		if len(m.apps) > 0 {
			m.selectedApp = (m.selectedApp + 1) % len(m.apps)
		}

	case "o", "enter":
		if m.selectedApp < len(m.apps) {
			_, err := m.backend.Open(m.apps[m.selectedApp].ID)
			m.do(err)
		}

	case "tab":
		// Raising the bottom window cycles through the stack.
		if visible := m.state.Visible(); len(visible) > 1 {
			m.do(m.backend.Focus(visible[0].ID))
		}

	case "m":
		if id := m.visibleActive(); id != "" {
			m.do(m.backend.Minimize(id))
		}

	case "x":
		if id := m.visibleActive(); id != "" {
			m.do(m.backend.Maximize(id))
		}

	case "c":
		if id := m.visibleActive(); id != "" {
			m.do(m.backend.Close(id))
		}

	case "r":
		if minimized := m.state.Minimized(); len(minimized) > 0 {
			_, err := m.backend.Open(minimized[len(minimized)-1].ID)
			m.do(err)
		}
	}
	return m, nil
}

// visibleActive returns the active window when it is shown on the current
// desktop. The active id survives desktop switches, so keys that act on it
// must not reach a window the user cannot see.
func (m model) visibleActive() string {
	for _, rec := range m.state.Visible() {
		if rec.ID == m.state.ActiveWindow {
			return rec.ID
		}
	}
	return ""
}

// handleMouse forwards presses, motion and releases in the desktop area to
// the drag protocol.
func (m *model) handleMouse(msg tea.MouseMsg) {
	cell := geom.Point{X: msg.X, Y: msg.Y - desktopTop}
	sc := m.scale()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		f, region, ok := hitTest(m.frames(), cell)
		if !ok {
			return
		}
		m.pressed = true
		m.do(m.backend.PointerDown(f.ID, region.String(), sc.toPixel(cell)))

	case tea.MouseActionMotion:
		if !m.pressed {
			return
		}
		m.do(m.backend.PointerMove(sc.toPixel(cell)))

	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		m.do(m.backend.PointerUp())
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderStatusBar(m.source, m.state, m.lastError, m.width),
		renderAppsBar(m.apps, m.selectedApp, m.width),
		renderDesktop(m.frames(), m.width, m.desktopRows()),
		renderTaskbar(m.state, m.width),
		renderHelpBar(m.width),
	)
}
