package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	devdto "pdtrack/internal/modules/devices/dto"
	profiledto "pdtrack/internal/modules/profile/dto"
	sessiondto "pdtrack/internal/modules/session/dto"
	trackdto "pdtrack/internal/modules/tracking/dto"
	"pdtrack/internal/ui/components"
	"pdtrack/internal/ui/theme"
	authview "pdtrack/internal/ui/views/auth"
	devicesview "pdtrack/internal/ui/views/devices"
	homeview "pdtrack/internal/ui/views/home"
	profileview "pdtrack/internal/ui/views/profile"
	trackerview "pdtrack/internal/ui/views/tracker"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-views declare their own narrower ports; these are supersets of them, so
// the same values flow straight through.

type sessionPort interface {
	Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.SessionOutput, error)
	Register(ctx context.Context, input sessiondto.RegisterInput) error
	Logout(ctx context.Context) error
	Current(ctx context.Context) sessiondto.SessionOutput
	IsAuthenticated() bool
}

type profilePort interface {
	Show(ctx context.Context) (profiledto.ProfileOutput, error)
	Update(ctx context.Context, input profiledto.UpdateInput) (profiledto.ProfileOutput, error)
}

type devicesPort interface {
	List(ctx context.Context) ([]devdto.DeviceOutput, error)
	Add(ctx context.Context, name, deviceType string) ([]devdto.DeviceOutput, error)
	Update(ctx context.Context, id, name, deviceType string) ([]devdto.DeviceOutput, error)
	Remove(ctx context.Context, id string) ([]devdto.DeviceOutput, error)
	Summary(ctx context.Context) ([]devdto.DeviceOutput, error)
}

type trackingPort interface {
	Record(ctx context.Context) (trackdto.RecordOutput, error)
	History(ctx context.Context, day string) ([]trackdto.ShakePointOutput, error)
	LogMedication(ctx context.Context) error
	MedicationResponses(ctx context.Context) ([]trackdto.MedicationResponseOutput, error)
	Train(ctx context.Context) error
	Predict(ctx context.Context) (trackdto.PredictionOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabHome tabID = iota
	tabDevices
	tabProfile
	tabTracker
	tabCount
)

var tabLabels = [tabCount]string{
	"Home", "Devices", "Profile", "Tracker",
}

// ─── async messages ───────────────────────────────────────────────────────────

type loggedOutMsg struct{ err error }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Refresh key.Binding
	Record  key.Binding
	Logout  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh / record")),
		Record:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "log medication")),
		Logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh, k.Record},
		{k.Logout},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the one routing decision the
// whole program hangs on: without a session only the auth screen is
// reachable, with one the tab layout is. Business logic lives behind port
// interfaces; rendering is delegated to sub-views.
type Model struct {
	session  sessionPort
	profile  profilePort
	devices  devicesPort
	tracking trackingPort

	authView  authview.Model
	homeView  homeview.Model
	devView   devicesview.Model
	profView  profileview.Model
	trackView trackerview.Model

	authed    bool
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(session sessionPort, profile profilePort, devices devicesPort, tracking trackingPort) Model {
	return Model{
		session:   session,
		profile:   profile,
		devices:   devices,
		tracking:  tracking,
		authView:  authview.New(session),
		homeView:  homeview.New(profile, devices),
		devView:   devicesview.New(devices),
		profView:  profileview.New(profile),
		trackView: trackerview.New(tracking),
		activeTab: tabHome,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		authed:    session.IsAuthenticated(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	if !m.authed {
		return m.authView.Init()
	}
	return m.initTabsCmd()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case authview.LoggedInMsg:
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil {
			m.authed = true
			m.activeTab = tabHome
			m.status = "logged in as user " + msg.Out.UserID
			m.resetTabs()
			cmds = append(cmds, m.initTabsCmd())
		}
		return m, tea.Batch(cmds...)

	case authview.RegisteredMsg:
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		if msg.Err == nil {
			m.status = "account created"
		}
		return m, cmd

	case components.SessionExpiredMsg:
		m.authed = false
		m.authView = m.authView.Reset()
		m.status = "session expired"
		return m, m.authView.Init()

	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout failed: " + msg.err.Error()
			return m, nil
		}
		m.authed = false
		m.authView = authview.New(m.session)
		m.status = "logged out"
		return m, m.authView.Init()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.authed {
			break
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the active tab while it is consuming free-form text.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "q":
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
			return m, m.palette.Open()
		case "ctrl+l":
			return m, m.logoutCmd()
		}
	}

	// Route to the auth screen or the active tab.
	if !m.authed {
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabHome:
		m.homeView, tabCmd = m.homeView.Update(msg)
	case tabDevices:
		m.devView, tabCmd = m.devView.Update(msg)
	case tabProfile:
		m.profView, tabCmd = m.profView.Update(msg)
	case tabTracker:
		m.trackView, tabCmd = m.trackView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.authed {
		return m.authView.View()
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabHome:
		return m.homeView.View()
	case tabDevices:
		return m.devView.View()
	case tabProfile:
		return m.profView.View()
	case tabTracker:
		return m.trackView.View()
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
	bar := "pdtrack  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if current := m.session.Current(context.Background()); current.Authenticated {
		left = theme.Hot.Render("● "+current.UserID) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "logout":
		return m, m.logoutCmd()

	case "whoami":
		current := m.session.Current(context.Background())
		if !current.Authenticated {
			m.status = "not logged in"
		} else {
			m.status = "user " + current.UserID
		}
		return m, nil

	case "tremor:record":
		m.activeTab = tabTracker
		return m, m.trackView.RecordSample()

	case "tremor:history":
		day := ""
		if len(parts) >= 2 {
			day = parts[1]
		}
		m.activeTab = tabTracker
		return m, m.trackView.LoadHistory(day)

	case "med:log":
		m.activeTab = tabTracker
		return m, m.trackView.LogMedication()

	case "med:responses":
		m.activeTab = tabTracker
		return m, m.trackView.LoadResponses()

	case "progress:train":
		m.activeTab = tabTracker
		return m, m.trackView.Train()

	case "progress:predict":
		m.activeTab = tabTracker
		return m, m.trackView.Predict()

	case "device:refresh":
		m.activeTab = tabDevices
		return m, m.devView.Refresh()

	case "device:add":
		if len(parts) < 2 {
			m.status = "usage: device:add <name> [type]"
			return m, nil
		}
		deviceType := ""
		if len(parts) >= 3 {
			deviceType = parts[2]
		}
		m.activeTab = tabDevices
		return m, m.devView.AddDevice(parts[1], deviceType)

	case "device:rm":
		if len(parts) < 2 {
			m.status = "usage: device:rm <id>"
			return m, nil
		}
		m.activeTab = tabDevices
		return m, m.devView.RemoveDevice(parts[1])

	case "profile:refresh":
		m.activeTab = tabProfile
		return m, m.profView.Refresh()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab is consuming raw keys
// (a list filter or an edit form), in which case global bindings must yield.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabDevices:
		return m.devView.Filtering()
	case tabProfile:
		return m.profView.Filtering()
	}
	return false
}

// resetTabs rebuilds the tab views so a fresh login never shows the previous
// account's data while the new fetches are in flight.
func (m *Model) resetTabs() {
	m.homeView = homeview.New(m.profile, m.devices)
	m.devView = devicesview.New(m.devices)
	m.profView = profileview.New(m.profile)
	m.trackView = trackerview.New(m.tracking)
	m.propagateSize()
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.authView, _ = m.authView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.homeView, _ = m.homeView.Update(sz)
	m.devView, _ = m.devView.Update(sz)
	m.profView, _ = m.profView.Update(sz)
	m.trackView, _ = m.trackView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) initTabsCmd() tea.Cmd {
	return tea.Batch(
		m.homeView.Init(),
		m.devView.Init(),
		m.profView.Init(),
		m.trackView.Init(),
	)
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.session.Logout(context.Background())}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
