package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	devdto "pdtrack/internal/modules/devices/dto"
	profiledto "pdtrack/internal/modules/profile/dto"
	apperrors "pdtrack/internal/platform/errors"
	"pdtrack/internal/ui/components"
	"pdtrack/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type ProfilePort interface {
	Show(ctx context.Context) (profiledto.ProfileOutput, error)
}

type DevicePort interface {
	Summary(ctx context.Context) ([]devdto.DeviceOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type loadedMsg struct {
	seq     int
	profile profiledto.ProfileOutput
	devices []devdto.DeviceOutput
	// err means the profile fetch failed and there is nothing to render.
	// devicesErr means only the summary failed; the dashboard still renders
	// with a degraded devices line.
	err        error
	devicesErr error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the landing tab: a greeting, the medication list, and a device
// summary. Both fetches run in one command so the pane never shows a
// half-loaded state.
type Model struct {
	profilePort ProfilePort
	devicePort  DevicePort
	spinner     spinner.Model
	loading     bool

	profile    profiledto.ProfileOutput
	devices    []devdto.DeviceOutput
	errText    string
	devErrText string

	seq    int
	cancel context.CancelFunc

	width  int
	height int
}

func New(profilePort ProfilePort, devicePort DevicePort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{profilePort: profilePort, devicePort: devicePort, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(context.Background(), m.seq), m.spinner.Tick)
}

// Refresh restarts the dashboard fetch, cancelling any in-flight request.
func (m *Model) Refresh() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.seq++
	m.loading = true
	return m.load(ctx, m.seq)
}

// Filtering always reports false; the home tab has no text entry.
func (m Model) Filtering() bool { return false }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		for _, err := range []error{msg.err, msg.devicesErr} {
			if errors.Is(err, apperrors.ErrSessionExpired) || errors.Is(err, apperrors.ErrUnauthenticated) {
				return m, func() tea.Msg { return components.SessionExpiredMsg{} }
			}
		}
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.profile = msg.profile
		m.devices = msg.devices
		m.devErrText = ""
		if msg.devicesErr != nil {
			m.devErrText = msg.devicesErr.Error()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.Refresh()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading dashboard…")
	}

	var sb strings.Builder
	if m.errText != "" {
		sb.WriteString(theme.Bad.Render(m.errText) + "\n\n")
	}
	sb.WriteString(theme.Title.Render("Hello, "+m.profile.Name) + "\n\n")

	if len(m.profile.Medications) > 0 {
		sb.WriteString(theme.Muted.Render("medications: ") + strings.Join(m.profile.Medications, ", ") + "\n")
	}

	if m.devErrText != "" {
		sb.WriteString(theme.Muted.Render("devices:     ") +
			theme.Bad.Render("unavailable ("+m.devErrText+")") + "\n")
	} else {
		online := 0
		for _, d := range m.devices {
			if d.Status == "online" {
				online++
			}
		}
		sb.WriteString(theme.Muted.Render("devices:     ") +
			fmt.Sprintf("%d registered, %d online", len(m.devices), online) + "\n")
	}

	sb.WriteString("\n" + theme.Muted.Render("tab: switch screens  r: refresh  :: palette  q: quit"))

	card := theme.Pane.Width(min(m.width-4, 70)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) load(ctx context.Context, seq int) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.profilePort.Show(ctx)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		devices, err := m.devicePort.Summary(ctx)
		if err != nil {
			// The greeting still renders; only the device line degrades.
			return loadedMsg{seq: seq, profile: profile, devicesErr: err}
		}
		return loadedMsg{seq: seq, profile: profile, devices: devices}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
