package profile

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	profiledto "pdtrack/internal/modules/profile/dto"
	apperrors "pdtrack/internal/platform/errors"
	"pdtrack/internal/ui/components"
	"pdtrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ProfilePort interface {
	Show(ctx context.Context) (profiledto.ProfileOutput, error)
	Update(ctx context.Context, input profiledto.UpdateInput) (profiledto.ProfileOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type loadedMsg struct {
	seq     int
	profile profiledto.ProfileOutput
	err     error
}

type savedMsg struct {
	seq     int
	profile profiledto.ProfileOutput
	err     error
}

const (
	fieldName = iota
	fieldEmail
	fieldAge
	fieldMedications
	fieldPassword
	fieldCount
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    ProfilePort
	profile profiledto.ProfileOutput
	spinner spinner.Model
	loading bool

	editing bool
	inputs  [fieldCount]textinput.Model
	focus   int

	status string

	// seq tags each request so a stale fetch cannot overwrite the snapshot
	// that a later save already refreshed.
	seq    int
	cancel context.CancelFunc

	width  int
	height int
}

func New(port ProfilePort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	m := Model{port: port, spinner: sp, loading: true}
	labels := [fieldCount]string{"name", "email", "age", "medications (comma-separated)", "new password (blank keeps current)"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 128
		m.inputs[i] = ti
	}
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldPassword].EchoCharacter = '•'
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(context.Background(), m.seq), m.spinner.Tick)
}

// Refresh restarts the profile fetch, cancelling any in-flight request.
func (m *Model) Refresh() tea.Cmd {
	ctx, seq := m.nextCtx()
	m.loading = true
	m.editing = false
	return m.load(ctx, seq)
}

// Filtering reports whether the edit form is consuming keystrokes.
func (m Model) Filtering() bool { return m.editing }

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
		if msg.err != nil {
			return m, m.reportErr("load", msg.err)
		}
		m.profile = msg.profile
		m.status = ""
		return m, nil

	case savedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.editing = true
			return m, m.reportErr("save", msg.err)
		}
		m.profile = msg.profile
		m.editing = false
		m.status = "profile saved"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "e":
			return m.openForm(), textinput.Blink
		case "r":
			return m, m.Refresh()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading profile…")
	}

	var sb strings.Builder
	if m.editing {
		sb.WriteString(theme.Title.Render("Edit profile") + "\n\n")
		for i := range m.inputs {
			sb.WriteString(m.inputs[i].View() + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("ctrl+s: save  tab: next field  esc: cancel"))
	} else {
		p := m.profile
		sb.WriteString(theme.Title.Render(p.Name) + "\n\n")
		sb.WriteString(theme.Muted.Render("email: ") + p.Email + "\n")
		sb.WriteString(theme.Muted.Render("age:   ") + strconv.Itoa(p.Age) + "\n")
		if len(p.Medications) > 0 {
			sb.WriteString(theme.Muted.Render("meds:  ") + strings.Join(p.Medications, ", ") + "\n")
		} else {
			sb.WriteString(theme.Muted.Render("meds:  none recorded") + "\n")
		}
		if m.status != "" {
			sb.WriteString("\n" + theme.Good.Render(m.status) + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("e: edit  r: refresh"))
	}

	card := theme.Pane.Width(min(m.width-4, 70)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) openForm() Model {
	m.editing = true
	m.status = ""
	m.inputs[fieldName].SetValue(m.profile.Name)
	m.inputs[fieldEmail].SetValue(m.profile.Email)
	m.inputs[fieldAge].SetValue(strconv.Itoa(m.profile.Age))
	m.inputs[fieldMedications].SetValue(strings.Join(m.profile.Medications, ", "))
	m.inputs[fieldPassword].SetValue("")
	m.setFocus(fieldName)
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "ctrl+s", "enter":
		return m.save()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(field int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = field
	m.inputs[field].Focus()
}

func (m Model) save() (Model, tea.Cmd) {
	age := 0
	if raw := strings.TrimSpace(m.inputs[fieldAge].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			m.status = "age must be a number"
			return m, nil
		}
		age = parsed
	}
	input := profiledto.UpdateInput{
		Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Age:      age,
		Password: m.inputs[fieldPassword].Value(),
	}
	for _, med := range strings.Split(m.inputs[fieldMedications].Value(), ",") {
		if trimmed := strings.TrimSpace(med); trimmed != "" {
			input.Medications = append(input.Medications, trimmed)
		}
	}

	ctx, seq := m.nextCtx()
	m.loading = true
	return m, func() tea.Msg {
		profile, err := m.port.Update(ctx, input)
		return savedMsg{seq: seq, profile: profile, err: err}
	}
}

func (m *Model) nextCtx() (context.Context, int) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.seq++
	return ctx, m.seq
}

func (m Model) load(ctx context.Context, seq int) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.port.Show(ctx)
		return loadedMsg{seq: seq, profile: profile, err: err}
	}
}

func (m *Model) reportErr(verb string, err error) tea.Cmd {
	if errors.Is(err, apperrors.ErrSessionExpired) || errors.Is(err, apperrors.ErrUnauthenticated) {
		return func() tea.Msg { return components.SessionExpiredMsg{} }
	}
	m.status = verb + " failed: " + err.Error()
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
