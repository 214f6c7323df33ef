package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "pdtrack/internal/modules/session/dto"
	apperrors "pdtrack/internal/platform/errors"
	"pdtrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.SessionOutput, error)
	Register(ctx context.Context, input sessiondto.RegisterInput) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoggedInMsg bubbles up to the app model, which switches to the tab layout.
type LoggedInMsg struct {
	Seq int
	Out sessiondto.SessionOutput
	Err error
}

// RegisteredMsg reports account creation. Registration never stores a token;
// the user signs in afterwards.
type RegisteredMsg struct {
	Seq int
	Err error
}

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldAge
	fieldMedications
	fieldCount
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   SessionPort
	mode   mode
	inputs [fieldCount]textinput.Model
	focus  int

	submitting bool
	errText    string
	notice     string

	// seq tags each submission; responses carrying an older seq are ignored
	// so a slow request cannot clobber the outcome of a newer one.
	seq    int
	cancel context.CancelFunc

	width  int
	height int
}

func New(port SessionPort) Model {
	m := Model{port: port}
	labels := [fieldCount]string{"name", "email", "password", "age", "medications (comma-separated)"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 128
		m.inputs[i] = ti
	}
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldPassword].EchoCharacter = '•'
	m.focus = fieldEmail
	m.inputs[fieldEmail].Focus()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Reset clears the form and any in-flight submission. The app model calls it
// when the session expires so stale responses cannot land on the fresh form.
func (m Model) Reset() Model {
	if m.cancel != nil {
		m.cancel()
	}
	next := New(m.port)
	next.seq = m.seq + 1
	next.width = m.width
	next.height = m.height
	next.notice = "session expired, log in again"
	return next
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoggedInMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.submitting = false
		if msg.Err != nil {
			m.errText = describe(msg.Err)
		}
		return m, nil

	case RegisteredMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.submitting = false
		if msg.Err != nil {
			m.errText = describe(msg.Err)
			return m, nil
		}
		m.mode = modeLogin
		m.errText = ""
		m.notice = "account created, sign in below"
		m.setFocus(fieldEmail)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			m.mode = m.otherMode()
			m.errText = ""
			m.notice = ""
			m.setFocus(m.firstField())
			return m, nil
		case "tab", "down":
			m.setFocus(m.nextField(1))
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.nextField(-1))
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	if m.mode == modeLogin {
		sb.WriteString(theme.Title.Render("Sign in") + "\n\n")
	} else {
		sb.WriteString(theme.Title.Render("Create account") + "\n\n")
	}
	for _, f := range m.fields() {
		sb.WriteString(m.inputs[f].View() + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.submitting:
		sb.WriteString(theme.Muted.Render("contacting server…") + "\n")
	case m.errText != "":
		sb.WriteString(theme.Bad.Render(m.errText) + "\n")
	case m.notice != "":
		sb.WriteString(theme.Good.Render(m.notice) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: submit  tab: next field  ctrl+r: "+m.otherModeLabel()))

	card := theme.Pane.Width(min(m.width-4, 60)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) fields() []int {
	if m.mode == modeLogin {
		return []int{fieldEmail, fieldPassword}
	}
	return []int{fieldName, fieldEmail, fieldPassword, fieldAge, fieldMedications}
}

func (m Model) firstField() int { return m.fields()[0] }

func (m Model) nextField(dir int) int {
	fields := m.fields()
	cur := 0
	for i, f := range fields {
		if f == m.focus {
			cur = i
			break
		}
	}
	return fields[(cur+dir+len(fields))%len(fields)]
}

func (m *Model) setFocus(field int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = field
	m.inputs[field].Focus()
}

func (m Model) otherMode() mode {
	if m.mode == modeLogin {
		return modeRegister
	}
	return modeLogin
}

func (m Model) otherModeLabel() string {
	if m.mode == modeLogin {
		return "register"
	}
	return "sign in"
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.seq++
	m.errText = ""
	m.notice = ""

	if m.mode == modeLogin {
		input := sessiondto.LoginInput{
			Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
			Password: m.inputs[fieldPassword].Value(),
		}
		m.submitting = true
		seq := m.seq
		return m, func() tea.Msg {
			out, err := m.port.Login(ctx, input)
			return LoggedInMsg{Seq: seq, Out: out, Err: err}
		}
	}

	age := 0
	if raw := strings.TrimSpace(m.inputs[fieldAge].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			m.errText = "age must be a number"
			return m, nil
		}
		age = parsed
	}
	input := sessiondto.RegisterInput{
		Name:        strings.TrimSpace(m.inputs[fieldName].Value()),
		Email:       strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password:    m.inputs[fieldPassword].Value(),
		Age:         age,
		Medications: strings.TrimSpace(m.inputs[fieldMedications].Value()),
	}
	m.submitting = true
	seq := m.seq
	return m, func() tea.Msg {
		return RegisteredMsg{Seq: seq, Err: m.port.Register(ctx, input)}
	}
}

func describe(err error) string {
	var authErr *apperrors.AuthError
	var valErr *apperrors.ValidationError
	switch {
	case apperrors.IsConnectivity(err):
		return "cannot reach the server, check your connection"
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &valErr):
		return valErr.Field + ": " + valErr.Reason
	default:
		return err.Error()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
