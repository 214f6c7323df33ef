package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	devdto "pdtrack/internal/modules/devices/dto"
	apperrors "pdtrack/internal/platform/errors"
	"pdtrack/internal/ui/components"
	"pdtrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type DevicePort interface {
	List(ctx context.Context) ([]devdto.DeviceOutput, error)
	Add(ctx context.Context, name, deviceType string) ([]devdto.DeviceOutput, error)
	Update(ctx context.Context, id, name, deviceType string) ([]devdto.DeviceOutput, error)
	Remove(ctx context.Context, id string) ([]devdto.DeviceOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type loadedMsg struct {
	seq     int
	devices []devdto.DeviceOutput
	err     error
}

// mutations return the refreshed list, so one message type covers add,
// rename and delete.
type mutatedMsg struct {
	seq     int
	verb    string
	devices []devdto.DeviceOutput
	err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type deviceItem struct {
	device devdto.DeviceOutput
}

func (i deviceItem) Title() string { return i.device.Name }
func (i deviceItem) Description() string {
	return fmt.Sprintf("%s  %s", i.device.Type, i.device.Status)
}
func (i deviceItem) FilterValue() string { return i.device.Name }

// ─── form state ──────────────────────────────────────────────────────────────

type formMode int

const (
	formNone formMode = iota
	formAdd
	formEdit
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    DevicePort
	list    list.Model
	spinner spinner.Model
	loading bool

	form      formMode
	formID    string
	nameInput textinput.Model
	typeInput textinput.Model
	formFocus int

	status string

	// seq tags each request; a response with an older tag is dropped so a
	// slow refresh cannot overwrite the result of a later mutation.
	seq    int
	cancel context.CancelFunc

	width  int
	height int
}

func New(port DevicePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Devices"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	name := textinput.New()
	name.Placeholder = "device name"
	name.CharLimit = 64
	typ := textinput.New()
	typ.Placeholder = "device type (blank keeps current)"
	typ.CharLimit = 64

	return Model{
		port:      port,
		list:      l,
		spinner:   sp,
		loading:   true,
		nameInput: name,
		typeInput: typ,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(context.Background(), m.seq), m.spinner.Tick)
}

// Refresh restarts the device fetch, cancelling any in-flight request.
func (m *Model) Refresh() tea.Cmd {
	ctx, seq := m.nextCtx()
	m.loading = true
	return m.load(ctx, seq)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*4/10, m.height)

	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m, m.reportErr("load", msg.err)
		}
		m.status = fmt.Sprintf("%d device(s)", len(msg.devices))
		return m, m.setItems(msg.devices)

	case mutatedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m, m.reportErr(msg.verb, msg.err)
		}
		m.status = msg.verb + " ok"
		return m, m.setItems(msg.devices)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.form != formNone {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "a":
			if !m.list.SettingFilter() {
				return m.openForm(formAdd, devdto.DeviceOutput{}), textinput.Blink
			}
		case "e":
			if item, ok := m.selected(); ok && !m.list.SettingFilter() {
				return m.openForm(formEdit, item), textinput.Blink
			}
		case "x":
			if item, ok := m.selected(); ok && !m.list.SettingFilter() {
				return m, m.remove(item.ID)
			}
		case "r":
			if !m.list.SettingFilter() {
				return m, m.Refresh()
			}
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading devices…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	var detail string
	if m.form != formNone {
		detail = m.renderForm()
	} else {
		detail = m.renderDetail()
	}
	detailPane := theme.Pane.
		Width(detailW - 2).
		Height(m.height - 2).
		Render(detail)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering || m.form != formNone
}

// Status returns the last operation outcome for the app status bar.
func (m Model) Status() string { return m.status }

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) selected() (devdto.DeviceOutput, bool) {
	if item, ok := m.list.SelectedItem().(deviceItem); ok {
		return item.device, true
	}
	return devdto.DeviceOutput{}, false
}

func (m Model) setItems(devices []devdto.DeviceOutput) tea.Cmd {
	items := make([]list.Item, len(devices))
	for i, d := range devices {
		items[i] = deviceItem{device: d}
	}
	return m.list.SetItems(items)
}

func (m Model) openForm(mode formMode, d devdto.DeviceOutput) Model {
	m.form = mode
	m.formID = d.ID
	m.nameInput.SetValue(d.Name)
	m.typeInput.SetValue("")
	m.formFocus = 0
	m.typeInput.Blur()
	m.nameInput.Focus()
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = formNone
		return m, nil
	case "tab", "shift+tab", "up", "down":
		if m.formFocus == 0 {
			m.formFocus = 1
			m.nameInput.Blur()
			m.typeInput.Focus()
		} else {
			m.formFocus = 0
			m.typeInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		typ := strings.TrimSpace(m.typeInput.Value())
		mode, id := m.form, m.formID
		m.form = formNone
		if mode == formAdd {
			return m, m.add(name, typ)
		}
		return m, m.rename(id, name, typ)
	}
	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.typeInput, cmd = m.typeInput.Update(msg)
	}
	return m, cmd
}

func (m Model) renderForm() string {
	var sb strings.Builder
	if m.form == formAdd {
		sb.WriteString(theme.Title.Render("Add device") + "\n\n")
	} else {
		sb.WriteString(theme.Title.Render("Edit device") + "\n\n")
	}
	sb.WriteString(m.nameInput.View() + "\n")
	sb.WriteString(m.typeInput.View() + "\n\n")
	sb.WriteString(theme.Muted.Render("enter: save  esc: cancel"))
	return sb.String()
}

func (m Model) renderDetail() string {
	d, ok := m.selected()
	if !ok {
		return theme.Muted.Render("No device selected\n\na: add  e: edit  x: delete  r: refresh")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:     ") + d.ID + "\n")
	sb.WriteString(theme.Muted.Render("type:   ") + d.Type + "\n")
	if d.Status == "online" {
		sb.WriteString(theme.Muted.Render("status: ") + theme.Good.Render(d.Status) + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("status: ") + d.Status + "\n")
	}
	if !d.LastConnectedAt.IsZero() {
		sb.WriteString(theme.Muted.Render("seen:   ") + d.LastConnectedAt.Format(time.RFC3339) + "\n")
	}
	if d.MACAddress != "" {
		sb.WriteString(theme.Muted.Render("mac:    ") + d.MACAddress + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("a: add  e: edit  x: delete  r: refresh"))
	return sb.String()
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
		devices, err := m.port.List(ctx)
		return loadedMsg{seq: seq, devices: devices, err: err}
	}
}

func (m *Model) add(name, typ string) tea.Cmd {
	ctx, seq := m.nextCtx()
	return func() tea.Msg {
		devices, err := m.port.Add(ctx, name, typ)
		return mutatedMsg{seq: seq, verb: "add", devices: devices, err: err}
	}
}

func (m *Model) rename(id, name, typ string) tea.Cmd {
	ctx, seq := m.nextCtx()
	return func() tea.Msg {
		devices, err := m.port.Update(ctx, id, name, typ)
		return mutatedMsg{seq: seq, verb: "update", devices: devices, err: err}
	}
}

func (m *Model) remove(id string) tea.Cmd {
	ctx, seq := m.nextCtx()
	return func() tea.Msg {
		devices, err := m.port.Remove(ctx, id)
		return mutatedMsg{seq: seq, verb: "delete", devices: devices, err: err}
	}
}

func (m *Model) reportErr(verb string, err error) tea.Cmd {
	if errors.Is(err, apperrors.ErrSessionExpired) || errors.Is(err, apperrors.ErrUnauthenticated) {
		return func() tea.Msg { return components.SessionExpiredMsg{} }
	}
	m.status = verb + " failed: " + err.Error()
	return nil
}

// AddDevice registers a device from the command palette.
func (m *Model) AddDevice(name, deviceType string) tea.Cmd {
	return m.add(name, deviceType)
}

// RemoveDevice deletes a device from the command palette.
func (m *Model) RemoveDevice(id string) tea.Cmd {
	return m.remove(id)
}
