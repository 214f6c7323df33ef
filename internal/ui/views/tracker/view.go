package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackdto "pdtrack/internal/modules/tracking/dto"
	apperrors "pdtrack/internal/platform/errors"
	"pdtrack/internal/ui/components"
	"pdtrack/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TrackingPort interface {
	Record(ctx context.Context) (trackdto.RecordOutput, error)
	History(ctx context.Context, day string) ([]trackdto.ShakePointOutput, error)
	LogMedication(ctx context.Context) error
	MedicationResponses(ctx context.Context) ([]trackdto.MedicationResponseOutput, error)
	Train(ctx context.Context) error
	Predict(ctx context.Context) (trackdto.PredictionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type historyMsg struct {
	seq    int
	day    string
	points []trackdto.ShakePointOutput
	err    error
}

type recordedMsg struct {
	seq int
	out trackdto.RecordOutput
	err error
}

type responsesMsg struct {
	seq       int
	responses []trackdto.MedicationResponseOutput
	err       error
}

type medLoggedMsg struct {
	seq int
	err error
}

type trainedMsg struct {
	seq int
	err error
}

type predictedMsg struct {
	seq int
	out trackdto.PredictionOutput
	err error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    TrackingPort
	spinner spinner.Model
	loading bool

	day        string
	points     []trackdto.ShakePointOutput
	responses  []trackdto.MedicationResponseOutput
	prediction trackdto.PredictionOutput
	hasPredict bool
	lastRate   float64
	hasRate    bool

	status string

	// Two independent request streams: history/record both write the
	// shake-by-minute series, the rest write the analysis pane. Each stream
	// tags its calls with a seq; only the newest response per stream wins.
	histSeq    int
	histCancel context.CancelFunc
	opSeq      int
	opCancel   context.CancelFunc

	width  int
	height int
}

func New(port TrackingPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	bg := context.Background()
	return tea.Batch(
		m.loadHistory(bg, "", m.histSeq),
		m.loadResponses(bg, m.opSeq),
		m.spinner.Tick,
	)
}

// Filtering always reports false; the tracker has no text entry.
func (m Model) Filtering() bool { return false }

// RecordSample triggers one synthetic tremor sample upload.
func (m *Model) RecordSample() tea.Cmd { return m.record() }

// LoadHistory fetches shake-by-minute data for the given day ("" means today).
func (m *Model) LoadHistory(day string) tea.Cmd { return m.fetchHistory(day) }

// LogMedication posts an intake event and refreshes the response analysis.
func (m *Model) LogMedication() tea.Cmd { return m.logMedication() }

// Train asks the server to retrain the progress model.
func (m *Model) Train() tea.Cmd { return m.train() }

// Predict fetches the latest progress prediction.
func (m *Model) Predict() tea.Cmd { return m.predict() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case historyMsg:
		if msg.seq != m.histSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m, m.reportErr("history", msg.err)
		}
		m.day = msg.day
		m.points = msg.points
		return m, nil

	case recordedMsg:
		if msg.seq != m.histSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.reportErr("record", msg.err)
		}
		m.lastRate = msg.out.ShakePerMinute
		m.hasRate = true
		m.points = msg.out.History
		m.status = fmt.Sprintf("sample recorded, %.2f shakes/min", msg.out.ShakePerMinute)
		return m, nil

	case responsesMsg:
		if msg.seq != m.opSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.reportErr("responses", msg.err)
		}
		m.responses = msg.responses
		return m, nil

	case medLoggedMsg:
		if msg.seq != m.opSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.reportErr("med log", msg.err)
		}
		m.status = "medication logged"
		return m, m.fetchResponses()

	case trainedMsg:
		if msg.seq != m.opSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.reportErr("train", msg.err)
		}
		m.status = "training started"
		return m, nil

	case predictedMsg:
		if msg.seq != m.opSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.reportErr("predict", msg.err)
		}
		m.prediction = msg.out
		m.hasPredict = true
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.record()
		case "m":
			return m, m.logMedication()
		case "t":
			return m, m.train()
		case "p":
			return m, m.predict()
		case "h":
			return m, m.fetchHistory(m.day)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading tremor data…")
	}

	halfW := m.width / 2

	left := theme.Pane.Width(halfW - 2).Height(m.height - 2).Render(m.renderHistory())
	right := theme.Pane.Width(m.width - halfW - 2).Height(m.height - 2).Render(m.renderAnalysis())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderHistory() string {
	var sb strings.Builder
	title := "Shake by minute"
	if m.day != "" {
		title += " · " + m.day
	}
	sb.WriteString(theme.Title.Render(title) + "\n\n")

	if len(m.points) == 0 {
		sb.WriteString(theme.Muted.Render("no readings yet, press r to record a sample") + "\n")
	} else {
		peak := 0.0
		for _, p := range m.points {
			if p.Value > peak {
				peak = p.Value
			}
		}
		barW := m.width/2 - 20
		if barW < 8 {
			barW = 8
		}
		start := 0
		if len(m.points) > 16 {
			start = len(m.points) - 16
		}
		for _, p := range m.points[start:] {
			n := 0
			if peak > 0 {
				n = int(p.Value / peak * float64(barW))
			}
			bar := strings.Repeat("█", n)
			sb.WriteString(fmt.Sprintf("%s %s %.1f\n",
				theme.Muted.Render(p.Bucket), theme.Hot.Render(bar), p.Value))
		}
	}

	if m.hasRate {
		sb.WriteString("\n" + theme.Muted.Render("last sample: ") +
			fmt.Sprintf("%.2f shakes/min", m.lastRate) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("r: record  h: refresh  m: log med  t: train  p: predict"))
	return sb.String()
}

func (m Model) renderAnalysis() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Medication response") + "\n\n")
	if len(m.responses) == 0 {
		sb.WriteString(theme.Muted.Render("no medication events analysed yet") + "\n")
	} else {
		for _, r := range m.responses {
			marker := theme.Bad.Render("✗")
			if r.Effective {
				marker = theme.Good.Render("✓")
			}
			sb.WriteString(fmt.Sprintf("%s %s  before %.2f → after %.2f (%+.2f)\n",
				marker, r.MedTime.Format("Jan 02 15:04"), r.BeforeAvg, r.AfterAvg, r.Delta))
		}
	}

	sb.WriteString("\n" + theme.Title.Render("Progress outlook") + "\n\n")
	if m.hasPredict {
		line := fmt.Sprintf("%s: %s (p=%.2f)", m.prediction.Date, m.prediction.Prediction, m.prediction.ProbabilityBetter)
		sb.WriteString(line + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("press p to fetch a prediction") + "\n")
	}

	if m.status != "" {
		sb.WriteString("\n" + theme.Muted.Render(m.status) + "\n")
	}
	return sb.String()
}

func (m *Model) nextHistCtx() (context.Context, int) {
	if m.histCancel != nil {
		m.histCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.histCancel = cancel
	m.histSeq++
	return ctx, m.histSeq
}

func (m *Model) nextOpCtx() (context.Context, int) {
	if m.opCancel != nil {
		m.opCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.opCancel = cancel
	m.opSeq++
	return ctx, m.opSeq
}

func (m *Model) fetchHistory(day string) tea.Cmd {
	ctx, seq := m.nextHistCtx()
	return m.loadHistory(ctx, day, seq)
}

func (m Model) loadHistory(ctx context.Context, day string, seq int) tea.Cmd {
	return func() tea.Msg {
		points, err := m.port.History(ctx, day)
		return historyMsg{seq: seq, day: day, points: points, err: err}
	}
}

func (m *Model) record() tea.Cmd {
	ctx, seq := m.nextHistCtx()
	return func() tea.Msg {
		out, err := m.port.Record(ctx)
		return recordedMsg{seq: seq, out: out, err: err}
	}
}

func (m *Model) fetchResponses() tea.Cmd {
	ctx, seq := m.nextOpCtx()
	return m.loadResponses(ctx, seq)
}

func (m Model) loadResponses(ctx context.Context, seq int) tea.Cmd {
	return func() tea.Msg {
		responses, err := m.port.MedicationResponses(ctx)
		return responsesMsg{seq: seq, responses: responses, err: err}
	}
}

func (m *Model) logMedication() tea.Cmd {
	ctx, seq := m.nextOpCtx()
	return func() tea.Msg {
		return medLoggedMsg{seq: seq, err: m.port.LogMedication(ctx)}
	}
}

func (m *Model) train() tea.Cmd {
	ctx, seq := m.nextOpCtx()
	return func() tea.Msg {
		return trainedMsg{seq: seq, err: m.port.Train(ctx)}
	}
}

func (m *Model) predict() tea.Cmd {
	ctx, seq := m.nextOpCtx()
	return func() tea.Msg {
		out, err := m.port.Predict(ctx)
		return predictedMsg{seq: seq, out: out, err: err}
	}
}

func (m *Model) reportErr(verb string, err error) tea.Cmd {
	if errors.Is(err, apperrors.ErrSessionExpired) || errors.Is(err, apperrors.ErrUnauthenticated) {
		return func() tea.Msg { return components.SessionExpiredMsg{} }
	}
	m.status = verb + " failed: " + err.Error()
	return nil
}

// LoadResponses refreshes the medication response analysis.
func (m *Model) LoadResponses() tea.Cmd { return m.fetchResponses() }
