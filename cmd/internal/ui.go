package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/olimci/hyoushi/pkg/events"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	urlStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Underline(true)
	levelStyles = map[events.Level]lipgloss.Style{
		events.Debug: mutedStyle,
		events.Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")),
		events.Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
		events.Error: errStyle,
	}
)

type UI struct {
	interactive bool
	logger      *log.Logger
}

func NewUI(interactive bool, logger *log.Logger) *UI {
	return &UI{
		interactive: interactive,
		logger:      logger,
	}
}

func (ui *UI) IsInteractive() bool {
	return ui.interactive
}

func (ui *UI) NewModel(baseURL string, buildRequests chan<- BuildRequest) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(mutedStyle))
	return model{
		baseURL:       baseURL,
		buildRequests: buildRequests,
		spinner:       sp,
		maxLines:      14,
	}
}

// LogEvent reports a message outside of a build.
func (ui *UI) LogEvent(message string) {
	if !ui.interactive {
		ui.logger.Info(message)
	}
}

// LogResult prints a finished build, for the non-interactive mode. Events
// have already been logged as they happened.
func (ui *UI) LogResult(r BuildResult) {
	if r.Error != nil {
		ui.logger.Error("build failed", "number", r.Number, "took", r.Duration.Truncate(time.Millisecond), "reason", r.Reason, "err", r.Error)
	} else {
		ui.logger.Info("build ok", "number", r.Number, "took", r.Duration.Truncate(time.Millisecond), "reason", r.Reason, "events", summaryString(r.Summary))
	}
	if len(r.Paths) > 0 {
		ui.logger.Debug("changes", "paths", strings.Join(r.Paths, ", "))
	}
}

func summaryString(s *events.Summary) string {
	if s == nil {
		return "no events"
	}
	return s.String()
}

func formatEvent(e events.Event) string {
	label := e.Level.String()
	if style, ok := levelStyles[e.Level]; ok {
		label = style.Render(fmt.Sprintf("%-5s", label))
	}
	if e.Step != "" {
		return fmt.Sprintf("%s %s %s", label, mutedStyle.Render("["+e.Step+"]"), e)
	}
	return fmt.Sprintf("%s %s", label, e)
}

type model struct {
	baseURL       string
	buildRequests chan<- BuildRequest
	spinner       spinner.Model
	maxLines      int

	buildCount  int
	building    bool
	lastReason  string
	lastDur     time.Duration
	lastErr     string
	lastSummary string
	lastChanged []string

	logs []string
}

type logMsg string

type eventMsg events.Event

type buildResultMsg BuildResult

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.KeyMsg:
		switch x.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			select {
			case m.buildRequests <- BuildRequest{Reason: "manual rebuild"}:
				m.appendLog("queued rebuild: manual")
			default:
				m.appendLog("rebuild skipped: request queue full")
			}
			return m, nil
		case "c":
			m.logs = nil
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(x)
		return m, cmd

	case logMsg:
		m.appendLog(string(x))
		return m, nil

	case eventMsg:
		if x.Level >= events.Info {
			m.appendLog(formatEvent(events.Event(x)))
		}
		return m, nil

	case BuildStartedMsg:
		m.building = true
		m.lastReason = x.Reason
		m.buildCount = x.Number
		return m, nil

	case buildResultMsg:
		m.building = false
		m.buildCount = x.Number
		m.lastReason = x.Reason
		m.lastDur = x.Duration
		m.lastChanged = x.Paths
		m.lastSummary = summaryString(x.Summary)

		if x.Error != nil {
			m.lastErr = x.Error.Error()
			m.appendLog(errStyle.Render(fmt.Sprintf("ERR  build #%d in %s", x.Number, x.Duration.Truncate(time.Millisecond))))
		} else {
			m.lastErr = ""
			m.appendLog(okStyle.Render(fmt.Sprintf("OK   build #%d in %s", x.Number, x.Duration.Truncate(time.Millisecond))))
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var status string
	switch {
	case m.building:
		status = m.spinner.View() + " building"
	case m.lastErr != "":
		status = errStyle.Render("error")
	default:
		status = okStyle.Render("ready")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", titleStyle.Render("hyoushi dev"), status, urlStyle.Render(m.baseURL))

	switch {
	case m.buildCount == 0:
		b.WriteString("last build: (none yet)\n")
	case m.lastErr != "":
		fmt.Fprintf(&b, "last build: #%d failed in %s  reason: %s\n", m.buildCount, m.lastDur.Truncate(time.Millisecond), m.lastReason)
		b.WriteString(errStyle.Render(m.lastErr) + "\n")
	default:
		fmt.Fprintf(&b, "last build: #%d in %s  reason: %s  [%s]\n", m.buildCount, m.lastDur.Truncate(time.Millisecond), m.lastReason, m.lastSummary)
	}

	if len(m.lastChanged) > 0 {
		b.WriteString("changes:   " + strings.Join(m.lastChanged, ", ") + "\n")
	}

	b.WriteString("\n")
	for _, line := range m.logs {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render("\nkeys: r rebuild   c clear   q quit") + "\n")
	return b.String()
}

func (m *model) appendLog(s string) {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return
	}
	m.logs = append(m.logs, s)
	if len(m.logs) > m.maxLines {
		m.logs = m.logs[len(m.logs)-m.maxLines:]
	}
}
