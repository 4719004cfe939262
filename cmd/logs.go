package cmd

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/olimci/hyoushi/pkg/events"
)

// newLogger returns the CLI logger. Terminals get the styled text formatter,
// anything else gets logfmt.
func newLogger(out io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if !isTerminal(out) {
		logger.SetFormatter(log.LogfmtFormatter)
		return logger
	}

	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = levelStyle("DEBUG", "#6c7086")
	styles.Levels[log.InfoLevel] = levelStyle("INFO", "#89b4fa")
	styles.Levels[log.WarnLevel] = levelStyle("WARN", "#f9e2af")
	styles.Levels[log.ErrorLevel] = levelStyle("ERROR", "#f38ba8")
	styles.Prefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	logger.SetStyles(styles)
	return logger
}

func levelStyle(label, color string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		MaxWidth(5).
		Foreground(lipgloss.Color(color))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func logSummary(logger *log.Logger, s *events.Summary, took time.Duration, output string) {
	kv := []any{"took", took.Truncate(time.Millisecond), "output", output}
	if s != nil {
		kv = append(kv, "events", s.String())
	}

	if s != nil && s.Counts[events.Warn] > 0 {
		logger.Warn("build finished with warnings", kv...)
		return
	}
	logger.Info("build finished", kv...)
}
