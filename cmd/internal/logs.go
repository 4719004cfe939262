package internal

import (
	"github.com/charmbracelet/log"
	"github.com/olimci/hyoushi/pkg/events"
)

// EventLogger adapts logger to an events.Handler. Each event is logged with
// its step as the prefix.
func EventLogger(logger *log.Logger) events.Handler {
	return events.HandlerFunc(func(e events.Event) {
		logEvent(logger, e)
	})
}

func logEvent(logger *log.Logger, e events.Event) {
	l := logger
	if e.Step != "" {
		l = logger.WithPrefix(e.Step)
	}

	kv := make([]any, 0, 4)
	if e.Source != "" {
		kv = append(kv, "source", e.Source)
	}
	if e.Error != nil {
		kv = append(kv, "err", e.Error)
	}

	switch e.Level {
	case events.Debug:
		l.Debug(e.Message, kv...)
	case events.Info:
		l.Info(e.Message, kv...)
	case events.Warn:
		l.Warn(e.Message, kv...)
	default:
		l.Error(e.Message, kv...)
	}
}
