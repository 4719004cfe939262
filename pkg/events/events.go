package events

import "fmt"

type Level uint8

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "event"
	}
}

// Event is a single report from a build step.
type Event struct {
	Level   Level
	Step    string // reporting step, empty for the runner itself
	Source  string // file or target the event concerns
	Message string
	Error   error
}

func (e Event) String() string {
	var prefix string
	if e.Source != "" {
		prefix = e.Source + ": "
	}
	if e.Error != nil {
		return fmt.Sprintf("%s%s: %v", prefix, e.Message, e.Error)
	}
	return prefix + e.Message
}

type Handler interface {
	Handle(event Event)
}
