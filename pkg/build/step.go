package build

import (
	"context"
	"fmt"

	"github.com/olimci/hyoushi/pkg/events"
	"github.com/olimci/hyoushi/pkg/manifest"
)

type StepContext struct {
	Ctx      context.Context
	Manifest *manifest.Manifest
	Options  *Options
	StepID   string // the ID of the step, for event attribution

	events events.Handler
}

func (sc *StepContext) report(level events.Level, source, message string, err error) {
	sc.events.Handle(events.Event{
		Level:   level,
		Step:    sc.StepID,
		Source:  source,
		Message: message,
		Error:   err,
	})
}

// Debug reports a debug-level event. For verbose troubleshooting info.
func (sc *StepContext) Debug(source, message string) {
	sc.report(events.Debug, source, message, nil)
}

func (sc *StepContext) Debugf(source, format string, args ...any) {
	sc.Debug(source, fmt.Sprintf(format, args...))
}

// Info reports general progress.
func (sc *StepContext) Info(source, message string) {
	sc.report(events.Info, source, message, nil)
}

func (sc *StepContext) Infof(source, format string, args ...any) {
	sc.Info(source, fmt.Sprintf(format, args...))
}

// Warn reports something that went wrong without stopping the build.
func (sc *StepContext) Warn(source, message string, err error) {
	sc.report(events.Warn, source, message, err)
}

func (sc *StepContext) Warnf(source, format string, args ...any) {
	sc.Warn(source, fmt.Sprintf(format, args...), nil)
}

// Error reports an error event. It returns nil when errors are lenient (the
// event is demoted to a warning) and the error to fail the step with
// otherwise.
func (sc *StepContext) Error(source, message string, err error) error {
	if sc.Options.Lenient() {
		sc.report(events.Warn, source, message, err)
		return nil
	}

	sc.report(events.Error, source, message, err)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", source, message, err)
	}
	return fmt.Errorf("%s: %s", source, message)
}

func (sc *StepContext) Errorf(source, format string, args ...any) error {
	return sc.Error(source, fmt.Sprintf(format, args...), nil)
}

type Step struct {
	ID   string
	Deps []string
	Fn   func(*StepContext) error
}

func StepFunc(id string, fn func(*StepContext) error, deps ...string) Step {
	if deps == nil {
		deps = []string{}
	}

	return Step{
		ID:   id,
		Deps: deps,
		Fn:   fn,
	}
}
