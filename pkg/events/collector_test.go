package events

import (
	"errors"
	"sync"
	"testing"
)

func TestCollector(t *testing.T) {
	var forwarded int
	c := NewCollector(HandlerFunc(func(Event) { forwarded++ }))

	c.Handle(Event{Level: Debug, Message: "walked content"})
	c.Handle(Event{Level: Info, Message: "rendered 3 pages"})
	c.Handle(Event{Level: Warn, Source: "posts/a.md", Message: "no lead"})
	c.Handle(Event{Level: Error, Source: "posts/b.md", Message: "bad date", Error: errors.New("parse")})

	if forwarded != 4 {
		t.Errorf("forwarded %d events, want 4", forwarded)
	}
	if got := len(c.AtLevel(Warn)); got != 2 {
		t.Errorf("AtLevel(Warn) = %d events, want 2", got)
	}
	if !c.HasLevel(Error) {
		t.Error("HasLevel(Error) = false, want true")
	}

	s := c.Summary()
	if s.Errors() != 1 {
		t.Errorf("Summary().Errors() = %d, want 1", s.Errors())
	}
	if got, want := s.String(), "1 error, 1 warn, 1 info, 1 debug"; got != want {
		t.Errorf("Summary().String() = %q, want %q", got, want)
	}

	c.Clear()
	if c.HasLevel(Debug) {
		t.Error("expected no events after Clear")
	}
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector(nil)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Handle(Event{Level: Info})
		}()
	}
	wg.Wait()

	if got := len(c.Events()); got != 50 {
		t.Errorf("collected %d events, want 50", got)
	}
}

func TestEventString(t *testing.T) {
	e := Event{Source: "posts/a.md", Message: "bad date", Error: errors.New("parse")}
	if got, want := e.String(), "posts/a.md: bad date: parse"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
