package events

import (
	"fmt"
	"strings"
)

type Summary struct {
	Counts   [Error + 1]int
	Problems []Event
}

func (s Summary) Errors() int {
	return s.Counts[Error]
}

func (s Summary) String() string {
	var parts []string
	for _, level := range []Level{Error, Warn, Info, Debug} {
		if n := s.Counts[level]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, level))
		}
	}
	if len(parts) == 0 {
		return "no events"
	}
	return strings.Join(parts, ", ")
}
