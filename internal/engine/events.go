package engine

import (
	"time"

	"github.com/sadopc/tomato/internal/history"
)

// Phase is either the focus interval or the break interval.
type Phase string

const (
	PhaseWork  Phase = history.PhaseWork
	PhaseBreak Phase = history.PhaseBreak
)

// Opposite returns the phase that follows p.
func (p Phase) Opposite() Phase {
	if p == PhaseWork {
		return PhaseBreak
	}
	return PhaseWork
}

// Label is the display name of p, accounting for long breaks.
func (p Phase) Label(longBreak bool) string {
	switch {
	case p == PhaseWork:
		return "Work"
	case longBreak:
		return "Long Break"
	default:
		return "Break"
	}
}

// EventType defines the outcome of an Advance call.
type EventType string

const (
	EventNone     EventType = ""
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
)

// Event is returned by Advance. Completion fields are only set for
// EventComplete.
type Event struct {
	Type      EventType
	Remaining int
	At        time.Time

	EndedPhase    Phase
	WasLongBreak  bool
	NextPhase     Phase
	LongBreakNext bool
	Record        *history.Record
}
