// Package cue turns phase completions into user-facing signals: a terminal
// bell pattern for the configured sound and a short notification text.
package cue

import (
	"fmt"
	"io"
	"strings"

	"github.com/sadopc/tomato/internal/engine"
)

// Sound types.
const (
	SoundNone       = "none"
	SoundBeep       = "beep"
	SoundGentle     = "gentle"
	SoundDouble     = "double"
	SoundDescending = "descending"
)

// SoundTypes lists every sound in cycle order.
var SoundTypes = []string{SoundNone, SoundBeep, SoundGentle, SoundDouble, SoundDescending}

var bells = map[string]int{
	SoundNone:       0,
	SoundBeep:       1,
	SoundGentle:     1,
	SoundDouble:     2,
	SoundDescending: 3,
}

// ValidSound reports whether name is a known sound type.
func ValidSound(name string) bool {
	_, ok := bells[name]
	return ok
}

// Pattern returns the bell sequence for a sound at the given volume.
// Unknown types and a zero volume are silent.
func Pattern(sound string, volume int) string {
	if volume <= 0 {
		return ""
	}
	return strings.Repeat("\a", bells[sound])
}

// Notification is the text shown when a phase completes.
type Notification struct {
	Title string
	Body  string
}

func (n Notification) String() string {
	return fmt.Sprintf("%s. %s", n.Title, n.Body)
}

// For builds the notification for a completion event.
func For(ev engine.Event) Notification {
	if ev.EndedPhase == engine.PhaseWork {
		return Notification{Title: "Work complete", Body: "Time for a break."}
	}
	return Notification{Title: "Break complete", Body: "Time for focus."}
}

// Notifier writes bell patterns to a terminal.
type Notifier struct {
	w      io.Writer
	Sound  string
	Volume int
}

func NewNotifier(w io.Writer, sound string, volume int) *Notifier {
	return &Notifier{w: w, Sound: sound, Volume: volume}
}

// Complete signals a completion event and returns its notification.
// EventNone and EventProgress produce nothing.
func (n *Notifier) Complete(ev engine.Event) (Notification, error) {
	if ev.Type != engine.EventComplete {
		return Notification{}, nil
	}
	if err := n.ring(); err != nil {
		return For(ev), fmt.Errorf("ring bell: %w", err)
	}
	return For(ev), nil
}

// Preview plays the configured sound once.
func (n *Notifier) Preview() error {
	return n.ring()
}

func (n *Notifier) ring() error {
	p := Pattern(n.Sound, n.Volume)
	if p == "" || n.w == nil {
		return nil
	}
	_, err := io.WriteString(n.w, p)
	return err
}

// NextSound returns the sound after name in SoundTypes, wrapping around.
func NextSound(name string) string {
	for i, s := range SoundTypes {
		if s == name {
			return SoundTypes[(i+1)%len(SoundTypes)]
		}
	}
	return SoundTypes[0]
}
