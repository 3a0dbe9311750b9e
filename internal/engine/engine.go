// Package engine implements the Pomodoro phase state machine. Time is always
// passed in by the caller; the engine never reads the clock or performs I/O.
package engine

import (
	"time"

	"github.com/sadopc/tomato/internal/history"
	"github.com/sadopc/tomato/internal/preset"
)

// Long-break bounds.
const (
	MinLongBreakInterval = 2
	MaxLongBreakInterval = 10
	MinLongBreakMinutes  = 5
	MaxLongBreakMinutes  = 60

	DefaultLongBreakInterval = 4
	DefaultLongBreakMinutes  = 15
)

// State is a snapshot of the engine.
type State struct {
	PresetID string
	Phase    Phase
	Running  bool

	RemainingSeconds     int
	WorkDurationSeconds  int
	BreakDurationSeconds int

	IsLongBreak              bool
	ConsecutiveWorkSessions  int
	LongBreakInterval        int
	LongBreakDurationSeconds int

	WorkCompleted  int
	BreakCompleted int

	AnchorEpochMs *int64     // nil while paused
	SessionStart  *time.Time // set while a phase is in progress
}

// Stats are the counters persisted between runs.
type Stats struct {
	WorkCompleted           int
	BreakCompleted          int
	ConsecutiveWorkSessions int
}

// Config contains the settings an Engine starts from.
type Config struct {
	PresetID          string
	LongBreakInterval int
	LongBreakMinutes  int
	Stats             Stats
}

// ApplyOptions controls ApplyPreset.
type ApplyOptions struct {
	// ResetPhase forces the Work phase at full duration and stops the timer.
	ResetPhase bool
	// Persist is a hint for the caller; the engine ignores it.
	Persist bool
}

// Engine owns the state of one timer. It is not safe for concurrent use.
type Engine struct {
	presets *preset.Table
	log     *history.Log

	st          State
	anchorFresh bool
}

// New creates an engine. Unknown preset ids fall back to the classic preset.
func New(presets *preset.Table, log *history.Log, cfg Config) *Engine {
	if log == nil {
		log = history.NewLog(history.DefaultLimit)
	}
	if cfg.LongBreakInterval == 0 {
		cfg.LongBreakInterval = DefaultLongBreakInterval
	}
	if cfg.LongBreakMinutes == 0 {
		cfg.LongBreakMinutes = DefaultLongBreakMinutes
	}

	e := &Engine{presets: presets, log: log}
	e.st.Phase = PhaseWork
	e.st.WorkCompleted = max(0, cfg.Stats.WorkCompleted)
	e.st.BreakCompleted = max(0, cfg.Stats.BreakCompleted)
	e.st.ConsecutiveWorkSessions = max(0, cfg.Stats.ConsecutiveWorkSessions)
	e.SetLongBreak(cfg.LongBreakInterval, cfg.LongBreakMinutes)

	if !e.ApplyPreset(cfg.PresetID, ApplyOptions{ResetPhase: true}) {
		e.ApplyPreset(preset.Classic, ApplyOptions{ResetPhase: true})
	}
	return e
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	s := e.st
	if s.AnchorEpochMs != nil {
		v := *s.AnchorEpochMs
		s.AnchorEpochMs = &v
	}
	if s.SessionStart != nil {
		v := *s.SessionStart
		s.SessionStart = &v
	}
	return s
}

func (e *Engine) Stats() Stats {
	return Stats{
		WorkCompleted:           e.st.WorkCompleted,
		BreakCompleted:          e.st.BreakCompleted,
		ConsecutiveWorkSessions: e.st.ConsecutiveWorkSessions,
	}
}

func (e *Engine) History() *history.Log { return e.log }
func (e *Engine) Presets() *preset.Table { return e.presets }
func (e *Engine) Running() bool          { return e.st.Running }

// PhaseDuration returns the full length of phase in seconds. A break uses
// the long-break duration while the long-break flag is set.
func (e *Engine) PhaseDuration(phase Phase) int {
	if phase == PhaseBreak && e.st.IsLongBreak {
		return e.st.LongBreakDurationSeconds
	}
	if phase == PhaseWork {
		return e.st.WorkDurationSeconds
	}
	return e.st.BreakDurationSeconds
}

// Progress is the elapsed fraction of the active phase, in [0, 1].
func (e *Engine) Progress() float64 {
	total := e.PhaseDuration(e.st.Phase)
	if total <= 0 {
		return 0
	}
	p := float64(total-e.st.RemainingSeconds) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Start runs the timer from now.
func (e *Engine) Start(now time.Time) {
	if e.st.Running {
		return
	}
	if e.st.RemainingSeconds <= 0 {
		e.st.RemainingSeconds = e.PhaseDuration(e.st.Phase)
	}
	e.st.Running = true
	anchor := now.UnixMilli()
	e.st.AnchorEpochMs = &anchor
	e.anchorFresh = true
	if e.st.SessionStart == nil {
		start := now
		e.st.SessionStart = &start
	}
}

// Pause stops the timer but keeps the phase in progress.
func (e *Engine) Pause() {
	if !e.st.Running {
		return
	}
	e.stop()
}

// Toggle pauses a running timer or starts a stopped one.
func (e *Engine) Toggle(now time.Time) {
	if e.st.Running {
		e.Pause()
		return
	}
	e.Start(now)
}

// ResetCurrentPhase stops the timer and restores the full phase duration.
func (e *Engine) ResetCurrentPhase() {
	e.stop()
	e.st.SessionStart = nil
	e.st.RemainingSeconds = e.PhaseDuration(e.st.Phase)
}

// SwitchPhase flips to the other phase without recording anything.
func (e *Engine) SwitchPhase() {
	e.stop()
	e.st.SessionStart = nil
	e.st.IsLongBreak = false
	e.st.Phase = e.st.Phase.Opposite()
	e.st.RemainingSeconds = e.PhaseDuration(e.st.Phase)
}

// ApplyPreset switches to the preset id. It reports false, leaving the
// engine untouched, when id is unknown.
func (e *Engine) ApplyPreset(id string, opts ApplyOptions) bool {
	p, ok := e.presets.Resolve(id)
	if !ok {
		return false
	}
	e.st.PresetID = id
	e.st.WorkDurationSeconds = p.WorkSeconds
	e.st.BreakDurationSeconds = p.BreakSeconds

	if opts.ResetPhase {
		e.stop()
		e.st.SessionStart = nil
		e.st.IsLongBreak = false
		e.st.Phase = PhaseWork
		e.st.RemainingSeconds = e.st.WorkDurationSeconds
		return true
	}
	e.st.RemainingSeconds = e.PhaseDuration(e.st.Phase)
	return true
}

// SetLongBreak updates the long-break interval and duration, clamping both.
func (e *Engine) SetLongBreak(interval, minutes int) {
	e.st.LongBreakInterval = preset.Clamp(interval, MinLongBreakInterval, MaxLongBreakInterval)
	e.st.LongBreakDurationSeconds = preset.Clamp(minutes, MinLongBreakMinutes, MaxLongBreakMinutes) * 60
	if e.st.IsLongBreak && e.st.Phase == PhaseBreak &&
		e.st.RemainingSeconds > e.st.LongBreakDurationSeconds {
		e.st.RemainingSeconds = e.st.LongBreakDurationSeconds
	}
}

// Advance consumes the whole seconds elapsed since the anchor. The anchor
// moves by exactly the consumed seconds so sub-second remainders carry over.
// At most one phase completes per call.
func (e *Engine) Advance(now time.Time) Event {
	if !e.st.Running || e.st.AnchorEpochMs == nil {
		return Event{Type: EventNone, Remaining: e.st.RemainingSeconds, At: now}
	}
	nowMs := now.UnixMilli()
	if e.anchorFresh {
		e.anchorFresh = false
		*e.st.AnchorEpochMs = nowMs
		return Event{Type: EventNone, Remaining: e.st.RemainingSeconds, At: now}
	}

	elapsed := (nowMs - *e.st.AnchorEpochMs) / 1000
	if elapsed <= 0 {
		return Event{Type: EventNone, Remaining: e.st.RemainingSeconds, At: now}
	}

	e.st.RemainingSeconds -= int(elapsed)
	*e.st.AnchorEpochMs += elapsed * 1000

	if e.st.RemainingSeconds <= 0 {
		return e.complete(now)
	}
	return Event{Type: EventProgress, Remaining: e.st.RemainingSeconds, At: now}
}

func (e *Engine) complete(now time.Time) Event {
	ended := e.st.Phase
	wasLong := e.st.IsLongBreak
	duration := e.PhaseDuration(ended)

	e.stop()

	if ended == PhaseWork {
		e.st.WorkCompleted++
		e.st.ConsecutiveWorkSessions++
	} else {
		e.st.BreakCompleted++
	}

	start := now
	if e.st.SessionStart != nil {
		start = *e.st.SessionStart
	}
	rec := history.Record{
		Phase:           string(ended),
		IsLongBreak:     ended == PhaseBreak && wasLong,
		DurationSeconds: duration,
		StartTime:       start,
		EndTime:         now,
		PresetID:        e.st.PresetID,
		Completed:       true,
	}
	e.log.Append(rec)
	e.st.SessionStart = nil

	next := ended.Opposite()
	if next == PhaseBreak && e.st.ConsecutiveWorkSessions >= e.st.LongBreakInterval {
		e.st.IsLongBreak = true
		e.st.ConsecutiveWorkSessions = 0
		e.st.RemainingSeconds = e.st.LongBreakDurationSeconds
	} else {
		e.st.IsLongBreak = false
		if next == PhaseWork {
			e.st.RemainingSeconds = e.st.WorkDurationSeconds
		} else {
			e.st.RemainingSeconds = e.st.BreakDurationSeconds
		}
	}
	e.st.Phase = next

	return Event{
		Type:          EventComplete,
		Remaining:     e.st.RemainingSeconds,
		At:            now,
		EndedPhase:    ended,
		WasLongBreak:  wasLong,
		NextPhase:     next,
		LongBreakNext: e.st.IsLongBreak,
		Record:        &rec,
	}
}

func (e *Engine) stop() {
	e.st.Running = false
	e.st.AnchorEpochMs = nil
	e.anchorFresh = false
}
