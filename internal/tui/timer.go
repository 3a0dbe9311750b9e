package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/tomato/internal/engine"
	"github.com/sadopc/tomato/internal/history"
	"github.com/sadopc/tomato/internal/store"
)

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// handleTick advances the engine and, on completion, rings the cue and
// persists the finished session.
func (a App) handleTick(now time.Time) (App, tea.Cmd) {
	ev := a.engine.Advance(now)
	if ev.Type != engine.EventComplete {
		return a, nil
	}

	note, err := a.notifier.Complete(ev)
	if err != nil {
		slog.Warn("completion cue", "err", err)
	}
	slog.Info("phase complete",
		"phase", ev.EndedPhase,
		"long_break", ev.WasLongBreak,
		"next", ev.NextPhase,
		"long_break_next", ev.LongBreakNext,
	)

	a.reports.refresh()

	cmds := []tea.Cmd{statusCmd(note.String(), false)}
	if ev.Record != nil {
		cmds = append(cmds, persistCompletion(a.store, *ev.Record, a.engine.Stats()))
	}
	return a, tea.Batch(cmds...)
}

// persistCompletion writes the session record and counters. Failures are
// logged and reported; the in-memory state is kept either way.
func persistCompletion(s *store.Store, r history.Record, stats engine.Stats) tea.Cmd {
	return func() tea.Msg {
		if err := s.AppendSession(r); err != nil {
			slog.Warn("persist session", "err", err)
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		if err := s.SaveStats(stats.WorkCompleted, stats.BreakCompleted, stats.ConsecutiveWorkSessions); err != nil {
			slog.Warn("persist stats", "err", err)
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return nil
	}
}

func saveSetting(s *store.Store, key, value string) tea.Cmd {
	return func() tea.Msg {
		if err := s.SetSetting(key, value); err != nil {
			slog.Warn("save setting", "key", key, "err", err)
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return nil
	}
}
