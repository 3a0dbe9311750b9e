package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomato/internal/engine"
	"github.com/sadopc/tomato/internal/store"
)

// pomodoroModel renders the countdown and handles the timer controls.
type pomodoroModel struct {
	engine *engine.Engine
	store  *store.Store
	now    func() time.Time
	width  int
	height int
}

func newPomodoroModel(e *engine.Engine, s *store.Store, now func() time.Time) pomodoroModel {
	return pomodoroModel{engine: e, store: s, now: now}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(km, keys.Toggle):
		p.engine.Toggle(p.now())
		if p.engine.Running() {
			return p, statusCmd("Timer started", false)
		}
		return p, statusCmd("Timer paused", false)

	case key.Matches(km, keys.Reset):
		p.engine.ResetCurrentPhase()
		st := p.engine.State()
		return p, statusCmd(st.Phase.Label(false)+" timer reset.", false)

	case key.Matches(km, keys.Switch):
		p.engine.SwitchPhase()
		st := p.engine.State()
		return p, statusCmd(fmt.Sprintf("Switched to %s phase.", st.Phase), false)

	case key.Matches(km, keys.Preset):
		next := p.engine.Presets().Next(p.engine.State().PresetID)
		opts := engine.ApplyOptions{ResetPhase: true, Persist: true}
		if !p.engine.ApplyPreset(next, opts) {
			return p, nil
		}
		pr, _ := p.engine.Presets().Resolve(next)
		cmds := []tea.Cmd{statusCmd(fmt.Sprintf("Preset changed to %s.", pr.Label), false)}
		if opts.Persist {
			cmds = append(cmds, saveSetting(p.store, store.KeyPresetID, next))
		}
		return p, tea.Batch(cmds...)
	}
	return p, nil
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	st := p.engine.State()
	pr, _ := p.engine.Presets().Resolve(st.PresetID)

	accent := lipgloss.NewStyle().Bold(true).Foreground(phaseColor(st.Phase == engine.PhaseWork, st.IsLongBreak))

	phaseLabel := accent.Render(strings.ToUpper(st.Phase.Label(st.IsLongBreak)))
	timeDisplay := accent.Width(max(w-6, 5)).Align(lipgloss.Center).Render(formatClock(st.RemainingSeconds))

	var indicator string
	switch {
	case st.Running:
		indicator = successStyle.Render("● running")
	case st.SessionStart != nil:
		indicator = warningStyle.Render("⏸ paused")
	default:
		indicator = mutedStyle.Render("Press space to begin")
	}

	presetLine := mutedStyle.Render("Preset ") + highlightStyle.Render(pr.Label)
	counts := mutedStyle.Render(fmt.Sprintf("Completed: %d work · %d break", st.WorkCompleted, st.BreakCompleted))

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Pomodoro"),
		"",
		timeDisplay,
		phaseLabel,
		"",
		renderProgressBar(p.engine.Progress(), min(max(w-10, 10), 50)),
		"",
		renderCycle(st),
		indicator,
		"",
		presetLine,
		counts,
	)

	controls := mutedStyle.Render("space: start/pause  r: reset  s: switch  p: preset")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func renderProgressBar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(frac*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	bar := lipgloss.NewStyle().Foreground(colorPrimary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorSubtle).Render(strings.Repeat("░", width-filled))
	return bar + mutedStyle.Render(fmt.Sprintf(" %3d%%", int(frac*100)))
}

// renderCycle shows work sessions completed towards the next long break.
func renderCycle(st engine.State) string {
	if st.LongBreakInterval <= 0 {
		return ""
	}
	done := st.ConsecutiveWorkSessions % st.LongBreakInterval
	if st.IsLongBreak {
		done = st.LongBreakInterval
	}
	var parts []string
	for i := 0; i < st.LongBreakInterval; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && st.Phase == engine.PhaseWork:
			parts = append(parts, lipgloss.NewStyle().Foreground(colorWork).Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", done, st.LongBreakInterval))
	return strings.Join(parts, " ") + counter
}
