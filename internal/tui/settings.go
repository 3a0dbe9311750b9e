package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomato/internal/cue"
	"github.com/sadopc/tomato/internal/engine"
	"github.com/sadopc/tomato/internal/preset"
	"github.com/sadopc/tomato/internal/store"
)

type settingsModel struct {
	engine   *engine.Engine
	store    *store.Store
	notifier *cue.Notifier
	width    int
	height   int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	customWork        *string
	customBreak       *string
	longBreakInterval *string
	longBreakMinutes  *string
	soundType         *string
	soundVolume       *string
}

func newSettingsModel(e *engine.Engine, s *store.Store, n *cue.Notifier) settingsModel {
	cw, cb, li, lm, st, sv := "", "", "", "", "", ""
	return settingsModel{
		engine:            e,
		store:             s,
		notifier:          n,
		customWork:        &cw,
		customBreak:       &cb,
		longBreakInterval: &li,
		longBreakMinutes:  &lm,
		soundType:         &st,
		soundVolume:       &sv,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Enter):
			return s.showForm()
		case key.Matches(km, keys.Preview):
			if err := s.notifier.Preview(); err != nil {
				return s, statusCmd(fmt.Sprintf("Sound error: %v", err), true)
			}
			return s, statusCmd("Sound: "+s.notifier.Sound, false)
		case key.Matches(km, keys.Sound):
			s.notifier.Sound = cue.NextSound(s.notifier.Sound)
			return s, tea.Batch(
				statusCmd("Sound: "+s.notifier.Sound, false),
				saveSetting(s.store, store.KeySoundType, s.notifier.Sound),
			)
		}
	}
	return s, nil
}

func intBetween(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	work, brk := s.engine.Presets().Custom()
	st := s.engine.State()

	*s.customWork = strconv.Itoa(work)
	*s.customBreak = strconv.Itoa(brk)
	*s.longBreakInterval = strconv.Itoa(st.LongBreakInterval)
	*s.longBreakMinutes = strconv.Itoa(st.LongBreakDurationSeconds / 60)
	*s.soundType = s.notifier.Sound
	*s.soundVolume = strconv.Itoa(s.notifier.Volume)

	soundOpts := make([]huh.Option[string], 0, len(cue.SoundTypes))
	for _, t := range cue.SoundTypes {
		soundOpts = append(soundOpts, huh.NewOption(t, t))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Custom work (min)").Value(s.customWork).
				Validate(intBetween(preset.MinWorkMinutes, preset.MaxWorkMinutes)),
			huh.NewInput().Title("Custom break (min)").Value(s.customBreak).
				Validate(intBetween(preset.MinBreakMinutes, preset.MaxBreakMinutes)),
		).Title("Custom preset"),
		huh.NewGroup(
			huh.NewInput().Title("Work sessions before long break").Value(s.longBreakInterval).
				Validate(intBetween(engine.MinLongBreakInterval, engine.MaxLongBreakInterval)),
			huh.NewInput().Title("Long break (min)").Value(s.longBreakMinutes).
				Validate(intBetween(engine.MinLongBreakMinutes, engine.MaxLongBreakMinutes)),
		).Title("Long break"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Sound").Options(soundOpts...).Value(s.soundType),
			huh.NewInput().Title("Volume (0-100)").Value(s.soundVolume).
				Validate(intBetween(0, 100)),
		).Title("Sound"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

// saveSettings applies the form values to the engine and notifier, then
// persists them.
func (s settingsModel) saveSettings() tea.Cmd {
	atoi := func(v string, fallback int) int {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		return fallback
	}

	presets := s.engine.Presets()
	oldWork, oldBreak := presets.Custom()
	work, brk := atoi(*s.customWork, oldWork), atoi(*s.customBreak, oldBreak)
	// Untouched defaults leave the custom preset unset.
	if presets.CustomSet() || work != oldWork || brk != oldBreak {
		work, brk = presets.SetCustom(work, brk)
	}
	if s.engine.State().PresetID == preset.Custom && (work != oldWork || brk != oldBreak) {
		s.engine.ApplyPreset(preset.Custom, engine.ApplyOptions{ResetPhase: true, Persist: true})
	}

	st := s.engine.State()
	s.engine.SetLongBreak(
		atoi(*s.longBreakInterval, st.LongBreakInterval),
		atoi(*s.longBreakMinutes, st.LongBreakDurationSeconds/60),
	)
	st = s.engine.State()

	if cue.ValidSound(*s.soundType) {
		s.notifier.Sound = *s.soundType
	}
	s.notifier.Volume = preset.Clamp(atoi(*s.soundVolume, s.notifier.Volume), 0, 100)

	values := map[string]int{
		store.KeyLongBreakInterval: st.LongBreakInterval,
		store.KeyLongBreakMinutes:  st.LongBreakDurationSeconds / 60,
		store.KeySoundVolume:       s.notifier.Volume,
	}
	if presets.CustomSet() {
		values[store.KeyCustomWorkMin] = work
		values[store.KeyCustomBreakMin] = brk
	}
	sound := s.notifier.Sound
	db := s.store

	return func() tea.Msg {
		for k, v := range values {
			if err := db.SetInt(k, v); err != nil {
				slog.Warn("save setting", "key", k, "err", err)
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
		}
		if err := db.SetSetting(store.KeySoundType, sound); err != nil {
			slog.Warn("save setting", "key", store.KeySoundType, "err", err)
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return statusMsg{text: "Settings saved"}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	st := s.engine.State()
	pr, _ := s.engine.Presets().Resolve(st.PresetID)
	work, brk := s.engine.Presets().Custom()

	items := []struct{ label, value string }{
		{"Preset", pr.Label},
		{"Custom preset", fmt.Sprintf("%d / %d min", work, brk)},
		{"Long break every", fmt.Sprintf("%d work sessions", st.LongBreakInterval)},
		{"Long break length", fmt.Sprintf("%d min", st.LongBreakDurationSeconds/60)},
		{"Sound", s.notifier.Sound},
		{"Volume", fmt.Sprintf("%d%%", s.notifier.Volume)},
		{"Sessions stored", fmt.Sprintf("%d / %d", s.engine.History().Len(), s.engine.History().Limit())},
	}

	rows := []string{title, ""}
	for _, it := range items {
		label := lipgloss.NewStyle().Width(24).Render(it.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it.value)))
	}
	rows = append(rows, "", mutedStyle.Render("enter: edit settings  n: next sound  b: preview sound"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
