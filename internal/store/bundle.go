package store

import (
	"fmt"
	"strconv"
)

// LoadBundle reads every setting and the session history. Missing or
// malformed values fall back to DefaultBundle; on error the defaults are
// returned alongside it so callers can keep running.
func (s *Store) LoadBundle() (Bundle, error) {
	b := DefaultBundle()

	settings, err := s.GetAllSettings()
	if err != nil {
		return b, fmt.Errorf("load bundle: %w", err)
	}
	values := make(map[string]string, len(settings))
	for _, st := range settings {
		values[st.Key] = st.Value
	}

	str := func(key string, dst *string) {
		if v, ok := values[key]; ok && v != "" {
			*dst = v
		}
	}
	lookup := func(key string) (int, bool) {
		n, err := strconv.Atoi(values[key])
		return n, err == nil
	}
	num := func(key string, dst *int) {
		if n, ok := lookup(key); ok {
			*dst = n
		}
	}

	str(KeyPresetID, &b.PresetID)
	str(KeyTheme, &b.Theme)
	str(KeySoundType, &b.Sound.Type)
	num(KeySoundVolume, &b.Sound.Volume)
	num(KeyLongBreakInterval, &b.LongBreak.Interval)
	num(KeyLongBreakMinutes, &b.LongBreak.DurationMin)
	num(KeyWorkCompleted, &b.WorkCompleted)
	num(KeyBreakCompleted, &b.BreakCompleted)
	num(KeyConsecutiveWork, &b.ConsecutiveWorkSessions)

	// The custom preset only exists once both minutes have been saved.
	if w, ok := lookup(KeyCustomWorkMin); ok {
		if br, ok := lookup(KeyCustomBreakMin); ok {
			b.CustomPreset = &CustomPreset{WorkMin: w, BreakMin: br}
		}
	}

	b.History, err = s.ListSessions()
	if err != nil {
		return b, fmt.Errorf("load bundle: %w", err)
	}
	return b, nil
}

// SaveBundle overwrites settings and history with b in one transaction.
func (s *Store) SaveBundle(b Bundle) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save bundle: %w", err)
	}
	defer tx.Rollback()

	for _, kv := range bundleSettings(b) {
		if err := upsertSetting(tx, kv.Key, kv.Value); err != nil {
			return fmt.Errorf("save setting %q: %w", kv.Key, err)
		}
	}
	if b.CustomPreset == nil {
		if _, err := tx.Exec(`DELETE FROM settings WHERE key IN (?, ?)`, KeyCustomWorkMin, KeyCustomBreakMin); err != nil {
			return fmt.Errorf("clear custom preset: %w", err)
		}
	}
	if err := replaceSessions(tx, b.History); err != nil {
		return err
	}
	return tx.Commit()
}

func bundleSettings(b Bundle) []Setting {
	settings := []Setting{
		{KeyPresetID, b.PresetID},
		{KeyTheme, b.Theme},
		{KeySoundType, b.Sound.Type},
		{KeySoundVolume, strconv.Itoa(b.Sound.Volume)},
		{KeyLongBreakInterval, strconv.Itoa(b.LongBreak.Interval)},
		{KeyLongBreakMinutes, strconv.Itoa(b.LongBreak.DurationMin)},
		{KeyWorkCompleted, strconv.Itoa(b.WorkCompleted)},
		{KeyBreakCompleted, strconv.Itoa(b.BreakCompleted)},
		{KeyConsecutiveWork, strconv.Itoa(b.ConsecutiveWorkSessions)},
	}
	if b.CustomPreset != nil {
		settings = append(settings,
			Setting{KeyCustomWorkMin, strconv.Itoa(b.CustomPreset.WorkMin)},
			Setting{KeyCustomBreakMin, strconv.Itoa(b.CustomPreset.BreakMin)},
		)
	}
	return settings
}
