package store

import "github.com/sadopc/tomato/internal/history"

// Setting keys.
const (
	KeyPresetID          = "preset_id"
	KeyTheme             = "theme"
	KeyCustomWorkMin     = "custom_work_min"
	KeyCustomBreakMin    = "custom_break_min"
	KeySoundType         = "sound_type"
	KeySoundVolume       = "sound_volume"
	KeyLongBreakInterval = "long_break_interval"
	KeyLongBreakMinutes  = "long_break_minutes"
	KeyWorkCompleted     = "work_completed"
	KeyBreakCompleted    = "break_completed"
	KeyConsecutiveWork   = "consecutive_work_sessions"
)

type Setting struct {
	Key   string
	Value string
}

type CustomPreset struct {
	WorkMin  int `json:"workMin" yaml:"workMin"`
	BreakMin int `json:"breakMin" yaml:"breakMin"`
}

type Sound struct {
	Type   string `json:"type" yaml:"type"`
	Volume int    `json:"volume" yaml:"volume"`
}

type LongBreak struct {
	Interval    int `json:"interval" yaml:"interval"`
	DurationMin int `json:"durationMin" yaml:"durationMin"`
}

// Bundle is the full persisted state: settings, stats and session history.
type Bundle struct {
	PresetID                string           `json:"presetId" yaml:"presetId"`
	WorkCompleted           int              `json:"workCompleted" yaml:"workCompleted"`
	BreakCompleted          int              `json:"breakCompleted" yaml:"breakCompleted"`
	ConsecutiveWorkSessions int              `json:"consecutiveWorkSessions" yaml:"consecutiveWorkSessions"`
	Theme                   string           `json:"theme" yaml:"theme"`
	CustomPreset            *CustomPreset    `json:"customPreset" yaml:"customPreset"`
	Sound                   Sound            `json:"sound" yaml:"sound"`
	LongBreak               LongBreak        `json:"longBreak" yaml:"longBreak"`
	History                 []history.Record `json:"history" yaml:"history"`
}

// DefaultBundle mirrors the defaults seeded by the migration.
func DefaultBundle() Bundle {
	return Bundle{
		PresetID:     "25_5",
		Theme:        "system",
		Sound:        Sound{Type: "beep", Volume: 50},
		LongBreak:    LongBreak{Interval: 4, DurationMin: 15},
	}
}
