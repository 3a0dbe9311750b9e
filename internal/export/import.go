package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/tomato/internal/cue"
	"github.com/sadopc/tomato/internal/engine"
	"github.com/sadopc/tomato/internal/history"
	"github.com/sadopc/tomato/internal/preset"
	"github.com/sadopc/tomato/internal/store"
)

// ErrInvalidBundle is returned when an imported document is not a mapping.
var ErrInvalidBundle = errors.New("invalid bundle")

var themes = map[string]bool{"system": true, "light": true, "dark": true}

type decodeFunc func(target any) error

// Patch holds the top-level fields of an imported document. Only fields
// that are present and decode into the expected type are applied.
type Patch struct {
	fields map[string]decodeFunc
}

// Parse reads an exported JSON or YAML document.
func Parse(data []byte, f Format) (Patch, error) {
	p := Patch{fields: make(map[string]decodeFunc)}

	switch f {
	case FormatJSON:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
			return p, fmt.Errorf("%w: expected a JSON object", ErrInvalidBundle)
		}
		for k, v := range raw {
			msg := v
			p.fields[k] = func(target any) error { return json.Unmarshal(msg, target) }
		}
	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return p, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
		}
		if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
			return p, fmt.Errorf("%w: expected a YAML mapping", ErrInvalidBundle)
		}
		m := root.Content[0]
		for i := 0; i+1 < len(m.Content); i += 2 {
			node := m.Content[i+1]
			p.fields[m.Content[i].Value] = func(target any) error { return node.Decode(target) }
		}
	default:
		return p, fmt.Errorf("%w: cannot import %q", ErrUnknownFormat, f)
	}
	return p, nil
}

// ReadFile parses the document at path, choosing the format by extension.
func ReadFile(path string) (Patch, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Patch{}, err
	}
	return ReadFileAs(path, f)
}

// ReadFileAs parses the document at path as format f.
func ReadFileAs(path string, f Format) (Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Patch{}, fmt.Errorf("read import file: %w", err)
	}
	return Parse(data, f)
}

func isNull(dec decodeFunc) bool {
	var v any
	return dec(&v) == nil && v == nil
}

// Result lists which top-level fields an Apply used or rejected.
type Result struct {
	Applied []string
	Skipped []string
}

// Apply returns b with every acceptable field from the patch applied.
func (p Patch) Apply(b store.Bundle) (store.Bundle, Result) {
	var res Result

	field := func(name string, target any, ok func() bool) {
		dec, present := p.fields[name]
		if !present {
			return
		}
		if err := dec(target); err != nil || (ok != nil && !ok()) {
			res.Skipped = append(res.Skipped, name)
			return
		}
		res.Applied = append(res.Applied, name)
	}

	presets := preset.NewTable()

	presetID := b.PresetID
	field("presetId", &presetID, func() bool { return presets.Has(presetID) })

	work, brk, consec := b.WorkCompleted, b.BreakCompleted, b.ConsecutiveWorkSessions
	field("workCompleted", &work, func() bool { return work >= 0 })
	field("breakCompleted", &brk, func() bool { return brk >= 0 })
	field("consecutiveWorkSessions", &consec, func() bool { return consec >= 0 })

	theme := b.Theme
	field("theme", &theme, func() bool { return themes[theme] })

	// A null customPreset leaves the current one alone.
	var custom store.CustomPreset
	if b.CustomPreset != nil {
		custom = *b.CustomPreset
	} else {
		custom.WorkMin, custom.BreakMin = presets.Custom()
	}
	if dec, ok := p.fields["customPreset"]; !ok || !isNull(dec) {
		field("customPreset", &custom, nil)
	}

	sound := b.Sound
	field("sound", &sound, func() bool { return cue.ValidSound(sound.Type) })

	longBreak := b.LongBreak
	field("longBreak", &longBreak, nil)

	var records []history.Record
	field("history", &records, func() bool {
		for _, r := range records {
			if !r.Valid() {
				return false
			}
		}
		return true
	})

	applied := make(map[string]bool, len(res.Applied))
	for _, name := range res.Applied {
		applied[name] = true
	}
	if applied["presetId"] {
		b.PresetID = presetID
	}
	if applied["workCompleted"] {
		b.WorkCompleted = work
	}
	if applied["breakCompleted"] {
		b.BreakCompleted = brk
	}
	if applied["consecutiveWorkSessions"] {
		b.ConsecutiveWorkSessions = consec
	}
	if applied["theme"] {
		b.Theme = theme
	}
	if applied["customPreset"] {
		w, br := presets.SetCustom(custom.WorkMin, custom.BreakMin)
		b.CustomPreset = &store.CustomPreset{WorkMin: w, BreakMin: br}
	}
	if applied["sound"] {
		sound.Volume = preset.Clamp(sound.Volume, 0, 100)
		b.Sound = sound
	}
	if applied["longBreak"] {
		b.LongBreak = store.LongBreak{
			Interval:    preset.Clamp(longBreak.Interval, engine.MinLongBreakInterval, engine.MaxLongBreakInterval),
			DurationMin: preset.Clamp(longBreak.DurationMin, engine.MinLongBreakMinutes, engine.MaxLongBreakMinutes),
		}
	}
	if applied["history"] {
		if over := len(records) - history.DefaultLimit; over > 0 {
			records = records[over:]
		}
		b.History = records
	}
	return b, res
}
