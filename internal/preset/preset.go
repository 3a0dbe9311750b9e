package preset

import "fmt"

// Built-in preset ids.
const (
	Classic = "25_5"
	Long    = "50_10"
	Custom  = "custom"
)

// Custom preset bounds, in minutes.
const (
	MinWorkMinutes  = 1
	MaxWorkMinutes  = 120
	MinBreakMinutes = 1
	MaxBreakMinutes = 60
)

// Preset is a named pair of work/break durations.
type Preset struct {
	WorkSeconds  int
	BreakSeconds int
	Label        string
}

// Table maps preset ids to durations. Only the custom entry is mutable.
type Table struct {
	order     []string
	presets   map[string]Preset
	customSet bool
}

func NewTable() *Table {
	return &Table{
		order: []string{Classic, Long, Custom},
		presets: map[string]Preset{
			Classic: {WorkSeconds: 25 * 60, BreakSeconds: 5 * 60, Label: "25 / 5"},
			Long:    {WorkSeconds: 50 * 60, BreakSeconds: 10 * 60, Label: "50 / 10"},
			Custom:  {WorkSeconds: 25 * 60, BreakSeconds: 5 * 60, Label: "Custom"},
		},
	}
}

// Resolve returns the preset for id. Unknown ids report false.
func (t *Table) Resolve(id string) (Preset, bool) {
	p, ok := t.presets[id]
	return p, ok
}

func (t *Table) Has(id string) bool {
	_, ok := t.presets[id]
	return ok
}

// IDs returns the known preset ids in display order.
func (t *Table) IDs() []string {
	return append([]string(nil), t.order...)
}

// Next returns the id after id in display order, wrapping around.
func (t *Table) Next(id string) string {
	for i, v := range t.order {
		if v == id {
			return t.order[(i+1)%len(t.order)]
		}
	}
	return t.order[0]
}

// SetCustom clamps the minutes into range, stores them on the custom preset
// and returns the values actually applied.
func (t *Table) SetCustom(workMin, breakMin int) (int, int) {
	workMin = Clamp(workMin, MinWorkMinutes, MaxWorkMinutes)
	breakMin = Clamp(breakMin, MinBreakMinutes, MaxBreakMinutes)
	t.presets[Custom] = Preset{
		WorkSeconds:  workMin * 60,
		BreakSeconds: breakMin * 60,
		Label:        fmt.Sprintf("%d / %d", workMin, breakMin),
	}
	t.customSet = true
	return workMin, breakMin
}

// CustomSet reports whether SetCustom has been called. Until then the
// custom preset keeps its default durations and the "Custom" label.
func (t *Table) CustomSet() bool { return t.customSet }

// Custom returns the custom preset's durations in minutes.
func (t *Table) Custom() (int, int) {
	p := t.presets[Custom]
	return p.WorkSeconds / 60, p.BreakSeconds / 60
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
