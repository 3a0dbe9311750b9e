package history

import "time"

// DefaultLimit caps the number of records kept in a Log.
const DefaultLimit = 500

// Phase names as they appear in records.
const (
	PhaseWork  = "work"
	PhaseBreak = "break"
)

// Record is an immutable entry for one completed phase.
type Record struct {
	Phase           string    `json:"phase" yaml:"phase"`
	IsLongBreak     bool      `json:"isLongBreak" yaml:"isLongBreak"`
	DurationSeconds int       `json:"durationSeconds" yaml:"durationSeconds"`
	StartTime       time.Time `json:"startTime" yaml:"startTime"`
	EndTime         time.Time `json:"endTime" yaml:"endTime"`
	PresetID        string    `json:"presetId" yaml:"presetId"`
	Completed       bool      `json:"completed" yaml:"completed"`
}

// Valid reports whether r has a known phase and a positive duration.
func (r Record) Valid() bool {
	if r.Phase != PhaseWork && r.Phase != PhaseBreak {
		return false
	}
	return r.DurationSeconds > 0 && !r.StartTime.IsZero()
}

// Log is an insertion-ordered, bounded list of records. When full, the
// oldest record is evicted.
type Log struct {
	limit   int
	records []Record
}

func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
	l.trim()
}

// Load replaces the log contents, keeping only the newest records.
func (l *Log) Load(records []Record) {
	l.records = append([]Record(nil), records...)
	l.trim()
}

// Records returns a copy of the log, oldest first.
func (l *Log) Records() []Record {
	return append([]Record(nil), l.records...)
}

// Recent returns up to n records, newest first.
func (l *Log) Recent(n int) []Record {
	if n < 0 {
		n = 0
	}
	if n > len(l.records) {
		n = len(l.records)
	}
	out := make([]Record, 0, n)
	for i := len(l.records) - 1; i >= len(l.records)-n; i-- {
		out = append(out, l.records[i])
	}
	return out
}

func (l *Log) Len() int   { return len(l.records) }
func (l *Log) Limit() int { return l.limit }

func (l *Log) trim() {
	if over := len(l.records) - l.limit; over > 0 {
		l.records = append([]Record(nil), l.records[over:]...)
	}
}
