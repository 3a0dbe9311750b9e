package history

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// Summary aggregates one calendar day of records.
type Summary struct {
	Date         string
	WorkCount    int
	BreakCount   int
	FocusMinutes int
}

// Aggregator folds records into daily and weekly summaries. Dates are taken
// in Location; a nil Location means UTC.
type Aggregator struct {
	Location *time.Location
}

func (a Aggregator) loc() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}

// Daily summarizes the records that started on date (YYYY-MM-DD).
func (a Aggregator) Daily(records []Record, date string) Summary {
	s := Summary{Date: date}
	var focusSeconds int
	for _, r := range records {
		if !r.Completed || r.StartTime.IsZero() {
			continue
		}
		if r.StartTime.In(a.loc()).Format(dateLayout) != date {
			continue
		}
		switch r.Phase {
		case PhaseWork:
			s.WorkCount++
			focusSeconds += r.DurationSeconds
		case PhaseBreak:
			s.BreakCount++
		}
	}
	s.FocusMinutes = int(math.Round(float64(focusSeconds) / 60))
	return s
}

// Weekly returns seven daily summaries ending on ref's date, oldest first.
func (a Aggregator) Weekly(records []Record, ref time.Time) []Summary {
	ref = ref.In(a.loc())
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 12, 0, 0, 0, a.loc())

	days := make([]Summary, 0, 7)
	for i := 6; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		days = append(days, a.Daily(records, d.Format(dateLayout)))
	}
	return days
}

// Today summarizes the records that started on now's date.
func (a Aggregator) Today(records []Record, now time.Time) Summary {
	return a.Daily(records, now.In(a.loc()).Format(dateLayout))
}
