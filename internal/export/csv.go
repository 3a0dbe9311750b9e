package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/tomato/internal/history"
)

func ToCSV(records []history.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Phase", "Long Break", "Start", "End", "Duration (s)", "Duration", "Preset", "Completed"}); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Phase,
			strconv.FormatBool(r.IsLongBreak),
			r.StartTime.Local().Format(time.RFC3339),
			r.EndTime.Local().Format(time.RFC3339),
			strconv.Itoa(r.DurationSeconds),
			formatDuration(int64(r.DurationSeconds)),
			r.PresetID,
			strconv.FormatBool(r.Completed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
