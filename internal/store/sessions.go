package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/tomato/internal/history"
)

// timeLayout is fixed width so stored timestamps sort as strings in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// AppendSession stores a completed phase and evicts the oldest rows beyond
// history.DefaultLimit.
func (s *Store) AppendSession(r history.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append session: %w", err)
	}
	defer tx.Rollback()

	if err := insertSession(tx, r); err != nil {
		return err
	}
	if err := trimSessions(tx, history.DefaultLimit); err != nil {
		return err
	}
	return tx.Commit()
}

// SessionFilter narrows FindSessions. Zero fields match everything.
type SessionFilter struct {
	Phase string
	From  *time.Time // inclusive, on start time
	To    *time.Time // exclusive, on start time
}

// ListSessions returns stored sessions, oldest first.
func (s *Store) ListSessions() ([]history.Record, error) {
	return s.FindSessions(SessionFilter{})
}

// FindSessions returns the sessions matching f, oldest first.
func (s *Store) FindSessions(f SessionFilter) ([]history.Record, error) {
	query := `SELECT phase, is_long_break, duration, start_time, end_time, preset_id, completed
		FROM sessions WHERE 1=1`
	var args []any

	if f.Phase != "" {
		query += ` AND phase = ?`
		args = append(args, f.Phase)
	}
	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, f.From.UTC().Format(timeLayout))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, f.To.UTC().Format(timeLayout))
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var r history.Record
		var startTime, endTime string
		var longBreak, completed int
		if err := rows.Scan(&r.Phase, &longBreak, &r.DurationSeconds, &startTime, &endTime, &r.PresetID, &completed); err != nil {
			return nil, err
		}
		r.IsLongBreak = longBreak == 1
		r.Completed = completed == 1
		r.StartTime, _ = time.Parse(time.RFC3339Nano, startTime)
		r.EndTime, _ = time.Parse(time.RFC3339Nano, endTime)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) CountSessions() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// ReplaceSessions swaps the whole history for records, keeping the newest
// history.DefaultLimit of them.
func (s *Store) ReplaceSessions(records []history.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace sessions: %w", err)
	}
	defer tx.Rollback()

	if err := replaceSessions(tx, records); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceSessions(tx *sql.Tx, records []history.Record) error {
	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	if over := len(records) - history.DefaultLimit; over > 0 {
		records = records[over:]
	}
	for _, r := range records {
		if err := insertSession(tx, r); err != nil {
			return err
		}
	}
	return nil
}

func insertSession(tx *sql.Tx, r history.Record) error {
	_, err := tx.Exec(
		`INSERT INTO sessions (phase, is_long_break, duration, start_time, end_time, preset_id, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Phase, boolInt(r.IsLongBreak), r.DurationSeconds,
		r.StartTime.UTC().Format(timeLayout), r.EndTime.UTC().Format(timeLayout),
		r.PresetID, boolInt(r.Completed),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func trimSessions(tx *sql.Tx, limit int) error {
	_, err := tx.Exec(
		`DELETE FROM sessions WHERE id NOT IN (SELECT id FROM sessions ORDER BY id DESC LIMIT ?)`,
		limit,
	)
	if err != nil {
		return fmt.Errorf("trim sessions: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
