package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetInt reads an integer setting, returning fallback when it is missing or
// not a number.
func (s *Store) GetInt(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Store) SetInt(key string, value int) error {
	return s.SetSetting(key, strconv.Itoa(value))
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// SaveStats writes the completion counters in one transaction.
func (s *Store) SaveStats(workCompleted, breakCompleted, consecutive int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save stats: %w", err)
	}
	defer tx.Rollback()

	for _, kv := range []Setting{
		{KeyWorkCompleted, strconv.Itoa(workCompleted)},
		{KeyBreakCompleted, strconv.Itoa(breakCompleted)},
		{KeyConsecutiveWork, strconv.Itoa(consecutive)},
	} {
		if err := upsertSetting(tx, kv.Key, kv.Value); err != nil {
			return fmt.Errorf("save stats: %w", err)
		}
	}
	return tx.Commit()
}

func upsertSetting(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
