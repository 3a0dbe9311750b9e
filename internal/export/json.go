package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/tomato/internal/history"
	"github.com/sadopc/tomato/internal/store"
)

// BundleVersion is written to every exported document.
const BundleVersion = 1

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name as typed by a user.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// FileName is the default backup file name for day.
func FileName(day time.Time, f Format) string {
	return fmt.Sprintf("tomato-backup-%s.%s", day.Format("2006-01-02"), f)
}

type document struct {
	Version      int    `json:"version" yaml:"version"`
	ExportedAt   string `json:"exportedAt" yaml:"exportedAt"`
	store.Bundle `yaml:",inline"`
}

// Encode serializes b as JSON or YAML.
func Encode(b store.Bundle, f Format, now time.Time) ([]byte, error) {
	doc := document{
		Version:    BundleVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Bundle:     b,
	}
	if doc.History == nil {
		doc.History = []history.Record{}
	}

	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ToFile writes b to path. CSV exports only the session history.
func ToFile(b store.Bundle, f Format, path string) error {
	if f == FormatCSV {
		return ToCSV(b.History, path)
	}
	data, err := Encode(b, f, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s file: %w", f, err)
	}
	return nil
}
