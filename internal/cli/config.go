package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sadopc/tomato/internal/store"
)

// Environment variables read at start-up. A .env file in the working
// directory is loaded first; real environment values win.
const (
	EnvDB       = "TOMATO_DB"
	EnvLog      = "TOMATO_LOG"
	EnvLogLevel = "TOMATO_LOG_LEVEL"
)

type Config struct {
	DBPath   string
	LogPath  string
	LogLevel slog.Level
}

// LoadConfig reads the process configuration. dbFlag overrides TOMATO_DB.
func LoadConfig(dbFlag string) Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := Config{
		DBPath:   os.Getenv(EnvDB),
		LogPath:  os.Getenv(EnvLog),
		LogLevel: parseLevel(os.Getenv(EnvLogLevel)),
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if cfg.DBPath == "" {
		if p, err := store.DefaultDBPath(); err == nil {
			cfg.DBPath = p
		} else {
			cfg.DBPath = filepath.Join(os.TempDir(), "tomato", "tomato.db")
		}
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(cfg.DBPath), "tomato.log")
	}
	return cfg
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// setupLogging points the default slog logger at the log file. The
// terminal belongs to the TUI, so nothing is logged to stdout or stderr.
// On failure logs are discarded.
func setupLogging(cfg Config) (io.Closer, error) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, opts)))
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, opts)))
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, opts)))
	return f, nil
}
