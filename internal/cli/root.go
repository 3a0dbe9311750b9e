// Package cli wires configuration, logging and storage to the tomato
// commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/tomato/internal/store"
	"github.com/sadopc/tomato/internal/tui"
)

var version = "0.1.0"

// session holds what every command needs once the root pre-run has opened it.
type session struct {
	dbFlag string
	now    func() time.Time

	cfg   Config
	store *store.Store
	log   io.Closer
}

// open loads configuration, starts logging and opens the database. A
// database that cannot be opened is replaced by an in-memory one.
func (s *session) open(cmd *cobra.Command) error {
	s.cfg = LoadConfig(s.dbFlag)
	closer, err := setupLogging(s.cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}
	s.log = closer

	st, err := store.New(s.cfg.DBPath)
	if err != nil {
		slog.Warn("open database, using in-memory store", "path", s.cfg.DBPath, "err", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; changes will not be saved\n", err)
		st, err = store.NewMemory()
		if err != nil {
			return fmt.Errorf("open in-memory store: %w", err)
		}
	}
	s.store = st
	slog.Debug("session opened", "db", s.cfg.DBPath, "command", cmd.Name())
	return nil
}

func (s *session) close() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
	if s.log != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		s.log.Close()
		s.log = nil
	}
}

// NewRootCmd builds the tomato command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	s := &session{now: now}

	root := &cobra.Command{
		Use:     "tomato",
		Short:   "Pomodoro timer for the terminal",
		Version: version,
		Long: `tomato: a Pomodoro timer with session history.

Usage modes:
  tomato             Start the interactive timer
  tomato <command>   Run a single command (see below)

Configuration is read from the environment or a .env file:
  TOMATO_DB          database path (overridden by --db)
  TOMATO_LOG         log file path
  TOMATO_LOG_LEVEL   debug, info, warn or error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runTUI()
		},
	}

	root.PersistentFlags().StringVar(&s.dbFlag, "db", "", "database path (overrides "+EnvDB+")")

	root.AddCommand(
		exportCmd(s),
		importCmd(s),
		reportCmd(s),
		presetCmd(s),
	)
	return root
}

func (s *session) runTUI() error {
	b, err := s.store.LoadBundle()
	if err != nil {
		slog.Warn("load saved state, using defaults", "err", err)
	}

	app := tui.NewApp(s.store, b, tui.Options{Bell: os.Stderr, Now: s.now})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
