package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"dragsort/internal/config"
	"dragsort/internal/format"
	"dragsort/internal/store"

	"github.com/spf13/cobra"
)

// skipConfigLoad marks commands that must run even when the config file is invalid.
const skipConfigLoad = "dragsort/skip-config-load"

type App struct {
	Dir        string
	ConfigPath string
	Board      string
	PrettyJSON bool
	Format     string
	LogLevel   string
	LogFile    string

	cfg     config.Config
	log     *slog.Logger
	closers []io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "dragsort",
		Short:        "Drag-to-reorder boards in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the board UI (drag cards with the mouse)
  dragsort --board work

  # Load a board from YAML, then look at it
  dragsort board import work.yaml
  dragsort board show work --format yaml

  # Replay a gesture script without a terminal
  dragsort simulate drag.yaml
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DRAGSORT_DIR", ""), "Path to the board store (default: <user config dir>/dragsort)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $DRAGSORT_CONFIG or <user config dir>/dragsort/config.toml)")
	cmd.PersistentFlags().StringVar(&app.Board, "board", envOr("DRAGSORT_BOARD", ""), "Board name or id")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON and EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DRAGSORT_FORMAT", ""), "Output format ("+strings.Join(format.Formats, "|")+")")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("DRAGSORT_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file (the TUI logs nowhere without it)")

	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newSimulateCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// setup resolves the config file and the logger shared by every command.
func (app *App) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		return writeErr(cmd, fmt.Errorf("invalid --log-level %q: %w", app.LogLevel, err))
	}

	var w io.Writer = cmd.ErrOrStderr()
	if app.LogFile != "" {
		f, err := os.OpenFile(app.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return writeErr(cmd, fmt.Errorf("open log file: %w", err))
		}
		app.closers = append(app.closers, f)
		w = f
	}
	app.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	if cmd.Annotations[skipConfigLoad] != "" {
		return nil
	}
	path, err := app.configPath()
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	return nil
}

func (app *App) configPath() (string, error) {
	if app.ConfigPath != "" {
		return app.ConfigPath, nil
	}
	p, err := config.Path()
	if err != nil {
		return "", err
	}
	app.ConfigPath = p
	return p, nil
}

func (app *App) close() error {
	var first error
	for _, c := range app.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	app.closers = nil
	return first
}

// tuiLogger is the logger for the terminal UI, which owns stderr while it runs.
func (app *App) tuiLogger() *slog.Logger {
	if app.LogFile != "" {
		return app.log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = d
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
