package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"dayflow/internal/config"
	"dayflow/internal/format"
	"dayflow/internal/ics"
	appLog "dayflow/internal/log"
	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
)

const version = "0.1.0"

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "dayflow",
	Short:         "Daily schedule dashboard",
	Long:          `Shows where you are in a repeating daily schedule: the running block, what comes next and how the day is split.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(
		serveCmd,
		tuiCmd,
		statusCmd,
		stateCmd,
		exportCmd,
		captureCmd,
		versionCmd,
	)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./dayflow.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "Environment file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		appLog.Error("dayflow failed", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

// app is everything a command needs after startup.
type app struct {
	cfg    *config.Config
	sched  *schedule.Schedule
	engine *timeline.Engine
	format *format.Formatter
	loc    *time.Location

	logFile io.Closer
}

func (a *app) Close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// boot loads environment, config and schedule. Any failure here is fatal for
// the command.
func boot() (*app, error) {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	level, ok := appLog.ParseLevel(cfg.Log.Level)
	if !ok {
		appLog.Warn("unknown log level, using info", "level", cfg.Log.Level)
	}
	appLog.SetLevel(level)
	if cfg.Log.File != "" {
		a.logFile = appLog.OpenFile(appLog.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
	}

	a.loc, err = cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.sched, err = loadSchedule(afero.NewOsFs(), cfg.Schedule)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := a.sched.Validate(); err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	a.engine, err = timeline.New(a.sched.Entries, timeline.WithUpcomingLimit(cfg.UpcomingLimit))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.format = format.New(cfg.Locale)

	appLog.Debug("effective config",
		"config_path", configPath,
		"listen", cfg.Listen,
		"timezone", a.loc.String(),
		"locale", a.format.Locale(),
		"refresh", cfg.Refresh,
		"schedule", cfg.Schedule,
		"entries", len(a.sched.Entries),
		"cycle_minutes", a.engine.TotalMinutes(),
	)
	return a, nil
}

// loadSchedule reads a YAML or ICS schedule. An empty path selects the
// built-in schedule.
func loadSchedule(fsys afero.Fs, path string) (*schedule.Schedule, error) {
	if path == "" {
		return schedule.Default(), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".ics") {
		body, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read schedule %s: %w", path, err)
		}
		s, err := ics.ImportSchedule(body)
		if err != nil {
			return nil, fmt.Errorf("import schedule %s: %w", path, err)
		}
		return s, nil
	}
	return schedule.LoadFile(fsys, path)
}
