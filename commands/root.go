package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sumonitor/go-sumonitor/internal/application/monitor"
	"github.com/sumonitor/go-sumonitor/internal/config"
	"github.com/sumonitor/go-sumonitor/internal/core/constants"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/core/pricing"
	"github.com/sumonitor/go-sumonitor/internal/core/session"
	"github.com/sumonitor/go-sumonitor/internal/data/store"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

var (
	// Logging related
	debug     bool
	logFormat string

	// Data and config paths
	dataDir     string
	configFile  string
	pricingFile string

	// Session accounting
	planName string
	window   time.Duration
	lookback time.Duration

	// Display related
	timezone string

	// settings resolved by the persistent pre-run
	settings *monitor.Config

	rootCmd = &cobra.Command{
		Use:   "sumonitor [flags]",
		Short: "Session usage monitor for the coding assistant",
		Long: `sumonitor reads the assistant's conversation logs, prices every billable
message and groups them into rolling usage sessions.

Without a subcommand it runs "watch": a one-line overlay on the bottom row of
the terminal showing the active session's tokens and cost.

Examples:
  sumonitor                               # Watch the active session
  sumonitor --plan max5                   # Watch against the Max 5 plan (remembered)
  sumonitor sessions --output json        # Report every session in the lookback
  sumonitor sessions --all                # Report every session on disk
  sumonitor totals                        # Print the active session totals once`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		RunE:               runWatch,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&dataDir, "dir", constants.DefaultDataDir,
		"Conversation log directory")
	flags.StringVar(&planName, "plan", model.PlanPro,
		fmt.Sprintf("Plan type (%s)", strings.Join(pricing.PlanNames(), ", ")))
	flags.DurationVar(&window, "window", constants.SessionDuration,
		"Session window length")
	flags.DurationVar(&lookback, "lookback", constants.DefaultLookback,
		"Discard records older than this (0 means the 24h default)")
	flags.StringVar(&timezone, "timezone", "Local",
		"Timezone for displayed times (e.g., Asia/Shanghai, UTC)")
	flags.StringVar(&pricingFile, "pricing-file", "",
		"JSON pricing table replacing the built-in prices")
	flags.StringVar(&configFile, "config", constants.DefaultConfigFile,
		"File holding remembered defaults")
	flags.BoolVar(&debug, "debug", false,
		"Enable debug logging to stderr")
	flags.StringVar(&logFormat, "log-format", string(util.FormatText),
		"Log file format (text, json)")

	addWatchFlags(rootCmd)
}

// setup initializes logging and resolves flags against the config file
func setup(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	format, err := util.ParseLogFormat(logFormat)
	if err != nil {
		return err
	}

	logFile := expandPath(constants.DefaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, format, logFile, debug); err != nil {
		return err
	}

	resolved, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := util.InitializeTimeProvider(resolved.Timezone); err != nil {
		return err
	}

	settings = resolved
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	util.CloseLogger()
	return nil
}

// resolveSettings applies explicit flag > config file > compiled default and
// remembers an explicitly given plan or data directory.
func resolveSettings(cmd *cobra.Command) (*monitor.Config, error) {
	path := expandPath(configFile)
	saved := config.Load(path)
	changed := cmd.Flags().Changed

	cfg := &monitor.Config{
		DataDir:     saved.DataDir,
		Plan:        saved.Plan,
		Window:      saved.Window,
		Lookback:    saved.Lookback,
		Interval:    saved.Interval,
		Timezone:    saved.Timezone,
		PricingFile: saved.PricingFile,
		Watch:       !noWatch,
	}
	if changed("dir") {
		cfg.DataDir = dataDir
	}
	if changed("plan") {
		cfg.Plan = planName
	}
	if changed("window") {
		cfg.Window = window
	}
	if changed("lookback") {
		cfg.Lookback = lookback
	}
	if changed("interval") {
		cfg.Interval = interval
	}
	if changed("timezone") {
		cfg.Timezone = timezone
	}
	if changed("pricing-file") {
		cfg.PricingFile = pricingFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.PricingFile != "" {
		cfg.PricingFile = expandPath(cfg.PricingFile)
	}

	var rememberPlan, rememberDir string
	if changed("plan") {
		rememberPlan = cfg.Plan
	}
	if changed("dir") {
		rememberDir = cfg.DataDir
	}
	if err := config.Remember(path, rememberPlan, rememberDir); err != nil {
		util.LogWarn("Failed to persist settings", util.F("path", path), util.F("error", err))
	}

	util.LogDebug("Settings resolved",
		util.F("dir", cfg.DataDir),
		util.F("plan", cfg.Plan),
		util.F("window", cfg.Window),
		util.F("lookback", cfg.Lookback))
	return cfg, nil
}

// newAggregator wires pricing, store and session builder for cfg
func newAggregator(cfg *monitor.Config, opts ...store.Option) (*monitor.Aggregator, error) {
	table, err := pricing.LoadTable(cfg.PricingFile)
	if err != nil {
		return nil, err
	}

	opts = append([]store.Option{store.WithConcurrency(cfg.Concurrency)}, opts...)
	records := store.New(cfg.DataDir, cfg.Lookback, table, opts...)
	return monitor.NewAggregator(records, session.NewBuilder(cfg.Window), util.SystemClock), nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
