package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/sumonitor/go-sumonitor/internal/application/monitor"
	"github.com/sumonitor/go-sumonitor/internal/core/constants"
	"github.com/sumonitor/go-sumonitor/internal/core/monitoring"
	"github.com/sumonitor/go-sumonitor/internal/presentation/display"
	"github.com/sumonitor/go-sumonitor/internal/presentation/layout"
	"github.com/sumonitor/go-sumonitor/internal/util"
	"golang.org/x/term"
)

var (
	interval time.Duration
	noWatch  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the active session on the terminal's bottom row",
	Long: `Keeps a one-line overlay on the last terminal row with the active session's
input, output and total tokens and cost, plan usage and the session reset time.

A session starts with the first billable message and lasts the session window;
the first message after it ends starts the next one.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addWatchFlags(watchCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&interval, "interval", constants.DefaultPollInterval,
		"Refresh interval")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false,
		"Poll only; do not subscribe to file change notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aggregator, err := newAggregator(settings)
	if err != nil {
		return err
	}

	var opts []monitor.OrchestratorOption
	if settings.Watch {
		dir := settings.DataDir
		opts = append(opts, monitor.WithWatcherFactory(func() (monitor.FileMonitor, error) {
			watcher, err := monitoring.NewFileWatcher(dir)
			if err != nil {
				return nil, err
			}
			return watcher, nil
		}))
	}

	statusLine := display.NewStatusLine(os.Stdout, settings.Plan,
		display.WithColor(term.IsTerminal(int(os.Stdout.Fd()))),
		display.WithSizer(layout.NewSizer(os.Stdout)),
		display.WithTimeProvider(util.GetTimeProvider()),
	)
	defer statusLine.Clear()

	orchestrator, err := monitor.NewOrchestrator(settings, aggregator, statusLine, opts...)
	if err != nil {
		return err
	}
	return orchestrator.Run(ctx)
}
