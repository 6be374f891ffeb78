package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sumonitor/go-sumonitor/internal/data/store"
	"github.com/sumonitor/go-sumonitor/internal/presentation/formatter"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

var (
	outputFormat string
	allRecords   bool
	sortBy       string
	sortDesc     bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Report every usage session",
	Long: `Scans the logs once and prints every session found, oldest first, with its
time range, models, tokens and cost. The last session is marked active while
its window is still open.`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json)")
	sessionsCmd.Flags().BoolVar(&allRecords, "all", false,
		"Ignore the lookback and report every record on disk")
	sessionsCmd.Flags().StringVar(&sortBy, "sort", "time",
		"Sort sessions by field (time, cost, tokens)")
	sessionsCmd.Flags().BoolVar(&sortDesc, "desc", false,
		"Sort in descending order")
}

func runSessions(cmd *cobra.Command, args []string) error {
	f, err := formatter.NewFormatter(outputFormat, util.GetTimeProvider())
	if err != nil {
		return err
	}
	field, err := formatter.ParseSortField(sortBy)
	if err != nil {
		return err
	}
	order := formatter.SortAscending
	if sortDesc {
		order = formatter.SortDescending
	}

	var opts []store.Option
	if allRecords {
		opts = append(opts, store.WithoutLookback())
	}
	aggregator, err := newAggregator(settings, opts...)
	if err != nil {
		return err
	}
	if err := aggregator.Refresh(); err != nil {
		return fmt.Errorf("failed to read usage logs: %w", err)
	}

	rows := formatter.NewSessionRows(aggregator.Sessions(), util.SystemClock())
	formatter.NewRowSorter(field, order).Sort(rows)
	return f.Format(cmd.OutOrStdout(), rows)
}
