package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/sumonitor/go-sumonitor/internal/application/monitor"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/core/pricing"
	"github.com/sumonitor/go-sumonitor/internal/core/session"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

var totalsOutput string

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print the active session totals once",
	Long: `Scans the logs once and prints the active session's input, output and total
tokens and cost. All values are zero when no session is active.`,
	RunE: runTotals,
}

func init() {
	rootCmd.AddCommand(totalsCmd)

	totalsCmd.Flags().StringVarP(&totalsOutput, "output", "o", "text",
		"Output format (text, json)")
}

// totalsReport is the JSON shape of the totals command
type totalsReport struct {
	Active       bool                    `json:"active"`
	SessionStart *time.Time              `json:"sessionStart,omitempty"`
	ResetTime    *time.Time              `json:"resetTime,omitempty"`
	Progress     float64                 `json:"progress"`
	Plan         string                  `json:"plan"`
	TokenPercent float64                 `json:"tokenPercent"`
	CostPercent  float64                 `json:"costPercent"`
	Totals       model.Totals            `json:"totals"`
	BurnRate     session.BurnRate        `json:"burnRate"`
	Models       map[string]model.Totals `json:"models"`
}

func runTotals(cmd *cobra.Command, args []string) error {
	if totalsOutput != "text" && totalsOutput != "json" {
		return fmt.Errorf("unsupported output format %q (valid: text, json)", totalsOutput)
	}

	aggregator, err := newAggregator(settings)
	if err != nil {
		return err
	}
	if err := aggregator.Refresh(); err != nil {
		return fmt.Errorf("failed to read usage logs: %w", err)
	}

	snap := aggregator.Snapshot()
	byModel := map[string]model.Totals{}
	if current := aggregator.CurrentSession(); current != nil {
		byModel = current.ModelTotals()
	}

	if totalsOutput == "json" {
		return writeTotalsJSON(cmd.OutOrStdout(), snap, byModel, settings.Plan)
	}
	return writeTotalsText(cmd.OutOrStdout(), snap, byModel, settings.Plan)
}

func writeTotalsJSON(w io.Writer, snap monitor.Snapshot, byModel map[string]model.Totals, planID string) error {
	usage := pricing.GetPlan(planID).Usage(snap.Totals)
	report := totalsReport{
		Active:       snap.Active,
		Progress:     snap.Progress(),
		Plan:         planID,
		TokenPercent: usage.TokenPercent,
		CostPercent:  usage.CostPercent,
		Totals:       snap.Totals,
		BurnRate:     snap.BurnRate,
		Models:       byModel,
	}
	if snap.Active {
		report.SessionStart = &snap.SessionStart
		report.ResetTime = &snap.ResetTime
	}

	data, err := sonic.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeTotalsText(w io.Writer, snap monitor.Snapshot, byModel map[string]model.Totals, planID string) error {
	plan := pricing.GetPlan(planID)
	usage := plan.Usage(snap.Totals)
	tp := util.GetTimeProvider()

	current := "none"
	if snap.Active {
		current = fmt.Sprintf("%s - %s (%s left, %.0f%% elapsed)",
			tp.Format(snap.SessionStart, "2006-01-02 15:04"),
			tp.Format(snap.ResetTime, "15:04"),
			util.FormatDuration(snap.Remaining()),
			snap.Progress())
	}

	t := snap.Totals
	_, err := fmt.Fprintf(w,
		"Session: %s\nInput:   %s tokens  %s\nOutput:  %s tokens  %s\nTotal:   %s tokens  %s\nPlan:    %s  %.0f%% tokens, %.0f%% cost\nBurn:    %s tokens/min, %s/h\n",
		current,
		util.FormatTokens(t.InputTokens), util.FormatCost(t.InputCost),
		util.FormatTokens(t.OutputTokens), util.FormatCost(t.OutputCost),
		util.FormatTokens(t.TotalTokens), util.FormatCost(t.TotalCost),
		plan.Name, usage.TokenPercent, usage.CostPercent,
		util.FormatNumber(int(snap.BurnRate.TokensPerMinute)), util.FormatCurrency(snap.BurnRate.CostPerHour))
	if err != nil || len(byModel) == 0 {
		return err
	}

	models := util.SortModels(lo.Keys(byModel))

	width := 0
	for _, name := range models {
		width = max(width, util.GetDisplayWidth(util.ShortModelName(name)))
	}

	if _, err := fmt.Fprintln(w, "Models:"); err != nil {
		return err
	}
	for _, name := range models {
		mt := byModel[name]
		if _, err := fmt.Fprintf(w, "  %s  %s tokens  %s\n",
			util.PadRight(util.ShortModelName(name), width),
			util.FormatTokens(mt.TotalTokens), util.FormatCost(mt.TotalCost)); err != nil {
			return err
		}
	}
	return nil
}
