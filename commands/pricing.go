package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sumonitor/go-sumonitor/internal/core/pricing"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

var pricingExport string

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show the active pricing table",
	Long: `Lists the pricing rules in evaluation order. Rates are USD per million
tokens; tiered rules show the base rate and the rate above the threshold.

With --export the active table is written as JSON, ready to be edited and
passed back with --pricing-file.`,
	RunE: runPricing,
}

func init() {
	rootCmd.AddCommand(pricingCmd)

	pricingCmd.Flags().StringVar(&pricingExport, "export", "",
		"Write the active table to this JSON file")
}

func runPricing(cmd *cobra.Command, args []string) error {
	table, err := pricing.LoadTable(settings.PricingFile)
	if err != nil {
		return err
	}

	if pricingExport != "" {
		path := expandPath(pricingExport)
		if err := pricing.NewTableStore(path).Save(table); err != nil {
			return err
		}
		util.LogInfo("Pricing table exported", util.F("path", path), util.F("rules", len(table.Rules())))
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pricing rules to %s\n", len(table.Rules()), path)
		return err
	}

	return writePricingTable(cmd.OutOrStdout(), table.Rules())
}

func writePricingTable(w io.Writer, rules []pricing.Rule) error {
	rows := [][]string{{"Name", "Match", "Threshold", "Input", "Output"}}
	for _, rule := range rules {
		threshold := "-"
		if rule.Threshold > 0 {
			threshold = util.FormatTokens(rule.Threshold)
		}
		rows = append(rows, []string{
			rule.Name,
			rule.Match,
			threshold,
			formatRates(rule.Input, rule.Threshold),
			formatRates(rule.Output, rule.Threshold),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], util.GetDisplayWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
			} else {
				cells[i] = util.PadRight(cell, widths[i])
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func formatRates(rates pricing.Rates, threshold int) string {
	if threshold == 0 {
		return util.FormatCurrency(rates.Base)
	}
	return util.FormatCurrency(rates.Base) + " / " + util.FormatCurrency(rates.Above)
}
