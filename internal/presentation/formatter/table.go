package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

type TableFormatter struct {
	headers []string
	times   *util.TimeProvider
}

func NewTableFormatter(tp *util.TimeProvider) *TableFormatter {
	if tp == nil {
		tp = util.GetTimeProvider()
	}
	return &TableFormatter{
		headers: []string{
			"Start", "Reset", "Status", "Models", "Entries",
			"Input", "Output", "Total Tokens", "Cost (USD)",
		},
		times: tp,
	}
}

// leftAligned columns; the rest are numeric and right-aligned
var leftAligned = map[int]bool{0: true, 1: true, 2: true, 3: true}

func (f *TableFormatter) Format(w io.Writer, rows []SessionRow) error {
	lines := make([][]string, 0, len(rows)+1)
	var totalEntries, totalInput, totalOutput, totalTokens int
	totalCost := decimal.Zero

	for _, row := range rows {
		lines = append(lines, f.values(row))
		totalEntries += row.Entries
		totalInput += row.InputTokens
		totalOutput += row.OutputTokens
		totalTokens += row.TotalTokens
		totalCost = totalCost.Add(row.TotalCost)
	}

	totals := []string{
		"Total", "", "", "",
		strconv.Itoa(totalEntries),
		util.FormatTokens(totalInput),
		util.FormatTokens(totalOutput),
		util.FormatTokens(totalTokens),
		util.FormatCost(totalCost),
	}

	widths := f.columnWidths(append(lines, totals))

	var b strings.Builder
	f.border(&b, widths, "┌", "┬", "┐")
	f.row(&b, f.headers, widths)
	f.border(&b, widths, "├", "┼", "┤")
	for _, line := range lines {
		f.row(&b, line, widths)
	}
	f.border(&b, widths, "├", "┼", "┤")
	f.row(&b, totals, widths)
	f.border(&b, widths, "└", "┴", "┘")

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) values(row SessionRow) []string {
	status := "closed"
	if row.Active {
		status = "active"
	}

	models := make([]string, len(row.Models))
	for i, m := range row.Models {
		models[i] = util.ShortModelName(m)
	}

	return []string{
		f.times.Format(row.Start, "2006-01-02 15:04"),
		f.times.Format(row.End, "15:04"),
		status,
		strings.Join(models, ", "),
		strconv.Itoa(row.Entries),
		util.FormatTokens(row.InputTokens),
		util.FormatTokens(row.OutputTokens),
		util.FormatTokens(row.TotalTokens),
		util.FormatCost(row.TotalCost),
	}
}

// columnWidths determines the display width of each column
func (f *TableFormatter) columnWidths(lines [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, line := range lines {
		for i, value := range line {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *TableFormatter) border(b *strings.Builder, widths []int, left, middle, right string) {
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

func (f *TableFormatter) row(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		if leftAligned[i] {
			value = util.PadRight(value, widths[i])
		} else {
			value = util.PadLeft(value, widths[i])
		}
		fmt.Fprintf(b, " %s │", value)
	}
	b.WriteByte('\n')
}
