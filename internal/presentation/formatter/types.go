package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sumonitor/go-sumonitor/internal/core/session"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// SessionRow is one session prepared for reporting
type SessionRow struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Active       bool            `json:"active"`
	Entries      int             `json:"entries"`
	Models       []string        `json:"models"`
	InputTokens  int             `json:"inputTokens"`
	OutputTokens int             `json:"outputTokens"`
	TotalTokens  int             `json:"totalTokens"`
	InputCost    decimal.Decimal `json:"inputCost"`
	OutputCost   decimal.Decimal `json:"outputCost"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

// Formatter writes session rows in some output format
type Formatter interface {
	Format(w io.Writer, rows []SessionRow) error
}

// NewFormatter returns the formatter for "table" or "json"
func NewFormatter(kind string, tp *util.TimeProvider) (Formatter, error) {
	switch kind {
	case "", "table":
		return NewTableFormatter(tp), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (valid: table, json)", kind)
	}
}

// NewSessionRows converts sessions into rows, oldest first
func NewSessionRows(sessions []session.Session, now time.Time) []SessionRow {
	return lo.Map(sessions, func(s session.Session, _ int) SessionRow {
		totals := s.Totals()
		return SessionRow{
			Start:        s.StartTime,
			End:          s.EndTime(),
			Active:       s.IsActive(now),
			Entries:      len(s.Entries),
			Models:       util.SortModels(s.Models()),
			InputTokens:  totals.InputTokens,
			OutputTokens: totals.OutputTokens,
			TotalTokens:  totals.TotalTokens,
			InputCost:    totals.InputCost,
			OutputCost:   totals.OutputCost,
			TotalCost:    totals.TotalCost,
		}
	})
}
