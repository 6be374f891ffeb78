package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UsageRecord is one priced billing event. Records are created once by the
// record store and never modified afterwards.
type UsageRecord struct {
	Model        string
	InputTokens  int
	OutputTokens int
	InputCost    decimal.Decimal
	OutputCost   decimal.Decimal
	InputTier    Tier
	OutputTier   Tier
	Timestamp    time.Time // UTC
	MessageID    string
	RequestID    string
	SessionID    string
	SourceFile   string
	SourceOffset int64 // byte offset of the line within SourceFile
}

// Key returns the identity key used for deduplication: messageID:requestID.
// Lines carrying neither id fall back to their position so distinct lines
// are never merged. It is never used for ordering.
func (r UsageRecord) Key() string {
	if r.MessageID == "" && r.RequestID == "" {
		return fmt.Sprintf("%s@%d", r.SourceFile, r.SourceOffset)
	}
	return r.MessageID + ":" + r.RequestID
}

func (r UsageRecord) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

func (r UsageRecord) TotalCost() decimal.Decimal {
	return r.InputCost.Add(r.OutputCost)
}

// Totals is the summary handed to presentation layers.
type Totals struct {
	InputTokens  int             `json:"inputTokens"`
	InputCost    decimal.Decimal `json:"inputCost"`
	OutputTokens int             `json:"outputTokens"`
	OutputCost   decimal.Decimal `json:"outputCost"`
	TotalTokens  int             `json:"totalTokens"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

// SumTotals adds up the individually priced records. Costs are never
// re-derived from the aggregated token counts.
func SumTotals(records []UsageRecord) Totals {
	t := Totals{
		InputCost:  decimal.Zero,
		OutputCost: decimal.Zero,
		TotalCost:  decimal.Zero,
	}
	for _, r := range records {
		t.InputTokens += r.InputTokens
		t.OutputTokens += r.OutputTokens
		t.InputCost = t.InputCost.Add(r.InputCost)
		t.OutputCost = t.OutputCost.Add(r.OutputCost)
	}
	t.TotalTokens = t.InputTokens + t.OutputTokens
	t.TotalCost = t.InputCost.Add(t.OutputCost)
	return t
}
