package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
)

func TestTablePrice(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		model    string
		tokens   int
		dir      model.Direction
		wantCost string
		wantTier model.Tier
	}{
		{"sonnet_input_at_threshold", "claude-sonnet-4-5-20250929", 200_000, model.DirectionInput, "0.6", model.Tier("<=200k")},
		{"sonnet_input_above_threshold", "claude-sonnet-4-5-20250929", 200_001, model.DirectionInput, "1.200006", model.Tier(">200k")},
		{"sonnet_output_at_threshold", "claude-sonnet-4-5-20250929", 200_000, model.DirectionOutput, "3", model.Tier("<=200k")},
		{"sonnet_output_above_threshold", "claude-sonnet-4-5-20250929", 400_000, model.DirectionOutput, "9", model.Tier(">200k")},
		{"sonnet_small_input", "claude-sonnet-4-5-20250929", 100, model.DirectionInput, "0.0003", model.Tier("<=200k")},
		{"haiku_input_flat", "claude-haiku-4-5-20251001", 1_000_000, model.DirectionInput, "1", model.TierFlat},
		{"haiku_output_flat_large", "claude-haiku-4-5-20251001", 300_000, model.DirectionOutput, "1.5", model.TierFlat},
		{"opus_input", "claude-opus-4-5-20251101", 2_000_000, model.DirectionInput, "10", model.TierFlat},
		{"opus_output", "claude-opus-4-5-20251101", 1_000, model.DirectionOutput, "0.025", model.TierFlat},
		{"zero_tokens", "claude-sonnet-4-5", 0, model.DirectionInput, "0", model.Tier("<=200k")},
		{"unknown_model", "claude-3-5-sonnet-20241022", 5_000, model.DirectionInput, "0", model.TierUnknown},
		{"synthetic_model", "<synthetic>", 0, model.DirectionOutput, "0", model.TierUnknown},
		{"empty_model", "", 10, model.DirectionOutput, "0", model.TierUnknown},
		{"case_sensitive_match", "claude-SONNET-4-5", 10, model.DirectionInput, "0", model.TierUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, tier := table.Price(tt.model, tt.tokens, tt.dir)
			assert.Equal(t, tt.wantTier, tier)
			assert.True(t, decimal.RequireFromString(tt.wantCost).Equal(cost),
				"expected cost %s, got %s", tt.wantCost, cost)
		})
	}
}

func TestTableFirstMatchWins(t *testing.T) {
	table := NewTable([]Rule{
		{Match: "sonnet", Input: Rates{Base: decimal.NewFromInt(1)}},
		{Match: "sonnet-4-5", Input: Rates{Base: decimal.NewFromInt(100)}},
	})

	cost, tier := table.Price("claude-sonnet-4-5", 1_000_000, model.DirectionInput)

	assert.Equal(t, model.TierFlat, tier)
	assert.True(t, decimal.NewFromInt(1).Equal(cost))
}

func TestTableCustomThresholdLabels(t *testing.T) {
	table := NewTable([]Rule{
		{
			Match:     "future",
			Threshold: 128_500,
			Input:     Rates{Base: decimal.NewFromInt(2), Above: decimal.NewFromInt(4)},
			Output:    Rates{Base: decimal.NewFromInt(8), Above: decimal.NewFromInt(16)},
		},
	})

	_, low := table.Price("future-model", 128_500, model.DirectionInput)
	_, high := table.Price("future-model", 128_501, model.DirectionOutput)

	assert.Equal(t, model.Tier("<=128500"), low)
	assert.Equal(t, model.Tier(">128500"), high)
}

func TestTableRulesIsCopy(t *testing.T) {
	table := DefaultTable()
	rules := table.Rules()
	rules[0].Match = "mutated"

	_, ok := table.Lookup("claude-sonnet-4-5")
	assert.True(t, ok, "mutating the returned slice must not affect the table")
	assert.Len(t, rules, 3)
}

func TestGetPlan(t *testing.T) {
	tests := []struct {
		name       string
		planName   string
		wantName   string
		wantTokens int
		wantCost   int64
	}{
		{"pro", model.PlanPro, "Claude Pro", 4_000_000, 18},
		{"max5", model.PlanMax5, "Claude Max 5", 20_000_000, 35},
		{"max20", model.PlanMax20, "Claude Max 20", 80_000_000, 140},
		{"unknown_defaults_to_pro", "enterprise", "Claude Pro", 4_000_000, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := GetPlan(tt.planName)
			assert.Equal(t, tt.wantName, plan.Name)
			assert.Equal(t, tt.wantTokens, plan.TokenLimit)
			assert.True(t, decimal.NewFromInt(tt.wantCost).Equal(plan.CostLimit))
		})
	}
}

func TestIsValidPlan(t *testing.T) {
	for _, name := range PlanNames() {
		assert.True(t, IsValidPlan(name), name)
	}
	assert.False(t, IsValidPlan("custom"))
	assert.False(t, IsValidPlan(""))
}

func TestPlanUsage(t *testing.T) {
	plan := GetPlan(model.PlanPro)
	usage := plan.Usage(model.Totals{
		TotalTokens: 1_000_000,
		TotalCost:   decimal.NewFromInt(9),
	})

	assert.InDelta(t, 25.0, usage.TokenPercent, 1e-9)
	assert.InDelta(t, 50.0, usage.CostPercent, 1e-9)

	zero := Plan{}.Usage(model.Totals{TotalTokens: 10, TotalCost: decimal.NewFromInt(1)})
	assert.Zero(t, zero.TokenPercent)
	assert.Zero(t, zero.CostPercent)
}
