package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
)

// Plan represents a subscription plan with token and cost limits
type Plan struct {
	Name         string          `json:"name"`
	TokenLimit   int             `json:"token_limit"`
	CostLimit    decimal.Decimal `json:"cost_limit"`
	MessageLimit int             `json:"message_limit"`
}

// PlanUsage expresses session totals as percentages of a plan's ceilings
type PlanUsage struct {
	TokenPercent float64
	CostPercent  float64
}

// planMap stores all available subscription plans
var planMap = map[string]Plan{
	model.PlanPro: {
		Name:         "Claude Pro",
		TokenLimit:   4 * 1000 * 1000,
		CostLimit:    decimal.NewFromInt(18),
		MessageLimit: 40,
	},
	model.PlanMax5: {
		Name:         "Claude Max 5",
		TokenLimit:   20 * 1000 * 1000,
		CostLimit:    decimal.NewFromInt(35),
		MessageLimit: 200,
	},
	model.PlanMax20: {
		Name:         "Claude Max 20",
		TokenLimit:   80 * 1000 * 1000,
		CostLimit:    decimal.NewFromInt(140),
		MessageLimit: 800,
	},
}

// PlanNames lists the accepted plan identifiers
func PlanNames() []string {
	return []string{model.PlanPro, model.PlanMax5, model.PlanMax20}
}

// IsValidPlan reports whether name is a known plan identifier
func IsValidPlan(name string) bool {
	_, ok := planMap[name]
	return ok
}

// GetPlan returns a specific subscription plan
func GetPlan(planName string) Plan {
	if plan, ok := planMap[planName]; ok {
		return plan
	}
	// Default to Pro plan if not found
	return planMap[model.PlanPro]
}

// Usage compares totals against the plan ceilings.
func (p Plan) Usage(totals model.Totals) PlanUsage {
	var usage PlanUsage
	if p.TokenLimit > 0 {
		usage.TokenPercent = float64(totals.TotalTokens) / float64(p.TokenLimit) * 100
	}
	if p.CostLimit.IsPositive() {
		usage.CostPercent = totals.TotalCost.Div(p.CostLimit).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return usage
}
