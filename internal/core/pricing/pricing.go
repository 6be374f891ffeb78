package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// Rates holds USD prices per million tokens. Above only applies to tiered
// rules, for token counts strictly greater than the rule threshold.
type Rates struct {
	Base  decimal.Decimal `json:"base"`
	Above decimal.Decimal `json:"above,omitempty"`
}

// Rule prices every model whose name contains Match. A zero Threshold
// means the rule is flat.
type Rule struct {
	Name      string `json:"name"`
	Match     string `json:"match"`
	Threshold int    `json:"threshold,omitempty"`
	Input     Rates  `json:"input"`
	Output    Rates  `json:"output"`
}

func (r Rule) rates(dir model.Direction) Rates {
	if dir == model.DirectionOutput {
		return r.Output
	}
	return r.Input
}

// Table is an ordered list of rules, evaluated first match wins.
type Table struct {
	rules []Rule
}

// prices are quoted per million tokens
const perMillion int32 = -6

// NewTable creates a table from rules in evaluation order
func NewTable(rules []Rule) *Table {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Table{rules: copied}
}

// DefaultTable returns the compiled-in reference pricing
func DefaultTable() *Table {
	return NewTable(defaultRules)
}

var defaultRules = []Rule{
	{
		Name:      "Sonnet 4.5",
		Match:     model.FamilySonnet45,
		Threshold: 200_000,
		Input:     Rates{Base: decimal.RequireFromString("3.00"), Above: decimal.RequireFromString("6.00")},
		Output:    Rates{Base: decimal.RequireFromString("15.00"), Above: decimal.RequireFromString("22.50")},
	},
	{
		Name:   "Haiku 4.5",
		Match:  model.FamilyHaiku45,
		Input:  Rates{Base: decimal.RequireFromString("1.00")},
		Output: Rates{Base: decimal.RequireFromString("5.00")},
	},
	{
		Name:   "Opus 4.5",
		Match:  model.FamilyOpus45,
		Input:  Rates{Base: decimal.RequireFromString("5.00")},
		Output: Rates{Base: decimal.RequireFromString("25.00")},
	},
}

// Price returns the cost of tokens for the given model and direction along
// with the tier that was applied. It never fails: unknown models cost zero
// and are labelled model.TierUnknown.
func (t *Table) Price(modelName string, tokens int, dir model.Direction) (decimal.Decimal, model.Tier) {
	rule, ok := t.Lookup(modelName)
	if !ok {
		util.LogDebug(fmt.Sprintf("No pricing rule for model %q, using zero cost", modelName))
		return decimal.Zero, model.TierUnknown
	}

	rates := rule.rates(dir)
	rate, tier := rates.Base, model.TierFlat
	if rule.Threshold > 0 {
		if tokens <= rule.Threshold {
			tier = lowTier(rule.Threshold)
		} else {
			rate, tier = rates.Above, highTier(rule.Threshold)
		}
	}

	return decimal.NewFromInt(int64(tokens)).Mul(rate).Shift(perMillion), tier
}

// Lookup returns the first rule whose Match is a substring of modelName.
func (t *Table) Lookup(modelName string) (Rule, bool) {
	if modelName == "" {
		return Rule{}, false
	}
	for _, rule := range t.rules {
		if rule.Match != "" && strings.Contains(modelName, rule.Match) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the rules in evaluation order
func (t *Table) Rules() []Rule {
	result := make([]Rule, len(t.rules))
	copy(result, t.rules)
	return result
}

func lowTier(threshold int) model.Tier {
	return model.Tier("<=" + compactCount(threshold))
}

func highTier(threshold int) model.Tier {
	return model.Tier(">" + compactCount(threshold))
}

func compactCount(n int) string {
	if n%1000 == 0 {
		return fmt.Sprintf("%dk", n/1000)
	}
	return fmt.Sprintf("%d", n)
}
