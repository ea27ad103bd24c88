package console

import (
	"math"
	"strconv"
	"strings"

	"github.com/radiusdt/ads-console/internal/models"
)

// Rule identifies which recalculation rule an edit triggered.
type Rule string

const (
	// RuleDerive recomputes roas/acos/cpa from spend, sales and orders.
	RuleDerive Rule = "derive"
	// RuleRoasBacksolve solves sales for a new roas holding spend fixed.
	RuleRoasBacksolve Rule = "roas_backsolve"
	// RuleMerge copies the assigned fields with no recomputation.
	RuleMerge Rule = "merge"
)

// Apply returns p with the edit applied. p is a value, so the caller's record
// is never modified. Exactly one rule fires; derive wins over the roas
// back-solve when an edit carries both trigger sets.
func Apply(p models.AdProduct, e models.ProductEdit) (models.AdProduct, Rule) {
	out := p
	e.MergeInto(&out)
	out.NormalizeBudget()

	switch {
	case e.TouchesFinancials():
		out.Recalculate()
		return out, RuleDerive
	case e.Roas != nil:
		// cpa is left as is: it does not depend on sales.
		out.Sales = out.Spend * *e.Roas
		out.Acos = models.DeriveAcos(out.Spend, out.Sales)
		out.Roas = *e.Roas
		return out, RuleRoasBacksolve
	default:
		return out, RuleMerge
	}
}

// BudgetOutcome tells how a raw budget input was normalized.
type BudgetOutcome string

const (
	BudgetOutcomeUnlimited BudgetOutcome = "unlimited"
	BudgetOutcomeCustom    BudgetOutcome = "custom"
)

// NormalizeBudgetInput turns the raw text of the budget editor into an edit.
// Anything that is not a positive finite number means "unlimited".
func NormalizeBudgetInput(raw string) (models.ProductEdit, BudgetOutcome) {
	v, ok := parseFinite(raw)
	if !ok || v <= 0 {
		mode := models.BudgetModeUnlimited
		return models.ProductEdit{BudgetMode: &mode, BudgetAmount: models.Float(0)}, BudgetOutcomeUnlimited
	}
	mode := models.BudgetModeCustom
	return models.ProductEdit{BudgetMode: &mode, BudgetAmount: models.Float(v)}, BudgetOutcomeCustom
}

// parseFinite parses operator input. Empty, malformed, NaN and infinite
// values are rejected.
func parseFinite(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
