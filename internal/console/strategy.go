package console

import "github.com/radiusdt/ads-console/internal/models"

// RoasStrategy is a target-ROAS tier offered by the target editor.
type RoasStrategy string

const (
	StrategyStrong RoasStrategy = "strong"
	StrategyMedium RoasStrategy = "medium"
	StrategyWeak   RoasStrategy = "weak"
	StrategyCustom RoasStrategy = "custom"
)

// Value returns the fixed target of a tier. Custom has none.
func (s RoasStrategy) Value() (float64, bool) {
	switch s {
	case StrategyStrong:
		return 1.90, true
	case StrategyMedium:
		return 2.85, true
	case StrategyWeak:
		return 4.20, true
	}
	return 0, false
}

// SuggestStrategy picks the tier pre-selected for an existing target.
func SuggestStrategy(target float64) RoasStrategy {
	switch {
	case target <= 2.0:
		return StrategyStrong
	case target <= 3.0:
		return StrategyMedium
	case target <= 5.0:
		return StrategyWeak
	}
	return StrategyCustom
}

// ResolveTargetRoas turns a tier name or a custom number into a target
// rounded to two decimals. Non-numeric and non-positive input is rejected.
func ResolveTargetRoas(choice string) (float64, bool) {
	if v, ok := RoasStrategy(choice).Value(); ok {
		return v, true
	}
	v, ok := parseFinite(choice)
	if !ok {
		return 0, false
	}
	v = models.Round2(v)
	if v <= 0 {
		return 0, false
	}
	return v, true
}
