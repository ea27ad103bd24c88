package console

import (
	"errors"
	"fmt"
	"sort"

	"github.com/radiusdt/ads-console/internal/models"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortKey is a stored field, a column key, or the empty "no sort" key.
type SortKey string

const (
	SortNone         SortKey = ""
	SortID           SortKey = "id"
	SortName         SortKey = "name"
	SortStatus       SortKey = "status"
	SortBudgetAmount SortKey = "budgetAmount"
	SortTargetRoas   SortKey = "targetRoas"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s)
	if k == SortNone {
		return k, nil
	}
	if _, _, ok := sortExtractor(k); !ok {
		return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
	return k, nil
}

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Ascending, Descending:
		return d, nil
	case "":
		return Ascending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// SortState is the active sort of the product table.
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle selects key: the same key flips direction, a new key starts
// ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Sort returns a sorted copy of records. Equal elements keep their input
// order in both directions. The empty key returns the input order.
func Sort(records []models.AdProduct, key SortKey, dir Direction) []models.AdProduct {
	out := make([]models.AdProduct, len(records))
	copy(out, records)
	if key == SortNone {
		return out
	}
	num, text, ok := sortExtractor(key)
	if !ok {
		return out
	}

	var less func(a, b models.AdProduct) bool
	if text != nil {
		less = func(a, b models.AdProduct) bool { return text(a) < text(b) }
	} else {
		less = func(a, b models.AdProduct) bool { return num(a) < num(b) }
	}
	if dir == Descending {
		asc := less
		less = func(a, b models.AdProduct) bool { return asc(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// sortExtractor returns either a numeric or a text accessor for key. Virtual
// column keys compute their value from the raw counters on every call.
func sortExtractor(key SortKey) (num func(models.AdProduct) float64, text func(models.AdProduct) string, ok bool) {
	if def, found := models.ColumnKey(key).Def(); found {
		return def.Value, nil, true
	}
	switch key {
	case SortID:
		return nil, func(p models.AdProduct) string { return p.ID }, true
	case SortName:
		return nil, func(p models.AdProduct) string { return p.Name }, true
	case SortStatus:
		return nil, func(p models.AdProduct) string { return string(p.Status) }, true
	case SortBudgetAmount:
		return func(p models.AdProduct) float64 { return p.BudgetAmount }, nil, true
	case SortTargetRoas:
		return func(p models.AdProduct) float64 { return p.TargetRoas }, nil, true
	}
	return nil, nil, false
}
