package console

import (
	"errors"
	"fmt"

	"github.com/radiusdt/ads-console/internal/models"
)

var ErrUnknownColumn = errors.New("unknown column")

// ColumnStore owns the ordered column configuration. The key set is fixed
// at construction; only order and visibility change afterwards.
type ColumnStore struct {
	cols []models.ColumnSpec
}

// NewColumnStore builds the configuration from specs. Catalogue columns
// missing from specs are appended, visible, in catalogue order. Blank labels
// fall back to the catalogue label.
func NewColumnStore(specs []models.ColumnSpec) (*ColumnStore, error) {
	seen := make(map[models.ColumnKey]bool, len(specs))
	cols := make([]models.ColumnSpec, 0, len(models.ColumnKeys()))
	for _, s := range specs {
		def, ok := s.Key.Def()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, s.Key)
		}
		if seen[s.Key] {
			return nil, fmt.Errorf("duplicate column %q", s.Key)
		}
		seen[s.Key] = true
		if s.Label == "" {
			s.Label = def.Label
		}
		cols = append(cols, s)
	}
	for _, k := range models.ColumnKeys() {
		if seen[k] {
			continue
		}
		def, _ := k.Def()
		cols = append(cols, models.ColumnSpec{Key: k, Label: def.Label, Visible: true})
	}
	return &ColumnStore{cols: cols}, nil
}

// DefaultColumnSpecs is the full catalogue, all visible.
func DefaultColumnSpecs() []models.ColumnSpec {
	out := make([]models.ColumnSpec, 0, len(models.ColumnKeys()))
	for _, k := range models.ColumnKeys() {
		def, _ := k.Def()
		out = append(out, models.ColumnSpec{Key: k, Label: def.Label, Visible: true})
	}
	return out
}

func (s *ColumnStore) Len() int { return len(s.cols) }

// Columns returns a copy of the configuration in current order.
func (s *ColumnStore) Columns() []models.ColumnSpec {
	out := make([]models.ColumnSpec, len(s.cols))
	copy(out, s.cols)
	return out
}

// ToggleVisible flips the visibility of key. Hiding the last visible column
// is refused; the return value reports whether anything changed.
func (s *ColumnStore) ToggleVisible(key models.ColumnKey) bool {
	for i := range s.cols {
		if s.cols[i].Key != key {
			continue
		}
		if s.cols[i].Visible && s.visibleCount() == 1 {
			return false
		}
		s.cols[i].Visible = !s.cols[i].Visible
		return true
	}
	return false
}

// Reorder moves the column at from to position to, shifting the columns in
// between. Indices come from drag tracking; out of range is a bug.
func (s *ColumnStore) Reorder(from, to int) {
	n := len(s.cols)
	if from < 0 || from >= n || to < 0 || to >= n {
		panic(fmt.Sprintf("column reorder out of range: from=%d to=%d len=%d", from, to, n))
	}
	if from == to {
		return
	}
	moved := s.cols[from]
	if from < to {
		copy(s.cols[from:to], s.cols[from+1:to+1])
	} else {
		copy(s.cols[to+1:from+1], s.cols[to:from])
	}
	s.cols[to] = moved
}

// VisibleOrdered returns the visible columns in display order. This is all
// the product table needs to pick and order its cells.
func (s *ColumnStore) VisibleOrdered() []models.ColumnSpec {
	out := make([]models.ColumnSpec, 0, len(s.cols))
	for _, c := range s.cols {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

func (s *ColumnStore) visibleCount() int {
	n := 0
	for _, c := range s.cols {
		if c.Visible {
			n++
		}
	}
	return n
}
