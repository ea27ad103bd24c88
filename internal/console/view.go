package console

import (
	"strings"

	"github.com/radiusdt/ads-console/internal/models"
)

// ListQuery selects and orders the product table.
type ListQuery struct {
	Sort   SortState
	Status models.ProductStatus // empty means all
	// Search holds product, SKU or SPU ids separated by spaces or commas.
	Search string
}

func (q ListQuery) tokens() []string {
	return strings.FieldsFunc(q.Search, func(r rune) bool {
		return r == ',' || r == '，' || r == ' ' || r == '\t' || r == '\n'
	})
}

func (q ListQuery) filter(ps []models.AdProduct) []models.AdProduct {
	toks := q.tokens()
	if q.Status == "" && len(toks) == 0 {
		return ps
	}
	out := make([]models.AdProduct, 0, len(ps))
	for _, p := range ps {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if len(toks) > 0 && !matchesAny(p, toks) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesAny(p models.AdProduct, toks []string) bool {
	for _, t := range toks {
		if p.MatchesToken(t) {
			return true
		}
	}
	return false
}

// Cell is one rendered metric of a row or of the totals line.
type Cell struct {
	Key      models.ColumnKey `json:"key"`
	Value    float64          `json:"value"`
	Display  string           `json:"display"`
	Editable bool             `json:"editable"`
}

type ColumnHeader struct {
	Key      models.ColumnKey `json:"key"`
	Label    string           `json:"label"`
	Virtual  bool             `json:"virtual"`
	Editable bool             `json:"editable"`
	Sorted   Direction        `json:"sorted,omitempty"`
}

// ProductRow is a product augmented with its read-time ratios and the
// rendered cells of the visible columns.
type ProductRow struct {
	models.AdProduct
	CTR      float64      `json:"ctr"`
	CVR      float64      `json:"cvr"`
	Strategy RoasStrategy `json:"target_roas_strategy"`
	Cells    []Cell       `json:"cells"`
}

// SummaryView is the scorecard line over the listed products.
type SummaryView struct {
	models.Summary
	Roas float64 `json:"roas"`
	Acos float64 `json:"acos"`
	Cpa  float64 `json:"cpa"`
}

func NewSummaryView(ps []models.AdProduct) SummaryView {
	s := models.Totals(ps)
	return SummaryView{Summary: s, Roas: s.Roas(), Acos: s.Acos(), Cpa: s.Cpa()}
}

type ProductList struct {
	Sort    SortState      `json:"sort"`
	Columns []ColumnHeader `json:"columns"`
	Rows    []ProductRow   `json:"rows"`
	Totals  []Cell         `json:"totals"`
	Summary SummaryView    `json:"summary"`
}

// buildList renders ps for the visible columns, in their display order.
func buildList(ps []models.AdProduct, visible []models.ColumnSpec, q ListQuery) ProductList {
	listed := Sort(q.filter(ps), q.Sort.Key, q.Sort.Direction)

	list := ProductList{
		Sort:    q.Sort,
		Rows:    make([]ProductRow, 0, len(listed)),
		Summary: NewSummaryView(listed),
	}

	defs := make([]models.ColumnDef, 0, len(visible))
	for _, c := range visible {
		def, ok := c.Key.Def()
		if !ok {
			continue
		}
		defs = append(defs, def)
		h := ColumnHeader{Key: c.Key, Label: c.Label, Virtual: def.Virtual, Editable: def.Editable}
		if SortKey(c.Key) == q.Sort.Key {
			h.Sorted = q.Sort.Direction
		}
		list.Columns = append(list.Columns, h)
		list.Totals = append(list.Totals, Cell{Key: c.Key, Display: def.Total(listed)})
	}

	for _, p := range listed {
		row := ProductRow{
			AdProduct: p,
			CTR:       p.CTR(),
			CVR:       p.CVR(),
			Strategy:  SuggestStrategy(p.TargetRoas),
			Cells:     make([]Cell, 0, len(defs)),
		}
		for _, def := range defs {
			v := def.Value(p)
			row.Cells = append(row.Cells, Cell{Key: def.Key, Value: v, Display: def.Format(v), Editable: def.Editable})
		}
		list.Rows = append(list.Rows, row)
	}
	return list
}
