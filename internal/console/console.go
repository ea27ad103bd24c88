package console

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/ads-console/internal/metrics"
	"github.com/radiusdt/ads-console/internal/models"
	"github.com/radiusdt/ads-console/internal/storage"
)

// Options configures a Console. Repo is required; everything else has a
// usable default.
type Options struct {
	Repo         storage.ProductRepo
	Columns      []models.ColumnSpec
	Generator    *SeriesGenerator
	Surface      ChartSurface
	ChartMetrics []ChartMetric
	Clock        func() time.Time
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
}

// Console owns the product list, the column configuration, the edit cursor
// and the report view. Every operation runs under one lock, so each
// operator action is applied atomically and seen by the next read.
type Console struct {
	mu sync.Mutex

	repo      storage.ProductRepo
	columns   *ColumnStore
	sort      SortState
	cursor    *EditCursor
	generator *SeriesGenerator
	surface   ChartSurface
	chartSel  []ChartMetric
	report    *Report

	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a console over opts.Repo.
func New(opts Options) (*Console, error) {
	if opts.Repo == nil {
		return nil, errors.New("console: product repo is required")
	}
	specs := opts.Columns
	if len(specs) == 0 {
		specs = DefaultColumnSpecs()
	}
	cols, err := NewColumnStore(specs)
	if err != nil {
		return nil, fmt.Errorf("console: columns: %w", err)
	}
	if opts.Generator == nil {
		opts.Generator = NewSeriesGenerator(nil, DefaultSeriesDays)
	}
	if opts.Surface == nil {
		opts.Surface = NewMemorySurface()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &Console{
		repo:      opts.Repo,
		columns:   cols,
		generator: opts.Generator,
		surface:   opts.Surface,
		chartSel:  opts.ChartMetrics,
		now:       opts.Clock,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
	if c.metrics != nil {
		c.metrics.SetProducts(c.repo.Len())
	}
	return c, nil
}

// ListProducts returns the filtered, sorted product table with the visible
// columns rendered, the totals row and the scorecard summary.
func (c *Console) ListProducts(q ListQuery) ProductList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildList(c.repo.List(), c.columns.VisibleOrdered(), q)
}

// Products lists everything under the current sort state.
func (c *Console) Products() ProductList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildList(c.repo.List(), c.columns.VisibleOrdered(), ListQuery{Sort: c.sort})
}

// Summary reduces the rows selected by q to the scorecard figures.
func (c *Console) Summary(q ListQuery) SummaryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return NewSummaryView(q.filter(c.repo.List()))
}

func (c *Console) Product(id string) (models.AdProduct, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repo.Get(id)
}

// CurrentSort returns the sort state kept between listings.
func (c *Console) CurrentSort() SortState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// SortBy applies a header click: the same key flips direction, a new key
// starts ascending.
func (c *Console) SortBy(key SortKey) SortState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = c.sort.Toggle(key)
	c.logger.Debug("sort changed",
		zap.String("key", string(c.sort.Key)),
		zap.String("direction", string(c.sort.Direction)),
	)
	return c.sort
}

// EditProduct applies a partial edit through the reconciler. Unknown ids,
// empty edits and edits that would leave the record out of range are
// ignored; the return value reports whether anything was stored.
func (c *Console) EditProduct(id string, e models.ProductEdit) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editLocked(id, e)
}

func (c *Console) editLocked(id string, e models.ProductEdit) bool {
	if e.IsEmpty() {
		c.ignored("empty_edit")
		return false
	}
	cur, ok := c.repo.Get(id)
	if !ok {
		c.ignored("unknown_product")
		c.logger.Debug("edit for unknown product", zap.String("product_id", id))
		return false
	}
	next, rule := Apply(cur, e)
	if err := next.Validate(); err != nil {
		c.ignored("out_of_range")
		c.logger.Debug("edit rejected", zap.String("product_id", id), zap.Error(err))
		return false
	}
	if !c.repo.Replace(next) {
		c.ignored("unknown_product")
		return false
	}
	if c.metrics != nil {
		c.metrics.RecordProductEdit(string(rule))
	}
	c.logger.Debug("product edited",
		zap.String("product_id", id),
		zap.Strings("fields", e.Fields()),
		zap.String("rule", string(rule)),
	)
	return true
}

// SetBudget commits the raw text of the budget editor. Non-positive or
// non-numeric input switches the product to an unlimited budget.
func (c *Console) SetBudget(id, raw string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, outcome := NormalizeBudgetInput(raw)
	if !c.editLocked(id, e) {
		return false
	}
	if c.metrics != nil {
		c.metrics.RecordBudget(string(outcome))
	}
	return true
}

// SetTargetRoas accepts a strategy tier name or a custom number.
func (c *Console) SetTargetRoas(id, choice string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := ResolveTargetRoas(choice)
	if !ok {
		c.ignored("invalid_target_roas")
		return false
	}
	return c.editLocked(id, models.ProductEdit{TargetRoas: models.Float(v)})
}

// AddProduct appends a product created outside the console, such as by the
// campaign creation flow.
func (c *Console) AddProduct(p models.AdProduct) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.NormalizeBudget()
	p.Recalculate()
	if err := c.repo.Append(p); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.SetProducts(c.repo.Len())
	}
	c.logger.Info("product added", zap.String("product_id", p.ID))
	return nil
}

// Columns returns the column configuration in display order.
func (c *Console) Columns() []models.ColumnSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columns.Columns()
}

// ToggleColumn flips a column's visibility. Hiding the last visible column
// is refused.
func (c *Console) ToggleColumn(key models.ColumnKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.columns.ToggleVisible(key) {
		c.ignored("column_toggle")
		return false
	}
	if c.metrics != nil {
		c.metrics.RecordColumnChange("toggle")
	}
	c.logger.Debug("column toggled", zap.String("column", string(key)))
	return true
}

// MoveColumn moves the column at from to index to. Both indices must be in
// range; callers validate them first.
func (c *Console) MoveColumn(from, to int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.columns.Reorder(from, to)
	if c.metrics != nil {
		c.metrics.RecordColumnChange("move")
	}
	c.logger.Debug("column moved", zap.Int("from", from), zap.Int("to", to))
}

// ColumnCount is the length of the column configuration.
func (c *Console) ColumnCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columns.Len()
}

func (c *Console) ignored(reason string) {
	if c.metrics != nil {
		c.metrics.RecordIgnored(reason)
	}
}
