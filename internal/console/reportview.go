package console

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/radiusdt/ads-console/internal/models"
)

// ReportState is a read of the open report view.
type ReportState struct {
	HandleID  string        `json:"handle_id"`
	Scope     string        `json:"scope"`
	Selected  []ChartMetric `json:"selected"`
	Available []ChartMetric `json:"available"`
	Chart     ChartSpec     `json:"chart"`
}

// OpenReport activates the report view with a freshly generated series and
// draws its chart. An already open report is closed first.
func (c *Console) OpenReport() (ReportState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()

	sel := c.chartSel
	if len(sel) == 0 {
		sel = DefaultChartMetrics()
	}
	c.report = newReport(c.generator.Generate(c.now()), sel, c.surface)
	if err := c.renderLocked(); err != nil {
		c.report = nil
		return ReportState{}, err
	}
	c.logger.Info("report opened",
		zap.Int("points", len(c.report.series)),
		zap.String("handle_id", c.report.handle.ID()),
	)
	return c.stateLocked(), nil
}

// CloseReport releases the chart handle and drops the series.
func (c *Console) CloseReport() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report != nil {
		c.logger.Info("report closed")
	}
	c.closeLocked()
}

func (c *Console) closeLocked() {
	if c.report == nil {
		return
	}
	c.report.release()
	c.report = nil
	if c.metrics != nil {
		c.metrics.SetChartHandles(0)
	}
}

// Report returns the open report view.
func (c *Console) Report() (ReportState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return ReportState{}, ErrReportClosed
	}
	return c.stateLocked(), nil
}

// Series returns a copy of the report series, oldest first.
func (c *Console) Series() ([]models.DailySeriesPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return nil, ErrReportClosed
	}
	return c.report.seriesCopy(), nil
}

// EditSeriesCell overwrites one field of one point and redraws the chart.
// Non-numeric or non-finite input and out of range indices are ignored.
// Sibling fields are never recomputed.
func (c *Console) EditSeriesCell(index int, field models.SeriesField, raw string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return false, ErrReportClosed
	}
	if index < 0 || index >= len(c.report.series) {
		c.ignored("series_index")
		return false, nil
	}
	v, ok := parseFinite(raw)
	if !ok {
		c.ignored("invalid_number")
		return false, nil
	}
	if !c.report.series[index].Set(field, v) {
		c.ignored("series_field")
		return false, nil
	}
	if c.metrics != nil {
		c.metrics.RecordSeriesEdit()
	}
	c.logger.Debug("series cell edited",
		zap.Int("index", index),
		zap.String("field", string(field)),
		zap.Float64("value", v),
	)
	return true, c.renderLocked()
}

// ToggleChartMetric adds or removes a chart line and redraws. The last
// selected metric stays selected.
func (c *Console) ToggleChartMetric(m ChartMetric) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return false, ErrReportClosed
	}
	if _, _, _, ok := m.describe(); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownChartMetric, m)
	}
	if !c.report.toggleMetric(m) {
		c.ignored("last_chart_metric")
		return false, nil
	}
	return true, c.renderLocked()
}

// SetReportScope switches the chart between the account and one product.
// The scope only labels the chart.
func (c *Console) SetReportScope(scope string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return ErrReportClosed
	}
	if scope == "" {
		scope = ScopeAccount
	}
	if scope != ScopeAccount {
		if _, ok := c.repo.Get(scope); !ok {
			c.ignored("unknown_product")
			return nil
		}
	}
	c.report.scope = scope
	return c.renderLocked()
}

func (c *Console) renderLocked() error {
	h, err := c.report.render()
	if err != nil {
		c.logger.Warn("chart render failed", zap.Error(err))
		if c.metrics != nil {
			c.metrics.SetChartHandles(0)
		}
		return fmt.Errorf("render chart: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordRender()
		c.metrics.SetChartHandles(1)
	}
	c.logger.Debug("chart rendered", zap.String("handle_id", h.ID()))
	return nil
}

func (c *Console) stateLocked() ReportState {
	r := c.report
	st := ReportState{
		Scope:     r.scope,
		Selected:  r.selectedCopy(),
		Available: ChartMetrics(),
		Chart:     Project(r.series, r.selected, r.scope),
	}
	if r.handle != nil {
		st.HandleID = r.handle.ID()
	}
	return st
}
