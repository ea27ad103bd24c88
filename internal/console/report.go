package console

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/radiusdt/ads-console/internal/models"
)

// ChartMetric is a line that can be drawn on the report chart.
type ChartMetric string

const (
	ChartSales       ChartMetric = "sales"
	ChartOrders      ChartMetric = "orders"
	ChartImpressions ChartMetric = "impressions"
	ChartClicks      ChartMetric = "clicks"
	ChartSpend       ChartMetric = "spend"
	ChartCTR         ChartMetric = "ctr"
	ChartCVR         ChartMetric = "cvr"
	ChartROAS        ChartMetric = "roas"
)

const (
	AxisLeft  = "y"
	AxisRight = "y1"

	ScopeAccount = "account"
)

var (
	ErrUnknownChartMetric = errors.New("unknown chart metric")
	ErrSurfaceBusy        = errors.New("chart surface already bound")
	ErrReportClosed       = errors.New("report view is not open")
)

// DefaultChartMetrics is the selection a fresh report starts with.
func DefaultChartMetrics() []ChartMetric {
	return []ChartMetric{ChartSales, ChartOrders, ChartImpressions}
}

// ChartMetrics lists every metric the chart can draw, in toggle order.
func ChartMetrics() []ChartMetric {
	return []ChartMetric{ChartSales, ChartOrders, ChartImpressions, ChartClicks, ChartSpend, ChartCTR, ChartCVR, ChartROAS}
}

func ParseChartMetric(s string) (ChartMetric, error) {
	m := ChartMetric(s)
	if _, _, _, ok := m.describe(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChartMetric, s)
	}
	return m, nil
}

func (m ChartMetric) describe() (label, axis, color string, ok bool) {
	switch m {
	case ChartSales:
		return "成交金额 (GMV)", AxisLeft, "#ff6600", true
	case ChartOrders:
		return "成交单数", AxisLeft, "#8b5cf6", true
	case ChartImpressions:
		return "曝光量", AxisLeft, "#06b6d4", true
	case ChartClicks:
		return "点击量", AxisLeft, "#4c7ef3", true
	case ChartSpend:
		return "花费", AxisLeft, "#ef4444", true
	case ChartCTR:
		return "点击率", AxisRight, "#10b981", true
	case ChartCVR:
		return "转化率", AxisRight, "#f59e0b", true
	case ChartROAS:
		return "ROAS", AxisRight, "#ec4899", true
	}
	return "", "", "", false
}

// value reads the metric from a point. CTR and CVR are charted as
// percentages.
func (m ChartMetric) value(p models.DailySeriesPoint) float64 {
	switch m {
	case ChartCTR:
		return p.CTR() * 100
	case ChartCVR:
		return p.CVR() * 100
	case ChartROAS:
		return p.ROAS()
	}
	return p.Get(models.SeriesField(m))
}

type ChartDataset struct {
	Metric ChartMetric `json:"metric"`
	Label  string      `json:"label"`
	Axis   string      `json:"axis"`
	Color  string      `json:"color"`
	Data   []float64   `json:"data"`
}

// ChartSpec is everything a drawing surface needs for one render.
type ChartSpec struct {
	Scope         string         `json:"scope"`
	Labels        []string       `json:"labels"`
	Datasets      []ChartDataset `json:"datasets"`
	ShowRightAxis bool           `json:"show_right_axis"`
}

// Project is a pure function of the series and the selection.
func Project(series []models.DailySeriesPoint, selected []ChartMetric, scope string) ChartSpec {
	spec := ChartSpec{
		Scope:    scope,
		Labels:   make([]string, len(series)),
		Datasets: make([]ChartDataset, 0, len(selected)),
	}
	for i, p := range series {
		spec.Labels[i] = p.Label
	}
	for _, m := range selected {
		label, axis, color, ok := m.describe()
		if !ok {
			continue
		}
		data := make([]float64, len(series))
		for i, p := range series {
			data[i] = m.value(p)
		}
		if axis == AxisRight {
			spec.ShowRightAxis = true
		}
		spec.Datasets = append(spec.Datasets, ChartDataset{Metric: m, Label: label, Axis: axis, Color: color, Data: data})
	}
	return spec
}

// ChartSurface is the drawing target of the report chart. A surface holds
// at most one bound chart; the previous handle must be released first.
type ChartSurface interface {
	Bind(spec ChartSpec) (ChartHandle, error)
}

type ChartHandle interface {
	ID() string
	Release()
}

// MemorySurface keeps the most recently bound spec. The HTTP adapter serves
// it to the browser, which does the actual drawing.
type MemorySurface struct {
	mu      sync.Mutex
	current *memoryHandle
}

func NewMemorySurface() *MemorySurface { return &MemorySurface{} }

func (s *MemorySurface) Bind(spec ChartSpec) (ChartHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return nil, ErrSurfaceBusy
	}
	h := &memoryHandle{id: uuid.NewString(), spec: spec, surface: s}
	s.current = h
	return h, nil
}

// Current returns the bound spec, if any.
func (s *MemorySurface) Current() (ChartSpec, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ChartSpec{}, "", false
	}
	return s.current.spec, s.current.id, true
}

type memoryHandle struct {
	id      string
	spec    ChartSpec
	surface *MemorySurface
}

func (h *memoryHandle) ID() string { return h.id }

func (h *memoryHandle) Release() {
	h.surface.mu.Lock()
	defer h.surface.mu.Unlock()
	if h.surface.current == h {
		h.surface.current = nil
	}
}

// Report is one activation of the report view: its own generated series,
// metric selection, scope and the chart handle bound for it.
type Report struct {
	series   []models.DailySeriesPoint
	selected []ChartMetric
	scope    string
	surface  ChartSurface
	handle   ChartHandle
}

func newReport(series []models.DailySeriesPoint, selected []ChartMetric, surface ChartSurface) *Report {
	sel := make([]ChartMetric, 0, len(selected))
	for _, m := range selected {
		if _, _, _, ok := m.describe(); ok && !containsMetric(sel, m) {
			sel = append(sel, m)
		}
	}
	if len(sel) == 0 {
		sel = DefaultChartMetrics()
	}
	return &Report{series: series, selected: sel, scope: ScopeAccount, surface: surface}
}

// render releases the current handle and binds a new one for the current
// state. The release always happens before the bind.
func (r *Report) render() (ChartHandle, error) {
	r.release()
	h, err := r.surface.Bind(Project(r.series, r.selected, r.scope))
	if err != nil {
		return nil, err
	}
	r.handle = h
	return h, nil
}

func (r *Report) release() {
	if r.handle != nil {
		r.handle.Release()
		r.handle = nil
	}
}

// toggleMetric adds or removes m. The last selected metric cannot be removed.
func (r *Report) toggleMetric(m ChartMetric) bool {
	for i, s := range r.selected {
		if s != m {
			continue
		}
		if len(r.selected) == 1 {
			return false
		}
		r.selected = append(r.selected[:i:i], r.selected[i+1:]...)
		return true
	}
	r.selected = append(r.selected, m)
	return true
}

func (r *Report) seriesCopy() []models.DailySeriesPoint {
	out := make([]models.DailySeriesPoint, len(r.series))
	copy(out, r.series)
	return out
}

func (r *Report) selectedCopy() []ChartMetric {
	out := make([]ChartMetric, len(r.selected))
	copy(out, r.selected)
	return out
}

func containsMetric(ms []ChartMetric, m ChartMetric) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
