package console

import (
	"errors"
	"fmt"
	"testing"

	"github.com/radiusdt/ads-console/internal/models"
)

// strictSurface fails a bind while an earlier handle is still live.
type strictSurface struct {
	live   int
	binds  int
	events []string
}

type strictHandle struct {
	id      string
	surface *strictSurface
	done    bool
}

func (s *strictSurface) Bind(spec ChartSpec) (ChartHandle, error) {
	if s.live > 0 {
		return nil, ErrSurfaceBusy
	}
	s.live++
	s.binds++
	h := &strictHandle{id: fmt.Sprintf("h%d", s.binds), surface: s}
	s.events = append(s.events, "bind:"+h.id)
	return h, nil
}

func (h *strictHandle) ID() string { return h.id }

func (h *strictHandle) Release() {
	if h.done {
		return
	}
	h.done = true
	h.surface.live--
	h.surface.events = append(h.surface.events, "release:"+h.id)
}

func testSeries() []models.DailySeriesPoint {
	return []models.DailySeriesPoint{
		{Label: "1/1", Impressions: 1000, Clicks: 30, Orders: 3, Sales: 120, Spend: 15},
		{Label: "1/2", Impressions: 0, Clicks: 0, Orders: 0, Sales: 0, Spend: 0},
	}
}

func TestProjectIsPure(t *testing.T) {
	series := testSeries()
	sel := []ChartMetric{ChartSales, ChartCTR}
	a := Project(series, sel, ScopeAccount)
	b := Project(series, sel, ScopeAccount)
	if fmt.Sprint(a) != fmt.Sprint(b) {
		t.Fatalf("projection not idempotent:\n%v\n%v", a, b)
	}
	if len(a.Labels) != 2 || a.Labels[0] != "1/1" {
		t.Fatalf("labels: %v", a.Labels)
	}
	if len(a.Datasets) != 2 {
		t.Fatalf("datasets: %d", len(a.Datasets))
	}
	ctr := a.Datasets[1]
	if ctr.Axis != AxisRight || ctr.Data[0] != 3 || ctr.Data[1] != 0 {
		t.Fatalf("ctr dataset: %+v", ctr)
	}
	if !a.ShowRightAxis {
		t.Fatal("right axis must show for ctr")
	}
	if Project(series, []ChartMetric{ChartSales, ChartOrders}, ScopeAccount).ShowRightAxis {
		t.Fatal("right axis must hide without ratio metrics")
	}
}

func TestReportReleasesBeforeBind(t *testing.T) {
	surface := &strictSurface{}
	r := newReport(testSeries(), nil, surface)
	for i := 0; i < 3; i++ {
		if _, err := r.render(); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	want := []string{"bind:h1", "release:h1", "bind:h2", "release:h2", "bind:h3"}
	if fmt.Sprint(surface.events) != fmt.Sprint(want) {
		t.Fatalf("events: got %v want %v", surface.events, want)
	}
	r.release()
	if surface.live != 0 {
		t.Fatalf("live handles after release: %d", surface.live)
	}
}

func TestReportToggleMetricKeepsLast(t *testing.T) {
	r := newReport(testSeries(), []ChartMetric{ChartSales}, NewMemorySurface())
	if r.toggleMetric(ChartSales) {
		t.Fatal("last metric removed")
	}
	if !r.toggleMetric(ChartROAS) || !r.toggleMetric(ChartSales) {
		t.Fatal("toggle refused")
	}
	if sel := r.selectedCopy(); len(sel) != 1 || sel[0] != ChartROAS {
		t.Fatalf("selection: %v", sel)
	}
}

func TestNewReportDefaults(t *testing.T) {
	r := newReport(testSeries(), []ChartMetric{"bogus", ChartSales, ChartSales}, NewMemorySurface())
	if sel := r.selectedCopy(); len(sel) != 1 || sel[0] != ChartSales {
		t.Fatalf("selection: %v", sel)
	}
	r = newReport(testSeries(), nil, NewMemorySurface())
	if fmt.Sprint(r.selectedCopy()) != fmt.Sprint(DefaultChartMetrics()) {
		t.Fatalf("default selection: %v", r.selectedCopy())
	}
	if r.scope != ScopeAccount {
		t.Fatalf("scope: %q", r.scope)
	}
}

func TestMemorySurface(t *testing.T) {
	s := NewMemorySurface()
	h, err := s.Bind(ChartSpec{Scope: "a"})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, err := s.Bind(ChartSpec{Scope: "b"}); !errors.Is(err, ErrSurfaceBusy) {
		t.Fatalf("expected ErrSurfaceBusy, got %v", err)
	}
	spec, id, ok := s.Current()
	if !ok || id != h.ID() || spec.Scope != "a" {
		t.Fatalf("current: %v %q %v", spec, id, ok)
	}
	h.Release()
	if _, _, ok := s.Current(); ok {
		t.Fatal("surface still bound after release")
	}
	h2, err := s.Bind(ChartSpec{Scope: "c"})
	if err != nil {
		t.Fatalf("rebind: %v", err)
	}
	// A stale handle must not unbind its successor.
	h.Release()
	if _, id, ok := s.Current(); !ok || id != h2.ID() {
		t.Fatal("stale release unbound the current chart")
	}
}

func TestParseChartMetric(t *testing.T) {
	for _, m := range ChartMetrics() {
		if got, err := ParseChartMetric(string(m)); err != nil || got != m {
			t.Fatalf("ParseChartMetric(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseChartMetric("acos"); !errors.Is(err, ErrUnknownChartMetric) {
		t.Fatalf("expected ErrUnknownChartMetric, got %v", err)
	}
}
