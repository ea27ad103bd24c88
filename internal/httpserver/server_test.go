package httpserver

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radiusdt/ads-console/internal/config"
	"github.com/radiusdt/ads-console/internal/console"
	"github.com/radiusdt/ads-console/internal/metrics"
	"github.com/radiusdt/ads-console/internal/models"
	"github.com/radiusdt/ads-console/internal/storage"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	seed, err := storage.LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	repo, err := storage.NewRepoFromSeed(seed)
	if err != nil {
		t.Fatalf("NewRepoFromSeed: %v", err)
	}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	surface := console.NewMemorySurface()
	c, err := console.New(console.Options{
		Repo:      repo,
		Columns:   seed.Columns,
		Generator: console.NewSeriesGenerator(rand.New(rand.NewSource(3)), 30),
		Surface:   surface,
		Metrics:   m,
	})
	if err != nil {
		t.Fatalf("console.New: %v", err)
	}
	cfg := &config.Config{Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"}}
	return NewServer(&Dependencies{Console: c, Surface: surface, Config: cfg, Logger: zap.NewNop(), Metrics: m})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type applied struct {
	Applied bool            `json:"applied"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rr.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)
	if rr := do(t, h, http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Fatalf("health: status %d", rr.Code)
	}
	do(t, h, http.MethodGet, "/products", "")
	rr := do(t, h, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "test_http_request_duration_seconds") {
		t.Fatalf("metrics: status %d", rr.Code)
	}
}

func TestListProductsRoute(t *testing.T) {
	h := newTestServer(t)
	rr := do(t, h, http.MethodGet, "/products?sort=spend&dir=desc", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rr.Code, rr.Body.String())
	}
	var list console.ProductList
	decode(t, rr, &list)
	if len(list.Rows) != 4 || list.Rows[0].ID != "1002" {
		t.Fatalf("rows: %+v", list.Rows)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}

	for _, path := range []string{"/products?sort=bogus", "/products?sort=spend&dir=up", "/products?status=deleted"} {
		if rr := do(t, h, http.MethodGet, path, ""); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d want 400", path, rr.Code)
		}
	}

	rr = do(t, h, http.MethodGet, "/summary?q=1004", "")
	var sum console.SummaryView
	decode(t, rr, &sum)
	if sum.Count != 1 || sum.Sales != 25.35 {
		t.Fatalf("summary: %+v", sum)
	}
}

func TestSortRouteKeepsState(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodPost, "/products/sort/spend", "")
	rr := do(t, h, http.MethodPost, "/products/sort/spend", "")
	var st console.SortState
	decode(t, rr, &st)
	if st.Key != "spend" || st.Direction != console.Descending {
		t.Fatalf("sort state: %+v", st)
	}
	var list console.ProductList
	decode(t, do(t, h, http.MethodGet, "/products", ""), &list)
	if list.Rows[0].ID != "1002" || list.Sort != st {
		t.Fatalf("listing ignores stored sort: %+v", list.Sort)
	}
	if rr := do(t, h, http.MethodPost, "/products/sort/bogus", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bogus key: status %d", rr.Code)
	}
}

func TestEditProductRoutes(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPatch, "/products/1001", `{"spend": 10}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch spend: status %d", rr.Code)
	}
	rr = do(t, h, http.MethodPatch, "/products/1001", `{"roas": 3}`)
	var out applied
	decode(t, rr, &out)
	var p models.AdProduct
	if err := json.Unmarshal(out.Data, &p); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if !out.Applied || p.Sales != 30 || models.FormatRatio(p.Acos) != "33.33" {
		t.Fatalf("back-solve: applied=%v %+v", out.Applied, p)
	}

	if rr := do(t, h, http.MethodPatch, "/products/nope", `{"spend": 1}`); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown product: status %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPatch, "/products/1001", `{"acos": 1}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("derived field edit: status %d want 400", rr.Code)
	}
}

func TestCreateProductRoute(t *testing.T) {
	h := newTestServer(t)
	body := `{"id":"2001","sku_id":"s-2001","spu_id":"p-2001","name":"Desk lamp","status":"active",
		"budget_mode":"unlimited","budget_amount":80,"target_roas":2.5,"spend":50,"sales":100,"orders":4,"roas":9}`

	rr := do(t, h, http.MethodPost, "/products", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rr.Code, rr.Body.String())
	}
	var p models.AdProduct
	decode(t, rr, &p)
	if p.Roas != 2 || p.Cpa != 12.5 || p.BudgetAmount != 0 {
		t.Fatalf("created product not normalized: %+v", p)
	}

	if rr := do(t, h, http.MethodPost, "/products", body); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate: status %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/products", `{"id":"2002","status":"stopped"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid product: status %d", rr.Code)
	}

	var list console.ProductList
	decode(t, do(t, h, http.MethodGet, "/products?q=2001", ""), &list)
	if len(list.Rows) != 1 {
		t.Fatalf("created product not listed: %d rows", len(list.Rows))
	}
}

func TestBudgetRoute(t *testing.T) {
	h := newTestServer(t)
	cases := []struct {
		body   string
		mode   models.BudgetMode
		amount float64
	}{
		{`{"value": "-5"}`, models.BudgetModeUnlimited, 0},
		{`{"value": 50}`, models.BudgetModeCustom, 50},
		{`{"value": "abc"}`, models.BudgetModeUnlimited, 0},
	}
	for _, tc := range cases {
		rr := do(t, h, http.MethodPut, "/products/1003/budget", tc.body)
		var out applied
		decode(t, rr, &out)
		var p models.AdProduct
		if err := json.Unmarshal(out.Data, &p); err != nil {
			t.Fatalf("decode product: %v", err)
		}
		if p.BudgetMode != tc.mode || p.BudgetAmount != tc.amount {
			t.Fatalf("%s: got {%s %v}", tc.body, p.BudgetMode, p.BudgetAmount)
		}
	}
}

func TestTargetRoasRoute(t *testing.T) {
	h := newTestServer(t)
	rr := do(t, h, http.MethodPut, "/products/1001/target-roas", `{"choice": "weak"}`)
	var out applied
	decode(t, rr, &out)
	var p models.AdProduct
	_ = json.Unmarshal(out.Data, &p)
	if !out.Applied || p.TargetRoas != 4.2 {
		t.Fatalf("weak tier: %+v", p)
	}
	rr = do(t, h, http.MethodPut, "/products/1001/target-roas", `{"choice": "-1"}`)
	decode(t, rr, &out)
	if out.Applied {
		t.Fatal("invalid target applied")
	}
}

func TestColumnRoutes(t *testing.T) {
	h := newTestServer(t)
	rr := do(t, h, http.MethodPost, "/columns/move", `{"from": 0, "to": 2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("move: status %d", rr.Code)
	}
	var cols []models.ColumnSpec
	decode(t, do(t, h, http.MethodGet, "/columns", ""), &cols)
	if cols[0].Key != models.ColumnSales || cols[1].Key != models.ColumnRoas || cols[2].Key != models.ColumnSpend {
		t.Fatalf("after move: %+v", cols[:3])
	}

	for _, body := range []string{`{"from": 0, "to": 12}`, `{"from": -1, "to": 0}`, `{"from": 0}`} {
		if rr := do(t, h, http.MethodPost, "/columns/move", body); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d want 400", body, rr.Code)
		}
	}

	rr = do(t, h, http.MethodPost, "/columns/cpa/toggle", "")
	var out applied
	decode(t, rr, &out)
	if !out.Applied {
		t.Fatal("toggle not applied")
	}
	if rr := do(t, h, http.MethodPost, "/columns/bogus/toggle", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown column: status %d", rr.Code)
	}
}

func TestEditCursorRoutes(t *testing.T) {
	h := newTestServer(t)
	if rr := do(t, h, http.MethodPost, "/edit-cursor/commit", `{"value": "1"}`); rr.Code != http.StatusConflict {
		t.Fatalf("commit without cursor: status %d", rr.Code)
	}

	do(t, h, http.MethodPost, "/edit-cursor", `{"product_id": "1001", "column": "orders"}`)
	rr := do(t, h, http.MethodPost, "/edit-cursor", `{"product_id": "1002", "column": "spend"}`)
	var out applied
	decode(t, rr, &out)
	var cur console.EditCursor
	_ = json.Unmarshal(out.Data, &cur)
	if !out.Applied || cur.ProductID != "1002" || cur.Column != models.ColumnSpend {
		t.Fatalf("cursor: %+v", cur)
	}

	rr = do(t, h, http.MethodPost, "/edit-cursor/commit", `{"value": "2.5"}`)
	decode(t, rr, &out)
	var p models.AdProduct
	_ = json.Unmarshal(out.Data, &p)
	if !out.Applied || p.ID != "1002" || p.Spend != 2.5 {
		t.Fatalf("commit: %+v", p)
	}

	var state struct {
		Active bool `json:"active"`
	}
	decode(t, do(t, h, http.MethodGet, "/edit-cursor", ""), &state)
	if state.Active {
		t.Fatal("cursor still active after commit")
	}

	do(t, h, http.MethodPost, "/edit-cursor", `{"product_id": "1002", "column": "spend"}`)
	if rr := do(t, h, http.MethodDelete, "/edit-cursor", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("cancel: status %d", rr.Code)
	}
}

func TestReportRoutes(t *testing.T) {
	h := newTestServer(t)
	if rr := do(t, h, http.MethodGet, "/report/series", ""); rr.Code != http.StatusConflict {
		t.Fatalf("series before open: status %d", rr.Code)
	}

	rr := do(t, h, http.MethodPost, "/report", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("open: status %d", rr.Code)
	}
	var st console.ReportState
	decode(t, rr, &st)
	if st.HandleID == "" || len(st.Chart.Labels) != 31 {
		t.Fatalf("open state: %+v", st)
	}

	rr = do(t, h, http.MethodPut, "/report/series/0/orders", `{"value": "17"}`)
	var out applied
	decode(t, rr, &out)
	if !out.Applied {
		t.Fatalf("series edit not applied: %s", rr.Body.String())
	}
	var series []models.DailySeriesPoint
	decode(t, do(t, h, http.MethodGet, "/report/series", ""), &series)
	if series[0].Orders != 17 {
		t.Fatalf("orders: got %v", series[0].Orders)
	}

	rr = do(t, h, http.MethodPut, "/report/series/0/orders", `{"value": "x"}`)
	decode(t, rr, &out)
	if out.Applied {
		t.Fatal("malformed series input applied")
	}
	if rr := do(t, h, http.MethodPut, "/report/series/0/ctr", `{"value": "1"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("derived series field: status %d", rr.Code)
	}

	rr = do(t, h, http.MethodPost, "/report/metrics/cvr/toggle", "")
	decode(t, rr, &out)
	if !out.Applied {
		t.Fatal("metric toggle not applied")
	}
	var chart console.ChartSpec
	rr = do(t, h, http.MethodGet, "/report/chart", "")
	decode(t, rr, &chart)
	var current console.ReportState
	decode(t, do(t, h, http.MethodGet, "/report", ""), &current)
	if rr.Header().Get("X-Chart-Handle") != current.HandleID {
		t.Fatalf("chart handle %q does not match report handle %q", rr.Header().Get("X-Chart-Handle"), current.HandleID)
	}
	if !chart.ShowRightAxis || len(chart.Datasets) != 4 {
		t.Fatalf("chart: right=%v datasets=%d", chart.ShowRightAxis, len(chart.Datasets))
	}
	if rr := do(t, h, http.MethodPost, "/report/metrics/acos/toggle", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown metric: status %d", rr.Code)
	}

	rr = do(t, h, http.MethodPut, "/report/scope", `{"scope": "1002"}`)
	decode(t, rr, &st)
	if st.Scope != "1002" {
		t.Fatalf("scope: %q", st.Scope)
	}

	if rr := do(t, h, http.MethodDelete, "/report", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("close: status %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/report/chart", ""); rr.Code != http.StatusConflict {
		t.Fatalf("chart after close: status %d", rr.Code)
	}
}
