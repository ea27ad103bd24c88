package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/radiusdt/ads-console/internal/console"
	"github.com/radiusdt/ads-console/internal/models"
	"github.com/radiusdt/ads-console/internal/storage"
)

// rawInput is operator text. JSON numbers are accepted too and kept in
// their literal form, so parsing stays with the console.
type rawInput string

func (in *rawInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*in = rawInput(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*in = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*in = rawInput(n.String())
	return nil
}

var errBadStatus = errors.New("status must be active or paused")

type valueRequest struct {
	Value rawInput `json:"value"`
}

// ---- Product table ----

func (s *Server) parseListQuery(r *http.Request) (console.ListQuery, error) {
	q := r.URL.Query()
	lq := console.ListQuery{Search: q.Get("q")}

	if raw, ok := q["sort"]; ok {
		key, err := console.ParseSortKey(raw[0])
		if err != nil {
			return lq, err
		}
		dir, err := console.ParseDirection(q.Get("dir"))
		if err != nil {
			return lq, err
		}
		lq.Sort = console.SortState{Key: key, Direction: dir}
	} else {
		lq.Sort = s.console.CurrentSort()
	}

	switch st := models.ProductStatus(q.Get("status")); st {
	case "", models.ProductStatusActive, models.ProductStatusPaused:
		lq.Status = st
	default:
		return lq, errBadStatus
	}
	return lq, nil
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	lq, err := s.parseListQuery(r)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, s.console.ListProducts(lq))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	lq, err := s.parseListQuery(r)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, s.console.Summary(lq))
}

func (s *Server) handleSortBy(w http.ResponseWriter, r *http.Request) {
	key, err := console.ParseSortKey(chi.URLParam(r, "key"))
	if err != nil || key == console.SortNone {
		s.errorResponse(w, "unknown sort key", http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, s.console.SortBy(key))
}

// handleCreateProduct is the entry point of the campaign creation flow.
// Derived metrics in the body are ignored and recomputed.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.AdProduct
	if err := decodeJSON(r, &p); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := s.console.AddProduct(p); err != nil {
		if errors.Is(err, storage.ErrDuplicateProduct) {
			s.errorResponse(w, err.Error(), http.StatusConflict)
			return
		}
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, _ := s.console.Product(p.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	s.jsonResponse(w, created)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := s.console.Product(chi.URLParam(r, "id"))
	if !ok {
		s.errorResponse(w, "product not found", http.StatusNotFound)
		return
	}
	s.jsonResponse(w, p)
}

// productAfter runs fn against an existing product and answers with the
// product's state afterwards.
func (s *Server) productAfter(w http.ResponseWriter, r *http.Request, fn func(id string) bool) {
	id := chi.URLParam(r, "id")
	if _, ok := s.console.Product(id); !ok {
		s.errorResponse(w, "product not found", http.StatusNotFound)
		return
	}
	applied := fn(id)
	p, _ := s.console.Product(id)
	s.appliedResponse(w, applied, p)
}

func (s *Server) handleEditProduct(w http.ResponseWriter, r *http.Request) {
	var e models.ProductEdit
	if err := decodeJSON(r, &e); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.productAfter(w, r, func(id string) bool {
		return s.console.EditProduct(id, e)
	})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.productAfter(w, r, func(id string) bool {
		return s.console.SetBudget(id, string(req.Value))
	})
}

func (s *Server) handleSetTargetRoas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice rawInput `json:"choice"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.productAfter(w, r, func(id string) bool {
		return s.console.SetTargetRoas(id, string(req.Choice))
	})
}

// ---- Columns ----

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, s.console.Columns())
}

func (s *Server) handleToggleColumn(w http.ResponseWriter, r *http.Request) {
	key, ok := models.ParseColumnKey(chi.URLParam(r, "key"))
	if !ok {
		s.errorResponse(w, "unknown column", http.StatusBadRequest)
		return
	}
	applied := s.console.ToggleColumn(key)
	s.appliedResponse(w, applied, s.console.Columns())
}

func (s *Server) handleMoveColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From *int `json:"from"`
		To   *int `json:"to"`
	}
	if err := decodeJSON(r, &req); err != nil || req.From == nil || req.To == nil {
		s.errorResponse(w, "from and to are required", http.StatusBadRequest)
		return
	}
	n := s.console.ColumnCount()
	if *req.From < 0 || *req.From >= n || *req.To < 0 || *req.To >= n {
		s.errorResponse(w, "column index out of range: 0.."+strconv.Itoa(n-1), http.StatusBadRequest)
		return
	}
	s.console.MoveColumn(*req.From, *req.To)
	s.appliedResponse(w, true, s.console.Columns())
}

// ---- Edit cursor ----

func (s *Server) handleGetCursor(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.console.Cursor()
	if !ok {
		s.jsonResponse(w, map[string]interface{}{"active": false})
		return
	}
	s.jsonResponse(w, map[string]interface{}{"active": true, "cursor": cur})
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Column    string `json:"column"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	key, ok := models.ParseColumnKey(req.Column)
	if !ok {
		s.errorResponse(w, "unknown column", http.StatusBadRequest)
		return
	}
	applied := s.console.BeginEdit(req.ProductID, key)
	cur, _ := s.console.Cursor()
	s.appliedResponse(w, applied, cur)
}

func (s *Server) handleCommitEdit(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	cur, active := s.console.Cursor()
	if !active {
		s.errorResponse(w, "no cell is being edited", http.StatusConflict)
		return
	}
	applied := s.console.CommitEdit(string(req.Value))
	p, _ := s.console.Product(cur.ProductID)
	s.appliedResponse(w, applied, p)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.console.CancelEdit()
	w.WriteHeader(http.StatusNoContent)
}
