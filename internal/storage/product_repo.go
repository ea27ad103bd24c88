package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/radiusdt/ads-console/internal/models"
)

var ErrDuplicateProduct = errors.New("duplicate product id")

// ProductRepo holds the console's products. List order is insertion order,
// which is the "unsorted" order of the product table.
type ProductRepo interface {
	// List returns copies of all products in insertion order.
	List() []models.AdProduct
	// Get returns a copy of the product with the given ID.
	Get(id string) (models.AdProduct, bool)
	// Replace overwrites an existing product. It reports false, and stores
	// nothing, when the ID is unknown.
	Replace(p models.AdProduct) bool
	// Append adds a new product at the end. IDs are never reused.
	Append(p models.AdProduct) error
	Len() int
}

// InMemoryProductRepo is an ordered in-memory ProductRepo.
type InMemoryProductRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.AdProduct
}

// NewInMemoryProductRepo creates a repo holding ps in the given order.
func NewInMemoryProductRepo(ps ...models.AdProduct) (*InMemoryProductRepo, error) {
	r := &InMemoryProductRepo{byID: make(map[string]models.AdProduct, len(ps))}
	for _, p := range ps {
		if err := r.Append(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *InMemoryProductRepo) List() []models.AdProduct {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.AdProduct, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *InMemoryProductRepo) Get(id string) (models.AdProduct, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

func (r *InMemoryProductRepo) Replace(p models.AdProduct) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return false
	}
	r.byID[p.ID] = p
	return true
}

func (r *InMemoryProductRepo) Append(p models.AdProduct) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
	}
	r.order = append(r.order, p.ID)
	r.byID[p.ID] = p
	return nil
}

func (r *InMemoryProductRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
