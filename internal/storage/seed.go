package storage

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/radiusdt/ads-console/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the data set the console starts from.
type Seed struct {
	Products []models.AdProduct  `yaml:"products"`
	Columns  []models.ColumnSpec `yaml:"columns"`
}

// LoadSeed reads the seed document at path, or the embedded default when
// path is empty. Derived metrics in the document are ignored and recomputed
// from spend, sales and orders.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		data = b
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i := range s.Products {
		p := &s.Products[i]
		p.NormalizeBudget()
		p.Recalculate()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed product %d: %w", i, err)
		}
	}
	return &s, nil
}

// NewRepoFromSeed loads the seed products into a fresh in-memory repo.
func NewRepoFromSeed(s *Seed) (*InMemoryProductRepo, error) {
	return NewInMemoryProductRepo(s.Products...)
}
