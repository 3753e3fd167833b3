// Package catalog serves the static product list and its in-memory filters.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"groco-backend/internal/models"
)

//go:embed products.json
var defaultData []byte

var ErrNotFound = errors.New("product not found")

type file struct {
	Categories []string         `yaml:"categories"`
	Products   []models.Product `yaml:"products"`
}

// Catalog is read-only after construction.
type Catalog struct {
	products   []models.Product
	categories []string
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return parse(defaultData)
}

// Load reads a catalog file. YAML and JSON are both accepted.
// An empty path gives the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	seen := make(map[int]bool, len(f.Products))
	for _, p := range f.Products {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
	}
	return &Catalog{products: f.Products, categories: f.Categories}, nil
}

// Filter narrows the product list. Zero fields do not filter.
type Filter struct {
	Query    string  // substring of name or description, case-insensitive
	Category string  // exact match
	MaxPrice float64 // inclusive ceiling
}

func (c *Catalog) Filter(f Filter) []models.Product {
	q := strings.ToLower(f.Query)
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Catalog) Products() []models.Product {
	return c.Filter(Filter{})
}

func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Find(id int) (models.Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}
