// Package categories manages the income and expense category chart.
package categories

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// File is the chart location relative to the data root.
const File = "categories.csv"

// Service provides in-memory, case-insensitive lookup over the chart.
type Service struct {
	cats   []model.Category
	byName map[string]model.Category
}

// NewService creates a Service from a slice of categories.
func NewService(cats []model.Category) *Service {
	byName := make(map[string]model.Category, len(cats))
	for _, c := range cats {
		byName[key(c.Name)] = c
	}
	return &Service{cats: cats, byName: byName}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load reads categories.csv from a data root. A missing file falls back
// to the default chart.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, File)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewService(DefaultChart()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening categories: %w", err)
	}
	defer f.Close()

	cats, err := ReadCategories(f)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return NewService(cats), nil
}

// All returns all categories.
func (s *Service) All() []model.Category {
	return s.cats
}

// Get returns a category by name, ignoring case.
func (s *Service) Get(name string) (model.Category, bool) {
	c, ok := s.byName[key(name)]
	return c, ok
}

// Exists reports whether a category name is known.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[key(name)]
	return ok
}

// Resolve returns the canonical spelling of name and checks that it
// belongs to typ.
func (s *Service) Resolve(name string, typ model.TxnType) (string, error) {
	c, ok := s.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown category %q", name)
	}
	if c.Type != typ {
		return "", fmt.Errorf("category %q is for %s, not %s", c.Name, c.Type, typ)
	}
	return c.Name, nil
}

// ByType returns all categories of the given type.
func (s *Service) ByType(typ model.TxnType) []model.Category {
	var result []model.Category
	for _, c := range s.cats {
		if c.Type == typ {
			result = append(result, c)
		}
	}
	return result
}

// Save writes the chart to categories.csv.
func (s *Service) Save(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, File))
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer f.Close()

	if err := WriteCategories(f, s.cats); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}
