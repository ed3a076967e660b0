package portfolio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// DefaultPricesFile is the snapshot location relative to the data root.
const DefaultPricesFile = "prices.yaml"

// Quote is a point-in-time price for one symbol.
type Quote struct {
	Price     decimal.Decimal `yaml:"price"`
	Change24h decimal.Decimal `yaml:"change_24h"`
}

// PriceSource supplies quotes. Implementations may fetch; the valuation
// code never does.
type PriceSource interface {
	Quotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// Snapshot is the on-disk price file.
type Snapshot struct {
	AsOf   time.Time        `yaml:"as_of,omitempty"`
	Quotes map[string]Quote `yaml:"quotes"`
}

// FileSource reads quotes from a YAML snapshot. A missing file yields
// no quotes.
type FileSource struct {
	Path string
}

// Quotes returns the requested symbols found in the snapshot.
func (f FileSource) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := LoadSnapshot(f.Path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Quote, len(symbols))
	for _, sym := range symbols {
		if q, ok := snap.Quotes[NormalizeSymbol(sym)]; ok {
			out[NormalizeSymbol(sym)] = q
		}
	}
	return out, nil
}

// LoadSnapshot reads a price file. Symbols are normalized on load.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{Quotes: map[string]Quote{}}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading prices: %w", err)
	}

	var raw Snapshot
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("parsing prices %s: %w", path, err)
	}

	snap := Snapshot{AsOf: raw.AsOf, Quotes: make(map[string]Quote, len(raw.Quotes))}
	for sym, q := range raw.Quotes {
		if q.Price.IsNegative() {
			return Snapshot{}, fmt.Errorf("prices %s: %s has negative price %s", path, sym, q.Price)
		}
		snap.Quotes[NormalizeSymbol(sym)] = q
	}
	return snap, nil
}

// SaveSnapshot writes a price file, creating parent directories.
func SaveSnapshot(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling prices: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating prices dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Refresh prices holdings through src.
func Refresh(ctx context.Context, src PriceSource, holdings []model.CryptoHolding) ([]model.CryptoHolding, error) {
	quotes, err := src.Quotes(ctx, Symbols(holdings))
	if err != nil {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}
	return Apply(holdings, quotes), nil
}
