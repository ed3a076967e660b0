package portfolio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func holdings() []model.CryptoHolding {
	return []model.CryptoHolding{
		{ID: "a", Symbol: "eth", Amount: dec("2"), PurchasePrice: dec("200000"), CurrentPrice: dec("250000"), Change24h: dec("-1")},
		{ID: "b", Symbol: "BTC", Amount: dec("0.1"), PurchasePrice: dec("5000000"), CurrentPrice: dec("4000000"), Change24h: dec("3")},
	}
}

func TestValue(t *testing.T) {
	s := Value(holdings())
	require.Len(t, s.Positions, 2)

	assert.Equal(t, "eth", s.Positions[0].Holding.Symbol, "largest value first")
	assert.True(t, s.Positions[0].Gain.Equal(dec("100000")))
	assert.True(t, s.Positions[0].GainPercent.Equal(dec("25")))
	assert.True(t, s.Positions[1].Gain.Equal(dec("-100000")))
	assert.True(t, s.Positions[1].GainPercent.Equal(dec("-20")))

	assert.True(t, s.TotalValue.Equal(dec("900000")))
	assert.True(t, s.TotalCost.Equal(dec("900000")))
	assert.True(t, s.UnrealizedGain.IsZero())
	assert.True(t, s.AvgChange24h.Equal(dec("1")))
}

func TestValueEmpty(t *testing.T) {
	s := Value(nil)
	assert.Empty(t, s.Positions)
	assert.True(t, s.AvgChange24h.IsZero())
	assert.True(t, s.GainPercent.IsZero())
}

func TestApplyKeepsUnquoted(t *testing.T) {
	in := holdings()
	out := Apply(in, map[string]Quote{"ETH": {Price: dec("300000"), Change24h: dec("5")}})

	assert.True(t, out[0].CurrentPrice.Equal(dec("300000")))
	assert.True(t, out[0].Change24h.Equal(dec("5")))
	assert.True(t, out[1].CurrentPrice.Equal(dec("4000000")))
	assert.True(t, in[0].CurrentPrice.Equal(dec("250000")), "input not mutated")
}

func TestSymbols(t *testing.T) {
	h := append(holdings(), model.CryptoHolding{Symbol: " Eth "})
	assert.Equal(t, []string{"BTC", "ETH"}, Symbols(h))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`quotes:
  btc:
    price: 5500000
    change_24h: 2.5
  ETH:
    price: "260000.50"
`), 0o644))

	src := FileSource{Path: path}
	quotes, err := src.Quotes(context.Background(), []string{"BTC", "eth", "SOL"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.True(t, quotes["BTC"].Price.Equal(dec("5500000")))
	assert.True(t, quotes["BTC"].Change24h.Equal(dec("2.5")))
	assert.True(t, quotes["ETH"].Price.Equal(dec("260000.5")))

	refreshed, err := Refresh(context.Background(), src, holdings())
	require.NoError(t, err)
	assert.True(t, refreshed[1].CurrentPrice.Equal(dec("5500000")))
}

func TestFileSourceMissingFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "none.yaml")}
	quotes, err := src.Quotes(context.Background(), []string{"BTC"})
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestLoadSnapshotRejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quotes:\n  BTC:\n    price: -1\n"), 0o644))
	_, err := LoadSnapshot(path)
	assert.Error(t, err)
}

func TestSaveSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "prices.yaml")
	snap := Snapshot{Quotes: map[string]Quote{"BTC": {Price: dec("100.25"), Change24h: dec("-0.5")}}}
	require.NoError(t, SaveSnapshot(path, snap))

	got, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.True(t, got.Quotes["BTC"].Price.Equal(dec("100.25")))
	assert.True(t, got.Quotes["BTC"].Change24h.Equal(dec("-0.5")))
}

type failingSource struct{}

func (failingSource) Quotes(context.Context, []string) (map[string]Quote, error) {
	return nil, errors.New("offline")
}

func TestRefreshError(t *testing.T) {
	_, err := Refresh(context.Background(), failingSource{}, holdings())
	assert.ErrorContains(t, err, "offline")
}
