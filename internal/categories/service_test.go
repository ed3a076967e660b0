package categories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func TestGetIgnoresCase(t *testing.T) {
	svc := NewService(DefaultChart())

	c, ok := svc.Get("food & dining")
	require.True(t, ok)
	assert.Equal(t, "Food & Dining", c.Name)

	assert.True(t, svc.Exists(" SALARY "))
	assert.False(t, svc.Exists("Gifts"))
}

func TestResolve(t *testing.T) {
	svc := NewService(DefaultChart())

	name, err := svc.Resolve("shopping", model.TxnExpense)
	require.NoError(t, err)
	assert.Equal(t, "Shopping", name)

	_, err = svc.Resolve("Salary", model.TxnExpense)
	assert.ErrorContains(t, err, "is for income")

	_, err = svc.Resolve("Gifts", model.TxnExpense)
	assert.ErrorContains(t, err, "unknown category")
}

func TestByType(t *testing.T) {
	svc := NewService(DefaultChart())
	assert.Len(t, svc.ByType(model.TxnIncome), 4)
	assert.Len(t, svc.ByType(model.TxnExpense), 7)
}

func TestLoadMissingFallsBackToDefault(t *testing.T) {
	svc, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Len(t, svc.All(), len(DefaultChart()))
}

func TestLoadFromTestdata(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile("../../testdata/categories.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, File), src, 0o644))

	svc, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 5)
	assert.True(t, svc.Exists("rent"))
}

func TestSaveRoundTrip(t *testing.T) {
	chart := DefaultChart()
	dir := t.TempDir()
	require.NoError(t, NewService(chart).Save(dir))

	svc, err := Load(dir)
	require.NoError(t, err)
	for _, orig := range chart {
		got, ok := svc.Get(orig.Name)
		require.True(t, ok, "category %s should exist", orig.Name)
		assert.Equal(t, orig, got)
	}
}
