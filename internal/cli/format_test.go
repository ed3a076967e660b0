package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGroupIndian(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"100000", "1,00,000"},
		{"1234567", "12,34,567"},
		{"123456789", "12,34,56,789"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GroupIndian(tt.in), tt.in)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"1234567.5", "₹12,34,567.50"},
		{"-2180", "-₹2,180.00"},
		{"-0.001", "₹0.00"},
		{"99.999", "₹100.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFormatWhole(t *testing.T) {
	assert.Equal(t, "₹37,84,577", FormatWhole(decimal.RequireFromString("3784576.52")))
	assert.Equal(t, "-₹1,500", FormatWhole(decimal.NewFromInt(-1500)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.5%", FormatPercent(decimal.RequireFromString("12.5")))
	assert.Equal(t, "5.0%", FormatRate(decimal.RequireFromString("0.05")))
	assert.Equal(t, "+20.0%", FormatChange(decimal.NewFromInt(20)))
	assert.Equal(t, "-10.0%", FormatChange(decimal.NewFromInt(-10)))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Budget",
		Headers: []string{"Category", "Spent"},
		Rows: [][]string{
			{"Food & Dining", "₹4,500.00"},
			{"---"},
			{"Total", "₹4,500.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 8)
	assert.Contains(t, out, "Food & Dining")
	assert.Contains(t, out, "│ Total         │ ₹4,500.00 │")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", RenderBar(50, 10))
	assert.Equal(t, "██████████", RenderBar(140, 10))
	assert.Equal(t, "░░░░░░░░░░", RenderBar(-5, 10))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "▁█", RenderSparkline([]float64{0, 10}))
	assert.Empty(t, RenderSparkline(nil))
}
