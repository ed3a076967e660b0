package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTxnID(t *testing.T) {
	tests := []struct {
		year, month, seq int
		want             string
	}{
		{2025, 1, 1, "2025-01-001"},
		{2025, 12, 99, "2025-12-099"},
		{2025, 1, 123, "2025-01-123"},
		{2025, 1, 1234, "2025-01-1234"},
	}
	for _, tt := range tests {
		got := FormatTxnID(tt.year, tt.month, tt.seq)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseTxnID(t *testing.T) {
	tests := []struct {
		input               string
		wantYear, wantMonth int
		wantSeq             int
	}{
		{"2025-01-001", 2025, 1, 1},
		{"2025-12-099", 2025, 12, 99},
		{"2025-01-1234", 2025, 1, 1234},
	}
	for _, tt := range tests {
		year, month, seq, err := ParseTxnID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantMonth, month)
		assert.Equal(t, tt.wantSeq, seq)
	}
}

func TestParseTxnID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"not-valid",
		"2025-01",
		"xxxx-01-001",
		"2025-13-001",
		"2025-01-000",
		"2025-01-001a",
	}
	for _, input := range badInputs {
		_, _, _, err := ParseTxnID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)
	assert.NoError(t, uuid.Validate(a))
	_, _, _, err := ParseTxnID(a)
	assert.Error(t, err, "uuids never parse as transaction IDs")
}

func TestShort(t *testing.T) {
	u := "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	assert.Equal(t, "3f2504e0", Short(u))
	assert.Equal(t, "2025-01-001", Short("2025-01-001"))
}
