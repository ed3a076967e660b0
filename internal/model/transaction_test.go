package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTxnType(t *testing.T) {
	tests := []struct {
		input   string
		want    TxnType
		wantErr bool
	}{
		{"income", TxnIncome, false},
		{"EXPENSE", TxnExpense, false},
		{" Income ", TxnIncome, false},
		{"transfer", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTxnType(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "ParseTxnType(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParseTxnType(%q)", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:     TxnExpense,
		Amount:   decimal.RequireFromString("42.50"),
		Category: "Food & Dining",
		Date:     time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Amount = decimal.RequireFromString("-1")
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Amount = decimal.RequireFromString("1.005")
	assert.ErrorContains(t, bad.Validate(), "2 decimal places")

	bad = valid
	bad.Type = "refund"
	assert.Error(t, bad.Validate())

	bad = Transaction{}
	err := bad.Validate()
	require.Error(t, err)
	// Every broken field is reported, not only the first.
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 3)
}

func TestSigned(t *testing.T) {
	in := Transaction{Type: TxnIncome, Amount: decimal.NewFromInt(10)}
	out := Transaction{Type: TxnExpense, Amount: decimal.NewFromInt(10)}
	assert.True(t, in.Signed().Equal(decimal.NewFromInt(10)))
	assert.True(t, out.Signed().Equal(decimal.NewFromInt(-10)))
}

func TestHoldingGain(t *testing.T) {
	h := CryptoHolding{
		Amount:        decimal.RequireFromString("0.5"),
		PurchasePrice: decimal.NewFromInt(100),
		CurrentPrice:  decimal.NewFromInt(80),
	}
	assert.True(t, h.UnrealizedGain().Equal(decimal.NewFromInt(-10)))
	assert.True(t, h.Value().Equal(decimal.NewFromInt(40)))
	assert.True(t, h.Cost().Equal(decimal.NewFromInt(50)))
}
