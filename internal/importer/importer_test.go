package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func readChase(t *testing.T) []model.BankTransaction {
	t.Helper()
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)

	txns, err := (&ChaseParser{}).Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	return txns
}

func readHDFC(t *testing.T) []model.BankTransaction {
	t.Helper()
	f, err := os.Open("../../testdata/hdfc_statement.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&HDFCParser{}).Parse(f)
	require.NoError(t, err)
	return txns
}

func TestChaseParser_Parse(t *testing.T) {
	txns := readChase(t)
	require.Len(t, txns, 6)

	assert.Equal(t, "NETFLIX.COM SUBSCRIPTION", txns[0].Description)
	assert.Equal(t, "-649.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", txns[0].Type)
	assert.Equal(t, 2025, txns[0].Date.Year())
	assert.Equal(t, 1, int(txns[0].Date.Month()))
	assert.Equal(t, 3, txns[0].Date.Day())

	assert.Equal(t, "ACME TECH SALARY JAN", txns[3].Description)
	assert.True(t, txns[3].Amount.IsPositive())
	assert.Equal(t, "95000.00", txns[3].Amount.StringFixed(2))

	last := txns[5]
	assert.Equal(t, 22, last.Date.Day())
}

func TestChaseParser_NegativePositiveAmounts(t *testing.T) {
	for _, txn := range readChase(t) {
		if txn.Description == "ACME TECH SALARY JAN" {
			assert.True(t, txn.Amount.IsPositive())
		} else {
			assert.True(t, txn.Amount.IsNegative(), "expected negative for %s", txn.Description)
		}
	}
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestChaseParser_BadDate(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestChaseParser_BadAmount(t *testing.T) {
	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestChaseParser_Format(t *testing.T) {
	p := &ChaseParser{}
	assert.Equal(t, "chase", p.Format())
}

func TestChaseParser_Reference(t *testing.T) {
	txns := readChase(t)
	assert.Equal(t, "chase_20250103_NETFLIXCOM", txns[0].Reference)
	// Same day, same prefix.
	assert.Equal(t, txns[1].Reference, txns[2].Reference)
}

func TestChaseParser_SlipNumberAndColumnOrder(t *testing.T) {
	csv := "Type,Description,Check or Slip #,Amount,Posting Date\n" +
		"CHECK_PAID,CHEQUE 104233,104233,\"-12,500.00\",02/14/2025\n" +
		",,,,\n" +
		"ACH_DEBIT,AIRTEL POSTPAID,,-799,02/15/2025\n"
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 2, "blank rows are skipped")

	assert.Equal(t, "chase_104233", txns[0].Reference)
	assert.Equal(t, "-12500.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "CHECK_PAID", txns[0].Type)
	assert.Equal(t, "chase_20250215_AIRTELPOST", txns[1].Reference)
}

func TestChaseParser_MissingColumn(t *testing.T) {
	_, err := (&ChaseParser{}).Parse(strings.NewReader("Details,Posting Date,Description,Type\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"amount"`)
}

func TestStatementRef(t *testing.T) {
	date := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want string
	}{
		{"UTR778812", "x_UTR778812"},
		{" 0001 ", "x_0001"},
		{"", "x_20250415_NEFTRENTAP"},
		{"000000", "x_20250415_NEFTRENTAP"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statementRef("x", tt.raw, date, "NEFT-RENT APR-LANDLORD"), "raw %q", tt.raw)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	p := r.Get("chase")
	require.NotNil(t, p)
	assert.Equal(t, "chase", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	assert.NotNil(t, r.Get("Chase"))
	assert.NotNil(t, r.Get("CHASE"))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("chase"))
	assert.NotNil(t, r.Get("hdfc"))
	assert.Equal(t, []string{"chase", "hdfc"}, r.Formats())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&HDFCParser{})
	assert.Panics(t, func() { r.Register(&HDFCParser{}) })
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "bank.csv", files[0].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "bank.csv")
	require.NoError(t, err)

	// Source gone.
	_, err = os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	// Destination exists.
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}

func TestMarkProcessed_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "a.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "a.csv")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "import", "processed"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestHDFCParser_Parse(t *testing.T) {
	txns := readHDFC(t)
	require.Len(t, txns, 4)

	salary := txns[0]
	assert.Equal(t, "2025-04-01", salary.Date.Format("2006-01-02"))
	assert.Equal(t, "125000.00", salary.Amount.StringFixed(2))
	assert.Equal(t, "DEPOSIT", salary.Type)
	assert.Equal(t, "hdfc_0000000000000001", salary.Reference)

	assert.Equal(t, "-456.00", txns[1].Amount.StringFixed(2))
	assert.Equal(t, "WITHDRAWAL", txns[1].Type)
	assert.Equal(t, "-2180.00", txns[2].Amount.StringFixed(2))
}

func TestHDFCParser_SynthesizesMissingRef(t *testing.T) {
	txns := readHDFC(t)
	assert.Equal(t, "hdfc_20250415_NEFTRENTAP", txns[3].Reference)

	csv := "Date,Narration,Ref,Value Dt,Withdrawal,Deposit,Balance\n02/05/2025,ATM CASH,000000,02/05/2025,500.00,,100.00\n"
	got, err := (&HDFCParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hdfc_20250502_ATMCASH", got[0].Reference)
}

func TestHDFCParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "2025-04-01,X,1,01/04/25,10.00,,0", "parsing date"},
		{"bad withdrawal", "01/04/25,X,1,01/04/25,abc,,0", "parsing withdrawal"},
		{"bad deposit", "01/04/25,X,1,01/04/25,,1.2.3,0", "parsing deposit"},
		{"short row", "01/04/25,X,1", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "Date,Narration,Ref,Value Dt,Withdrawal,Deposit,Balance\n" + tt.row + "\n"
			_, err := (&HDFCParser{}).Parse(strings.NewReader(csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRules_Categorize(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		desc string
		typ  model.TxnType
		want string
		ok   bool
	}{
		{"ACME TECH SALARY JAN", model.TxnIncome, "Salary", true},
		{"upi-zomato-payzomato@hdfc", model.TxnExpense, "Food & Dining", true},
		{"NEFT-RENT APR-LANDLORD", model.TxnExpense, "Bills & Utilities", true},
		{"SALARY REVERSAL", model.TxnExpense, "Other", false},
		{"CASH DEPOSIT", model.TxnIncome, "Other Income", false},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := r.Categorize(tt.desc, tt.typ)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRules_LoadSave(t *testing.T) {
	dir := t.TempDir()

	r, err := LoadRules(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), r, "missing file falls back to defaults")

	custom := Rules{
		Rules:          []Rule{{Match: "coffee", Category: "Food & Dining", Type: model.TxnExpense}},
		DefaultIncome:  "Other Income",
		DefaultExpense: "Other",
	}
	require.NoError(t, SaveRules(dir, custom))

	got, err := LoadRules(dir)
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

func TestRules_LoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RulesFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - match: \"\"\n    category: Food\n"), 0o644))

	_, err := LoadRules(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty match")
	assert.Contains(t, err.Error(), "default_income")
}

func TestConvert(t *testing.T) {
	out := Convert(readChase(t), DefaultRules())
	require.Len(t, out.Transactions, 6)
	assert.Equal(t, 1, out.Uncategorized)
	assert.Zero(t, out.Skipped)

	netflix := out.Transactions[0]
	assert.Equal(t, model.TxnExpense, netflix.Type)
	assert.Equal(t, "649.00", netflix.Amount.StringFixed(2))
	assert.Equal(t, "Entertainment", netflix.Category)
	assert.Empty(t, netflix.ID)

	salary := out.Transactions[3]
	assert.Equal(t, model.TxnIncome, salary.Type)
	assert.Equal(t, "Salary", salary.Category)

	assert.Equal(t, "chase_20250105_SWIGGYORDE", out.Transactions[1].Reference)
	assert.Equal(t, "chase_20250105_SWIGGYORDE_2", out.Transactions[2].Reference)
	assert.Equal(t, "Other", out.Transactions[5].Category)
}

func TestConvert_SkipsZeroAmounts(t *testing.T) {
	bank := []model.BankTransaction{{Description: "REVERSAL", Reference: "x"}}
	out := Convert(bank, DefaultRules())
	assert.Empty(t, out.Transactions)
	assert.Equal(t, 1, out.Skipped)
}

func TestDedupe(t *testing.T) {
	out := Convert(readHDFC(t), DefaultRules())
	existing := []model.Transaction{{Reference: "hdfc_0000000000000001"}, {Reference: ""}}

	fresh, dupes := Dedupe(out.Transactions, existing)
	assert.Equal(t, 1, dupes)
	assert.Len(t, fresh, 3)
	for _, f := range fresh {
		assert.NotEqual(t, "hdfc_0000000000000001", f.Reference)
	}
}
