package ingest

import (
	"strings"
	"testing"

	"github.com/finsight/finsight-service/internal/models"
)

func TestParseCSVCanonicalColumns(t *testing.T) {
	data := `type,category,amount,date
expense,Food,100.50,2024-01-05
income,Salary,"3,000.00",2024-01-01
expense,Rent,1200,2024-01-02
`
	txs, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("parsed %d transactions, want 3", len(txs))
	}
	if txs[0].Kind != models.KindExpense || txs[0].Amount != 100.50 || txs[0].Category != "Food" {
		t.Errorf("txs[0] = %+v", txs[0])
	}
	if txs[1].Kind != models.KindIncome || txs[1].Amount != 3000 {
		t.Errorf("txs[1] = %+v, want income of 3000 (thousands separator stripped)", txs[1])
	}
	if txs[0].Date == nil || txs[0].Date.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("txs[0].Date = %v, want 2024-01-05", txs[0].Date)
	}
}

func TestParseCSVHeaderVariants(t *testing.T) {
	data := `Transaction Date,Txn_Type,Merchant,Transaction_Amount
2024-02-10,DEBIT,Grocery Store,₹450
2024-02-11,CR,Acme Corp,$2000
`
	txs, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("parsed %d transactions, want 2", len(txs))
	}
	if txs[0].Kind != models.KindExpense || txs[0].Amount != 450 {
		t.Errorf("txs[0] = %+v, want expense of 450", txs[0])
	}
	if txs[0].Category != "Grocery Store" {
		t.Errorf("category = %q, want title-cased merchant", txs[0].Category)
	}
	if txs[1].Kind != models.KindIncome {
		t.Errorf("txs[1].Kind = %q, CR marker should map to income", txs[1].Kind)
	}
}

func TestParseCSVDirtyRows(t *testing.T) {
	data := `type,category,amount,date
expense,Food,not-a-number,2024-01-05
expense,Food,0,2024-01-06
expense,,(250.00),05/01/2024
expense,Travel,80,garbage-date
`
	txs, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	// Unparseable and zero amounts are skipped; the rest survive.
	if len(txs) != 2 {
		t.Fatalf("parsed %d transactions, want 2: %+v", len(txs), txs)
	}
	if txs[0].Amount != 250 || txs[0].Kind != models.KindExpense {
		t.Errorf("txs[0] = %+v, want parenthesised 250 expense", txs[0])
	}
	if txs[0].Category != "Other" {
		t.Errorf("category = %q, want Other for a blank cell", txs[0].Category)
	}
	if txs[0].Date == nil || txs[0].Date.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("date = %v, want day-first 05/01/2024 parsed", txs[0].Date)
	}
	if txs[1].Date != nil {
		t.Errorf("date = %v, want nil for an unparseable date", txs[1].Date)
	}
}

func TestParseCSVMissingColumns(t *testing.T) {
	data := `foo,bar
1,2
`
	if _, err := ParseCSV(strings.NewReader(data)); err == nil {
		t.Fatal("expected an error for missing required columns")
	}
}

func TestParseCSVNoRows(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("type,category,amount,date\n")); err == nil {
		t.Fatal("expected an error for a header-only file")
	}
}

func TestCleanAmount(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"100", "100", true},
		{"1,234.56", "1234.56", true},
		{"₹450", "450", true},
		{"$ 2,000", "2000", true},
		{"(250.00)", "-250", true},
		{"", "0", false},
		{"abc", "0", false},
	}
	for _, tc := range cases {
		got, ok := CleanAmount(tc.input)
		if ok != tc.ok {
			t.Errorf("CleanAmount(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(mustDecimal(t, tc.want)) {
			t.Errorf("CleanAmount(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
