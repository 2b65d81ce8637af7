package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/finsight/finsight-service/internal/analytics"
	"github.com/finsight/finsight-service/internal/models"
	"github.com/shopspring/decimal"
)

// Header variants accepted per canonical column. Bank exports disagree
// wildly on naming; matching is done on lower-cased names with spaces,
// underscores and dashes stripped.
var columnVariants = map[string][]string{
	"type": {
		"type", "transaction_type", "txn_type", "transactiontype",
		"debit_credit", "dr_cr", "income_expense", "payment_type",
	},
	"category": {
		"category", "cat", "description", "desc", "purpose",
		"merchant", "vendor", "payee", "details", "remarks", "memo", "note",
	},
	"amount": {
		"amount", "amt", "value", "sum", "total", "price",
		"transaction_amount", "debit", "credit", "withdrawal", "deposit", "payment",
	},
	"date": {
		"date", "transaction_date", "txn_date", "transactiondate",
		"datetime", "timestamp", "time", "posted_date", "value_date",
	},
}

var incomeKeywords = []string{
	"income", "credit", "deposit", "received", "inflow",
	"salary", "bonus", "refund", "cr", "in",
}

// ParseCSV reads a CSV bank export into transaction records. The header row
// is matched against known column variants; rows whose amount cannot be
// parsed or is zero are skipped. A malformed date yields a nil date, not an
// error, so the analyzer's fallback aggregation still sees the row.
func ParseCSV(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	cols, err := matchColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	for _, row := range rows[1:] {
		amount, ok := CleanAmount(field(row, cols["amount"]))
		if !ok || amount.IsZero() {
			continue
		}

		kind := cleanKind(field(row, cols["type"]), amount.IsNegative())
		category := cleanCategory(field(row, cols["category"]))

		var date *time.Time
		if t, ok := parsePermissiveDate(field(row, cols["date"])); ok {
			date = &t
		}

		txs = append(txs, models.Transaction{
			Kind:     kind,
			Category: category,
			Amount:   amount.Abs().InexactFloat64(),
			Date:     date,
		})
	}
	return txs, nil
}

// matchColumns resolves the canonical column indexes from the header row
func matchColumns(header []string) (map[string]int, error) {
	norm := make(map[string]int, len(header))
	for i, h := range header {
		norm[normalizeHeader(h)] = i
	}

	cols := make(map[string]int, len(columnVariants))
	var missing []string
	for field, variants := range columnVariants {
		found := false
		for _, v := range variants {
			if idx, ok := norm[normalizeHeader(v)]; ok {
				cols[field] = idx
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s (available: %s)",
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}
	return cols, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// CleanAmount parses a money value as it appears in bank exports: currency
// symbols and thousands separators stripped, parenthesised values negative.
// Parsing is exact via decimal so "1,234.56" survives untouched.
func CleanAmount(s string) (decimal.Decimal, bool) {
	s = strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", ",", "", " ", "").Replace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// cleanKind maps free-form type markers onto income/expense. A negative
// amount forces expense; otherwise unknown markers default to expense.
func cleanKind(s string, negative bool) string {
	if negative {
		return models.KindExpense
	}
	s = strings.ToLower(strings.TrimSpace(s))
	for _, kw := range incomeKeywords {
		if strings.Contains(s, kw) {
			return models.KindIncome
		}
	}
	return models.KindExpense
}

func cleanCategory(s string) string {
	if s == "" {
		return "Other"
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// parsePermissiveDate extends the analyzer's strict formats with the
// day-first and slash forms seen in bank exports
func parsePermissiveDate(s string) (time.Time, bool) {
	if t, ok := analytics.ParseDate(s); ok {
		return t, true
	}
	for _, layout := range []string{"02/01/2006", "02-01-2006", "2006/01/02", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
