package ingest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/finsight/finsight-service/internal/models"
)

// ParseStatement reads an OFX-style XML statement and returns its
// transactions. Expected per-transaction elements: TRNTYPE (CREDIT/DEBIT),
// DTPOSTED (YYYYMMDD, optionally with a time suffix), TRNAMT (signed) and
// NAME or MEMO for the category.
func ParseStatement(r io.Reader) ([]models.Transaction, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML statement: %w", err)
	}

	elements := doc.FindElements("//STMTTRN")
	if len(elements) == 0 {
		elements = doc.FindElements("//stmttrn")
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("no transactions found in statement")
	}

	var txs []models.Transaction
	for _, el := range elements {
		amount, ok := CleanAmount(childText(el, "TRNAMT"))
		if !ok || amount.IsZero() {
			continue
		}

		kind := models.KindExpense
		trnType := strings.ToUpper(childText(el, "TRNTYPE"))
		switch {
		case trnType == "CREDIT":
			kind = models.KindIncome
		case trnType == "DEBIT":
			kind = models.KindExpense
		case !amount.IsNegative():
			kind = models.KindIncome
		}

		category := cleanCategory(childText(el, "NAME"))
		if category == "Other" {
			category = cleanCategory(childText(el, "MEMO"))
		}

		var date *time.Time
		if t, ok := parsePostedDate(childText(el, "DTPOSTED")); ok {
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

// childText returns the text of a child element, matching the tag in either
// case since banks emit both
func childText(el *etree.Element, tag string) string {
	if c := el.FindElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	if c := el.FindElement(strings.ToLower(tag)); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// parsePostedDate parses the OFX YYYYMMDD[HHMMSS] form
func parsePostedDate(s string) (time.Time, bool) {
	if len(s) < 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", s[:8])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
