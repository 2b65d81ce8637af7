package analytics

import (
	"math"
	"strings"
	"time"

	"github.com/finsight/finsight-service/internal/models"
)

// ParseDate coerces a textual date into a time value. ISO-8601 is tried
// first, then a plain YYYY-MM-DD. The second return reports whether the
// input was usable; it is never an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// normalize returns a defensive copy of the snapshot with every record in
// canonical form: lower-cased kind, non-negative amount, "Other" for a
// missing category. Malformed records are repaired, never dropped.
func normalize(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		tx.Kind = strings.ToLower(strings.TrimSpace(tx.Kind))
		tx.Amount = math.Abs(tx.Amount)
		if strings.TrimSpace(tx.Category) == "" {
			tx.Category = "Other"
		}
		out[i] = tx
	}
	return out
}
