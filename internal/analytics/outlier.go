package analytics

import (
	"sort"

	"github.com/finsight/finsight-service/internal/models"
)

// Outlier detection constants: an expense is a one-time outlier when it
// strictly exceeds 10x the median expense, with an absolute floor so small
// histories do not flag ordinary purchases.
const (
	outlierMedianFactor = 10.0
	outlierFloor        = 50000.0
	outlierMinSamples   = 3
)

// outlierAmounts returns the set of expense magnitudes classified as
// one-time outliers. Membership is by value, not by transaction identity:
// two distinct transactions with the same outlier amount are both excluded.
// By-identity would be more defensible for accidentally identical amounts,
// but by-value matches the established behavior of the report.
func outlierAmounts(txs []models.Transaction) map[float64]bool {
	var amounts []float64
	for _, tx := range txs {
		if tx.Kind == models.KindExpense {
			amounts = append(amounts, tx.Amount)
		}
	}
	if len(amounts) < outlierMinSamples {
		return nil
	}

	sort.Float64s(amounts)
	// Upper of the two middle values for even counts.
	median := amounts[len(amounts)/2]
	threshold := outlierMedianFactor * median
	if threshold < outlierFloor {
		threshold = outlierFloor
	}

	outliers := make(map[float64]bool)
	for _, amt := range amounts {
		if amt > threshold {
			outliers[amt] = true
		}
	}
	return outliers
}
