package analytics

import (
	"sort"

	"github.com/finsight/finsight-service/internal/models"
)

type monthKey struct {
	year  int
	month int
}

type monthTotals struct {
	income         float64
	regularExpense float64
	outlierExpense float64
}

// aggregates is the bucketed view of one transaction snapshot. Built fresh
// per analysis call, never persisted.
type aggregates struct {
	monthly             []models.MonthlyBucket // ascending by (year, month)
	totalIncome         float64
	totalRegularExpense float64
	totalOutlierExpense float64
	categories          map[string]float64 // regular expenses only
}

// aggregate buckets every dated transaction into its calendar month and
// accumulates global totals. Transactions without a usable date still count
// toward the global totals but not toward the monthly series or categories.
func aggregate(txs []models.Transaction, outliers map[float64]bool) *aggregates {
	buckets := make(map[monthKey]*monthTotals)
	agg := &aggregates{categories: make(map[string]float64)}

	for _, tx := range txs {
		isOutlier := tx.Kind == models.KindExpense && outliers[tx.Amount]

		switch {
		case tx.Kind == models.KindIncome:
			agg.totalIncome += tx.Amount
		case isOutlier:
			agg.totalOutlierExpense += tx.Amount
		default:
			agg.totalRegularExpense += tx.Amount
		}

		if tx.Date == nil {
			continue
		}

		// Category totals follow the monthly series: an undated row only
		// reaches the global totals above.
		if tx.Kind == models.KindExpense && !isOutlier {
			agg.categories[tx.Category] += tx.Amount
		}
		key := monthKey{year: tx.Date.Year(), month: int(tx.Date.Month())}
		mt := buckets[key]
		if mt == nil {
			mt = &monthTotals{}
			buckets[key] = mt
		}
		switch {
		case tx.Kind == models.KindIncome:
			mt.income += tx.Amount
		case isOutlier:
			mt.outlierExpense += tx.Amount
		default:
			mt.regularExpense += tx.Amount
		}
	}

	keys := make([]monthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	for _, k := range keys {
		mt := buckets[k]
		agg.monthly = append(agg.monthly, models.MonthlyBucket{
			Year:           k.year,
			Month:          k.month,
			Income:         mt.income,
			Expense:        mt.regularExpense,
			OutlierExpense: mt.outlierExpense,
		})
	}
	return agg
}

// expenseSeries returns the regular-expense totals in month order
func (a *aggregates) expenseSeries() []float64 {
	series := make([]float64, len(a.monthly))
	for i, m := range a.monthly {
		series[i] = m.Expense
	}
	return series
}

// topCategories returns up to limit categories ordered by spend descending,
// name ascending on equal spend so the output is reproducible.
func (a *aggregates) topCategories(limit int) []models.CategoryTotal {
	totals := make([]models.CategoryTotal, 0, len(a.categories))
	for cat, amt := range a.categories {
		totals = append(totals, models.CategoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Category < totals[j].Category
	})
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}

// report converts the aggregates into their output form
func (a *aggregates) report(topLimit int) models.Aggregates {
	return models.Aggregates{
		TotalIncome:         a.totalIncome,
		TotalExpense:        a.totalRegularExpense,
		TotalOutlierExpense: a.totalOutlierExpense,
		MonthlySeries:       a.monthly,
		TopCategories:       a.topCategories(topLimit),
	}
}
