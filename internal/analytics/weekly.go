package analytics

import (
	"fmt"
	"time"

	"github.com/finsight/finsight-service/internal/models"
)

// spikeFactor flags a week whose average daily spend exceeds the prior
// week's by more than 30%.
const spikeFactor = 1.3

// weeklyInsights is the independent 7-day lens over the same normalized
// snapshot: total spend in [now-7d, now), top category, and a spike check
// against the preceding 7-day window. Outlier segregation does not apply
// here; the window is about what actually left the account.
func weeklyInsights(txs []models.Transaction, now time.Time) models.WeeklyInsights {
	weekStart := now.AddDate(0, 0, -7)
	prevStart := weekStart.AddDate(0, 0, -7)

	var totalSpent, prevSpent float64
	catTotals := make(map[string]float64)
	for _, tx := range txs {
		if tx.Kind == models.KindIncome || tx.Date == nil {
			continue
		}
		d := *tx.Date
		switch {
		case !d.Before(weekStart) && d.Before(now):
			totalSpent += tx.Amount
			catTotals[tx.Category] += tx.Amount
		case !d.Before(prevStart) && d.Before(weekStart):
			prevSpent += tx.Amount
		}
	}

	w := models.WeeklyInsights{TotalSpending: totalSpent}
	if totalSpent == 0 {
		w.Insights = append(w.Insights, "No expenses in the last 7 days.")
		return w
	}

	topCat, topVal := topCategory(catTotals)
	if topCat != "" {
		w.Insights = append(w.Insights,
			fmt.Sprintf("Top spending category in last 7 days: %s (%.0f)", topCat, topVal))
	}

	currAvg := totalSpent / 7
	prevAvg := prevSpent / 7
	if prevAvg > 0 && currAvg > prevAvg*spikeFactor {
		w.Insights = append(w.Insights, "Spending increased significantly vs previous week.")
	}

	w.Recommendations = append(w.Recommendations,
		"Review top categories to reduce discretionary spending.")
	return w
}

// topCategory picks the highest-spend category, breaking ties by name so
// the result does not depend on map iteration order.
func topCategory(totals map[string]float64) (string, float64) {
	var top string
	var topVal float64
	for cat, val := range totals {
		if val > topVal || (val == topVal && top != "" && cat < top) {
			top, topVal = cat, val
		}
	}
	return top, topVal
}
