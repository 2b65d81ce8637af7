package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/finsight/finsight-service/internal/models"
)

func weeklyTx(kind, category string, amount float64, when time.Time) models.Transaction {
	return models.Transaction{Kind: kind, Category: category, Amount: amount, Date: &when}
}

func TestWeeklyInsightsEmptyWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	old := weeklyTx(models.KindExpense, "Food", 100, now.AddDate(0, 0, -30))

	w := weeklyInsights([]models.Transaction{old}, now)

	if w.TotalSpending != 0 {
		t.Errorf("total = %v, want 0", w.TotalSpending)
	}
	if len(w.Insights) != 1 || !strings.Contains(w.Insights[0], "No expenses") {
		t.Errorf("insights = %v, want the no-expenses note", w.Insights)
	}
	if len(w.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none without spend", w.Recommendations)
	}
}

func TestWeeklyInsightsTopCategoryAndTotal(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		weeklyTx(models.KindExpense, "Food", 300, now.AddDate(0, 0, -2)),
		weeklyTx(models.KindExpense, "Travel", 500, now.AddDate(0, 0, -3)),
		weeklyTx(models.KindExpense, "Food", 100, now.AddDate(0, 0, -6)),
		weeklyTx(models.KindIncome, "Salary", 9000, now.AddDate(0, 0, -1)), // ignored
	}

	w := weeklyInsights(txs, now)

	if w.TotalSpending != 900 {
		t.Errorf("total = %v, want 900", w.TotalSpending)
	}
	if len(w.Insights) == 0 || !strings.Contains(w.Insights[0], "Travel") {
		t.Errorf("insights = %v, want Travel as top category", w.Insights)
	}
	if len(w.Recommendations) != 1 {
		t.Errorf("recommendations = %v, want the review suggestion", w.Recommendations)
	}
}

func TestWeeklyInsightsWindowBoundaries(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		weeklyTx(models.KindExpense, "Food", 10, now),                       // at now: excluded
		weeklyTx(models.KindExpense, "Food", 20, now.AddDate(0, 0, -7)),     // at window start: included
		{Kind: models.KindExpense, Category: "Food", Amount: 40, Date: nil}, // undated: excluded
	}

	w := weeklyInsights(txs, now)

	if w.TotalSpending != 20 {
		t.Errorf("total = %v, want 20 (half-open window [now-7d, now))", w.TotalSpending)
	}
}

func TestWeeklyInsightsSpikeDetection(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	spike := []models.Transaction{
		weeklyTx(models.KindExpense, "Food", 700, now.AddDate(0, 0, -10)), // previous week
		weeklyTx(models.KindExpense, "Food", 1000, now.AddDate(0, 0, -2)), // current week
	}
	w := weeklyInsights(spike, now)
	if !containsSpike(w.Insights) {
		t.Errorf("insights = %v, want spike flag (1000 > 1.3 x 700)", w.Insights)
	}

	// Exactly 1.3x must not flag: the comparison is strict. Totals are
	// multiples of 7 so the daily averages are exact.
	flat := []models.Transaction{
		weeklyTx(models.KindExpense, "Food", 700, now.AddDate(0, 0, -10)),
		weeklyTx(models.KindExpense, "Food", 910, now.AddDate(0, 0, -2)),
	}
	w = weeklyInsights(flat, now)
	if containsSpike(w.Insights) {
		t.Errorf("insights = %v, exactly 1.3x must not flag", w.Insights)
	}

	// No previous-week spend: nothing to compare against.
	noPrev := []models.Transaction{
		weeklyTx(models.KindExpense, "Food", 5000, now.AddDate(0, 0, -1)),
	}
	w = weeklyInsights(noPrev, now)
	if containsSpike(w.Insights) {
		t.Errorf("insights = %v, no spike without a previous-week baseline", w.Insights)
	}
}

func containsSpike(insights []string) bool {
	for _, s := range insights {
		if strings.Contains(s, "increased significantly") {
			return true
		}
	}
	return false
}
