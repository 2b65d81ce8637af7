package analytics

import (
	"math"

	"github.com/finsight/finsight-service/internal/models"
)

// metrics are the derived scalars every sub-score is built from
type metrics struct {
	avgMonthlyIncome    float64
	avgMonthlyExpense   float64
	avgMonthlySavings   float64
	dti                 float64 // clamped to [0, 10]
	paymentConsistency  float64 // fraction of months with positive income
	emergencyFundMonths float64
	liquidityRatio      float64
	volatility          float64
	diversification     float64
	discipline          float64 // savings rate, clamped to [0, 1]
	spendingConsistency float64
	emergencyFundCap    float64
}

// subScores are the four risk dimensions plus their weighted combination,
// each in [0,1] with higher meaning riskier.
type subScores struct {
	credit      float64
	liquidity   float64
	market      float64
	operational float64
	overall     float64
}

// deriveMetrics computes the scalar inputs of the risk model. Callers
// guarantee at least one monthly bucket exists.
func deriveMetrics(agg *aggregates, cfg Config) metrics {
	monthsCount := float64(len(agg.monthly))

	m := metrics{emergencyFundCap: cfg.EmergencyFundCap}
	m.avgMonthlyIncome = agg.totalIncome / monthsCount
	m.avgMonthlyExpense = agg.totalRegularExpense / monthsCount
	m.avgMonthlySavings = math.Max(0, m.avgMonthlyIncome-m.avgMonthlyExpense)

	m.dti = clamp(m.avgMonthlyExpense/(m.avgMonthlyIncome+epsilon), 0, 10)

	incomeMonths := 0
	for _, b := range agg.monthly {
		if b.Income > 0 {
			incomeMonths++
		}
	}
	m.paymentConsistency = float64(incomeMonths) / monthsCount

	switch {
	case m.avgMonthlyExpense > 0:
		m.emergencyFundMonths = (m.avgMonthlySavings * 3) / m.avgMonthlyExpense
	case m.avgMonthlySavings > 0:
		m.emergencyFundMonths = 3.0
	}

	if m.avgMonthlyExpense > 0 {
		m.liquidityRatio = m.avgMonthlyIncome / (m.avgMonthlyExpense + epsilon)
	}

	m.volatility = volatility(agg.expenseSeries())
	m.diversification = diversification(agg.categories)
	m.discipline = clamp(m.avgMonthlySavings/(m.avgMonthlyIncome+epsilon), 0, 1)
	m.spendingConsistency = 1 - math.Min(1, m.volatility)
	return m
}

// scoreRisk combines the metrics into the four sub-scores and their
// weighted overall score.
func scoreRisk(m metrics, w Weights) subScores {
	var s subScores
	s.credit = 0.6*math.Min(1, m.dti) + 0.4*(1-m.paymentConsistency)
	s.liquidity = 1 - math.Min(m.emergencyFundMonths, m.emergencyFundCap)/m.emergencyFundCap
	s.market = 0.6*math.Min(1, m.volatility) + 0.4*(1-m.diversification)
	s.operational = 0.6*(1-m.discipline) + 0.4*(1-m.spendingConsistency)

	s.overall = clamp(
		w.Credit*s.credit+
			w.Liquidity*s.liquidity+
			w.Market*s.market+
			w.Operational*s.operational,
		0, 1)
	return s
}

// riskLevel buckets a score into a qualitative level. The same thresholds
// apply to the overall score and every sub-score.
func riskLevel(score float64) string {
	switch {
	case score < 0.25:
		return models.RiskLow
	case score < 0.6:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// estimateCreditScore maps payment behavior onto the familiar 300-850 scale.
// Heuristic only; rewards consistency, penalizes a high debt-to-income ratio.
func estimateCreditScore(paymentConsistency, dti float64) int {
	score := 650 + (paymentConsistency-0.7)*200 - (dti-0.3)*200
	return int(clamp(score, 300, 850))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
