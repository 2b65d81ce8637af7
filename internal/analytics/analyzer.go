package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/finsight/finsight-service/internal/models"
)

// epsilon guards divisions where a denominator can legitimately be zero.
const epsilon = 1e-9

// Weights control the blend of the four risk sub-scores. They must sum to 1.
type Weights struct {
	Credit      float64
	Liquidity   float64
	Market      float64
	Operational float64
}

// Config holds the tunable constants of the analyzer
type Config struct {
	Weights          Weights
	ForecastPeriods  int     // horizon of the expense forecast, in months
	EmergencyFundCap float64 // months of expenses treated as a full liquidity buffer
	TopCategories    int     // number of categories reported in aggregates
}

// DefaultConfig returns the canonical scoring configuration
func DefaultConfig() Config {
	return Config{
		Weights:          Weights{Credit: 0.30, Liquidity: 0.30, Market: 0.20, Operational: 0.20},
		ForecastPeriods:  4,
		EmergencyFundCap: 3,
		TopCategories:    6,
	}
}

// Analyzer computes risk reports from transaction snapshots. It holds only
// configuration, keeps no state across calls and is safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// New validates the configuration and returns an analyzer. Configuration is
// the only thing that can fail here; Analyze itself never returns an error.
func New(cfg Config) (*Analyzer, error) {
	sum := cfg.Weights.Credit + cfg.Weights.Liquidity + cfg.Weights.Market + cfg.Weights.Operational
	if math.Abs(sum-1.0) > 1e-6 {
		return nil, fmt.Errorf("risk weights must sum to 1, got %.4f", sum)
	}
	if cfg.ForecastPeriods <= 0 {
		return nil, fmt.Errorf("forecast periods must be positive, got %d", cfg.ForecastPeriods)
	}
	if cfg.EmergencyFundCap <= 0 {
		return nil, fmt.Errorf("emergency fund cap must be positive, got %v", cfg.EmergencyFundCap)
	}
	if cfg.TopCategories <= 0 {
		return nil, fmt.Errorf("top categories must be positive, got %d", cfg.TopCategories)
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze builds a complete risk report for the given transaction snapshot.
// The current time is injected so the weekly window is reproducible in tests.
// The input is never mutated and the same snapshot always yields the same
// report.
func (a *Analyzer) Analyze(txs []models.Transaction, now time.Time) *models.RiskReport {
	norm := normalize(txs)
	outliers := outlierAmounts(norm)
	agg := aggregate(norm, outliers)
	weekly := weeklyInsights(norm, now)

	if len(agg.monthly) == 0 {
		return a.defaultReport(agg, weekly)
	}

	m := deriveMetrics(agg, a.cfg)
	scores := scoreRisk(m, a.cfg.Weights)

	return &models.RiskReport{
		OverallRiskScore: scores.overall,
		RiskLevel:        riskLevel(scores.overall),
		CreditRisk: models.CreditRisk{
			DTIRatio:             m.dti,
			EstimatedCreditScore: estimateCreditScore(m.paymentConsistency, m.dti),
			PaymentConsistency:   m.paymentConsistency,
			RiskLevel:            riskLevel(scores.credit),
		},
		LiquidityRisk: models.LiquidityRisk{
			EmergencyFundMonths: m.emergencyFundMonths,
			IncomeStability:     m.paymentConsistency,
			LiquidityRatio:      m.liquidityRatio,
			RiskLevel:           riskLevel(scores.liquidity),
		},
		MarketRisk: models.MarketRisk{
			SpendingVolatility:   m.volatility,
			DiversificationScore: m.diversification,
			RiskLevel:            riskLevel(scores.market),
		},
		OperationalRisk: models.OperationalRisk{
			FinancialDiscipline: m.discipline,
			SpendingConsistency: m.spendingConsistency,
			RiskLevel:           riskLevel(scores.operational),
		},
		Forecast:        forecastExpenses(agg.expenseSeries(), a.cfg.ForecastPeriods),
		WeeklyInsights:  weekly,
		Recommendations: recommendations(m),
		Aggregates:      agg.report(a.cfg.TopCategories),
	}
}

// defaultReport is the low-information report returned when no transaction
// carries a usable date. Global totals from undated transactions are still
// surfaced in the aggregates.
func (a *Analyzer) defaultReport(agg *aggregates, weekly models.WeeklyInsights) *models.RiskReport {
	return &models.RiskReport{
		OverallRiskScore: 0.3,
		RiskLevel:        models.RiskMedium,
		Forecast:         forecastExpenses(nil, a.cfg.ForecastPeriods),
		WeeklyInsights:   weekly,
		Recommendations:  []string{"Add more transaction history for an accurate assessment."},
		Aggregates:       agg.report(a.cfg.TopCategories),
	}
}
