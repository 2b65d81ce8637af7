package models

// Risk level buckets shared by the overall score and all sub-scores.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskReport is the full analytics output for one user. It is a pure value
// derived from a transaction snapshot and holds no reference back to it.
type RiskReport struct {
	OverallRiskScore float64         `json:"overall_risk_score"`
	RiskLevel        string          `json:"risk_level"`
	CreditRisk       CreditRisk      `json:"credit_risk"`
	LiquidityRisk    LiquidityRisk   `json:"liquidity_risk"`
	MarketRisk       MarketRisk      `json:"market_risk"`
	OperationalRisk  OperationalRisk `json:"operational_risk"`
	Forecast         []float64       `json:"forecast"`
	WeeklyInsights   WeeklyInsights  `json:"weekly_insights"`
	Recommendations  []string        `json:"recommendations"`
	Aggregates       Aggregates      `json:"aggregates"`
}

// CreditRisk holds the debt-to-income view of the user's finances
type CreditRisk struct {
	DTIRatio             float64 `json:"dti_ratio"`
	EstimatedCreditScore int     `json:"estimated_credit_score"`
	PaymentConsistency   float64 `json:"payment_consistency"`
	RiskLevel            string  `json:"risk_level"`
}

// LiquidityRisk holds the emergency-buffer view
type LiquidityRisk struct {
	EmergencyFundMonths float64 `json:"emergency_fund_months"`
	IncomeStability     float64 `json:"income_stability"`
	LiquidityRatio      float64 `json:"liquidity_ratio"`
	RiskLevel           string  `json:"risk_level"`
}

// MarketRisk holds the spending dispersion and concentration view
type MarketRisk struct {
	SpendingVolatility   float64 `json:"spending_volatility"`
	DiversificationScore float64 `json:"diversification_score"`
	RiskLevel            string  `json:"risk_level"`
}

// OperationalRisk holds the savings-discipline view
type OperationalRisk struct {
	FinancialDiscipline float64 `json:"financial_discipline"`
	SpendingConsistency float64 `json:"spending_consistency"`
	RiskLevel           string  `json:"risk_level"`
}

// MonthlyBucket aggregates one calendar month of transactions
type MonthlyBucket struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	Income         float64 `json:"income"`
	Expense        float64 `json:"expense"`
	OutlierExpense float64 `json:"outlier_expense"`
}

// CategoryTotal is a category with its summed regular expense
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Aggregates exposes raw totals alongside the scored report
type Aggregates struct {
	TotalIncome         float64         `json:"total_income"`
	TotalExpense        float64         `json:"total_expense"`
	TotalOutlierExpense float64         `json:"total_outlier_expense"`
	MonthlySeries       []MonthlyBucket `json:"monthly_series"`
	TopCategories       []CategoryTotal `json:"top_categories"`
}

// WeeklyInsights is the short-horizon view over the last 7 days
type WeeklyInsights struct {
	TotalSpending   float64  `json:"total_spending"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// Summary represents totals for a user's transaction history
type Summary struct {
	TotalIncome  float64            `json:"total_income"`
	TotalExpense float64            `json:"total_expense"`
	NetBalance   float64            `json:"net_balance"`
	ByCategory   map[string]float64 `json:"by_category"`
}
