package analytics

// Thresholds for the advisory rules. Each rule is gated independently; any
// combination may fire. Evaluation order is fixed so reports are stable.
const (
	recDTIThreshold           = 0.5
	recEmergencyFundThreshold = 1.0
	recVolatilityThreshold    = 0.4
	recDiversificationFloor   = 0.4
)

// recommendations turns the derived metrics into ordered advisory strings.
// Duplicates are dropped keeping first occurrence, and a single affirmation
// is returned when no rule fires.
func recommendations(m metrics) []string {
	var recs []string
	add := func(s string) {
		for _, existing := range recs {
			if existing == s {
				return
			}
		}
		recs = append(recs, s)
	}

	if m.dti > recDTIThreshold {
		add("Consider lowering recurring liabilities: your debt-to-income ratio is relatively high.")
	}
	if m.emergencyFundMonths < recEmergencyFundThreshold {
		add("Build an emergency fund covering at least 1-3 months of expenses.")
	}
	if m.volatility > recVolatilityThreshold {
		add("Your spending is volatile. Consider stabilizing discretionary spending.")
	}
	if m.diversification < recDiversificationFloor {
		add("Your spending is concentrated in a few categories. Review diversification.")
	}
	if m.avgMonthlySavings <= 0 {
		add("Increase savings or reduce expenses to achieve positive monthly savings.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Your finances look healthy. Keep it up!")
	}
	return recs
}
