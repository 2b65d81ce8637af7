package analytics

import "math"

// entropyGuard keeps ln(p) finite for vanishingly small shares.
const entropyGuard = 1e-12

// volatility is the coefficient of variation of the monthly expense totals:
// population standard deviation over mean. Zero when the series is empty or
// the mean is zero.
func volatility(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / mean
}

// diversification is the normalized Shannon entropy of the category expense
// shares, in [0,1] with 1 meaning spend is spread evenly across categories.
// Zero when nothing was spent. A single category scores 0: all spend in one
// place is maximal concentration, not perfect diversification.
func diversification(categories map[string]float64) float64 {
	var total float64
	for _, v := range categories {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		return 0
	}

	var entropy float64
	n := 0
	for _, v := range categories {
		if v <= 0 {
			continue
		}
		n++
		p := v / total
		entropy -= p * math.Log(p+entropyGuard)
	}
	if n < 2 {
		return 0
	}
	return entropy / math.Log(float64(n))
}
