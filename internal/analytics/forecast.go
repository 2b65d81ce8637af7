package analytics

// forecastExpenses projects the monthly expense series periods months ahead
// using ordinary least-squares linear regression against the month index.
// A degenerate series (one point, or all indices equal) projects flat at the
// mean. Projections are clamped at zero since expenses cannot be negative.
func forecastExpenses(series []float64, periods int) []float64 {
	preds := make([]float64, 0, periods)
	n := len(series)
	if n == 0 {
		for i := 0; i < periods; i++ {
			preds = append(preds, 0)
		}
		return preds
	}

	var meanX, meanY float64
	for i, y := range series {
		meanX += float64(i)
		meanY += y
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, denom float64
	for i, y := range series {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		denom += dx * dx
	}
	slope := 0.0
	if denom != 0 {
		slope = num / denom
	}
	intercept := meanY - slope*meanX

	for x := n; x < n+periods; x++ {
		v := intercept + slope*float64(x)
		if v < 0 {
			v = 0
		}
		preds = append(preds, v)
	}
	return preds
}
