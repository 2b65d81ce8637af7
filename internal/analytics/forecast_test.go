package analytics

import (
	"math"
	"testing"
)

func TestForecastLinearTrend(t *testing.T) {
	// OLS over [100,200,300,400]: slope 100, intercept 100, so the next
	// four periods continue the line exactly.
	got := forecastExpenses([]float64{100, 200, 300, 400}, 4)

	want := []float64{500, 600, 700, 800}
	if len(got) != len(want) {
		t.Fatalf("forecast length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("forecast[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestForecastEmptySeries(t *testing.T) {
	got := forecastExpenses(nil, 3)
	if len(got) != 3 {
		t.Fatalf("forecast length = %d, want 3", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("forecast[%d] = %v, want 0", i, v)
		}
	}
}

func TestForecastSinglePointIsFlat(t *testing.T) {
	got := forecastExpenses([]float64{250}, 2)
	for i, v := range got {
		if v != 250 {
			t.Errorf("forecast[%d] = %v, want flat 250", i, v)
		}
	}
}

func TestForecastClampsNegativeProjection(t *testing.T) {
	// A steeply falling series projects below zero; expenses cannot.
	got := forecastExpenses([]float64{400, 300, 200, 100}, 4)
	for i, v := range got {
		if v < 0 {
			t.Errorf("forecast[%d] = %v, want >= 0", i, v)
		}
	}
	if got[0] != 0 {
		t.Errorf("forecast[0] = %v, want 0 (the line hits zero at period 4)", got[0])
	}
}
