package calculator

import (
	"math"
	"testing"
)

func monotonic(n int, step float64) []float64 {
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		closes[i] = price
		price += step
	}
	return closes
}

func TestRSI_InsufficientData(t *testing.T) {
	for n := 0; n <= RSIPeriod; n++ {
		if got := RSI(monotonic(n, 1), RSIPeriod); got.Valid {
			t.Errorf("%d closes: expected unavailable, got %v", n, got.Value)
		}
	}
}

func TestRSI_ExactMinimum(t *testing.T) {
	if got := RSI(monotonic(RSIPeriod+1, 1), RSIPeriod); !got.Valid {
		t.Fatal("period+1 closes should be enough")
	}
}

func TestRSI_MonotonicIncreasingSaturatesAt100(t *testing.T) {
	got := RSI(monotonic(250, 0.5), RSIPeriod)
	if !got.Valid || got.Value != 100 {
		t.Fatalf("expected exactly 100, got %+v", got)
	}
}

func TestRSI_MonotonicDecreasingIsZero(t *testing.T) {
	got := RSI(monotonic(250, -0.25), RSIPeriod)
	if !got.Valid || got.Value != 0 {
		t.Fatalf("expected 0, got %+v", got)
	}
}

func TestRSI_BalancedGainsAndLosses(t *testing.T) {
	// Alternating +1/-1 deltas: average gain equals average loss, RSI = 50.
	closes := make([]float64, RSIPeriod+1)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	got := RSI(closes, RSIPeriod)
	if !got.Valid || math.Abs(got.Value-50) > 1e-9 {
		t.Fatalf("expected 50, got %+v", got)
	}
}

func TestRSI_AlwaysWithinBounds(t *testing.T) {
	// A deterministic pseudo-random walk.
	closes := make([]float64, 300)
	price := 100.0
	for i := range closes {
		closes[i] = price
		price += math.Sin(float64(i)*1.7) * 3
		if price < 1 {
			price = 1
		}
	}
	got := RSI(closes, RSIPeriod)
	if !got.Valid {
		t.Fatal("expected a value")
	}
	if got.Value < 0 || got.Value > 100 {
		t.Fatalf("RSI out of [0,100]: %v", got.Value)
	}
}

func TestRSI_InvalidPeriod(t *testing.T) {
	if got := RSI(monotonic(30, 1), 0); got.Valid {
		t.Errorf("period 0: expected unavailable, got %v", got.Value)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{-1.005, -1.01},
		{2.675, 2.68},
		{3.14159, 3.14},
		{-10, -10},
		{0, 0},
		{10.0000001, 10},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
