package odds

import (
	"math"
	"testing"
)

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		moneyline int
		want      float64
	}{
		{-150, 0.60},
		{+150, 0.40},
		{-110, 110.0 / 210.0},
		{+100, 0.50},
		{-100, 0.50},
		{-300, 0.75},
		{+300, 0.25},
	}
	for _, tt := range tests {
		got, err := ImpliedProbability(tt.moneyline)
		if err != nil {
			t.Fatalf("ImpliedProbability(%d) failed: %v", tt.moneyline, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ImpliedProbability(%d) = %v, want %v", tt.moneyline, got, tt.want)
		}
	}
}

func TestImpliedProbabilityZeroLine(t *testing.T) {
	if _, err := ImpliedProbability(0); err == nil {
		t.Fatal("expected error for zero moneyline")
	}
}

func TestMoneylineRoundTrip(t *testing.T) {
	for _, ml := range []int{-300, -150, -110, +120, +150, +250} {
		p, err := ImpliedProbability(ml)
		if err != nil {
			t.Fatalf("ImpliedProbability(%d): %v", ml, err)
		}
		back, err := Moneyline(p)
		if err != nil {
			t.Fatalf("Moneyline(%v): %v", p, err)
		}
		if back != ml {
			t.Errorf("round trip %d -> %v -> %d", ml, p, back)
		}
	}
}

func TestMoneylineBounds(t *testing.T) {
	for _, p := range []float64{0, 1, -0.2, 1.5} {
		if _, err := Moneyline(p); err == nil {
			t.Errorf("expected error for probability %v", p)
		}
	}
}

func TestDecimalOdds(t *testing.T) {
	tests := []struct {
		moneyline int
		want      float64
	}{
		{+150, 2.50},
		{-150, 1.0 + 100.0/150.0},
		{+100, 2.00},
		{-200, 1.50},
	}
	for _, tt := range tests {
		got, err := DecimalOdds(tt.moneyline)
		if err != nil {
			t.Fatalf("DecimalOdds(%d) failed: %v", tt.moneyline, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DecimalOdds(%d) = %v, want %v", tt.moneyline, got, tt.want)
		}
	}
}
