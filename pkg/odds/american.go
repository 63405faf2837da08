// Package odds converts American betting lines to implied probabilities
// and reconciles the model's win probability against the market.
package odds

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	dec100 = decimal.NewFromInt(100)
)

// ImpliedProbability converts an American moneyline to the market's
// implied win probability, vig included. Negative lines mark favorites:
// -150 implies 0.60, +150 implies 0.40.
func ImpliedProbability(moneyline int) (float64, error) {
	if moneyline == 0 {
		return 0, fmt.Errorf("odds: moneyline cannot be zero")
	}

	m := decimal.NewFromInt(int64(moneyline))
	var p decimal.Decimal
	if moneyline < 0 {
		// |m| / (|m| + 100)
		abs := m.Abs()
		p = abs.Div(abs.Add(dec100))
	} else {
		// 100 / (m + 100)
		p = dec100.Div(m.Add(dec100))
	}
	return p.InexactFloat64(), nil
}

// Moneyline converts a win probability back to the nearest American
// line. Probabilities at exactly 0.5 return -100 by bookmaker
// convention.
func Moneyline(prob float64) (int, error) {
	if prob <= 0 || prob >= 1 {
		return 0, fmt.Errorf("odds: probability %v outside (0,1)", prob)
	}

	p := decimal.NewFromFloat(prob)
	one := decimal.NewFromInt(1)
	if prob >= 0.5 {
		// -(p / (1-p)) * 100
		line := p.Div(one.Sub(p)).Mul(dec100).Neg()
		return int(line.Round(0).IntPart()), nil
	}
	// ((1-p) / p) * 100
	line := one.Sub(p).Div(p).Mul(dec100)
	return int(line.Round(0).IntPart()), nil
}

// DecimalOdds converts an American moneyline to European decimal odds.
func DecimalOdds(moneyline int) (float64, error) {
	if moneyline == 0 {
		return 0, fmt.Errorf("odds: moneyline cannot be zero")
	}

	m := decimal.NewFromInt(int64(moneyline))
	one := decimal.NewFromInt(1)
	if moneyline > 0 {
		return m.Div(dec100).Add(one).InexactFloat64(), nil
	}
	return dec100.Div(m.Abs()).Add(one).InexactFloat64(), nil
}
