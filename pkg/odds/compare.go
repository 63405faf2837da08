package odds

import "github.com/shopspring/decimal"

// MarketLine is an externally observed betting line for one matchup.
// A zero moneyline means the book published no price; the spread alone
// still identifies the market favorite.
type MarketLine struct {
	HomeTeam      string  `json:"home_team"`
	AwayTeam      string  `json:"away_team"`
	HomeSpread    float64 `json:"home_spread"`    // negative when home is favored
	HomeMoneyline int     `json:"home_moneyline"` // American odds, 0 when unavailable
}

// MarketFavorite reads the favorite off the spread sign. A pick-em
// (zero spread) defaults to the home side.
func (l MarketLine) MarketFavorite() string {
	if l.HomeSpread > 0 {
		return l.AwayTeam
	}
	return l.HomeTeam
}

// Comparison reconciles the model's pick against the market's.
// ImpliedProbability and EdgeScore are nil when the line carries no
// moneyline; agreement is still computed from the spread.
type Comparison struct {
	MarketFavorite     string   `json:"market_favorite"`
	ImpliedProbability *float64 `json:"market_implied_probability,omitempty"`
	ModelFavorite      string   `json:"model_favorite"`
	Agreement          bool     `json:"agreement"`
	EdgeScore          *float64 `json:"edge_score,omitempty"`
}

// Compare produces the model-vs-market comparison. The edge score is
// the percentage-point gap between the model's probability for its
// favorite and the market's probability for that same side, positive
// when the model is more bullish than the book.
func Compare(modelFavorite string, modelProb float64, line MarketLine) Comparison {
	cmp := Comparison{
		MarketFavorite: line.MarketFavorite(),
		ModelFavorite:  modelFavorite,
	}
	cmp.Agreement = cmp.MarketFavorite == cmp.ModelFavorite

	marketML := line.HomeMoneyline
	if cmp.MarketFavorite == line.AwayTeam && marketML != 0 {
		// Spread and moneyline describe opposite sides: flip the
		// implied probability to the away favorite.
		implied, err := ImpliedProbability(marketML)
		if err != nil {
			return cmp
		}
		flipped := 1 - implied
		cmp.ImpliedProbability = &flipped
	} else if marketML != 0 {
		implied, err := ImpliedProbability(marketML)
		if err != nil {
			return cmp
		}
		cmp.ImpliedProbability = &implied
	}

	if cmp.ImpliedProbability == nil {
		return cmp
	}

	model := decimal.NewFromFloat(modelProb)
	market := decimal.NewFromFloat(*cmp.ImpliedProbability)
	if !cmp.Agreement {
		// Market probability for the model's side is the complement.
		market = decimal.NewFromInt(1).Sub(market)
	}

	edge := model.Sub(market).Mul(dec100).InexactFloat64()
	cmp.EdgeScore = &edge
	return cmp
}
