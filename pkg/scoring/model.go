package scoring

import "math"

// Model calibration constants.
const (
	// DefaultHomeAdvantage is added to the home score before the gap is
	// computed, worth roughly 3 percentage points near even matchups.
	DefaultHomeAdvantage = 0.03

	// DefaultSteepness scales the score gap before the sigmoid. At 4.0 a
	// 0.25 score gap maps to roughly a 73% win probability.
	DefaultSteepness = 4.0
)

// Confidence label thresholds on distance from a coin flip.
const (
	tossUpBand = 0.05
	lowBand    = 0.12
	mediumBand = 0.20
)

// Confidence labels, ordered from weakest to strongest.
const (
	ConfidenceTossUp = "Toss-up"
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)

// Model converts a pair of team scores into a win probability. The zero
// value is not usable; construct with NewModel.
type Model struct {
	homeAdvantage float64
	steepness     float64
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithHomeAdvantage overrides the home-court score bonus.
func WithHomeAdvantage(adv float64) ModelOption {
	return func(m *Model) { m.homeAdvantage = adv }
}

// WithSteepness overrides the sigmoid steepness.
func WithSteepness(k float64) ModelOption {
	return func(m *Model) { m.steepness = k }
}

// NewModel returns a Model with the default calibration.
func NewModel(opts ...ModelOption) *Model {
	m := &Model{
		homeAdvantage: DefaultHomeAdvantage,
		steepness:     DefaultSteepness,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HomeWinProbability maps the final score gap to the home team's win
// probability via a logistic curve. Equal scores give the home side a
// small edge from home-court advantage, never exactly 0.5.
func (m *Model) HomeWinProbability(homeScore, awayScore float64) float64 {
	gap := (homeScore + m.homeAdvantage) - awayScore
	return sigmoid(m.steepness * gap)
}

// Outcome is the caller-facing side of a probability computation: the
// favored team's side and its probability, always at least 0.5.
type Outcome struct {
	HomeFavored bool    `json:"home_favored"`
	Probability float64 `json:"probability"`
	Confidence  string  `json:"confidence"`
}

// Predict computes the favored side and its win probability from two
// final team scores.
func (m *Model) Predict(homeScore, awayScore float64) Outcome {
	p := m.HomeWinProbability(homeScore, awayScore)

	out := Outcome{HomeFavored: p >= 0.5, Probability: p}
	if !out.HomeFavored {
		out.Probability = 1 - p
	}
	out.Confidence = ConfidenceLabel(p)
	return out
}

// ConfidenceLabel buckets a win probability by its distance from 0.5.
// The label depends only on that distance, so p and 1-p always map to
// the same label.
func ConfidenceLabel(p float64) string {
	d := math.Abs(p - 0.5)
	switch {
	case d < tossUpBand:
		return ConfidenceTossUp
	case d < lowBand:
		return ConfidenceLow
	case d < mediumBand:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
