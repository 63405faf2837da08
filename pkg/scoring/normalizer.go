// Package scoring converts acquired team statistics into bounded
// team-strength scores and calibrated win probabilities. All scoring is
// deterministic, hand-tuned arithmetic: identical inputs always produce
// identical outputs.
package scoring

import (
	"strings"

	"github.com/phenomenon0/ballpulse/pkg/stats"
)

// Per-metric normalization domains, tuned to typical NBA ranges.
const (
	shootingMin = 0.35
	shootingMax = 0.55
	reboundMin  = 35.0
	reboundMax  = 50.0
	turnoverMin = 12.0
	turnoverMax = 18.0
	netRateMin  = -10.0
	netRateMax  = 10.0
)

// Fixed metric weights; they sum to 1.0 and are not configurable per call.
const (
	weightShooting   = 0.30
	weightRebounding = 0.20
	weightTurnovers  = 0.20
	weightNetRating  = 0.30
)

// Adjustment bounds.
const (
	MaxSentimentTilt  = 0.20
	tiltPerMarker     = 0.05
	injuryPenaltyStep = 0.05
	MaxInjuryPenalty  = 0.15
	MaxFormAdjustment = 0.08
	MaxH2HAdjustment  = 0.05
)

// Lexical markers counted in opaque sentiment summaries.
var (
	positiveMarkers = []string{"positive", "great", "excellent", "amazing", "fantastic", "strong", "good"}
	negativeMarkers = []string{"negative", "poor", "bad", "terrible", "weak", "concerns", "worries"}
)

// significantInjuryWords classify a roster absence as significant.
var significantInjuryWords = []string{"out", "injured", "surgery", "fracture"}

// TeamScore is the bounded strength score for one team, with the
// adjustments that produced it. FinalScore is always within [0,1].
type TeamScore struct {
	BaseScore      float64 `json:"base_score"`
	SentimentTilt  float64 `json:"sentiment_tilt"`
	InjuryPenalty  float64 `json:"injury_penalty"`
	FormAdjustment float64 `json:"form_adjustment"`
	H2HAdjustment  float64 `json:"h2h_adjustment"`
	FinalScore     float64 `json:"final_score"`
}

// BaseScore maps a stats summary to a weighted score in [0,1].
// Placeholder records score exactly 0.5: neutral, bypassing the weighted
// formula so that missing data never tilts a matchup.
func BaseScore(s stats.Summary) float64 {
	if s.IsPlaceholder() {
		return 0.5
	}

	shooting := normalizeStat(s.ShootingPct, shootingMin, shootingMax)
	rebounding := normalizeStat(s.ReboundingAvg, reboundMin, reboundMax)
	// Lower turnovers are better, so the sub-score is inverted.
	turnovers := 1.0 - normalizeStat(s.TurnoversAvg, turnoverMin, turnoverMax)
	netRating := normalizeStat(s.NetRatingProxy, netRateMin, netRateMax)

	score := shooting*weightShooting +
		rebounding*weightRebounding +
		turnovers*weightTurnovers +
		netRating*weightNetRating

	return clamp(score, 0, 1)
}

// SentimentTilt derives a small score adjustment from an opaque sentiment
// summary string by counting positive and negative lexical markers.
// The tilt is proportional to the dominant side's marker count and capped
// at ±MaxSentimentTilt.
func SentimentTilt(summary string) float64 {
	if summary == "" {
		return 0
	}
	lower := strings.ToLower(summary)

	var pos, neg int
	for _, w := range positiveMarkers {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeMarkers {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return clamp(float64(pos)*tiltPerMarker, 0, MaxSentimentTilt)
	case neg > pos:
		return clamp(-float64(neg)*tiltPerMarker, -MaxSentimentTilt, 0)
	default:
		return 0
	}
}

// InjuryPenalty returns a non-positive adjustment: -0.05 per roster
// absence classified as significant, floored at -MaxInjuryPenalty.
func InjuryPenalty(injuries []string) float64 {
	significant := 0
	for _, injury := range injuries {
		lower := strings.ToLower(injury)
		for _, w := range significantInjuryWords {
			if strings.Contains(lower, w) {
				significant++
				break
			}
		}
	}

	return clamp(-float64(significant)*injuryPenaltyStep, -MaxInjuryPenalty, 0)
}

// FormRecord is a team's recent win/loss record (typically last 10).
type FormRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Games returns the number of games in the record.
func (f FormRecord) Games() int { return f.Wins + f.Losses }

// FormAdjustment maps a recent record to a score shift in
// [-MaxFormAdjustment, MaxFormAdjustment], proportional to distance from
// a .500 record. A nil record contributes exactly 0.
func FormAdjustment(form *FormRecord) float64 {
	if form == nil || form.Games() == 0 {
		return 0
	}
	winPct := float64(form.Wins) / float64(form.Games())
	return clamp((winPct-0.5)*2*MaxFormAdjustment, -MaxFormAdjustment, MaxFormAdjustment)
}

// H2HRecord is the recent head-to-head record against a specific opponent.
type H2HRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Games returns the number of head-to-head games in the record.
func (h H2HRecord) Games() int { return h.Wins + h.Losses }

// H2HAdjustment maps a head-to-head record to a score shift in
// [-MaxH2HAdjustment, MaxH2HAdjustment]. A nil record contributes
// exactly 0.
func H2HAdjustment(h2h *H2HRecord) float64 {
	if h2h == nil || h2h.Games() == 0 {
		return 0
	}
	margin := float64(h2h.Wins-h2h.Losses) / float64(h2h.Games())
	return clamp(margin*MaxH2HAdjustment, -MaxH2HAdjustment, MaxH2HAdjustment)
}

// Inputs carries the optional adjustment inputs for one team's score.
type Inputs struct {
	Sentiment string
	Injuries  []string
	Form      *FormRecord // nil disables the form adjustment
	H2H       *H2HRecord  // nil disables the head-to-head adjustment
}

// Score computes the full team-strength score: weighted base plus the
// independently clamped adjustments, with a final clamp into [0,1].
func Score(summary stats.Summary, in Inputs) TeamScore {
	ts := TeamScore{
		BaseScore:      BaseScore(summary),
		SentimentTilt:  SentimentTilt(in.Sentiment),
		InjuryPenalty:  InjuryPenalty(in.Injuries),
		FormAdjustment: FormAdjustment(in.Form),
		H2HAdjustment:  H2HAdjustment(in.H2H),
	}

	ts.FinalScore = clamp(
		ts.BaseScore+ts.SentimentTilt+ts.InjuryPenalty+ts.FormAdjustment+ts.H2HAdjustment,
		0, 1)
	return ts
}

// normalizeStat linearly maps value into [0,1] over [min,max], clamped.
func normalizeStat(value, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	return clamp((value-min)/(max-min), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
