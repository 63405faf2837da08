// Package reasoning renders predictions into deterministic,
// human-readable explanation text. Every function here is pure: the
// same inputs always produce the same strings, in the same order.
package reasoning

import (
	"fmt"

	"github.com/phenomenon0/ballpulse/pkg/odds"
	"github.com/phenomenon0/ballpulse/pkg/scoring"
)

// Point-gap thresholds on the predicted-score scale (see PointGap).
const (
	gapSignificant = 15.0
	gapBetter      = 8.0
	gapSlight      = 3.0
)

// momentumGap is the recent-form win-percentage difference that reads
// as a momentum edge.
const momentumGap = 0.2

// Input bundles everything the generator may mention. Optional fields
// are nil when the corresponding data was not gathered; their rule
// category is then omitted entirely.
type Input struct {
	Favored       string
	Underdog      string
	FavoredScore  float64
	UnderdogScore float64
	WinProb       float64
	FavoredIsHome bool

	Odds         *odds.Comparison
	FavoredForm  *scoring.FormRecord
	UnderdogForm *scoring.FormRecord
	H2H          *scoring.H2HRecord // favored team's perspective
}

// PointGap projects a strength-score gap onto the predicted-score
// scale used by ScoreBreakdown: each side moves 20 points per unit of
// score difference, so the final margin is 40x the gap.
func PointGap(favoredScore, underdogScore float64) float64 {
	return (favoredScore - underdogScore) * 40
}

// Generate renders the ordered explanation list. Categories appear in
// fixed order: strength, momentum, head-to-head, home advantage,
// probability band, market comparison.
func Generate(in Input) []string {
	var lines []string

	lines = append(lines, strengthLine(in))

	if line, ok := momentumLine(in); ok {
		lines = append(lines, line)
	}
	if line, ok := headToHeadLine(in); ok {
		lines = append(lines, line)
	}

	lines = append(lines, homeLine(in))
	lines = append(lines, probabilityLine(in))

	if line, ok := marketLine(in); ok {
		lines = append(lines, line)
	}

	return lines
}

func strengthLine(in Input) string {
	gap := PointGap(in.FavoredScore, in.UnderdogScore)
	switch {
	case gap > gapSignificant:
		return fmt.Sprintf("%s is significantly stronger than %s on recent performance", in.Favored, in.Underdog)
	case gap > gapBetter:
		return fmt.Sprintf("%s has been the better team over their recent games", in.Favored)
	case gap > gapSlight:
		return fmt.Sprintf("%s holds a slight edge over %s", in.Favored, in.Underdog)
	default:
		return fmt.Sprintf("%s and %s are closely matched on recent performance", in.Favored, in.Underdog)
	}
}

func momentumLine(in Input) (string, bool) {
	if in.FavoredForm == nil || in.UnderdogForm == nil ||
		in.FavoredForm.Games() == 0 || in.UnderdogForm.Games() == 0 {
		return "", false
	}

	favPct := float64(in.FavoredForm.Wins) / float64(in.FavoredForm.Games())
	dogPct := float64(in.UnderdogForm.Wins) / float64(in.UnderdogForm.Games())

	switch {
	case favPct-dogPct > momentumGap:
		return fmt.Sprintf("%s comes in with stronger momentum (%d-%d in recent games vs %d-%d)",
			in.Favored, in.FavoredForm.Wins, in.FavoredForm.Losses,
			in.UnderdogForm.Wins, in.UnderdogForm.Losses), true
	case dogPct-favPct > momentumGap:
		return fmt.Sprintf("%s has the hotter recent form (%d-%d) despite being the underdog",
			in.Underdog, in.UnderdogForm.Wins, in.UnderdogForm.Losses), true
	default:
		return fmt.Sprintf("both teams show similar recent form (%d-%d vs %d-%d)",
			in.FavoredForm.Wins, in.FavoredForm.Losses,
			in.UnderdogForm.Wins, in.UnderdogForm.Losses), true
	}
}

func headToHeadLine(in Input) (string, bool) {
	if in.H2H == nil || in.H2H.Games() == 0 {
		return "", false
	}

	switch {
	case in.H2H.Wins > in.H2H.Losses:
		return fmt.Sprintf("%s has won %d of the last %d meetings between these teams",
			in.Favored, in.H2H.Wins, in.H2H.Games()), true
	case in.H2H.Losses > in.H2H.Wins:
		return fmt.Sprintf("%s has taken %d of the last %d head-to-head matchups",
			in.Underdog, in.H2H.Losses, in.H2H.Games()), true
	default:
		return fmt.Sprintf("the teams have split their last %d meetings", in.H2H.Games()), true
	}
}

func homeLine(in Input) string {
	if in.FavoredIsHome {
		return fmt.Sprintf("%s benefits from home-court advantage", in.Favored)
	}
	return fmt.Sprintf("%s is expected to win despite playing on the road", in.Favored)
}

func probabilityLine(in Input) string {
	pct := in.WinProb * 100
	switch {
	case in.WinProb >= 0.70:
		return fmt.Sprintf("the model gives %s a strong %.0f%% chance to win", in.Favored, pct)
	case in.WinProb >= 0.62:
		return fmt.Sprintf("the model favors %s at %.0f%%", in.Favored, pct)
	case in.WinProb >= 0.55:
		return fmt.Sprintf("the model leans %s at %.0f%%", in.Favored, pct)
	default:
		return fmt.Sprintf("this projects as a near toss-up, %s at %.0f%%", in.Favored, pct)
	}
}

func marketLine(in Input) (string, bool) {
	if in.Odds == nil {
		return "", false
	}

	cmp := in.Odds
	if cmp.Agreement {
		if cmp.EdgeScore != nil && *cmp.EdgeScore > 0 {
			return fmt.Sprintf("the market agrees on %s, and the model is %.1f points more confident than the implied odds",
				cmp.ModelFavorite, *cmp.EdgeScore), true
		}
		return fmt.Sprintf("the betting market also favors %s", cmp.MarketFavorite), true
	}

	if cmp.EdgeScore != nil {
		return fmt.Sprintf("contrarian pick: the market favors %s but the model backs %s (edge %.1f points)",
			cmp.MarketFavorite, cmp.ModelFavorite, *cmp.EdgeScore), true
	}
	return fmt.Sprintf("the market favors %s, against the model's pick of %s",
		cmp.MarketFavorite, cmp.ModelFavorite), true
}
