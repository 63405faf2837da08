package reasoning

import (
	"fmt"
	"strings"

	"github.com/phenomenon0/ballpulse/pkg/stats"
)

// Pros/cons list size bounds.
const (
	minProsCons = 3
	maxProsCons = 5
)

// Generic filler used only when real signals are too sparse to reach
// the minimum list length.
var (
	genericPros = []string{
		"Experienced roster with playoff potential",
		"Strong team chemistry and coaching",
		"Competitive in key matchups",
	}
	genericCons = []string{
		"Consistency issues in recent performances",
		"Room for improvement in key areas",
		"Challenges in closing out games",
	}
)

// ProsCons is the talking-point summary for one team.
type ProsCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// BuildProsCons derives a team's pros and cons from its stats,
// sentiment summary, and injury report. Output is deterministic and
// always holds between 3 and 5 entries per list.
func BuildProsCons(summary stats.Summary, sentiment string, injuries []string) ProsCons {
	pros := statsPros(summary)
	pros = append(pros, sentimentPros(sentiment)...)
	pros = append(pros, injuryPros(injuries)...)

	cons := statsCons(summary)
	cons = append(cons, sentimentCons(sentiment)...)
	cons = append(cons, injuryCons(injuries)...)

	return ProsCons{
		Pros: finalize(pros, genericPros),
		Cons: finalize(cons, genericCons),
	}
}

func statsPros(s stats.Summary) []string {
	if s.IsPlaceholder() {
		return nil
	}

	var pros []string
	switch {
	case s.ShootingPct >= 0.47:
		pros = append(pros, "Excellent shooting efficiency")
	case s.ShootingPct >= 0.45:
		pros = append(pros, "Strong field goal percentage")
	}
	switch {
	case s.ReboundingAvg >= 45:
		pros = append(pros, "Dominant rebounding presence")
	case s.ReboundingAvg >= 43:
		pros = append(pros, "Strong rebounding performance")
	}
	switch {
	case s.TurnoversAvg <= 12:
		pros = append(pros, "Excellent ball control and low turnover rate")
	case s.TurnoversAvg <= 13.5:
		pros = append(pros, "Good ball security")
	}
	switch {
	case s.NetRatingProxy >= 5:
		pros = append(pros, "Strong positive point differential")
	case s.NetRatingProxy >= 2:
		pros = append(pros, "Consistent scoring advantage")
	}
	return pros
}

func statsCons(s stats.Summary) []string {
	if s.IsPlaceholder() {
		return nil
	}

	var cons []string
	switch {
	case s.ShootingPct < 0.43:
		cons = append(cons, "Below-average shooting efficiency")
	case s.ShootingPct < 0.45:
		cons = append(cons, "Inconsistent shooting performance")
	}
	switch {
	case s.ReboundingAvg < 40:
		cons = append(cons, "Rebounding struggles")
	case s.ReboundingAvg < 42:
		cons = append(cons, "Average rebounding numbers")
	}
	switch {
	case s.TurnoversAvg >= 16:
		cons = append(cons, "High turnover rate and ball security concerns")
	case s.TurnoversAvg >= 15:
		cons = append(cons, "Turnover-prone in key situations")
	}
	switch {
	case s.NetRatingProxy <= -3:
		cons = append(cons, "Negative point differential indicates defensive issues")
	case s.NetRatingProxy <= 0:
		cons = append(cons, "Marginal scoring differential")
	}
	return cons
}

func sentimentPros(sentiment string) []string {
	if sentiment == "" {
		return nil
	}
	lower := strings.ToLower(sentiment)

	var pros []string
	if containsAny(lower, "positive", "optimistic", "confident") {
		pros = append(pros, "Positive fan and community sentiment")
	}
	if containsAny(lower, "strong", "excellent", "great") {
		pros = append(pros, "Strong community support and enthusiasm")
	}
	if strings.Contains(lower, "confidence") && strings.Contains(lower, "high") {
		pros = append(pros, "High confidence in team performance")
	}
	return pros
}

func sentimentCons(sentiment string) []string {
	if sentiment == "" {
		return nil
	}
	lower := strings.ToLower(sentiment)

	var cons []string
	if containsAny(lower, "negative", "concerns", "worries", "uncertainty") {
		cons = append(cons, "Community sentiment shows concerns")
	}
	if containsAny(lower, "poor", "disappointing", "struggling") {
		cons = append(cons, "Disappointing performance from fan perspective")
	}
	if strings.Contains(lower, "mixed") || strings.Contains(lower, "uncertain") {
		cons = append(cons, "Uncertainty in team outlook")
	}
	return cons
}

func injuryPros(injuries []string) []string {
	if len(injuries) > 0 {
		return nil
	}
	return []string{
		"Full roster availability",
		"No significant injury concerns",
	}
}

func injuryCons(injuries []string) []string {
	if len(injuries) == 0 {
		return nil
	}

	var significant []string
	for _, injury := range injuries {
		lower := strings.ToLower(injury)
		if containsAny(lower, "out", "injured", "surgery", "fracture", "torn") {
			significant = append(significant, injury)
		}
	}

	switch {
	case len(significant) >= 2:
		return []string{fmt.Sprintf("Multiple key players injured: %s", strings.Join(significant[:2], ", "))}
	case len(significant) == 1:
		return []string{fmt.Sprintf("Key player injury concern: %s", significant[0])}
	default:
		n := len(injuries)
		if n > 2 {
			n = 2
		}
		return []string{fmt.Sprintf("Injury concerns: %s", strings.Join(injuries[:n], ", "))}
	}
}

// finalize dedupes in order, caps at maxProsCons, and pads with
// generics up to minProsCons.
func finalize(entries, generic []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, maxProsCons)
	for _, e := range entries {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
		if len(out) == maxProsCons {
			return out
		}
	}

	for _, g := range generic {
		if len(out) >= minProsCons {
			break
		}
		if _, dup := seen[g]; !dup {
			out = append(out, g)
		}
	}
	return out
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
