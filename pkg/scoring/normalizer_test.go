package scoring

import (
	"math"
	"testing"

	"github.com/phenomenon0/ballpulse/pkg/stats"
)

func leagueAverageSummary() stats.Summary {
	return stats.Summary{
		TeamName:       "Boston Celtics",
		ShootingPct:    0.45,
		ReboundingAvg:  42.5,
		TurnoversAvg:   15.0,
		NetRatingProxy: 0.0,
		GamesSampled:   10,
		Source:         stats.SourcePrimary,
	}
}

func TestBaseScoreLeagueAverage(t *testing.T) {
	// Midpoint on every metric lands exactly on 0.5.
	got := BaseScore(leagueAverageSummary())
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("BaseScore = %v, want 0.5", got)
	}
}

func TestBaseScorePlaceholderIsNeutral(t *testing.T) {
	got := BaseScore(stats.Placeholder("Boston Celtics"))
	if got != 0.5 {
		t.Errorf("placeholder BaseScore = %v, want exactly 0.5", got)
	}
}

func TestBaseScoreBounds(t *testing.T) {
	elite := stats.Summary{ShootingPct: 0.60, ReboundingAvg: 55, TurnoversAvg: 9, NetRatingProxy: 15, GamesSampled: 10, Source: stats.SourcePrimary}
	awful := stats.Summary{ShootingPct: 0.30, ReboundingAvg: 30, TurnoversAvg: 22, NetRatingProxy: -18, GamesSampled: 10, Source: stats.SourcePrimary}

	if got := BaseScore(elite); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("out-of-range elite stats should clamp to 1.0, got %v", got)
	}
	if got := BaseScore(awful); got != 0.0 {
		t.Errorf("out-of-range awful stats should clamp to 0.0, got %v", got)
	}
}

func TestBaseScoreTurnoversInverted(t *testing.T) {
	base := leagueAverageSummary()

	careless := base
	careless.TurnoversAvg = 17.0

	if BaseScore(careless) >= BaseScore(base) {
		t.Error("more turnovers should lower the base score")
	}
}

func TestBaseScoreWeighting(t *testing.T) {
	base := leagueAverageSummary()

	// Max out shooting only: +0.5 normalized * 0.30 weight.
	shooter := base
	shooter.ShootingPct = 0.55
	if got := BaseScore(shooter); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("shooting-maxed score = %v, want 0.65", got)
	}

	// Max out rebounding only: +0.5 normalized * 0.20 weight.
	glass := base
	glass.ReboundingAvg = 50
	if got := BaseScore(glass); math.Abs(got-0.60) > 1e-9 {
		t.Errorf("rebounding-maxed score = %v, want 0.60", got)
	}
}

func TestSentimentTilt(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    float64
	}{
		{"empty", "", 0},
		{"neutral", "the team played a game last night", 0},
		{"one positive", "great ball movement all night", 0.05},
		{"stacked positive capped", "positive outlook, great form, excellent defense, amazing depth, fantastic bench", 0.20},
		{"one negative", "poor shot selection", -0.05},
		{"two negative", "poor spacing and real concerns about depth", -0.10},
		{"balanced cancels", "great offense but poor defense", 0},
		{"case insensitive", "EXCELLENT rotations", 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SentimentTilt(tt.summary); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SentimentTilt(%q) = %v, want %v", tt.summary, got, tt.want)
			}
		})
	}
}

func TestInjuryPenalty(t *testing.T) {
	tests := []struct {
		name     string
		injuries []string
		want     float64
	}{
		{"none", nil, 0},
		{"minor only", []string{"Jrue Holiday - Questionable (ankle)"}, 0},
		{"one out", []string{"Jayson Tatum - Out (achilles)"}, -0.05},
		{"two out", []string{"Jayson Tatum - Out (achilles)", "Derrick White - Out (knee)"}, -0.10},
		{"four significant capped", []string{
			"A - Out (rest)",
			"B - Injured (hamstring)",
			"C - Out (knee surgery)",
			"D - Out (foot fracture)",
		}, -0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InjuryPenalty(tt.injuries); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("InjuryPenalty = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormAdjustment(t *testing.T) {
	tests := []struct {
		name string
		form *FormRecord
		want float64
	}{
		{"nil disables", nil, 0},
		{"empty record", &FormRecord{}, 0},
		{"even record", &FormRecord{Wins: 5, Losses: 5}, 0},
		{"hot streak", &FormRecord{Wins: 10, Losses: 0}, 0.08},
		{"cold streak", &FormRecord{Wins: 0, Losses: 10}, -0.08},
		{"eight and two", &FormRecord{Wins: 8, Losses: 2}, 0.048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormAdjustment(tt.form); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FormAdjustment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestH2HAdjustment(t *testing.T) {
	tests := []struct {
		name string
		h2h  *H2HRecord
		want float64
	}{
		{"nil disables", nil, 0},
		{"split series", &H2HRecord{Wins: 2, Losses: 2}, 0},
		{"swept opponent", &H2HRecord{Wins: 4, Losses: 0}, 0.05},
		{"got swept", &H2HRecord{Wins: 0, Losses: 4}, -0.05},
		{"three one", &H2HRecord{Wins: 3, Losses: 1}, 0.025},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := H2HAdjustment(tt.h2h); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("H2HAdjustment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreFinalClamped(t *testing.T) {
	elite := stats.Summary{ShootingPct: 0.55, ReboundingAvg: 50, TurnoversAvg: 12, NetRatingProxy: 10, GamesSampled: 10, Source: stats.SourcePrimary}

	ts := Score(elite, Inputs{
		Sentiment: "positive, great, excellent, amazing run of form",
		Form:      &FormRecord{Wins: 10, Losses: 0},
		H2H:       &H2HRecord{Wins: 4, Losses: 0},
	})

	if ts.FinalScore != 1.0 {
		t.Errorf("stacked adjustments must clamp at 1.0, got %v", ts.FinalScore)
	}
	if math.Abs(ts.BaseScore-1.0) > 1e-9 {
		t.Errorf("BaseScore = %v, want 1.0", ts.BaseScore)
	}
}

func TestScoreAdjustmentsAdditive(t *testing.T) {
	ts := Score(leagueAverageSummary(), Inputs{
		Sentiment: "poor perimeter defense",
		Injuries:  []string{"Jayson Tatum - Out (achilles)"},
		Form:      &FormRecord{Wins: 8, Losses: 2},
	})

	// 0.5 - 0.05 - 0.05 + 0.048 = 0.448
	if math.Abs(ts.FinalScore-0.448) > 1e-9 {
		t.Errorf("FinalScore = %v, want 0.448", ts.FinalScore)
	}
	if ts.H2HAdjustment != 0 {
		t.Errorf("disabled h2h must contribute 0, got %v", ts.H2HAdjustment)
	}
}
