package engine

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/phenomenon0/ballpulse/pkg/nba"
	"github.com/phenomenon0/ballpulse/pkg/odds"
	"github.com/phenomenon0/ballpulse/pkg/scoring"
	"github.com/phenomenon0/ballpulse/pkg/stats"
)

// scriptedSource serves canned summaries per canonical team name.
type scriptedSource struct {
	summaries map[string]stats.Summary
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) CanFetch(res nba.Resolution) bool { return res.Resolved }

func (s *scriptedSource) Fetch(_ context.Context, res nba.Resolution, _ string) (stats.Summary, error) {
	summary, ok := s.summaries[res.Team.Name]
	if !ok {
		return stats.Summary{}, stats.ErrNoData
	}
	return summary, nil
}

func testEngine(t *testing.T, source stats.Source) *Engine {
	t.Helper()

	resolver := nba.NewResolver()
	chain := stats.NewChain(resolver, &stats.ChainConfig{
		Sources: []stats.Source{source},
		Timeout: time.Second,
		Retry:   stats.RetryPolicy{Sleep: func(context.Context, time.Duration) error { return nil }},
		Now:     func() time.Time { return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC) },
	})

	return New(Config{
		Resolver: resolver,
		Chain:    chain,
		Logger:   log.New(io.Discard, "", 0),
	})
}

func strongWeakSource() *scriptedSource {
	return &scriptedSource{summaries: map[string]stats.Summary{
		"Boston Celtics": {
			TeamName:       "Boston Celtics",
			ShootingPct:    0.50,
			ReboundingAvg:  46,
			TurnoversAvg:   12.5,
			NetRatingProxy: 7,
			GamesSampled:   10,
		},
		"Los Angeles Lakers": {
			TeamName:       "Los Angeles Lakers",
			ShootingPct:    0.44,
			ReboundingAvg:  41,
			TurnoversAvg:   15,
			NetRatingProxy: -2,
			GamesSampled:   10,
		},
	}}
}

func TestCompareFullPipeline(t *testing.T) {
	e := testEngine(t, strongWeakSource())

	cmp, err := e.Compare(context.Background(), Request{
		Team1: "Celtics",
		Team2: "Lakers",
		Date:  "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if cmp.PredictedWinner != "Boston Celtics" {
		t.Errorf("PredictedWinner = %q, want Boston Celtics", cmp.PredictedWinner)
	}
	if cmp.WinProbability < 0.5 || cmp.WinProbability > 1 {
		t.Errorf("WinProbability = %v, want within [0.5,1]", cmp.WinProbability)
	}
	if cmp.ConfidenceLabel == "" {
		t.Error("missing confidence label")
	}
	if !strings.HasPrefix(cmp.ScoreBreakdown, "Predicted final score: Boston Celtics ") {
		t.Errorf("ScoreBreakdown = %q", cmp.ScoreBreakdown)
	}
	if len(cmp.Reasoning) == 0 {
		t.Error("expected reasoning lines")
	}
	if len(cmp.Team1.Pros) < 3 || len(cmp.Team2.Cons) < 3 {
		t.Errorf("pros/cons too short: %v / %v", cmp.Team1.Pros, cmp.Team2.Cons)
	}
	if cmp.Team1.Name != "Boston Celtics" || cmp.Team2.Name != "Los Angeles Lakers" {
		t.Errorf("team names not canonical: %q, %q", cmp.Team1.Name, cmp.Team2.Name)
	}
	if cmp.Cached {
		t.Error("fresh result should not be marked cached")
	}
	if len(cmp.Sources.Stats) == 0 {
		t.Error("expected stats sources")
	}
}

// threadAnalyzer returns a canned summary plus the discussion URLs it
// claims to have read, one per team.
type threadAnalyzer struct{}

func (threadAnalyzer) Analyze(_ context.Context, teamName string) (Sentiment, error) {
	slug := strings.ToLower(strings.ReplaceAll(teamName, " ", "-"))
	return Sentiment{
		Summary: "Fans are upbeat about " + teamName + ".",
		Sources: []string{
			"https://reddit.com/r/nba/" + slug + "-gameday",
			"https://reddit.com/r/nba/weekly-index",
		},
	}, nil
}

func TestCompareCollectsSentimentSources(t *testing.T) {
	resolver := nba.NewResolver()
	e := New(Config{
		Resolver: resolver,
		Chain: stats.NewChain(resolver, &stats.ChainConfig{
			Sources: []stats.Source{strongWeakSource()},
			Timeout: time.Second,
			Retry:   stats.RetryPolicy{Sleep: func(context.Context, time.Duration) error { return nil }},
		}),
		Analyzer: threadAnalyzer{},
		Logger:   log.New(io.Discard, "", 0),
	})

	cmp, err := e.Compare(context.Background(), Request{Team1: "Celtics", Team2: "Lakers"})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	want := []string{
		"https://reddit.com/r/nba/boston-celtics-gameday",
		"https://reddit.com/r/nba/weekly-index",
		"https://reddit.com/r/nba/los-angeles-lakers-gameday",
	}
	if len(cmp.Sources.Reddit) != len(want) {
		t.Fatalf("Sources.Reddit = %v, want %v", cmp.Sources.Reddit, want)
	}
	got := map[string]bool{}
	for _, url := range cmp.Sources.Reddit {
		got[url] = true
	}
	for _, url := range want {
		if !got[url] {
			t.Errorf("Sources.Reddit missing %s: %v", url, cmp.Sources.Reddit)
		}
	}

	if len(cmp.Team1.SentimentSources) != 2 {
		t.Errorf("Team1.SentimentSources = %v, want 2 URLs", cmp.Team1.SentimentSources)
	}
}

func TestCompareNeutralAnalyzerLeavesRedditEmpty(t *testing.T) {
	e := testEngine(t, strongWeakSource())

	cmp, err := e.Compare(context.Background(), Request{Team1: "Celtics", Team2: "Lakers"})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(cmp.Sources.Reddit) != 0 {
		t.Errorf("Sources.Reddit = %v, want empty without a social backend", cmp.Sources.Reddit)
	}
}

func TestCompareUnsupportedSport(t *testing.T) {
	e := testEngine(t, strongWeakSource())

	_, err := e.Compare(context.Background(), Request{Sport: "hockey", Team1: "Celtics", Team2: "Lakers"})
	if !errors.Is(err, ErrUnsupportedSport) {
		t.Fatalf("expected ErrUnsupportedSport, got %v", err)
	}

	// Default and explicit basketball are both accepted.
	for _, sport := range []string{"", "basketball", "Basketball"} {
		if _, err := e.Compare(context.Background(), Request{Sport: sport, Team1: "Celtics", Team2: "Lakers"}); err != nil {
			t.Errorf("sport %q rejected: %v", sport, err)
		}
	}
}

func TestCompareSecondCallServedFromCache(t *testing.T) {
	e := testEngine(t, strongWeakSource())
	req := Request{Team1: "Celtics", Team2: "Lakers", Date: "2026-01-15"}

	first, err := e.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("first Compare failed: %v", err)
	}
	second, err := e.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("second Compare failed: %v", err)
	}

	if !second.Cached {
		t.Error("second call should be served from cache")
	}
	if second.PredictedWinner != first.PredictedWinner || second.WinProbability != first.WinProbability {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}

	// Reversed team order hits the same entry.
	flipped, err := e.Compare(context.Background(), Request{Team1: "Lakers", Team2: "Celtics", Date: "2026-01-15"})
	if err != nil {
		t.Fatalf("flipped Compare failed: %v", err)
	}
	if !flipped.Cached {
		t.Error("team order should not change the cache key")
	}
}

func TestCompareAllSourcesDownDegradesToPlaceholders(t *testing.T) {
	e := testEngine(t, &scriptedSource{summaries: map[string]stats.Summary{}})

	cmp, err := e.Compare(context.Background(), Request{Team1: "Celtics", Team2: "Lakers"})
	if err != nil {
		t.Fatalf("Compare must not fail on data outages: %v", err)
	}

	if !cmp.Team1.Stats.IsPlaceholder() || !cmp.Team2.Stats.IsPlaceholder() {
		t.Fatalf("expected placeholder stats: %+v", cmp)
	}
	// Two neutral scores: home side favored by home advantage alone.
	if cmp.PredictedWinner != "Boston Celtics" {
		t.Errorf("PredictedWinner = %q, want the home side", cmp.PredictedWinner)
	}
	if cmp.ConfidenceLabel != scoring.ConfidenceTossUp {
		t.Errorf("ConfidenceLabel = %q, want %q", cmp.ConfidenceLabel, scoring.ConfidenceTossUp)
	}
}

func TestCompareRecordsHistory(t *testing.T) {
	e := testEngine(t, strongWeakSource())

	if _, err := e.Compare(context.Background(), Request{Team1: "Celtics", Team2: "Lakers"}); err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	entries, err := e.History().Recent(context.Background(), 10, HistoryFilter{})
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Team1 != "Boston Celtics" || entries[0].Team2 != "Los Angeles Lakers" {
		t.Errorf("history entry = %+v", entries[0])
	}
}

func TestCompareWithMarketLine(t *testing.T) {
	e := testEngine(t, strongWeakSource())

	cmp, err := e.Compare(context.Background(), Request{
		Team1: "Celtics",
		Team2: "Lakers",
		Market: &odds.MarketLine{
			HomeTeam:      "Boston Celtics",
			AwayTeam:      "Los Angeles Lakers",
			HomeSpread:    -6.5,
			HomeMoneyline: -220,
		},
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if cmp.Odds == nil {
		t.Fatal("expected odds comparison")
	}
	if !cmp.Odds.Agreement {
		t.Error("model and market should agree on the Celtics")
	}
	if cmp.Odds.EdgeScore == nil {
		t.Error("moneyline present, edge must be defined")
	}

	marketMentioned := false
	for _, line := range cmp.Reasoning {
		if strings.Contains(line, "market") {
			marketMentioned = true
		}
	}
	if !marketMentioned {
		t.Errorf("reasoning should mention the market: %v", cmp.Reasoning)
	}
}

func TestCompareFormAndH2HShiftScores(t *testing.T) {
	e := testEngine(t, &scriptedSource{summaries: map[string]stats.Summary{}})

	cmp, err := e.Compare(context.Background(), Request{
		Team1:     "Celtics",
		Team2:     "Lakers",
		Team1Form: &scoring.FormRecord{Wins: 2, Losses: 8},
		Team2Form: &scoring.FormRecord{Wins: 9, Losses: 1},
		H2H:       &scoring.H2HRecord{Wins: 0, Losses: 4},
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	// Placeholder base 0.5 both sides; away form and h2h dominate the
	// 0.03 home bonus.
	if cmp.PredictedWinner != "Los Angeles Lakers" {
		t.Errorf("PredictedWinner = %q, want Los Angeles Lakers", cmp.PredictedWinner)
	}
	if cmp.Team2.Score.FinalScore <= cmp.Team1.Score.FinalScore {
		t.Errorf("adjustments not applied: %v vs %v",
			cmp.Team1.Score.FinalScore, cmp.Team2.Score.FinalScore)
	}
}

func TestCompareInjuriesLowerScore(t *testing.T) {
	e := testEngine(t, strongWeakSource())

	healthy, err := e.Compare(context.Background(), Request{Team1: "Celtics", Team2: "Lakers", Date: "a"})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	hurt, err := e.Compare(context.Background(), Request{
		Team1:         "Celtics",
		Team2:         "Lakers",
		Date:          "b",
		Team1Injuries: []string{"Jayson Tatum - Out (achilles)", "Derrick White - Out (knee)"},
	})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if hurt.Team1.Score.InjuryPenalty != -0.10 {
		t.Errorf("InjuryPenalty = %v, want -0.10", hurt.Team1.Score.InjuryPenalty)
	}
	if hurt.WinProbability >= healthy.WinProbability {
		t.Errorf("injuries should lower the favorite's probability: %v vs %v",
			hurt.WinProbability, healthy.WinProbability)
	}
}

func TestCompareClearCache(t *testing.T) {
	e := testEngine(t, strongWeakSource())
	req := Request{Team1: "Celtics", Team2: "Lakers"}

	e.Compare(context.Background(), req)
	if err := e.ClearCache(context.Background()); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}

	cmp, err := e.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if cmp.Cached {
		t.Error("cleared cache should force a fresh computation")
	}
}
