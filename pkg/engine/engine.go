// Package engine runs the full matchup comparison pipeline: identity
// resolution, stats acquisition, scoring, win probability, market
// reconciliation, and reasoning, with read-through caching and history
// recording around it.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/phenomenon0/ballpulse/pkg/nba"
	"github.com/phenomenon0/ballpulse/pkg/odds"
	"github.com/phenomenon0/ballpulse/pkg/reasoning"
	"github.com/phenomenon0/ballpulse/pkg/scoring"
	"github.com/phenomenon0/ballpulse/pkg/stats"
)

// SupportedSport is the only sport discriminator the engine accepts.
const SupportedSport = "basketball"

// ErrUnsupportedSport is returned for any sport other than basketball.
// It is the engine's only caller-visible rejection; every data failure
// degrades to placeholders instead.
var ErrUnsupportedSport = errors.New("unsupported sport")

// Request describes one matchup comparison. Team1 is treated as the
// home side. Optional fields extend the pipeline when present and
// contribute nothing when absent.
type Request struct {
	Sport string `json:"sport,omitempty"`
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
	Date  string `json:"date,omitempty"`

	Team1Injuries []string `json:"team1_injuries,omitempty"`
	Team2Injuries []string `json:"team2_injuries,omitempty"`

	Team1Form *scoring.FormRecord `json:"team1_form,omitempty"`
	Team2Form *scoring.FormRecord `json:"team2_form,omitempty"`
	H2H       *scoring.H2HRecord  `json:"h2h,omitempty"` // team1's perspective

	Market *odds.MarketLine `json:"market,omitempty"`
}

// TeamReport is the per-team half of a comparison result.
type TeamReport struct {
	Name             string            `json:"name"`
	Pros             []string          `json:"pros"`
	Cons             []string          `json:"cons"`
	StatsSummary     string            `json:"stats_summary"`
	SentimentSummary string            `json:"sentiment_summary"`
	SentimentSources []string          `json:"sentiment_sources,omitempty"`
	Stats            stats.Summary     `json:"stats"`
	Score            scoring.TeamScore `json:"score"`
}

// Sources lists where the comparison's inputs came from.
type Sources struct {
	Reddit []string `json:"reddit"`
	Stats  []string `json:"stats"`
}

// Comparison is the full matchup result.
type Comparison struct {
	Sport string     `json:"sport"`
	Team1 TeamReport `json:"team1"`
	Team2 TeamReport `json:"team2"`

	PredictedWinner string           `json:"predicted_winner"`
	WinProbability  float64          `json:"win_probability"`
	ScoreBreakdown  string           `json:"score_breakdown"`
	ConfidenceLabel string           `json:"confidence_label"`
	Reasoning       []string         `json:"reasoning"`
	Odds            *odds.Comparison `json:"odds,omitempty"`

	Sources   Sources   `json:"sources"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}

// Config wires the engine's collaborators. Nil fields get working
// in-process defaults.
type Config struct {
	Resolver  *nba.Resolver
	Chain     *stats.Chain
	Model     *scoring.Model
	Analyzer  SentimentAnalyzer
	Cache     Cache
	History   HistoryStore
	Metrics   *Metrics
	Logger    *log.Logger
	Now       func() time.Time
	ResultTTL time.Duration
	ScoreTTL  time.Duration
}

// Engine is the top-level comparison service.
type Engine struct {
	resolver  *nba.Resolver
	chain     *stats.Chain
	model     *scoring.Model
	analyzer  SentimentAnalyzer
	cache     Cache
	history   HistoryStore
	metrics   *Metrics
	logger    *log.Logger
	now       func() time.Time
	resultTTL time.Duration
	scoreTTL  time.Duration
}

// New builds an Engine, filling unset collaborators with defaults.
func New(cfg Config) *Engine {
	if cfg.Resolver == nil {
		cfg.Resolver = nba.NewResolver()
	}
	if cfg.Chain == nil {
		cfg.Chain = stats.NewChain(cfg.Resolver, stats.DefaultChainConfig())
	}
	if cfg.Model == nil {
		cfg.Model = scoring.NewModel()
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = NeutralSentiment{}
	}
	if cfg.Cache == nil {
		cfg.Cache = NewMemoryCache()
	}
	if cfg.History == nil {
		cfg.History = NewMemoryHistory(0)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = ResultCacheTTL
	}
	if cfg.ScoreTTL <= 0 {
		cfg.ScoreTTL = TeamScoreCacheTTL
	}

	return &Engine{
		resolver:  cfg.Resolver,
		chain:     cfg.Chain,
		model:     cfg.Model,
		analyzer:  cfg.Analyzer,
		cache:     cfg.Cache,
		history:   cfg.History,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
		resultTTL: cfg.ResultTTL,
		scoreTTL:  cfg.ScoreTTL,
	}
}

// Compare runs the full pipeline for one matchup. The only error it
// can return besides context cancellation is ErrUnsupportedSport;
// every upstream failure degrades to placeholder data.
func (e *Engine) Compare(ctx context.Context, req Request) (*Comparison, error) {
	start := e.now()

	sport, err := normalizeSport(req.Sport)
	if err != nil {
		e.metrics.RecordComparison(strings.ToLower(req.Sport), "rejected", e.now().Sub(start).Seconds())
		return nil, err
	}

	key := ComparisonKey(sport, req.Team1, req.Team2, req.Date)
	if cached := e.cachedComparison(ctx, key); cached != nil {
		e.metrics.RecordComparison(sport, "cached", e.now().Sub(start).Seconds())
		return cached, nil
	}

	team1In := scoring.Inputs{Injuries: req.Team1Injuries, Form: req.Team1Form, H2H: req.H2H}
	team2In := scoring.Inputs{Injuries: req.Team2Injuries, Form: req.Team2Form}
	if req.H2H != nil {
		team2In.H2H = &scoring.H2HRecord{Wins: req.H2H.Losses, Losses: req.H2H.Wins}
	}

	var (
		wg      sync.WaitGroup
		reports [2]TeamReport
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		reports[0] = e.teamPipeline(ctx, sport, req.Team1, team1In)
	}()
	go func() {
		defer wg.Done()
		reports[1] = e.teamPipeline(ctx, sport, req.Team2, team2In)
	}()
	wg.Wait()

	cmp := e.combine(sport, req, reports[0], reports[1])
	cmp.CreatedAt = e.now()

	e.persist(ctx, key, sport, cmp)
	e.metrics.RecordComparison(sport, "computed", e.now().Sub(start).Seconds())
	return cmp, nil
}

// teamPipeline runs resolution, acquisition, sentiment, and scoring
// for one team. It never fails: exhausted sources produce placeholder
// stats and a neutral score.
func (e *Engine) teamPipeline(ctx context.Context, sport, teamName string, in scoring.Inputs) TeamReport {
	summary, attempts := e.fetchStats(ctx, sport, teamName)
	for _, attempt := range attempts {
		e.metrics.RecordSourceAttempt(attempt.Source, attempt.Err != nil)
	}

	sentiment, err := e.analyzer.Analyze(ctx, summary.TeamName)
	if err != nil {
		e.logger.Printf("[ENGINE] sentiment unavailable for %s: %v", summary.TeamName, err)
		sentiment = Sentiment{}
	}
	in.Sentiment = sentiment.Summary

	score := scoring.Score(summary, in)
	pc := reasoning.BuildProsCons(summary, sentiment.Summary, in.Injuries)

	return TeamReport{
		Name:             summary.TeamName,
		Pros:             pc.Pros,
		Cons:             pc.Cons,
		StatsSummary:     summary.String(),
		SentimentSummary: sentiment.Summary,
		SentimentSources: sentiment.Sources,
		Stats:            summary,
		Score:            score,
	}
}

// fetchStats is a read-through cache in front of the acquisition
// chain. Placeholder results are not cached, so a recovering source is
// retried on the next request.
func (e *Engine) fetchStats(ctx context.Context, sport, teamName string) (stats.Summary, []stats.Attempt) {
	key := TeamScoreKey(sport, teamName)

	if blob, ok, err := e.cache.Get(ctx, key); err == nil && ok {
		var cached stats.Summary
		if err := json.Unmarshal(blob, &cached); err == nil {
			e.metrics.RecordCacheLookup("team_stats", true)
			return cached, nil
		}
	} else if err != nil {
		e.logger.Printf("[ENGINE] stats cache read failed, computing fresh: %v", err)
	}
	e.metrics.RecordCacheLookup("team_stats", false)

	summary, attempts := e.chain.Fetch(ctx, teamName)
	if !summary.IsPlaceholder() {
		if blob, err := json.Marshal(summary); err == nil {
			if err := e.cache.Set(ctx, key, blob, e.scoreTTL); err != nil {
				e.logger.Printf("[ENGINE] stats cache write failed: %v", err)
			}
		}
	}
	return summary, attempts
}

// combine joins the two team reports into the final comparison.
func (e *Engine) combine(sport string, req Request, team1, team2 TeamReport) *Comparison {
	outcome := e.model.Predict(team1.Score.FinalScore, team2.Score.FinalScore)

	favored, underdog := team1, team2
	if !outcome.HomeFavored {
		favored, underdog = team2, team1
	}

	cmp := &Comparison{
		Sport:           sport,
		Team1:           team1,
		Team2:           team2,
		PredictedWinner: favored.Name,
		WinProbability:  outcome.Probability,
		ConfidenceLabel: outcome.Confidence,
		ScoreBreakdown: reasoning.ScoreBreakdown(
			team1.Score.FinalScore, team2.Score.FinalScore, team1.Name, team2.Name),
		Sources: buildSources(team1, team2),
	}

	var oddsCmp *odds.Comparison
	if req.Market != nil {
		c := odds.Compare(favored.Name, outcome.Probability, *req.Market)
		oddsCmp = &c
		cmp.Odds = oddsCmp
	}

	in := reasoning.Input{
		Favored:       favored.Name,
		Underdog:      underdog.Name,
		FavoredScore:  favored.Score.FinalScore,
		UnderdogScore: underdog.Score.FinalScore,
		WinProb:       outcome.Probability,
		FavoredIsHome: outcome.HomeFavored,
		Odds:          oddsCmp,
		H2H:           favoredH2H(req, outcome.HomeFavored),
	}
	if outcome.HomeFavored {
		in.FavoredForm, in.UnderdogForm = req.Team1Form, req.Team2Form
	} else {
		in.FavoredForm, in.UnderdogForm = req.Team2Form, req.Team1Form
	}
	cmp.Reasoning = reasoning.Generate(in)

	agreement := "none"
	if oddsCmp != nil {
		agreement = fmt.Sprintf("%t", oddsCmp.Agreement)
	}
	var edge *float64
	if oddsCmp != nil {
		edge = oddsCmp.EdgeScore
	}
	e.metrics.RecordPrediction(outcome.Confidence, outcome.Probability, agreement, edge)

	return cmp
}

// favoredH2H reorients the request's team1-perspective record to the
// favored side.
func favoredH2H(req Request, homeFavored bool) *scoring.H2HRecord {
	if req.H2H == nil {
		return nil
	}
	if homeFavored {
		return req.H2H
	}
	return &scoring.H2HRecord{Wins: req.H2H.Losses, Losses: req.H2H.Wins}
}

func buildSources(team1, team2 TeamReport) Sources {
	src := Sources{Reddit: []string{}, Stats: []string{}}

	seenStats := map[string]struct{}{}
	seenReddit := map[string]struct{}{}
	for _, report := range []TeamReport{team1, team2} {
		if _, dup := seenStats[report.Stats.Source]; !dup {
			seenStats[report.Stats.Source] = struct{}{}
			src.Stats = append(src.Stats, report.Stats.Source)
		}
		for _, url := range report.SentimentSources {
			if _, dup := seenReddit[url]; dup {
				continue
			}
			seenReddit[url] = struct{}{}
			src.Reddit = append(src.Reddit, url)
		}
	}
	return src
}

// cachedComparison returns a previously computed result, or nil on
// miss or any cache failure.
func (e *Engine) cachedComparison(ctx context.Context, key string) *Comparison {
	blob, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Printf("[ENGINE] result cache read failed, computing fresh: %v", err)
		return nil
	}
	if !ok {
		e.metrics.RecordCacheLookup("comparison", false)
		return nil
	}

	var cmp Comparison
	if err := json.Unmarshal(blob, &cmp); err != nil {
		e.logger.Printf("[ENGINE] discarding corrupt cache entry %s: %v", key, err)
		return nil
	}
	e.metrics.RecordCacheLookup("comparison", true)
	cmp.Cached = true
	return &cmp
}

// persist writes the result to the cache and the history store. Both
// are best-effort: failures are logged, never surfaced.
func (e *Engine) persist(ctx context.Context, key, sport string, cmp *Comparison) {
	blob, err := json.Marshal(cmp)
	if err != nil {
		e.logger.Printf("[ENGINE] marshal comparison: %v", err)
		return
	}

	if err := e.cache.Set(ctx, key, blob, e.resultTTL); err != nil {
		e.logger.Printf("[ENGINE] result cache write failed: %v", err)
	}
	if _, err := e.history.Add(ctx, sport, cmp.Team1.Name, cmp.Team2.Name, blob); err != nil {
		e.logger.Printf("[ENGINE] history write failed: %v", err)
	}
}

// History exposes the engine's history store to the API layer.
func (e *Engine) History() HistoryStore { return e.history }

// Metrics exposes the engine's metrics collector.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// ClearCache drops all cached results and scores.
func (e *Engine) ClearCache(ctx context.Context) error {
	return e.cache.Clear(ctx)
}

// Resolver exposes the engine's team resolver.
func (e *Engine) Resolver() *nba.Resolver { return e.resolver }

func normalizeSport(sport string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(sport))
	if s == "" {
		return SupportedSport, nil
	}
	if s != SupportedSport {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSport, sport)
	}
	return s, nil
}
