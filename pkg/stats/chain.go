package stats

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/phenomenon0/ballpulse/pkg/nba"
)

// Attempt records one source try in the acquisition trail. Err is nil
// for the attempt that produced the returned summary.
type Attempt struct {
	Source string
	Season string
	Err    error
}

// ChainConfig configures the acquisition chain.
type ChainConfig struct {
	Sources []Source      // ordered, fastest/least restricted first
	Timeout time.Duration // per network call; default 5s
	Retry   RetryPolicy

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// DefaultChainConfig returns the production configuration with the ESPN
// aggregator first and the stats.nba.com game log second.
func DefaultChainConfig() *ChainConfig {
	return &ChainConfig{
		Sources: []Source{NewESPNClient(), NewNBAStatsClient()},
		Timeout: 5 * time.Second,
		Retry:   DefaultRetryPolicy(),
	}
}

// Chain walks an ordered list of stats sources and folds the attempts to
// the first success or the canonical placeholder. A Chain never returns
// an error: timeouts, malformed payloads, and unknown teams all degrade
// to the next tier and finally to placeholder data.
//
// Each source sits behind a circuit breaker so a provider that fails by
// inherent access restriction stops costing its timeout on every call.
type Chain struct {
	resolver *nba.Resolver
	sources  []Source
	timeout  time.Duration
	retry    RetryPolicy
	breakers map[string]*gobreaker.CircuitBreaker
	now      func() time.Time
}

// NewChain creates an acquisition chain over the configured sources.
func NewChain(resolver *nba.Resolver, cfg *ChainConfig) *Chain {
	if cfg == nil {
		cfg = DefaultChainConfig()
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultChainConfig().Sources
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker, len(cfg.Sources))
	for _, src := range cfg.Sources {
		name := src.Name()
		breakers[name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("[STATS] breaker %s: %s -> %s", name, from, to)
			},
		})
	}

	return &Chain{
		resolver: resolver,
		sources:  cfg.Sources,
		timeout:  cfg.Timeout,
		retry:    cfg.Retry,
		breakers: breakers,
		now:      cfg.Now,
	}
}

// Fetch produces a Summary for a free-form team name, along with the
// attempt trail. The summary's Source field reflects the tier that
// served it: the first source is "primary", later tiers "secondary",
// and exhaustion yields the fixed placeholder record.
func (c *Chain) Fetch(ctx context.Context, teamName string) (Summary, []Attempt) {
	res := c.resolver.Resolve(teamName)

	season := CurrentSeason(c.now())
	var attempts []Attempt

	for tier, src := range c.sources {
		if !src.CanFetch(res) {
			attempts = append(attempts, Attempt{
				Source: src.Name(),
				Err:    fmt.Errorf("identity not resolved for %q", teamName),
			})
			continue
		}

		summary, trail, ok := c.fetchFromSource(ctx, src, res, season)
		attempts = append(attempts, trail...)
		if ok {
			summary.Source = tierLabel(tier)
			return summary, attempts
		}

		if ctx.Err() != nil {
			break // caller gave up; don't start another tier
		}
	}

	return Placeholder(res.Team.Name), attempts
}

// fetchFromSource tries a single source: the requested season first and,
// if the source answers but has no usable data, one relaxed re-query
// against the previous season before giving up on the tier.
func (c *Chain) fetchFromSource(ctx context.Context, src Source, res nba.Resolution, season string) (Summary, []Attempt, bool) {
	var attempts []Attempt

	seasons := []string{season, PreviousSeason(season)}
	for i, s := range seasons {
		summary, err := c.try(ctx, src, res, s)
		attempts = append(attempts, Attempt{Source: src.Name(), Season: s, Err: err})
		if err == nil {
			return summary, attempts, true
		}

		// Relax the season only when the source responded with empty
		// or malformed data; network-level failures move to the next
		// tier instead of burning another call here.
		if i == 0 && !errors.Is(err, ErrNoData) {
			break
		}
	}

	return Summary{}, attempts, false
}

// try performs one bounded, breaker-guarded call with the retry policy.
func (c *Chain) try(ctx context.Context, src Source, res nba.Resolution, season string) (Summary, error) {
	breaker := c.breakers[src.Name()]

	var summary Summary
	err := c.retry.Do(ctx, func() error {
		result, err := breaker.Execute(func() (interface{}, error) {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return src.Fetch(callCtx, res, season)
		})
		if err != nil {
			// Empty results and open breakers are deterministic;
			// retrying them only burns latency budget.
			if errors.Is(err, ErrNoData) || errors.Is(err, gobreaker.ErrOpenState) {
				return Permanent(err)
			}
			return err
		}
		summary = result.(Summary)
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

func tierLabel(tier int) string {
	if tier == 0 {
		return SourcePrimary
	}
	return SourceSecondary
}
