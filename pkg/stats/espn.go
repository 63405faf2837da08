package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/phenomenon0/ballpulse/pkg/nba"
)

const (
	// ESPNBaseURL is the unofficial ESPN site API. It is fast and not
	// IP-restricted, which is why it sits first in the chain.
	ESPNBaseURL = "https://site.api.espn.com/apis/site/v2/sports"

	espnRateLimit = 5.0 // requests per second
	espnBurst     = 2
)

// ESPNClient fetches recent team statistics from ESPN's site API.
type ESPNClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxGames   int
}

// ESPNOption configures the client.
type ESPNOption func(*ESPNClient)

// WithESPNBaseURL sets a custom base URL.
func WithESPNBaseURL(url string) ESPNOption {
	return func(c *ESPNClient) {
		c.baseURL = url
	}
}

// WithESPNHTTPClient sets a custom HTTP client.
func WithESPNHTTPClient(client *http.Client) ESPNOption {
	return func(c *ESPNClient) {
		c.httpClient = client
	}
}

// WithESPNRateLimit sets custom rate limiting.
func WithESPNRateLimit(rps float64, burst int) ESPNOption {
	return func(c *ESPNClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewESPNClient creates a new ESPN stats client.
func NewESPNClient(opts ...ESPNOption) *ESPNClient {
	c := &ESPNClient{
		baseURL: ESPNBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Limit(espnRateLimit), espnBurst),
		userAgent: "Mozilla/5.0 (compatible; BallPulse/1.0)",
		maxGames:  10,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name implements Source.
func (c *ESPNClient) Name() string {
	return "espn"
}

// CanFetch implements Source. ESPN is keyed by team abbreviation, so a
// resolved identity is required.
func (c *ESPNClient) CanFetch(res nba.Resolution) bool {
	return res.Resolved && res.Team.Abbreviation != ""
}

// espnStatsResponse is the team recent-results payload. Upstream sends
// far more than this; unknown fields are dropped at the boundary so raw
// maps never travel downstream.
type espnStatsResponse struct {
	Team struct {
		ID           string `json:"id"`
		Abbreviation string `json:"abbreviation"`
		DisplayName  string `json:"displayName"`
	} `json:"team"`
	Events []espnEventStats `json:"events"`
}

// espnEventStats carries per-game team totals.
type espnEventStats struct {
	ID    string `json:"id"`
	Stats struct {
		FieldGoalPct  float64 `json:"fieldGoalPct"`
		TotalRebounds float64 `json:"totalRebounds"`
		Turnovers     float64 `json:"turnovers"`
		PlusMinus     float64 `json:"plusMinus"`
	} `json:"stats"`
}

// Fetch implements Source. It pulls the team's recent game totals for the
// season and averages the last maxGames entries.
func (c *ESPNClient) Fetch(ctx context.Context, res nba.Resolution, season string) (Summary, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Summary{}, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	if year := SeasonEndYear(season); year > 0 {
		params.Set("season", strconv.Itoa(year))
	}

	u := fmt.Sprintf("%s/basketball/nba/teams/%s/statistics",
		c.baseURL, strings.ToLower(res.Team.Abbreviation))
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Summary{}, fmt.Errorf("espn api error %d: %s", resp.StatusCode, string(body))
	}

	var payload espnStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Summary{}, fmt.Errorf("%w: decode: %v", ErrNoData, err)
	}

	if len(payload.Events) == 0 {
		return Summary{}, fmt.Errorf("%w: espn returned no games for %s season %s",
			ErrNoData, res.Team.Abbreviation, season)
	}

	events := payload.Events
	if len(events) > c.maxGames {
		events = events[:c.maxGames]
	}

	var fg, reb, tov, diff float64
	for _, ev := range events {
		fg += ev.Stats.FieldGoalPct
		reb += ev.Stats.TotalRebounds
		tov += ev.Stats.Turnovers
		diff += ev.Stats.PlusMinus
	}
	n := float64(len(events))

	return Summary{
		TeamName:       res.Team.Name,
		ShootingPct:    fg / n,
		ReboundingAvg:  reb / n,
		TurnoversAvg:   tov / n,
		NetRatingProxy: diff / n,
		GamesSampled:   len(events),
		Source:         SourcePrimary,
	}, nil
}
