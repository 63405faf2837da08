package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/phenomenon0/ballpulse/pkg/nba"
)

const (
	// NBAStatsBaseURL is the official stats.nba.com API. It is slower
	// than the aggregator and rejects many hosting-provider IP ranges,
	// so it sits second in the chain.
	NBAStatsBaseURL = "https://stats.nba.com/stats"

	// stats.nba.com throttles aggressively; keep roughly one request
	// in flight per second.
	nbaStatsRateLimit = 1.0
	nbaStatsBurst     = 1

	leagueAvgPoints = 108.0 // fallback baseline when PLUS_MINUS is absent
)

// NBAStatsClient fetches team game logs from stats.nba.com.
type NBAStatsClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxGames   int
}

// NBAStatsOption configures the client.
type NBAStatsOption func(*NBAStatsClient)

// WithNBAStatsBaseURL sets a custom base URL.
func WithNBAStatsBaseURL(url string) NBAStatsOption {
	return func(c *NBAStatsClient) {
		c.baseURL = url
	}
}

// WithNBAStatsHTTPClient sets a custom HTTP client.
func WithNBAStatsHTTPClient(client *http.Client) NBAStatsOption {
	return func(c *NBAStatsClient) {
		c.httpClient = client
	}
}

// WithNBAStatsRateLimit sets custom rate limiting.
func WithNBAStatsRateLimit(rps float64, burst int) NBAStatsOption {
	return func(c *NBAStatsClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewNBAStatsClient creates a new stats.nba.com client.
func NewNBAStatsClient(opts ...NBAStatsOption) *NBAStatsClient {
	c := &NBAStatsClient{
		baseURL: NBAStatsBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:  rate.NewLimiter(rate.Limit(nbaStatsRateLimit), nbaStatsBurst),
		maxGames: 10,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name implements Source.
func (c *NBAStatsClient) Name() string {
	return "nba_stats"
}

// CanFetch implements Source. The game log endpoint is keyed by the
// numeric team ID, so an unresolved identity cannot be queried.
func (c *NBAStatsClient) CanFetch(res nba.Resolution) bool {
	return res.Resolved && res.Team.ID != 0
}

// gameLogResponse is the stats.nba.com result-set envelope. Rows are
// positional; columns are located by header name.
type gameLogResponse struct {
	ResultSets []struct {
		Name    string              `json:"name"`
		Headers []string            `json:"headers"`
		RowSet  [][]json.RawMessage `json:"rowSet"`
	} `json:"resultSets"`
}

// Fetch implements Source. It averages the most recent maxGames rows of
// the team game log (rows arrive sorted most recent first).
func (c *NBAStatsClient) Fetch(ctx context.Context, res nba.Resolution, season string) (Summary, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Summary{}, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("TeamID", strconv.Itoa(res.Team.ID))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")

	u := c.baseURL + "/teamgamelog?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("create request: %w", err)
	}
	// stats.nba.com rejects requests without browser-like headers.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Summary{}, fmt.Errorf("nba stats api error %d: %s", resp.StatusCode, string(body))
	}

	var payload gameLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Summary{}, fmt.Errorf("%w: decode: %v", ErrNoData, err)
	}

	if len(payload.ResultSets) == 0 || len(payload.ResultSets[0].RowSet) == 0 {
		return Summary{}, fmt.Errorf("%w: empty game log for team %d season %s",
			ErrNoData, res.Team.ID, season)
	}

	set := payload.ResultSets[0]
	col := make(map[string]int, len(set.Headers))
	for i, h := range set.Headers {
		col[h] = i
	}

	fgIdx, ok1 := col["FG_PCT"]
	rebIdx, ok2 := col["REB"]
	tovIdx, ok3 := col["TOV"]
	if !ok1 || !ok2 || !ok3 {
		return Summary{}, fmt.Errorf("%w: game log missing expected columns", ErrNoData)
	}
	pmIdx, hasPM := col["PLUS_MINUS"]
	ptsIdx, hasPts := col["PTS"]

	rows := set.RowSet
	if len(rows) > c.maxGames {
		rows = rows[:c.maxGames]
	}

	var fg, reb, tov, net float64
	sampled := 0
	for _, row := range rows {
		fgv, err1 := cellFloat(row, fgIdx)
		rebv, err2 := cellFloat(row, rebIdx)
		tovv, err3 := cellFloat(row, tovIdx)
		if err1 != nil || err2 != nil || err3 != nil {
			continue // skip malformed rows, keep the rest
		}

		fg += fgv
		reb += rebv
		tov += tovv

		switch {
		case hasPM:
			if pm, err := cellFloat(row, pmIdx); err == nil {
				net += pm
			}
		case hasPts:
			// Point differential is unavailable; approximate with
			// scoring relative to a league-average baseline.
			if pts, err := cellFloat(row, ptsIdx); err == nil {
				net += pts - leagueAvgPoints
			}
		}
		sampled++
	}

	if sampled == 0 {
		return Summary{}, fmt.Errorf("%w: no parseable rows in game log", ErrNoData)
	}

	n := float64(sampled)
	return Summary{
		TeamName:       res.Team.Name,
		ShootingPct:    fg / n,
		ReboundingAvg:  reb / n,
		TurnoversAvg:   tov / n,
		NetRatingProxy: net / n,
		GamesSampled:   sampled,
		Source:         SourceSecondary,
	}, nil
}

// cellFloat reads a numeric cell from a positional row.
func cellFloat(row []json.RawMessage, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("row too short for column %d", idx)
	}
	var v float64
	if err := json.Unmarshal(row[idx], &v); err != nil {
		return 0, err
	}
	return v, nil
}
