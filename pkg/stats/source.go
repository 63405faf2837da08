package stats

import (
	"context"
	"errors"

	"github.com/phenomenon0/ballpulse/pkg/nba"
)

// ErrNoData marks an empty or malformed upstream result. The chain treats
// both identically: re-query the same source with a relaxed season before
// moving to the next tier.
var ErrNoData = errors.New("stats: no usable data returned")

// Source is a single upstream provider of recent team statistics.
// Implementations include the ESPN aggregator and the stats.nba.com
// game log endpoint.
type Source interface {
	// Name returns the source name (for logging and attempt trails).
	Name() string

	// CanFetch reports whether this source can serve the given
	// resolution. Sources that query by provider ID need a resolved
	// identity; sources that search by name do not.
	CanFetch(res nba.Resolution) bool

	// Fetch returns recent-form stats for the team over the given
	// season ("2025-26" form). Empty or malformed upstream payloads
	// surface as ErrNoData; network failures as wrapped errors.
	Fetch(ctx context.Context, res nba.Resolution, season string) (Summary, error)
}
