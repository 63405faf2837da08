package engine

import "context"

// Sentiment is the analyzer's output: an opaque summary string plus
// the discussion URLs it was derived from.
type Sentiment struct {
	Summary string   `json:"summary"`
	Sources []string `json:"sources,omitempty"`
}

// SentimentAnalyzer is the social-sentiment collaborator. The engine
// treats the summary as opaque text; only the score normalizer's
// keyword scan interprets it.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, teamName string) (Sentiment, error)
}

// NeutralSentiment is the no-op analyzer used when no social data
// backend is configured. It always returns a neutral summary, which
// produces a zero sentiment tilt.
type NeutralSentiment struct{}

// Analyze implements SentimentAnalyzer.
func (NeutralSentiment) Analyze(_ context.Context, teamName string) (Sentiment, error) {
	return Sentiment{Summary: "No recent fan discussion data available for " + teamName + "."}, nil
}
