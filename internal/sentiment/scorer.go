// Package sentiment scores ticket text by comparing it against a positive and
// a negative anchor sentence with a remote sentence-similarity model.
package sentiment

import "context"

// Scorer returns a sentiment score in roughly [-1, 1]: positive similarity
// minus negative similarity.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Fixed always returns the same score. Used when no API key is configured
// and in tests.
type Fixed struct {
	Value float64
	Err   error
}

func (f Fixed) Score(ctx context.Context, text string) (float64, error) {
	return f.Value, f.Err
}
