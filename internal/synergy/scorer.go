// Package synergy computes per-card synergy scores for deck construction.
// Scores are an opaque ranking signal in the 0..1 range; the deck engine
// only ever sorts on them and defaults missing entries to zero.
package synergy

import (
	"context"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// Scorer produces synergy scores for a card pool given a strategy context.
// Implementations may return partial maps; unscored cards rank as zero
// downstream.
type Scorer interface {
	Scores(ctx context.Context, pool []*cards.Card, strategy string, mechanics []string) (map[string]float64, error)
}

// StaticScorer returns a fixed score map. Useful for tests and for running
// the engine without an external scoring backend.
type StaticScorer map[string]float64

// Scores returns the static scores filtered to the pool.
func (s StaticScorer) Scores(ctx context.Context, pool []*cards.Card, strategy string, mechanics []string) (map[string]float64, error) {
	return filterForPool(s, pool), nil
}

// filterForPool restricts a score map to names present in the pool.
func filterForPool(scores map[string]float64, pool []*cards.Card) map[string]float64 {
	names := make(map[string]bool, len(pool))
	for _, card := range pool {
		if card != nil {
			names[card.Name] = true
		}
	}

	filtered := make(map[string]float64, len(names))
	for name, score := range scores {
		if names[name] {
			filtered[name] = score
		}
	}
	return filtered
}

// clamp01 bounds a score to the 0..1 range.
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
