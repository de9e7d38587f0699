package deck

import (
	"sync"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// Land counts per format. Constructed decks plan 24 lands out of 60;
// commander decks plan 38 out of 100.
const (
	constructedLands = 24
	commanderLands   = 38
)

// Planner computes deck compositions from strategy weight tables. The
// table can be swapped at runtime (hot reload); reads and writes are
// synchronized.
type Planner struct {
	mu      sync.RWMutex
	weights WeightTable
}

// NewPlanner creates a planner with the given weight table, or the
// built-in defaults if nil.
func NewPlanner(weights WeightTable) *Planner {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Planner{weights: weights}
}

// SetWeights replaces the planner's weight table.
func (p *Planner) SetWeights(weights WeightTable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weights = weights
}

// Plan determines the deck composition for a strategy and format.
//
// The secondary strategy is accepted but currently does not modify the
// composition; no blending rule has been defined for it.
//
// The returned composition always sums exactly to the format's deck size:
// per-category counts are floored and the rounding remainder goes to the
// creature category, which carries the largest share in every built-in
// strategy row.
func (p *Planner) Plan(primaryStrategy, secondaryStrategy, format string) Composition {
	p.mu.RLock()
	row := p.weights.forStrategy(primaryStrategy)
	p.mu.RUnlock()

	landCount := constructedLands
	nonLandCount := cards.MinDeckSize(format) - constructedLands
	if cards.IsCommander(format) {
		landCount = commanderLands
		nonLandCount = cards.MinDeckSize(format) - commanderLands
	}

	composition := make(Composition, len(NonLandCategories)+1)
	allocated := 0
	for _, category := range NonLandCategories {
		count := int(float64(nonLandCount) * row[category])
		composition[category] = count
		allocated += count
	}

	// Remainder from flooring goes to creatures.
	composition["Creature"] += nonLandCount - allocated
	composition[CategoryLand] = landCount

	return composition
}
