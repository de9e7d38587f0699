// Package deck implements the deck construction engine: composition
// planning, synergy-ordered card selection, mana base assembly, and
// quantity normalization. Everything here is pure computation over
// in-memory values; card data and synergy scores are supplied by the
// caller.
package deck

import (
	"sort"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// Decklist maps card names to quantities.
type Decklist map[string]int

// Total returns the total number of cards in the decklist.
func (d Decklist) Total() int {
	total := 0
	for _, qty := range d {
		total += qty
	}
	return total
}

// Clone returns a copy of the decklist.
func (d Decklist) Clone() Decklist {
	clone := make(Decklist, len(d))
	for name, qty := range d {
		clone[name] = qty
	}
	return clone
}

// SortedNames returns the card names in lexicographic order. Map iteration
// order is not deterministic in Go; every pass over a decklist that can
// affect output goes through this.
func (d Decklist) SortedNames() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeckParams holds the extracted parameters guiding deck construction.
type DeckParams struct {
	PrimaryStrategy   string   `json:"primary_strategy"`
	SecondaryStrategy string   `json:"secondary_strategy,omitempty"`
	Colors            []string `json:"colors"`
	Mechanics         []string `json:"mechanics,omitempty"`
	WinConditions     []string `json:"win_conditions,omitempty"`
}

// Composition maps card-type categories to target counts.
type Composition map[string]int

// Total returns the sum of all category targets.
func (c Composition) Total() int {
	total := 0
	for _, count := range c {
		total += count
	}
	return total
}

// CategoryLand is the composition key for lands.
const CategoryLand = "Land"

// NonLandCategories lists the spell categories the selector fills, in the
// fixed order they are processed.
var NonLandCategories = []string{
	"Creature",
	"Instant",
	"Sorcery",
	"Artifact",
	"Enchantment",
	"Planeswalker",
}

// CardIndex resolves card names to catalog records. Unknown names return
// nil; the engine treats missing data as contributing nothing rather than
// as an error.
type CardIndex interface {
	CardByName(name string) *cards.Card
}

// MapIndex is a CardIndex backed by an in-memory map.
type MapIndex map[string]*cards.Card

// CardByName returns the card for a name, or nil if absent.
func (m MapIndex) CardByName(name string) *cards.Card {
	return m[name]
}

// NewPoolIndex builds a MapIndex from a card pool. Later duplicates do not
// replace earlier entries, matching pool deduplication semantics.
func NewPoolIndex(pool []*cards.Card) MapIndex {
	index := make(MapIndex, len(pool))
	for _, card := range pool {
		if card == nil {
			continue
		}
		if _, ok := index[card.Name]; !ok {
			index[card.Name] = card
		}
	}
	return index
}
