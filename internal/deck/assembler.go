package deck

import (
	"context"
	"fmt"
	"log"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// CardLookup resolves card names against the catalog. It is only consulted
// for pinned cards that are not already in the retrieval pool.
type CardLookup interface {
	GetCardByName(ctx context.Context, name string) (*cards.Card, error)
}

// SynergyScorer produces per-card synergy scores for a pool and strategy
// context. Scores may be partial; unscored cards rank as zero.
type SynergyScorer interface {
	Scores(ctx context.Context, pool []*cards.Card, strategy string, mechanics []string) (map[string]float64, error)
}

// Result is the output of deck construction.
type Result struct {
	Deck        Decklist       `json:"deck"`
	Composition Composition    `json:"composition"`
	ManaBase    Decklist       `json:"mana_base"`
	Curve       map[string]int `json:"mana_curve"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// Assembler sequences planning, selection, mana base assembly, and
// normalization into a single deck construction operation.
type Assembler struct {
	planner *Planner
	lookup  CardLookup
	scorer  SynergyScorer
}

// NewAssembler creates an assembler. The lookup and scorer may be nil:
// without a lookup, pinned cards must come from the pool; without a
// scorer, all cards rank equally in pool order.
func NewAssembler(planner *Planner, lookup CardLookup, scorer SynergyScorer) *Assembler {
	if planner == nil {
		planner = NewPlanner(nil)
	}
	return &Assembler{
		planner: planner,
		lookup:  lookup,
		scorer:  scorer,
	}
}

// ConstructDeck builds a complete decklist from a retrieved card pool.
// Pinned card names are seeded into the deck first, at one copy each.
//
// The only error path is a scorer failure; everything downstream of
// scoring is pure computation that degrades through documented defaults
// instead of failing. Callers should check Result.Warnings and the final
// deck size: when the pool and basics both run out the deck may come in
// under the format minimum.
func (a *Assembler) ConstructDeck(ctx context.Context, pool []*cards.Card, params DeckParams, format string, pinned []string) (*Result, error) {
	pool = cards.DedupeByName(pool)
	index := NewPoolIndex(pool)

	result := &Result{}

	// Seed pinned cards.
	seed := make(Decklist)
	for _, name := range pinned {
		card := index.CardByName(name)
		if card == nil && a.lookup != nil {
			fetched, err := a.lookup.GetCardByName(ctx, name)
			if err != nil {
				log.Printf("[Assembler] Lookup failed for pinned card %q: %v", name, err)
			} else if fetched != nil {
				card = fetched
				index[name] = fetched
			}
		}
		if card == nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("pinned card %q not found, skipped", name))
			continue
		}
		if !card.IsLegal(format) && !card.IsBasicLand() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("pinned card %q not legal in %s, skipped", name, format))
			continue
		}
		seed[name] = 1
	}

	// Synergy scores from the external scorer.
	scores := map[string]float64{}
	if a.scorer != nil {
		var err error
		scores, err = a.scorer.Scores(ctx, pool, params.PrimaryStrategy, params.Mechanics)
		if err != nil {
			return nil, fmt.Errorf("calculate synergy scores: %w", err)
		}
	}

	composition := a.planner.Plan(params.PrimaryStrategy, params.SecondaryStrategy, format)
	result.Composition = composition

	result.Warnings = append(result.Warnings, pinnedOverflowWarnings(seed, composition, index)...)

	groups := cards.GroupByPrimaryType(pool)
	selected := Select(seed, groups, scores, composition, format, index)

	manaBase := BuildManaBase(selected, params.Colors, format, index)
	result.ManaBase = manaBase

	merged := selected.Clone()
	for land, qty := range manaBase {
		merged[land] += qty
	}

	final := Normalize(merged, format, index)
	final = a.validateDeck(final, format)
	result.Deck = final
	result.Curve = ManaCurve(final, index)

	if total, minSize := final.Total(), cards.MinDeckSize(format); total < minSize {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("deck has %d cards, short of the %d-card minimum for %s", total, minSize, format))
	}

	return result, nil
}

// Curve exposes the mana curve calculation for externally supplied
// decklists, resolving card data through the catalog lookup.
func (a *Assembler) Curve(ctx context.Context, deck Decklist) map[string]int {
	index := make(MapIndex, len(deck))
	if a.lookup != nil {
		for _, name := range deck.SortedNames() {
			card, err := a.lookup.GetCardByName(ctx, name)
			if err != nil || card == nil {
				continue
			}
			index[name] = card
		}
	}
	return ManaCurve(deck, index)
}

// validateDeck is a hook for format rule checks beyond size and copy
// limits. It currently passes the deck through unchanged.
func (a *Assembler) validateDeck(deck Decklist, format string) Decklist {
	return deck
}

// pinnedOverflowWarnings flags categories whose pinned cards already
// exceed the planned target before selection starts.
func pinnedOverflowWarnings(seed Decklist, composition Composition, index CardIndex) []string {
	if len(seed) == 0 {
		return nil
	}

	seeded := make(map[string]int)
	for _, name := range seed.SortedNames() {
		card := index.CardByName(name)
		if card == nil {
			continue
		}
		seeded[card.PrimaryType()] += seed[name]
	}

	var warnings []string
	for _, category := range NonLandCategories {
		if seeded[category] > composition[category] {
			warnings = append(warnings, fmt.Sprintf(
				"pinned cards give %s %d entries, above the planned %d",
				category, seeded[category], composition[category]))
		}
	}
	return warnings
}
