package deck

import (
	"sort"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// bonusCopyThreshold is the synergy score above which a card is
// immediately filled toward the format's copy limit.
const bonusCopyThreshold = 0.8

// Select fills each non-land composition category from the grouped
// candidate pool, highest synergy first. It returns a new decklist
// containing the existing entries plus the selections; the inputs are not
// modified. Lands are never selected here; the mana base is built
// separately.
//
// Cards absent from the score map rank as 0. Ties keep pool order, so
// identical inputs always produce identical output. Categories whose
// candidates run out are left under-filled; the normalizer deals with any
// shortfall later.
func Select(existing Decklist, groups map[string][]*cards.Card, scores map[string]float64, composition Composition, format string, index CardIndex) Decklist {
	deck := existing.Clone()
	if deck == nil {
		deck = make(Decklist)
	}

	maxCopies := cards.MaxCopies(format)

	// Seed per-category counts from cards already in the deck (pinned
	// cards). Pinned cards may push a category past its target; the
	// selection loop then simply adds nothing for that category.
	added := make(map[string]int, len(composition))
	for name, qty := range deck {
		card := index.CardByName(name)
		if card == nil {
			continue
		}
		added[card.PrimaryType()] += qty
	}

	for _, category := range NonLandCategories {
		target := composition[category]
		candidates := groups[category]
		if len(candidates) == 0 || added[category] >= target {
			continue
		}

		// Stable sort keeps pool order between equal scores.
		ranked := make([]*cards.Card, len(candidates))
		copy(ranked, candidates)
		sort.SliceStable(ranked, func(i, j int) bool {
			return scores[ranked[i].Name] > scores[ranked[j].Name]
		})

		for _, card := range ranked {
			if added[category] >= target {
				break
			}
			if _, inDeck := deck[card.Name]; inDeck {
				continue
			}

			deck[card.Name] = 1
			added[category]++

			// High-synergy staples are filled toward the copy limit in
			// the same pass, bounded by remaining category headroom.
			if scores[card.Name] > bonusCopyThreshold {
				extra := maxCopies - 1
				if headroom := target - added[category]; extra > headroom {
					extra = headroom
				}
				if extra > 0 {
					deck[card.Name] += extra
					added[category] += extra
				}
			}
		}
	}

	return deck
}
