package deck

import (
	"sort"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// Land count buckets keyed off average mana value. Boundary values land in
// the higher bucket: an average of exactly 4.0 plans 26 lands.
const (
	landsHighCurve   = 26 // avg mana value >= 4.0
	landsMediumCurve = 24 // avg mana value >= 3.0
	landsLowCurve    = 22
)

// BuildManaBase computes the lands to add for a non-land deck. The result
// always sums exactly to the chosen land count: floored per-color
// allocations are topped up one land at a time in descending share order
// (ties in canonical WUBRG order).
//
// Color shares come from counting colored pips across the deck weighted by
// quantity. With no pips the declared color set splits evenly; with no
// colors either, everything falls back to the colorless basic. Deck
// entries missing from the index contribute nothing.
func BuildManaBase(nonLandDeck Decklist, colors []string, format string, index CardIndex) Decklist {
	requirements := colorRequirements(nonLandDeck, index)
	landCount := totalLandCount(nonLandDeck, format, index)
	shares := colorShares(requirements, cards.NormalizeColors(colors))

	manaBase := make(Decklist)
	if len(shares) == 0 {
		if landCount > 0 {
			manaBase[cards.ColorlessBasicLand] = landCount
		}
		return manaBase
	}

	// Floor allocation first.
	type colorShare struct {
		color string
		share float64
	}
	ordered := make([]colorShare, 0, len(shares))
	for _, color := range cards.ColorOrder {
		if share, ok := shares[color]; ok {
			ordered = append(ordered, colorShare{color, share})
		}
	}

	remaining := landCount
	for _, cs := range ordered {
		count := int(float64(landCount) * cs.share)
		if count > 0 {
			manaBase[cards.BasicLandForColor(cs.color)] = count
		}
		remaining -= count
	}

	// Distribute the rounding remainder in descending share order. The
	// sort is stable over the WUBRG pre-ordering, so ties are
	// deterministic.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].share > ordered[j].share
	})
	for i := 0; remaining > 0; i = (i + 1) % len(ordered) {
		land := cards.BasicLandForColor(ordered[i].color)
		manaBase[land]++
		remaining--
	}

	return manaBase
}

// colorRequirements accumulates colored pip counts weighted by card
// quantity, skipping lands and unknown cards.
func colorRequirements(deck Decklist, index CardIndex) map[string]int {
	requirements := make(map[string]int, len(cards.ColorOrder))
	for _, name := range deck.SortedNames() {
		card := index.CardByName(name)
		if card == nil || card.IsLand() {
			continue
		}
		manaCost := ""
		if card.ManaCost != nil {
			manaCost = *card.ManaCost
		}
		for color, pips := range cards.ColorPips(manaCost) {
			requirements[color] += pips * deck[name]
		}
	}
	return requirements
}

// totalLandCount picks the land count from format and average mana value.
func totalLandCount(deck Decklist, format string, index CardIndex) int {
	if cards.IsCommander(format) {
		return commanderLands
	}

	totalManaValue := 0.0
	totalCards := 0
	for _, name := range deck.SortedNames() {
		card := index.CardByName(name)
		if card == nil || card.IsLand() {
			continue
		}
		totalManaValue += card.CMC * float64(deck[name])
		totalCards += deck[name]
	}

	avg := 0.0
	if totalCards > 0 {
		avg = totalManaValue / float64(totalCards)
	}

	switch {
	case avg >= 4.0:
		return landsHighCurve
	case avg >= 3.0:
		return landsMediumCurve
	default:
		return landsLowCurve
	}
}

// colorShares converts pip requirements into per-color fractions. With
// zero total pips the declared colors split evenly; an empty color set
// yields an empty map.
func colorShares(requirements map[string]int, declaredColors []string) map[string]float64 {
	totalPips := 0
	for _, count := range requirements {
		totalPips += count
	}

	shares := make(map[string]float64)
	if totalPips == 0 {
		if len(declaredColors) == 0 {
			return shares
		}
		even := 1.0 / float64(len(declaredColors))
		for _, color := range declaredColors {
			shares[color] = even
		}
		return shares
	}

	for color, count := range requirements {
		if count > 0 {
			shares[color] = float64(count) / float64(totalPips)
		}
	}
	return shares
}
