package deck

import "github.com/ramonehamilton/deckforge/internal/cards"

// Normalize grows a deck to the format's minimum size. It first tops up
// existing non-basic entries to the copy limit in sorted name order, then
// cycles through the basic lands already present (seeding all five if none
// are) one card at a time until the minimum is reached exactly. It never
// removes cards and is idempotent once the minimum is met.
//
// This is a fallback for upstream shortfall, not a replacement for
// composition planning.
func Normalize(deck Decklist, format string, index CardIndex) Decklist {
	result := deck.Clone()
	if result == nil {
		result = make(Decklist)
	}

	minSize := cards.MinDeckSize(format)
	maxCopies := cards.MaxCopies(format)

	total := result.Total()
	if total >= minSize {
		return result
	}

	// Top up existing non-basic entries to the copy limit.
	for _, name := range result.SortedNames() {
		if total >= minSize {
			break
		}
		if isBasic(name, index) {
			continue
		}
		for result[name] < maxCopies && total < minSize {
			result[name]++
			total++
		}
	}

	if total >= minSize {
		return result
	}

	// Still short: pad with basic lands. Rotate through the basics already
	// in the deck, or seed the full cycle if there are none.
	basics := make([]string, 0, len(cards.BasicLandNames))
	for _, name := range cards.BasicLandNames {
		if _, ok := result[name]; ok {
			basics = append(basics, name)
		}
	}
	if len(basics) == 0 {
		basics = []string{"Plains", "Island", "Swamp", "Mountain", "Forest"}
		for _, name := range basics {
			result[name] = 0
		}
	}

	for i := 0; total < minSize; i = (i + 1) % len(basics) {
		result[basics[i]]++
		total++
	}

	// Drop any zero-quantity placeholders the rotation never reached.
	for name, qty := range result {
		if qty == 0 {
			delete(result, name)
		}
	}

	return result
}

// isBasic resolves basic-land status via the index when possible, falling
// back to the well-known basic land names.
func isBasic(name string, index CardIndex) bool {
	if card := index.CardByName(name); card != nil {
		return card.IsBasicLand()
	}
	return cards.IsBasicLandName(name)
}
