package deck

import "strconv"

// highCurveBucket collects all mana values of seven and above.
const highCurveBucket = "7+"

// ManaCurve buckets a decklist by mana value, excluding lands. Values of
// seven or more share the "7+" bucket. Cards missing from the index are
// skipped. The function is pure and works on any decklist, built or
// imported.
func ManaCurve(deck Decklist, index CardIndex) map[string]int {
	curve := make(map[string]int)

	for name, qty := range deck {
		card := index.CardByName(name)
		if card == nil || card.IsLand() {
			continue
		}

		manaValue := int(card.CMC)
		if manaValue >= 7 {
			curve[highCurveBucket] += qty
		} else {
			curve[strconv.Itoa(manaValue)] += qty
		}
	}

	return curve
}
