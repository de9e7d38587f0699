package deck

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// Analysis summarizes the structure of an existing decklist: type and
// color distribution, mana curve, and cards the heuristics flag as weak.
type Analysis struct {
	TotalCards        int                `json:"total_cards"`
	LandCount         int                `json:"land_count"`
	TypeDistribution  map[string]int     `json:"type_distribution"`
	ManaCurve         map[string]int     `json:"mana_curve"`
	ColorDistribution map[string]float64 `json:"color_distribution"`
	AverageManaValue  float64            `json:"average_mana_value"`
	WeakCards         []WeakCard         `json:"weak_cards,omitempty"`
}

// WeakCard flags a deck entry the heuristics consider a replacement
// candidate.
type WeakCard struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	ManaValue float64 `json:"mana_value"`
	Reason    string  `json:"reason"`
}

// AnalyzeDeck computes the structural analysis of a decklist. The
// strategy steers the weak-card heuristics; cards missing from the index
// contribute nothing. Pure and deterministic.
func AnalyzeDeck(deck Decklist, strategy string, index CardIndex) *Analysis {
	analysis := &Analysis{
		TotalCards:        deck.Total(),
		TypeDistribution:  make(map[string]int),
		ManaCurve:         ManaCurve(deck, index),
		ColorDistribution: colorDistribution(deck, index),
	}

	totalMV := 0.0
	spellCount := 0
	for _, name := range deck.SortedNames() {
		card := index.CardByName(name)
		if card == nil {
			continue
		}
		qty := deck[name]
		analysis.TypeDistribution[card.PrimaryType()] += qty
		if card.IsLand() {
			analysis.LandCount += qty
			continue
		}
		totalMV += card.CMC * float64(qty)
		spellCount += qty
	}
	if spellCount > 0 {
		analysis.AverageManaValue = totalMV / float64(spellCount)
	}

	analysis.WeakCards = identifyWeakCards(deck, strategy, analysis.AverageManaValue, index)
	return analysis
}

// colorDistribution returns each color's share of the deck's colored
// mana symbols. Colors with no pips are omitted.
func colorDistribution(deck Decklist, index CardIndex) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for name, qty := range deck {
		card := index.CardByName(name)
		if card == nil || card.ManaCost == nil {
			continue
		}
		for color, pips := range cards.ColorPips(*card.ManaCost) {
			counts[color] += pips * qty
			total += pips * qty
		}
	}

	distribution := make(map[string]float64)
	if total == 0 {
		return distribution
	}
	for color, count := range counts {
		if count > 0 {
			distribution[color] = float64(count) / float64(total)
		}
	}
	return distribution
}

// identifyWeakCards flags spells that sit badly on the curve: cards well
// above the average cost in an aggressive deck, and expensive creatures
// whose stats lag their cost. Results are ordered by descending mana
// value, then name.
func identifyWeakCards(deck Decklist, strategy string, avgMV float64, index CardIndex) []WeakCard {
	aggressive := strings.Contains(strings.ToLower(strategy), "aggro")

	var weak []WeakCard
	flagged := make(map[string]bool)
	flag := func(card *cards.Card, qty int, reason string) {
		if flagged[card.Name] {
			return
		}
		flagged[card.Name] = true
		weak = append(weak, WeakCard{
			Name:      card.Name,
			Quantity:  qty,
			ManaValue: card.CMC,
			Reason:    reason,
		})
	}

	for _, name := range deck.SortedNames() {
		card := index.CardByName(name)
		if card == nil || card.IsLand() {
			continue
		}
		qty := deck[name]

		if aggressive && card.CMC > avgMV+2 {
			flag(card, qty, fmt.Sprintf("costs %.0f, well above the deck average of %.1f for an aggressive strategy", card.CMC, avgMV))
		}
		if card.CMC >= 5 && card.PrimaryType() == "Creature" && statTotal(card) < card.CMC*2 {
			flag(card, qty, fmt.Sprintf("stats total %.0f for a cost of %.0f", statTotal(card), card.CMC))
		}
	}

	// Most expensive first; names break ties so output is stable.
	sort.SliceStable(weak, func(i, j int) bool {
		if weak[i].ManaValue != weak[j].ManaValue {
			return weak[i].ManaValue > weak[j].ManaValue
		}
		return weak[i].Name < weak[j].Name
	})
	return weak
}

// statTotal sums a creature's power and toughness, treating unparsable
// values like "*" as zero.
func statTotal(card *cards.Card) float64 {
	total := 0.0
	for _, stat := range []*string{card.Power, card.Toughness} {
		if stat == nil {
			continue
		}
		if v, err := strconv.ParseFloat(*stat, 64); err == nil {
			total += v
		}
	}
	return total
}
