// Package cards defines the card data model shared by the catalog and the
// deck construction engine.
package cards

import (
	"strings"
	"time"
)

// Card represents comprehensive metadata about a Magic card.
type Card struct {
	// Scryfall identifiers
	ScryfallID string  `json:"id"`
	OracleID   *string `json:"oracle_id,omitempty"`
	ArenaID    int     `json:"arena_id,omitempty"`

	// Basic card information
	Name     string `json:"name"`
	TypeLine string `json:"type_line"`
	SetCode  string `json:"set"`

	// Mana information
	ManaCost *string `json:"mana_cost"`
	CMC      float64 `json:"cmc"` // Converted mana cost / mana value

	// Colors and identity
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"color_identity"`

	// Power/Toughness (for creatures)
	Power     *string `json:"power,omitempty"`
	Toughness *string `json:"toughness,omitempty"`

	// Rules text
	OracleText *string `json:"oracle_text,omitempty"`

	// Per-format legality ("legal", "not_legal", "restricted", "banned")
	Legalities map[string]string `json:"legalities,omitempty"`

	// Metadata
	Rarity      string    `json:"rarity,omitempty"`
	ReleasedAt  time.Time `json:"released_at,omitempty"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// PrimaryTypes lists card types in classification precedence order.
// A card with multiple types is classified as the first matching entry,
// so an artifact creature always counts as a creature.
var PrimaryTypes = []string{
	"Creature",
	"Planeswalker",
	"Instant",
	"Sorcery",
	"Artifact",
	"Enchantment",
	"Land",
}

// TypeOther is the classification for cards matching none of PrimaryTypes.
const TypeOther = "Other"

// PrimaryType returns the primary type of a card based on its type line.
func (c *Card) PrimaryType() string {
	typeLine := strings.ToLower(c.TypeLine)
	for _, t := range PrimaryTypes {
		if strings.Contains(typeLine, strings.ToLower(t)) {
			return t
		}
	}
	return TypeOther
}

// IsLand reports whether the card has the Land type.
func (c *Card) IsLand() bool {
	return strings.Contains(strings.ToLower(c.TypeLine), "land")
}

// IsBasicLand reports whether the card is a basic land.
func (c *Card) IsBasicLand() bool {
	typeLine := strings.ToLower(c.TypeLine)
	return strings.Contains(typeLine, "basic") && strings.Contains(typeLine, "land")
}

// IsLegal reports whether the card is legal in the given format.
// Cards with no legality data are treated as legal; the engine prefers
// producing a deck over rejecting cards with incomplete catalog records.
func (c *Card) IsLegal(format string) bool {
	if len(c.Legalities) == 0 {
		return true
	}
	status, ok := c.Legalities[strings.ToLower(format)]
	if !ok {
		return true
	}
	return status != "not_legal" && status != "banned"
}

// ColorOrder is the canonical WUBRG ordering of mana colors.
var ColorOrder = []string{"W", "U", "B", "R", "G"}

// ColorPips counts occurrences of each colored mana symbol in a mana cost
// string (e.g. "{1}{W}{W}" yields W:2).
func ColorPips(manaCost string) map[string]int {
	pips := make(map[string]int, len(ColorOrder))
	for _, color := range ColorOrder {
		pips[color] = strings.Count(manaCost, color)
	}
	return pips
}

// DedupeByName removes duplicate cards from a pool, keeping the first
// occurrence of each name. Retrieval may return the same card from
// multiple queries; order of first appearance is preserved.
func DedupeByName(pool []*Card) []*Card {
	seen := make(map[string]bool, len(pool))
	result := make([]*Card, 0, len(pool))
	for _, card := range pool {
		if card == nil || seen[card.Name] {
			continue
		}
		seen[card.Name] = true
		result = append(result, card)
	}
	return result
}

// GroupByPrimaryType groups a card pool by primary type, preserving pool
// order within each group.
func GroupByPrimaryType(pool []*Card) map[string][]*Card {
	groups := make(map[string][]*Card)
	for _, card := range pool {
		if card == nil {
			continue
		}
		t := card.PrimaryType()
		groups[t] = append(groups[t], card)
	}
	return groups
}
