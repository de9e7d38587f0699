package scryfall

import (
	"errors"
	"fmt"
)

// Card is a Magic card as returned by the Scryfall API. Only the fields
// the catalog consumes are mapped.
type Card struct {
	ID       string `json:"id"`
	OracleID string `json:"oracle_id"`
	ArenaID  *int   `json:"arena_id,omitempty"`

	Name          string   `json:"name"`
	ReleasedAt    string   `json:"released_at"`
	Layout        string   `json:"layout"`
	ManaCost      string   `json:"mana_cost,omitempty"`
	CMC           float64  `json:"cmc"`
	TypeLine      string   `json:"type_line"`
	OracleText    string   `json:"oracle_text,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	ColorIdentity []string `json:"color_identity"`
	Keywords      []string `json:"keywords,omitempty"`

	Power     string `json:"power,omitempty"`
	Toughness string `json:"toughness,omitempty"`

	SetCode         string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`

	// CardFaces is set for split, modal, and transforming cards.
	CardFaces []CardFace `json:"card_faces,omitempty"`

	// Legalities maps format names to "legal", "not_legal", "restricted"
	// or "banned".
	Legalities map[string]string `json:"legalities"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string   `json:"name"`
	ManaCost   string   `json:"mana_cost,omitempty"`
	TypeLine   string   `json:"type_line"`
	OracleText string   `json:"oracle_text,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Power      string   `json:"power,omitempty"`
	Toughness  string   `json:"toughness,omitempty"`
}

// SearchResult is a page of card search results.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// APIError is an error response from the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError is a 404 from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether the error is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
