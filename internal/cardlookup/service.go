// Package cardlookup resolves card names against the local catalog with a
// Scryfall fallback. Fresh catalog hits are served directly; misses and
// stale entries go to Scryfall and are written back to the catalog.
package cardlookup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ramonehamilton/deckforge/internal/cards"
	"github.com/ramonehamilton/deckforge/internal/cards/scryfall"
	"github.com/ramonehamilton/deckforge/internal/storage"
)

// DefaultStaleAfter is how long a catalog entry stays fresh.
const DefaultStaleAfter = 7 * 24 * time.Hour

// ScryfallClient is the subset of the Scryfall API the lookup needs.
type ScryfallClient interface {
	GetCardByName(ctx context.Context, name string) (*scryfall.Card, error)
}

// Service resolves card names. A nil Scryfall client runs the service in
// offline mode, serving catalog entries regardless of age.
type Service struct {
	store      *storage.Service
	client     ScryfallClient
	staleAfter time.Duration
}

// NewService creates a lookup service. staleAfter <= 0 uses
// DefaultStaleAfter.
func NewService(store *storage.Service, client ScryfallClient, staleAfter time.Duration) *Service {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Service{
		store:      store,
		client:     client,
		staleAfter: staleAfter,
	}
}

// GetCardByName resolves a card by exact name. A nil result with nil
// error means the card does not exist anywhere we can see.
func (s *Service) GetCardByName(ctx context.Context, name string) (*cards.Card, error) {
	var cached *cards.Card
	if s.store != nil {
		var err error
		cached, err = s.store.GetCardByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("catalog lookup for %q: %w", name, err)
		}
		if cached != nil && time.Since(cached.LastUpdated) < s.staleAfter {
			return cached, nil
		}
	}

	if s.client == nil {
		// Offline: a stale entry beats nothing.
		return cached, nil
	}

	fetched, err := s.client.GetCardByName(ctx, name)
	if err != nil {
		if scryfall.IsNotFound(err) {
			return cached, nil
		}
		if cached != nil {
			log.Printf("[CardLookup] Scryfall refresh for %q failed, serving stale entry: %v", name, err)
			return cached, nil
		}
		return nil, fmt.Errorf("scryfall lookup for %q: %w", name, err)
	}

	card := FromScryfall(fetched)
	if s.store != nil {
		if err := s.store.SaveCard(ctx, card); err != nil {
			log.Printf("[CardLookup] Failed to cache card %q: %v", name, err)
		}
	}

	return card, nil
}

// RefreshStale refetches every catalog entry older than the service's
// stale threshold and writes the updated records back. Returns how many
// cards were refreshed. Individual fetch failures are logged and
// skipped so one flaky card does not abort the pass.
func (s *Service) RefreshStale(ctx context.Context) (int, error) {
	if s.store == nil || s.client == nil {
		return 0, nil
	}

	stale, err := s.store.GetStaleCards(ctx, s.staleAfter)
	if err != nil {
		return 0, fmt.Errorf("list stale cards: %w", err)
	}

	refreshed := 0
	for _, old := range stale {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}

		fetched, err := s.client.GetCardByName(ctx, old.Name)
		if err != nil {
			if scryfall.IsNotFound(err) {
				// Renamed or removed upstream; keep the cached record.
				log.Printf("[CardLookup] Stale card %q no longer on Scryfall, keeping cached entry", old.Name)
				continue
			}
			log.Printf("[CardLookup] Refresh of %q failed: %v", old.Name, err)
			continue
		}

		if err := s.store.SaveCard(ctx, FromScryfall(fetched)); err != nil {
			log.Printf("[CardLookup] Failed to save refreshed card %q: %v", old.Name, err)
			continue
		}
		refreshed++
	}

	if len(stale) > 0 {
		log.Printf("[CardLookup] Refreshed %d of %d stale cards", refreshed, len(stale))
	}
	return refreshed, nil
}

// FromScryfall converts a Scryfall API card to the catalog model. For
// multi-faced cards the front face supplies fields the top level omits.
func FromScryfall(sc *scryfall.Card) *cards.Card {
	if sc == nil {
		return nil
	}

	card := &cards.Card{
		ScryfallID:    sc.ID,
		Name:          sc.Name,
		TypeLine:      sc.TypeLine,
		SetCode:       sc.SetCode,
		CMC:           sc.CMC,
		Colors:        sc.Colors,
		ColorIdentity: sc.ColorIdentity,
		Legalities:    sc.Legalities,
		Rarity:        sc.Rarity,
		LastUpdated:   time.Now(),
	}

	if sc.OracleID != "" {
		oracleID := sc.OracleID
		card.OracleID = &oracleID
	}
	if sc.ArenaID != nil {
		card.ArenaID = *sc.ArenaID
	}

	manaCost := sc.ManaCost
	oracleText := sc.OracleText
	power := sc.Power
	toughness := sc.Toughness

	if len(sc.CardFaces) > 0 {
		front := sc.CardFaces[0]
		if card.TypeLine == "" {
			card.TypeLine = front.TypeLine
		}
		if manaCost == "" {
			manaCost = front.ManaCost
		}
		if oracleText == "" {
			oracleText = front.OracleText
		}
		if power == "" {
			power = front.Power
		}
		if toughness == "" {
			toughness = front.Toughness
		}
		if len(card.Colors) == 0 {
			card.Colors = front.Colors
		}
	}

	if manaCost != "" {
		card.ManaCost = &manaCost
	}
	if oracleText != "" {
		card.OracleText = &oracleText
	}
	if power != "" {
		card.Power = &power
	}
	if toughness != "" {
		card.Toughness = &toughness
	}

	if sc.ReleasedAt != "" {
		if released, err := time.Parse("2006-01-02", sc.ReleasedAt); err == nil {
			card.ReleasedAt = released
		}
	}

	return card
}
