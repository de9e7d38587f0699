package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// releasedAtLayout is the date format used for the released_at column.
const releasedAtLayout = "2006-01-02"

// SaveCard saves or updates a card in the catalog, keyed by name.
func (s *Service) SaveCard(ctx context.Context, card *cards.Card) error {
	if card == nil || card.Name == "" {
		return fmt.Errorf("card with a name required")
	}

	colorsJSON, err := json.Marshal(orEmpty(card.Colors))
	if err != nil {
		return fmt.Errorf("failed to marshal colors: %w", err)
	}
	identityJSON, err := json.Marshal(orEmpty(card.ColorIdentity))
	if err != nil {
		return fmt.Errorf("failed to marshal color identity: %w", err)
	}
	legalities := card.Legalities
	if legalities == nil {
		legalities = map[string]string{}
	}
	legalitiesJSON, err := json.Marshal(legalities)
	if err != nil {
		return fmt.Errorf("failed to marshal legalities: %w", err)
	}

	var arenaID *int
	if card.ArenaID != 0 {
		arenaID = &card.ArenaID
	}
	var releasedAt *string
	if !card.ReleasedAt.IsZero() {
		formatted := card.ReleasedAt.Format(releasedAtLayout)
		releasedAt = &formatted
	}

	query := `
		INSERT INTO cards (
			name, scryfall_id, oracle_id, arena_id, mana_cost, cmc, type_line,
			oracle_text, colors, color_identity, power, toughness, set_code,
			rarity, released_at, legalities, last_updated
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP
		)
		ON CONFLICT(name) DO UPDATE SET
			scryfall_id = excluded.scryfall_id,
			oracle_id = excluded.oracle_id,
			arena_id = excluded.arena_id,
			mana_cost = excluded.mana_cost,
			cmc = excluded.cmc,
			type_line = excluded.type_line,
			oracle_text = excluded.oracle_text,
			colors = excluded.colors,
			color_identity = excluded.color_identity,
			power = excluded.power,
			toughness = excluded.toughness,
			set_code = excluded.set_code,
			rarity = excluded.rarity,
			released_at = excluded.released_at,
			legalities = excluded.legalities,
			last_updated = CURRENT_TIMESTAMP
	`

	_, err = s.db.Conn().ExecContext(ctx, query,
		card.Name, card.ScryfallID, card.OracleID, arenaID, card.ManaCost,
		card.CMC, card.TypeLine, card.OracleText, string(colorsJSON),
		string(identityJSON), card.Power, card.Toughness, card.SetCode,
		card.Rarity, releasedAt, string(legalitiesJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	return nil
}

// GetCardByName retrieves a card by its exact name.
// Returns nil without error when the card is not in the catalog.
func (s *Service) GetCardByName(ctx context.Context, name string) (*cards.Card, error) {
	query := selectCardColumns + ` WHERE name = ?`

	row := s.db.Conn().QueryRowContext(ctx, query, name)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}

	return card, nil
}

// SearchCards retrieves cards whose name contains the query string,
// ordered by name. limit <= 0 means no limit.
func (s *Service) SearchCards(ctx context.Context, nameQuery string, limit int) ([]*cards.Card, error) {
	query := selectCardColumns + ` WHERE name LIKE ? ORDER BY name`
	args := []interface{}{"%" + nameQuery + "%"}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*cards.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		results = append(results, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return results, nil
}

// CountCards returns the number of cards in the catalog.
func (s *Service) CountCards(ctx context.Context) (int, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// GetStaleCards retrieves cards that haven't been refreshed in the
// specified duration, oldest first.
func (s *Service) GetStaleCards(ctx context.Context, olderThan time.Duration) ([]*cards.Card, error) {
	seconds := int64(olderThan.Seconds())

	query := selectCardColumns + `
		WHERE unixepoch(last_updated) <= unixepoch('now', '-' || ? || ' seconds')
		ORDER BY last_updated ASC
	`

	rows, err := s.db.Conn().QueryContext(ctx, query, seconds)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*cards.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		results = append(results, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return results, nil
}

const selectCardColumns = `
	SELECT name, scryfall_id, oracle_id, arena_id, mana_cost, cmc, type_line,
	       oracle_text, colors, color_identity, power, toughness, set_code,
	       rarity, released_at, legalities, last_updated
	FROM cards`

// rowScanner abstracts sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCard reads one cards row into the shared card model.
func scanCard(row rowScanner) (*cards.Card, error) {
	var (
		card           cards.Card
		arenaID        *int
		colorsJSON     string
		identityJSON   string
		legalitiesJSON string
		releasedAt     *string
	)

	err := row.Scan(
		&card.Name, &card.ScryfallID, &card.OracleID, &arenaID, &card.ManaCost,
		&card.CMC, &card.TypeLine, &card.OracleText, &colorsJSON,
		&identityJSON, &card.Power, &card.Toughness, &card.SetCode,
		&card.Rarity, &releasedAt, &legalitiesJSON, &card.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	if arenaID != nil {
		card.ArenaID = *arenaID
	}
	if err := json.Unmarshal([]byte(colorsJSON), &card.Colors); err != nil {
		return nil, fmt.Errorf("failed to parse colors: %w", err)
	}
	if err := json.Unmarshal([]byte(identityJSON), &card.ColorIdentity); err != nil {
		return nil, fmt.Errorf("failed to parse color identity: %w", err)
	}
	if err := json.Unmarshal([]byte(legalitiesJSON), &card.Legalities); err != nil {
		return nil, fmt.Errorf("failed to parse legalities: %w", err)
	}
	if releasedAt != nil {
		if parsed, err := time.Parse(releasedAtLayout, *releasedAt); err == nil {
			card.ReleasedAt = parsed
		}
	}

	return &card, nil
}

// orEmpty keeps JSON columns as [] instead of null for nil slices.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
