package deck

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// staticScorer returns a fixed score map regardless of pool or strategy.
type staticScorer map[string]float64

func (s staticScorer) Scores(ctx context.Context, pool []*cards.Card, strategy string, mechanics []string) (map[string]float64, error) {
	return s, nil
}

// failingScorer always errors.
type failingScorer struct{}

func (failingScorer) Scores(ctx context.Context, pool []*cards.Card, strategy string, mechanics []string) (map[string]float64, error) {
	return nil, errors.New("scorer unavailable")
}

func TestConstructDeckEmptyPool(t *testing.T) {
	assembler := NewAssembler(nil, nil, staticScorer{})

	params := DeckParams{
		PrimaryStrategy: "aggro",
		Colors:          []string{"R"},
	}

	result, err := assembler.ConstructDeck(context.Background(), nil, params, "standard", nil)
	if err != nil {
		t.Fatalf("ConstructDeck() error = %v", err)
	}

	// Empty pool: the selector adds nothing, the mana base is 22 Mountains
	// (empty deck is low curve), and the normalizer pads to the minimum.
	want := Decklist{"Mountain": 60}
	if !reflect.DeepEqual(result.Deck, want) {
		t.Errorf("Deck = %v, want %v", result.Deck, want)
	}
	if result.Composition["Creature"] != 25 {
		t.Errorf("Composition[Creature] = %d, want 25", result.Composition["Creature"])
	}
	if result.ManaBase["Mountain"] != 22 {
		t.Errorf("ManaBase[Mountain] = %d, want 22", result.ManaBase["Mountain"])
	}
	if len(result.Curve) != 0 {
		t.Errorf("Curve = %v, want empty (all lands)", result.Curve)
	}
	for _, warning := range result.Warnings {
		t.Errorf("unexpected warning: %s", warning)
	}
}

func TestConstructDeckDeterministic(t *testing.T) {
	pool := []*cards.Card{
		costedCard("Raid Leader", "Creature — Goblin", "{1}{R}", 2),
		costedCard("Skirmisher", "Creature — Goblin", "{R}", 1),
		costedCard("Bolt", "Instant", "{R}", 1),
		costedCard("Pyro Blast", "Instant", "{1}{R}", 2),
		costedCard("Raze", "Sorcery", "{2}{R}", 3),
	}
	scores := staticScorer{
		"Raid Leader": 0.9,
		"Skirmisher":  0.6,
		"Bolt":        0.85,
		"Pyro Blast":  0.3,
		"Raze":        0.5,
	}

	assembler := NewAssembler(nil, nil, scores)
	params := DeckParams{PrimaryStrategy: "aggro", Colors: []string{"R"}}

	first, err := assembler.ConstructDeck(context.Background(), pool, params, "standard", nil)
	if err != nil {
		t.Fatalf("ConstructDeck() error = %v", err)
	}
	second, err := assembler.ConstructDeck(context.Background(), pool, params, "standard", nil)
	if err != nil {
		t.Fatalf("ConstructDeck() error = %v", err)
	}

	if !reflect.DeepEqual(first.Deck, second.Deck) {
		t.Errorf("construction not deterministic:\nfirst  %v\nsecond %v", first.Deck, second.Deck)
	}
	if !reflect.DeepEqual(first.Curve, second.Curve) {
		t.Errorf("curve not deterministic: %v vs %v", first.Curve, second.Curve)
	}
}

func TestConstructDeckCopyLimits(t *testing.T) {
	pool := make([]*cards.Card, 0, 12)
	scores := staticScorer{}
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		pool = append(pool, costedCard("Spell "+name, "Instant", "{U}", 1))
		scores["Spell "+name] = 0.9
	}

	assembler := NewAssembler(nil, nil, scores)
	params := DeckParams{PrimaryStrategy: "control", Colors: []string{"U", "B"}}

	result, err := assembler.ConstructDeck(context.Background(), pool, params, "commander", nil)
	if err != nil {
		t.Fatalf("ConstructDeck() error = %v", err)
	}

	// Commander caps every non-basic at a single copy even above the
	// bonus-copy threshold.
	for name, qty := range result.Deck {
		if cards.IsBasicLandName(name) {
			continue
		}
		if qty > 1 {
			t.Errorf("%q has %d copies, want at most 1 in commander", name, qty)
		}
	}
}

func TestConstructDeckPinnedCards(t *testing.T) {
	pool := []*cards.Card{
		costedCard("Filler", "Creature", "{G}", 1),
	}
	pinned := costedCard("Pinned Bear", "Creature — Bear", "{1}{G}", 2)

	index := MapIndex{"Pinned Bear": pinned}
	assembler := NewAssembler(nil, lookupFunc(func(ctx context.Context, name string) (*cards.Card, error) {
		return index[name], nil
	}), staticScorer{})

	params := DeckParams{PrimaryStrategy: "midrange", Colors: []string{"G"}}

	result, err := assembler.ConstructDeck(context.Background(), pool, params, "standard", []string{"Pinned Bear", "No Such Card"})
	if err != nil {
		t.Fatalf("ConstructDeck() error = %v", err)
	}

	if result.Deck["Pinned Bear"] < 1 {
		t.Errorf("pinned card missing from deck: %v", result.Deck)
	}
	foundWarning := false
	for _, warning := range result.Warnings {
		if warning == `pinned card "No Such Card" not found, skipped` {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Errorf("missing not-found warning, got %v", result.Warnings)
	}
}

func TestConstructDeckScorerFailure(t *testing.T) {
	assembler := NewAssembler(nil, nil, failingScorer{})

	_, err := assembler.ConstructDeck(context.Background(), nil, DeckParams{PrimaryStrategy: "aggro"}, "standard", nil)
	if err == nil {
		t.Fatal("ConstructDeck() error = nil, want scorer failure")
	}
}

func TestConstructDeckMinimumSize(t *testing.T) {
	pool := []*cards.Card{
		costedCard("Bear", "Creature — Bear", "{1}{G}", 2),
	}

	assembler := NewAssembler(nil, nil, staticScorer{})
	params := DeckParams{PrimaryStrategy: "midrange", Colors: []string{"G"}}

	result, err := assembler.ConstructDeck(context.Background(), pool, params, "standard", nil)
	if err != nil {
		t.Fatalf("ConstructDeck() error = %v", err)
	}

	if total := result.Deck.Total(); total < 60 {
		t.Errorf("deck total = %d, want >= 60 (basics can always close the gap)", total)
	}
	if qty := result.Deck["Bear"]; qty < 1 || qty > 4 {
		t.Errorf("Bear = %d copies, want between 1 and 4", result.Deck["Bear"])
	}
}

// lookupFunc adapts a function to the CardLookup interface.
type lookupFunc func(ctx context.Context, name string) (*cards.Card, error)

func (f lookupFunc) GetCardByName(ctx context.Context, name string) (*cards.Card, error) {
	return f(ctx, name)
}
