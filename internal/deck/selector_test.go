package deck

import (
	"fmt"
	"testing"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

func creature(name string) *cards.Card {
	return &cards.Card{Name: name, TypeLine: "Creature — Test"}
}

func instant(name string) *cards.Card {
	return &cards.Card{Name: name, TypeLine: "Instant"}
}

func TestSelectFillsToTarget(t *testing.T) {
	pool := []*cards.Card{
		creature("Alpha"),
		creature("Beta"),
		creature("Gamma"),
		creature("Delta"),
	}
	scores := map[string]float64{
		"Alpha": 0.2,
		"Beta":  0.7,
		"Gamma": 0.5,
		"Delta": 0.1,
	}
	comp := Composition{"Creature": 3}

	got := Select(nil, cards.GroupByPrimaryType(pool), scores, comp, "standard", NewPoolIndex(pool))

	want := Decklist{"Beta": 1, "Gamma": 1, "Alpha": 1}
	if len(got) != len(want) {
		t.Fatalf("Select() = %v, want %v", got, want)
	}
	for name, qty := range want {
		if got[name] != qty {
			t.Errorf("Select()[%q] = %d, want %d", name, got[name], qty)
		}
	}
	if _, ok := got["Delta"]; ok {
		t.Error("Delta selected despite lowest score and full category")
	}
}

func TestSelectStableTieOrder(t *testing.T) {
	pool := []*cards.Card{
		creature("First"),
		creature("Second"),
		creature("Third"),
	}
	comp := Composition{"Creature": 2}

	// No scores: every card ranks 0 and pool order decides.
	got := Select(nil, cards.GroupByPrimaryType(pool), nil, comp, "standard", NewPoolIndex(pool))

	if got["First"] != 1 || got["Second"] != 1 {
		t.Errorf("Select() = %v, want First and Second in pool order", got)
	}
	if _, ok := got["Third"]; ok {
		t.Error("Third selected past the category target")
	}
}

func TestSelectBonusCopies(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		target   int
		score    float64
		wantQty  int
		wantKeys int
	}{
		{
			name:     "High synergy fills toward copy limit in standard",
			format:   "standard",
			target:   4,
			score:    0.9,
			wantQty:  4,
			wantKeys: 1,
		},
		{
			name:     "Bonus copies bounded by category headroom",
			format:   "standard",
			target:   2,
			score:    0.9,
			wantQty:  2,
			wantKeys: 1,
		},
		{
			name:     "Commander copy limit suppresses bonus copies",
			format:   "commander",
			target:   4,
			score:    0.9,
			wantQty:  1,
			wantKeys: 4,
		},
		{
			name:     "Score at threshold gets no bonus",
			format:   "standard",
			target:   4,
			score:    0.8,
			wantQty:  1,
			wantKeys: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := make([]*cards.Card, 0, 10)
			scores := make(map[string]float64, 10)
			for i := 0; i < 10; i++ {
				name := fmt.Sprintf("Spell %d", i)
				pool = append(pool, instant(name))
				scores[name] = tt.score
			}
			comp := Composition{"Instant": tt.target}

			got := Select(nil, cards.GroupByPrimaryType(pool), scores, comp, tt.format, NewPoolIndex(pool))

			if got["Spell 0"] != tt.wantQty {
				t.Errorf("first card quantity = %d, want %d", got["Spell 0"], tt.wantQty)
			}
			if len(got) != tt.wantKeys {
				t.Errorf("distinct cards = %d, want %d", len(got), tt.wantKeys)
			}
			total := got.Total()
			if total != tt.target {
				t.Errorf("total selected = %d, want %d", total, tt.target)
			}
		})
	}
}

func TestSelectSkipsCardsAlreadyInDeck(t *testing.T) {
	pool := []*cards.Card{
		creature("Pinned"),
		creature("Fresh"),
	}
	existing := Decklist{"Pinned": 1}
	comp := Composition{"Creature": 2}

	got := Select(existing, cards.GroupByPrimaryType(pool), nil, comp, "standard", NewPoolIndex(pool))

	if got["Pinned"] != 1 {
		t.Errorf("Pinned quantity = %d, want 1 (trusted as given)", got["Pinned"])
	}
	if got["Fresh"] != 1 {
		t.Errorf("Fresh quantity = %d, want 1", got["Fresh"])
	}
}

func TestSelectPinnedCardsAboveTarget(t *testing.T) {
	pool := []*cards.Card{creature("Candidate")}
	index := NewPoolIndex(pool)
	index["Pinned A"] = creature("Pinned A")
	index["Pinned B"] = creature("Pinned B")

	// Pinned creatures already exceed the target of 1; the selector must
	// add nothing and must not remove the pins.
	existing := Decklist{"Pinned A": 1, "Pinned B": 1}
	comp := Composition{"Creature": 1}

	got := Select(existing, cards.GroupByPrimaryType(pool), nil, comp, "standard", index)

	if got.Total() != 2 {
		t.Errorf("total = %d, want 2 (pins only)", got.Total())
	}
	if _, ok := got["Candidate"]; ok {
		t.Error("Candidate selected despite negative headroom")
	}
}

func TestSelectIgnoresLands(t *testing.T) {
	pool := []*cards.Card{
		{Name: "Command Tower", TypeLine: "Land"},
		creature("Bear"),
	}
	comp := Composition{"Creature": 1, "Land": 24}

	got := Select(nil, cards.GroupByPrimaryType(pool), nil, comp, "standard", NewPoolIndex(pool))

	if _, ok := got["Command Tower"]; ok {
		t.Error("land selected; lands belong to the mana base")
	}
	if got["Bear"] != 1 {
		t.Errorf("Bear quantity = %d, want 1", got["Bear"])
	}
}

func TestSelectDoesNotMutateInputs(t *testing.T) {
	pool := []*cards.Card{creature("Bear")}
	existing := Decklist{"Pinned": 2}
	index := NewPoolIndex(pool)
	index["Pinned"] = creature("Pinned")
	comp := Composition{"Creature": 5}

	_ = Select(existing, cards.GroupByPrimaryType(pool), nil, comp, "standard", index)

	if len(existing) != 1 || existing["Pinned"] != 2 {
		t.Errorf("existing deck mutated: %v", existing)
	}
}
