package deck

import (
	"reflect"
	"testing"
)

func TestManaCurve(t *testing.T) {
	index := MapIndex{
		"One Drop":   costedCard("One Drop", "Creature", "{R}", 1),
		"Two Drop":   costedCard("Two Drop", "Creature", "{1}{R}", 2),
		"Finisher":   costedCard("Finisher", "Creature", "{6}{R}{R}", 8),
		"Big Spell":  costedCard("Big Spell", "Sorcery", "{5}{R}{R}", 7),
		"Free Spell": costedCard("Free Spell", "Instant", "{0}", 0),
		"Mountain":   {Name: "Mountain", TypeLine: "Basic Land — Mountain"},
	}

	deck := Decklist{
		"One Drop":   4,
		"Two Drop":   3,
		"Finisher":   1,
		"Big Spell":  2,
		"Free Spell": 1,
		"Mountain":   24,
	}

	got := ManaCurve(deck, index)

	want := map[string]int{
		"0":  1,
		"1":  4,
		"2":  3,
		"7+": 3, // Finisher (8) and Big Spell (7) share the bucket
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ManaCurve() = %v, want %v", got, want)
	}
}

func TestManaCurveExcludesLands(t *testing.T) {
	index := MapIndex{
		"Island": {Name: "Island", TypeLine: "Basic Land — Island"},
		"Swamp":  {Name: "Swamp", TypeLine: "Basic Land — Swamp"},
	}

	got := ManaCurve(Decklist{"Island": 10, "Swamp": 5}, index)

	if len(got) != 0 {
		t.Errorf("ManaCurve() = %v, want empty map for all-land deck", got)
	}
}

func TestManaCurveSkipsUnknownCards(t *testing.T) {
	got := ManaCurve(Decklist{"Mystery": 4}, MapIndex{})

	if len(got) != 0 {
		t.Errorf("ManaCurve() = %v, want empty map for unknown cards", got)
	}
}

func TestManaCurveIdempotent(t *testing.T) {
	index := MapIndex{
		"Bolt": costedCard("Bolt", "Instant", "{R}", 1),
	}
	deck := Decklist{"Bolt": 4}

	first := ManaCurve(deck, index)
	second := ManaCurve(deck, index)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ManaCurve not idempotent: %v then %v", first, second)
	}
}
