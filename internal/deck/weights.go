package deck

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// WeightTable maps strategy names to per-category fractions of the
// non-land budget. Fractions for a strategy must each be non-negative and
// sum to at most 1; the planner gives any remainder to the creature
// category so compositions always sum exactly to the non-land target.
type WeightTable map[string]map[string]float64

// DefaultStrategy is the fallback row used for unrecognized strategies.
const DefaultStrategy = "default"

// DefaultWeights returns the built-in strategy weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		"aggro": {
			"Creature":     0.60,
			"Instant":      0.15,
			"Sorcery":      0.10,
			"Artifact":     0.05,
			"Enchantment":  0.05,
			"Planeswalker": 0.05,
		},
		"control": {
			"Creature":     0.25,
			"Instant":      0.30,
			"Sorcery":      0.20,
			"Artifact":     0.05,
			"Enchantment":  0.10,
			"Planeswalker": 0.10,
		},
		"midrange": {
			"Creature":     0.45,
			"Instant":      0.20,
			"Sorcery":      0.15,
			"Artifact":     0.05,
			"Enchantment":  0.05,
			"Planeswalker": 0.10,
		},
		"combo": {
			"Creature":     0.30,
			"Instant":      0.25,
			"Sorcery":      0.20,
			"Artifact":     0.10,
			"Enchantment":  0.10,
			"Planeswalker": 0.05,
		},
		DefaultStrategy: {
			"Creature":     0.40,
			"Instant":      0.20,
			"Sorcery":      0.15,
			"Artifact":     0.10,
			"Enchantment":  0.10,
			"Planeswalker": 0.05,
		},
	}
}

// Validate checks that every strategy row has non-negative fractions
// summing to at most 1 and that only known categories appear.
func (t WeightTable) Validate() error {
	known := make(map[string]bool, len(NonLandCategories))
	for _, cat := range NonLandCategories {
		known[cat] = true
	}

	for strategy, row := range t {
		sum := 0.0
		for category, fraction := range row {
			if !known[category] {
				return fmt.Errorf("strategy %q: unknown category %q", strategy, category)
			}
			if fraction < 0 {
				return fmt.Errorf("strategy %q: negative fraction %v for %q", strategy, fraction, category)
			}
			sum += fraction
		}
		if sum > 1.0+1e-9 {
			return fmt.Errorf("strategy %q: fractions sum to %v, must be <= 1", strategy, sum)
		}
	}

	if _, ok := t[DefaultStrategy]; !ok {
		return fmt.Errorf("weight table missing %q strategy", DefaultStrategy)
	}

	return nil
}

// forStrategy returns the weight row for a strategy, falling back to the
// default row for unrecognized names.
func (t WeightTable) forStrategy(strategy string) map[string]float64 {
	if row, ok := t[strings.ToLower(strategy)]; ok {
		return row
	}
	return t[DefaultStrategy]
}

// weightsFile is the TOML representation of a weight table.
type weightsFile struct {
	Strategies map[string]map[string]float64 `toml:"strategies"`
}

// LoadWeights loads a weight table from a TOML file and validates it.
func LoadWeights(path string) (WeightTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}

	var file weightsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse weights file: %w", err)
	}

	table := WeightTable(file.Strategies)
	if _, ok := table[DefaultStrategy]; !ok {
		// Partial override files keep the built-in default row.
		if table == nil {
			table = WeightTable{}
		}
		table[DefaultStrategy] = DefaultWeights()[DefaultStrategy]
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights file: %w", err)
	}

	return table, nil
}
