package deck

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWeightsValid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("DefaultWeights().Validate() = %v, want nil", err)
	}
}

func TestWeightTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   WeightTable
		wantErr bool
	}{
		{
			name: "Valid table",
			table: WeightTable{
				DefaultStrategy: {"Creature": 0.5, "Instant": 0.5},
			},
			wantErr: false,
		},
		{
			name: "Fractions above one",
			table: WeightTable{
				DefaultStrategy: {"Creature": 0.8, "Instant": 0.5},
			},
			wantErr: true,
		},
		{
			name: "Negative fraction",
			table: WeightTable{
				DefaultStrategy: {"Creature": -0.1},
			},
			wantErr: true,
		},
		{
			name: "Unknown category",
			table: WeightTable{
				DefaultStrategy: {"Battle": 0.5},
			},
			wantErr: true,
		},
		{
			name: "Missing default strategy",
			table: WeightTable{
				"aggro": {"Creature": 0.6},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.toml")

	content := `
[strategies.aggro]
Creature = 0.7
Instant = 0.2
Sorcery = 0.1

[strategies.default]
Creature = 0.4
Instant = 0.3
Sorcery = 0.3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write weights file: %v", err)
	}

	table, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights() error = %v", err)
	}

	if table["aggro"]["Creature"] != 0.7 {
		t.Errorf("aggro creature fraction = %v, want 0.7", table["aggro"]["Creature"])
	}

	planner := NewPlanner(table)
	comp := planner.Plan("aggro", "", "standard")
	if comp.Total() != 60 {
		t.Errorf("loaded table composition total = %d, want 60", comp.Total())
	}
}

func TestLoadWeightsKeepsBuiltInDefaultRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.toml")

	// Override file without a default row: the built-in default survives.
	content := `
[strategies.aggro]
Creature = 0.7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write weights file: %v", err)
	}

	table, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights() error = %v", err)
	}

	if _, ok := table[DefaultStrategy]; !ok {
		t.Error("default strategy row missing after partial load")
	}
}

func TestLoadWeightsRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.toml")

	content := `
[strategies.default]
Creature = 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write weights file: %v", err)
	}

	if _, err := LoadWeights(path); err == nil {
		t.Error("LoadWeights() error = nil, want validation failure")
	}
}
