package cards

import "strings"

// Format rules. Format names are compared case-insensitively; commander is
// the only singleton format the engine distinguishes, everything else uses
// constructed rules.

// IsCommander reports whether the format uses singleton commander rules.
func IsCommander(format string) bool {
	return strings.EqualFold(format, "commander")
}

// MaxCopies returns the maximum copies of a non-basic card allowed in the
// given format.
func MaxCopies(format string) int {
	if IsCommander(format) {
		return 1
	}
	return 4
}

// MinDeckSize returns the minimum deck size for the given format.
func MinDeckSize(format string) int {
	if IsCommander(format) {
		return 100
	}
	return 60
}

// basicLandByColor maps a color symbol to its basic land.
var basicLandByColor = map[string]string{
	"W": "Plains",
	"U": "Island",
	"B": "Swamp",
	"R": "Mountain",
	"G": "Forest",
}

// ColorlessBasicLand is the fallback basic for decks with no declared
// colors and no colored pips.
const ColorlessBasicLand = "Wastes"

// BasicLandNames lists the basic lands in canonical rotation order.
var BasicLandNames = []string{"Plains", "Island", "Swamp", "Mountain", "Forest", ColorlessBasicLand}

// BasicLandForColor returns the basic land producing the given color, or
// the colorless basic if the color is unrecognized.
func BasicLandForColor(color string) string {
	if land, ok := basicLandByColor[strings.ToUpper(color)]; ok {
		return land
	}
	return ColorlessBasicLand
}

// IsBasicLandName reports whether a card name is one of the basic lands.
// Used where catalog data for the name may be unavailable.
func IsBasicLandName(name string) bool {
	for _, basic := range BasicLandNames {
		if name == basic {
			return true
		}
	}
	return false
}

// NormalizeColors uppercases, deduplicates, and orders a color set in
// canonical WUBRG order, dropping anything outside {W,U,B,R,G}.
func NormalizeColors(colors []string) []string {
	present := make(map[string]bool, len(colors))
	for _, c := range colors {
		present[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	result := make([]string, 0, len(ColorOrder))
	for _, c := range ColorOrder {
		if present[c] {
			result = append(result, c)
		}
	}
	return result
}
