package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ramonehamilton/deckforge/internal/cards"
	"github.com/ramonehamilton/deckforge/internal/deck"
)

const extractorSystemPrompt = "You are a Magic: The Gathering deck building expert."

// ParameterExtractor turns a natural-language deck description into
// structured deck parameters using the local LLM.
type ParameterExtractor struct {
	client *OllamaClient
}

// NewParameterExtractor creates a new extractor.
func NewParameterExtractor(client *OllamaClient) *ParameterExtractor {
	return &ParameterExtractor{client: client}
}

// extractedParams matches the JSON shape requested from the model.
type extractedParams struct {
	Colors            []string `json:"colors"`
	PrimaryStrategy   string   `json:"primary_strategy"`
	SecondaryStrategy string   `json:"secondary_strategy"`
	Mechanics         []string `json:"mechanics"`
	WinConditions     []string `json:"win_conditions"`
}

// Extract pulls deck parameters from a description. User-specified
// mechanics are merged into whatever the model extracts.
func (e *ParameterExtractor) Extract(ctx context.Context, description, format string, userMechanics []string) (*deck.DeckParams, error) {
	prompt := fmt.Sprintf(`Extract detailed deck building parameters from this Magic: The Gathering deck description:
%q

Format: %s

Extract the following information:
1. colors: list of color letters (W, U, B, R, G)
2. primary_strategy: aggro, midrange, control, combo, etc.
3. secondary_strategy: secondary strategy if any, otherwise empty string
4. mechanics: specific mechanics or keywords to focus on
5. win_conditions: how the deck intends to win

Respond with a JSON object using exactly those field names.`, description, format)

	resp, err := e.client.GenerateJSON(ctx, extractorSystemPrompt, prompt, &GenerateOptions{Temperature: 0.1})
	if err != nil {
		return nil, fmt.Errorf("extract deck parameters: %w", err)
	}

	raw := ExtractJSON(resp.Response)
	if raw == "" {
		return nil, fmt.Errorf("extract deck parameters: no JSON object in response")
	}

	var extracted extractedParams
	if err := json.Unmarshal([]byte(raw), &extracted); err != nil {
		return nil, fmt.Errorf("parse extracted parameters: %w", err)
	}

	params := &deck.DeckParams{
		PrimaryStrategy:   strings.ToLower(strings.TrimSpace(extracted.PrimaryStrategy)),
		SecondaryStrategy: strings.ToLower(strings.TrimSpace(extracted.SecondaryStrategy)),
		Colors:            cards.NormalizeColors(extracted.Colors),
		Mechanics:         mergeMechanics(extracted.Mechanics, userMechanics),
		WinConditions:     extracted.WinConditions,
	}
	if params.PrimaryStrategy == "" {
		log.Printf("[Extractor] No strategy extracted from description, using %q", deck.DefaultStrategy)
		params.PrimaryStrategy = deck.DefaultStrategy
	}

	return params, nil
}

// mergeMechanics unions extracted and user-specified mechanics,
// case-insensitively, returning a sorted list.
func mergeMechanics(extracted, user []string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range [][]string{extracted, user} {
		for _, mechanic := range list {
			mechanic = strings.ToLower(strings.TrimSpace(mechanic))
			if mechanic == "" {
				continue
			}
			if _, ok := seen[mechanic]; ok {
				continue
			}
			seen[mechanic] = struct{}{}
			merged = append(merged, mechanic)
		}
	}
	sort.Strings(merged)
	return merged
}
