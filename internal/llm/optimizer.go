package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ramonehamilton/deckforge/internal/deck"
)

const optimizerSystemPrompt = "You are a Magic: The Gathering deck optimization expert."

// maxWeakCards bounds how many flagged cards a single request asks the
// model about.
const maxWeakCards = 5

// Suggestion proposes replacements for one weak card in a deck.
type Suggestion struct {
	CardToReplace string   `json:"card_to_replace"`
	Quantity      int      `json:"quantity"`
	Replacements  []string `json:"replacements"`
	Reason        string   `json:"reason,omitempty"`
}

// ReplacementAdvisor asks the local LLM for replacement suggestions for
// the weak cards a deck analysis flagged.
type ReplacementAdvisor struct {
	client *OllamaClient
}

// NewReplacementAdvisor creates a new advisor.
func NewReplacementAdvisor(client *OllamaClient) *ReplacementAdvisor {
	return &ReplacementAdvisor{client: client}
}

// suggestionList matches the JSON shape requested from the model.
type suggestionList struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest proposes replacements for the analysis's weak cards. Cards
// already in the deck are filtered out of the proposals. Suggestions for
// cards the analysis did not flag are dropped.
func (a *ReplacementAdvisor) Suggest(ctx context.Context, decklist deck.Decklist, analysis *deck.Analysis, format string) ([]Suggestion, error) {
	if a.client == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}
	if analysis == nil || len(analysis.WeakCards) == 0 {
		return nil, nil
	}

	weak := analysis.WeakCards
	if len(weak) > maxWeakCards {
		weak = weak[:maxWeakCards]
	}

	var list strings.Builder
	for _, name := range decklist.SortedNames() {
		fmt.Fprintf(&list, "%s (x%d)\n", name, decklist[name])
	}
	var flagged strings.Builder
	for _, wc := range weak {
		fmt.Fprintf(&flagged, "%s: %s\n", wc.Name, wc.Reason)
	}

	prompt := fmt.Sprintf(`This Magic: The Gathering deck for the %s format needs optimization:
%s
These cards were flagged as weak:
%s
For each flagged card, suggest up to 3 replacement cards legal in %s that better serve the deck, with a brief reason. Do not suggest cards already in the deck.

Respond with a JSON object of the form:
{"suggestions": [{"card_to_replace": "...", "replacements": ["..."], "reason": "..."}]}`,
		format, list.String(), flagged.String(), format)

	resp, err := a.client.GenerateJSON(ctx, optimizerSystemPrompt, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("suggest replacements: %w", err)
	}

	raw := ExtractJSON(resp.Response)
	if raw == "" {
		return nil, fmt.Errorf("suggest replacements: no JSON object in response")
	}

	var parsed suggestionList
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse replacement suggestions: %w", err)
	}

	flaggedNames := make(map[string]bool, len(weak))
	for _, wc := range weak {
		flaggedNames[wc.Name] = true
	}

	var suggestions []Suggestion
	for _, s := range parsed.Suggestions {
		if !flaggedNames[s.CardToReplace] {
			continue
		}
		var replacements []string
		for _, name := range s.Replacements {
			if _, inDeck := decklist[name]; !inDeck && name != "" {
				replacements = append(replacements, name)
			}
		}
		if len(replacements) == 0 {
			continue
		}
		s.Replacements = replacements
		s.Quantity = decklist[s.CardToReplace]
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}
