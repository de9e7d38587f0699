package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ramonehamilton/deckforge/internal/deck"
)

const explanationSystemPrompt = "You are a Magic: The Gathering deck strategy expert."

// Explanation describes a constructed deck: the overall strategy plus a
// per-card role breakdown.
type Explanation struct {
	Strategy         string            `json:"strategy"`
	CardExplanations map[string]string `json:"card_explanations"`
}

// ExplanationGenerator produces deck explanations via the local LLM,
// falling back to a static template when the model is unavailable.
type ExplanationGenerator struct {
	client *OllamaClient

	mu    sync.RWMutex
	cache map[string]*Explanation
}

// NewExplanationGenerator creates a new generator.
func NewExplanationGenerator(client *OllamaClient) *ExplanationGenerator {
	return &ExplanationGenerator{
		client: client,
		cache:  make(map[string]*Explanation),
	}
}

// Explain generates an explanation for a constructed deck. Results are
// cached per decklist and strategy; model failures fall back to a
// template explanation rather than an error.
func (g *ExplanationGenerator) Explain(ctx context.Context, decklist deck.Decklist, params *deck.DeckParams, description, format string) *Explanation {
	key := explanationCacheKey(decklist, params)

	g.mu.RLock()
	cached, ok := g.cache[key]
	g.mu.RUnlock()
	if ok {
		return cached
	}

	explanation, err := g.generate(ctx, decklist, params, description, format)
	if err != nil {
		log.Printf("[Explanation] Generation failed, using template: %v", err)
		explanation = templateExplanation(params, format)
	}

	g.mu.Lock()
	g.cache[key] = explanation
	g.mu.Unlock()

	return explanation
}

func (g *ExplanationGenerator) generate(ctx context.Context, decklist deck.Decklist, params *deck.DeckParams, description, format string) (*Explanation, error) {
	if g.client == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}

	var list strings.Builder
	for _, name := range decklist.SortedNames() {
		fmt.Fprintf(&list, "%s (x%d)\n", name, decklist[name])
	}
	paramsJSON, _ := json.Marshal(params)

	prompt := fmt.Sprintf(`Given the deck description, parameters, and decklist below, generate a detailed explanation of the deck's overall strategy and provide brief explanations for the role of each card.

Deck Description: %s
Format: %s
Deck Parameters: %s
Decklist:
%s
Respond with a JSON object containing two keys:
- "strategy": a string explaining the overall deck strategy, synergy, and balance.
- "card_explanations": an object mapping each card name to a brief explanation of its role.`, description, format, paramsJSON, list.String())

	resp, err := g.client.GenerateJSON(ctx, explanationSystemPrompt, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("generate explanation: %w", err)
	}

	raw := ExtractJSON(resp.Response)
	if raw == "" {
		return nil, fmt.Errorf("generate explanation: no JSON object in response")
	}

	var explanation Explanation
	if err := json.Unmarshal([]byte(raw), &explanation); err != nil {
		// The model answered but not in the shape asked for. Keep the
		// prose as the strategy text instead of discarding it.
		return &Explanation{Strategy: strings.TrimSpace(resp.Response), CardExplanations: map[string]string{}}, nil
	}
	if explanation.CardExplanations == nil {
		explanation.CardExplanations = map[string]string{}
	}

	return &explanation, nil
}

// templateExplanation builds a minimal explanation from the parameters
// alone.
func templateExplanation(params *deck.DeckParams, format string) *Explanation {
	strategy := deck.DefaultStrategy
	colors := "colorless"
	if params != nil {
		if params.PrimaryStrategy != "" {
			strategy = params.PrimaryStrategy
		}
		if len(params.Colors) > 0 {
			colors = strings.Join(params.Colors, "")
		}
	}
	return &Explanation{
		Strategy:         fmt.Sprintf("A %s %s deck in %s colors, built around the strongest available cards for the strategy.", format, strategy, colors),
		CardExplanations: map[string]string{},
	}
}

func explanationCacheKey(decklist deck.Decklist, params *deck.DeckParams) string {
	var b strings.Builder
	if params != nil {
		b.WriteString(strings.ToLower(params.PrimaryStrategy))
	}
	for _, name := range decklist.SortedNames() {
		fmt.Fprintf(&b, "|%s:%d", name, decklist[name])
	}
	return b.String()
}
