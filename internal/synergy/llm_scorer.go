package synergy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ramonehamilton/deckforge/internal/cards"
	"github.com/ramonehamilton/deckforge/internal/llm"
)

const (
	scorerSystemPrompt = "You are a Magic: The Gathering expert analyzing card synergies."

	// scoreBatchSize bounds the number of cards described per prompt so
	// the context stays well inside the model window.
	scoreBatchSize = 50
)

// LLMScorer scores card pools against a strategy using the local LLM.
// Cards are described to the model in batches; the model answers with a
// name-to-score JSON object.
type LLMScorer struct {
	client *llm.OllamaClient
}

// NewLLMScorer creates a scorer backed by an Ollama client.
func NewLLMScorer(client *llm.OllamaClient) *LLMScorer {
	return &LLMScorer{client: client}
}

// Scores computes synergy scores for the pool. Scores outside 0..1 are
// clamped; cards the model skips are simply absent from the result.
func (s *LLMScorer) Scores(ctx context.Context, pool []*cards.Card, strategy string, mechanics []string) (map[string]float64, error) {
	scores := make(map[string]float64, len(pool))

	for start := 0; start < len(pool); start += scoreBatchSize {
		end := start + scoreBatchSize
		if end > len(pool) {
			end = len(pool)
		}

		batchScores, err := s.scoreBatch(ctx, pool[start:end], strategy, mechanics)
		if err != nil {
			return nil, fmt.Errorf("score cards %d-%d: %w", start, end-1, err)
		}
		for name, score := range batchScores {
			scores[name] = clamp01(score)
		}
	}

	return filterForPool(scores, pool), nil
}

func (s *LLMScorer) scoreBatch(ctx context.Context, batch []*cards.Card, strategy string, mechanics []string) (map[string]float64, error) {
	var info strings.Builder
	for _, card := range batch {
		if card == nil {
			continue
		}
		fmt.Fprintf(&info, "Card: %s\nType: %s\n", card.Name, card.TypeLine)
		if card.ManaCost != nil {
			fmt.Fprintf(&info, "Mana Cost: %s\n", *card.ManaCost)
		}
		if card.OracleText != nil {
			fmt.Fprintf(&info, "Text: %s\n", *card.OracleText)
		}
		info.WriteString("\n")
	}

	mechanicsDesc := "no specific mechanics"
	if len(mechanics) > 0 {
		mechanicsDesc = strings.Join(mechanics, ", ")
	}

	prompt := fmt.Sprintf(`Analyze the following Magic: The Gathering cards for their synergy with a %s deck that focuses on: %s.

%s
For each card, provide a synergy score from 0.0 to 1.0, where 0.0 means the card has no synergy with the strategy and 1.0 means the card is perfectly aligned with it.

Respond with a JSON object mapping card names to scores.`, strategy, mechanicsDesc, info.String())

	resp, err := s.client.GenerateJSON(ctx, scorerSystemPrompt, prompt, &llm.GenerateOptions{Temperature: 0.1})
	if err != nil {
		return nil, err
	}

	raw := llm.ExtractJSON(resp.Response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var scores map[string]float64
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, fmt.Errorf("parse synergy scores: %w", err)
	}
	if len(scores) < len(batch) {
		log.Printf("[Synergy] Model scored %d of %d cards in batch", len(scores), len(batch))
	}

	return scores, nil
}
