// Package handlers implements the HTTP handlers for the API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/deckforge/internal/api/response"
	"github.com/ramonehamilton/deckforge/internal/cards"
	"github.com/ramonehamilton/deckforge/internal/charts"
	"github.com/ramonehamilton/deckforge/internal/deck"
	"github.com/ramonehamilton/deckforge/internal/llm"
)

// DeckConstructor assembles decks from card pools.
type DeckConstructor interface {
	ConstructDeck(ctx context.Context, pool []*cards.Card, params deck.DeckParams, format string, pinned []string) (*deck.Result, error)
	Curve(ctx context.Context, decklist deck.Decklist) map[string]int
}

// ParameterExtractor turns deck descriptions into structured parameters.
type ParameterExtractor interface {
	Extract(ctx context.Context, description, format string, mechanics []string) (*deck.DeckParams, error)
}

// Explainer generates deck explanations.
type Explainer interface {
	Explain(ctx context.Context, decklist deck.Decklist, params *deck.DeckParams, description, format string) *llm.Explanation
}

// CardResolver resolves card names to catalog records.
type CardResolver interface {
	GetCardByName(ctx context.Context, name string) (*cards.Card, error)
}

// ReplacementAdvisor proposes replacements for weak cards found by deck
// analysis.
type ReplacementAdvisor interface {
	Suggest(ctx context.Context, decklist deck.Decklist, analysis *deck.Analysis, format string) ([]llm.Suggestion, error)
}

// DeckHandler handles deck construction API requests. The extractor,
// explainer, and advisor are optional; without them requests must carry
// explicit parameters and responses carry no LLM enrichment.
type DeckHandler struct {
	assembler DeckConstructor
	resolver  CardResolver
	extractor ParameterExtractor
	explainer Explainer
	advisor   ReplacementAdvisor
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(assembler DeckConstructor, resolver CardResolver, extractor ParameterExtractor, explainer Explainer, advisor ReplacementAdvisor) *DeckHandler {
	return &DeckHandler{
		assembler: assembler,
		resolver:  resolver,
		extractor: extractor,
		explainer: explainer,
		advisor:   advisor,
	}
}

// ConstructRequest is the request body for deck construction.
type ConstructRequest struct {
	// Description is the natural-language deck concept. Used when Params
	// is absent and an extractor is configured.
	Description string `json:"description,omitempty"`

	// Format is the target format (standard, modern, commander, ...).
	Format string `json:"format"`

	// Params supplies explicit construction parameters, bypassing
	// extraction.
	Params *deck.DeckParams `json:"params,omitempty"`

	// Pool lists candidate card names to draw from.
	Pool []string `json:"pool,omitempty"`

	// Pinned lists card names that must be in the deck.
	Pinned []string `json:"pinned,omitempty"`

	// Explain requests a generated explanation of the result.
	Explain bool `json:"explain,omitempty"`
}

// ConstructResponse is the response body for deck construction.
type ConstructResponse struct {
	Deck        deck.Decklist    `json:"deck"`
	Composition deck.Composition `json:"composition"`
	ManaBase    deck.Decklist    `json:"mana_base"`
	Curve       map[string]int   `json:"mana_curve"`
	Params      *deck.DeckParams `json:"params"`
	Warnings    []string         `json:"warnings,omitempty"`
	Explanation *llm.Explanation `json:"explanation,omitempty"`
}

// ConstructDeck builds a deck from a description or explicit parameters.
func (h *DeckHandler) ConstructDeck(w http.ResponseWriter, r *http.Request) {
	var req ConstructRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Format == "" {
		response.BadRequest(w, errors.New("format is required"))
		return
	}

	params, err := h.resolveParams(r.Context(), &req)
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	pool, poolWarnings := h.resolvePool(r.Context(), req.Pool)

	result, err := h.assembler.ConstructDeck(r.Context(), pool, *params, req.Format, req.Pinned)
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}

	resp := &ConstructResponse{
		Deck:        result.Deck,
		Composition: result.Composition,
		ManaBase:    result.ManaBase,
		Curve:       result.Curve,
		Params:      params,
		Warnings:    append(poolWarnings, result.Warnings...),
	}

	if req.Explain && h.explainer != nil {
		resp.Explanation = h.explainer.Explain(r.Context(), result.Deck, params, req.Description, req.Format)
	}

	response.Success(w, resp)
}

// resolveParams returns explicit parameters, extracted ones, or defaults.
func (h *DeckHandler) resolveParams(ctx context.Context, req *ConstructRequest) (*deck.DeckParams, error) {
	if req.Params != nil {
		return req.Params, nil
	}

	if req.Description != "" && h.extractor != nil {
		params, err := h.extractor.Extract(ctx, req.Description, req.Format, nil)
		if err != nil {
			return nil, fmt.Errorf("extract deck parameters: %w", err)
		}
		return params, nil
	}

	return &deck.DeckParams{PrimaryStrategy: deck.DefaultStrategy}, nil
}

// resolvePool turns card names into catalog records. Unresolvable names
// become warnings, not errors.
func (h *DeckHandler) resolvePool(ctx context.Context, names []string) ([]*cards.Card, []string) {
	if h.resolver == nil || len(names) == 0 {
		return nil, nil
	}

	pool := make([]*cards.Card, 0, len(names))
	var warnings []string
	for _, name := range names {
		card, err := h.resolver.GetCardByName(ctx, name)
		if err != nil || card == nil {
			warnings = append(warnings, fmt.Sprintf("pool card %q not found, skipped", name))
			continue
		}
		pool = append(pool, card)
	}
	return pool, warnings
}

// AnalyzeRequest is the request body for deck analysis.
type AnalyzeRequest struct {
	Deck deck.Decklist `json:"deck"`

	// Format for legality context in suggestions.
	Format string `json:"format,omitempty"`

	// Strategy steers the weak-card heuristics.
	Strategy string `json:"strategy,omitempty"`

	// Suggest requests LLM-backed replacement suggestions for the weak
	// cards the analysis flags.
	Suggest bool `json:"suggest,omitempty"`
}

// AnalyzeResponse is the response body for deck analysis.
type AnalyzeResponse struct {
	Analysis    *deck.Analysis   `json:"analysis"`
	Suggestions []llm.Suggestion `json:"suggestions,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// AnalyzeDeck analyzes a supplied decklist: type and color distribution,
// mana curve, average cost, and weak-card flags, with optional
// replacement suggestions.
func (h *DeckHandler) AnalyzeDeck(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Deck) == 0 {
		response.BadRequest(w, errors.New("deck is required"))
		return
	}

	index, warnings := h.resolveIndex(r.Context(), req.Deck)
	analysis := deck.AnalyzeDeck(req.Deck, req.Strategy, index)

	resp := &AnalyzeResponse{Analysis: analysis, Warnings: warnings}

	if req.Suggest && h.advisor != nil {
		suggestions, err := h.advisor.Suggest(r.Context(), req.Deck, analysis, req.Format)
		if err != nil {
			// Suggestions are an enrichment; the analysis still stands.
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("replacement suggestions unavailable: %v", err))
		} else {
			resp.Suggestions = suggestions
		}
	}

	response.Success(w, resp)
}

// resolveIndex looks up every card in a decklist, returning an index and
// warnings for names the catalog does not know.
func (h *DeckHandler) resolveIndex(ctx context.Context, decklist deck.Decklist) (deck.CardIndex, []string) {
	index := make(deck.MapIndex, len(decklist))
	if h.resolver == nil {
		return index, nil
	}

	var warnings []string
	for _, name := range decklist.SortedNames() {
		card, err := h.resolver.GetCardByName(ctx, name)
		if err != nil || card == nil {
			warnings = append(warnings, fmt.Sprintf("card %q not found, excluded from analysis", name))
			continue
		}
		index[name] = card
	}
	return index, warnings
}

// CurveRequest is the request body for mana curve calculation.
type CurveRequest struct {
	Deck deck.Decklist `json:"deck"`
}

// ManaCurve calculates the mana curve of a supplied decklist.
func (h *DeckHandler) ManaCurve(w http.ResponseWriter, r *http.Request) {
	var req CurveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Deck) == 0 {
		response.BadRequest(w, errors.New("deck is required"))
		return
	}

	response.Success(w, h.assembler.Curve(r.Context(), req.Deck))
}

// ManaCurveChart renders the mana curve of a supplied decklist as an
// HTML bar chart.
func (h *DeckHandler) ManaCurveChart(w http.ResponseWriter, r *http.Request) {
	var req CurveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Deck) == 0 {
		response.BadRequest(w, errors.New("deck is required"))
		return
	}

	curve := h.assembler.Curve(r.Context(), req.Deck)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderManaCurve(curve, "Mana Curve", w); err != nil {
		response.InternalError(w, err)
	}
}
