package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/deckforge/internal/api/response"
	"github.com/ramonehamilton/deckforge/internal/cards"
)

// CardSearcher searches the local catalog.
type CardSearcher interface {
	SearchCards(ctx context.Context, nameQuery string, limit int) ([]*cards.Card, error)
}

// CardHandler handles card catalog API requests.
type CardHandler struct {
	resolver CardResolver
	searcher CardSearcher
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(resolver CardResolver, searcher CardSearcher) *CardHandler {
	return &CardHandler{resolver: resolver, searcher: searcher}
}

// GetCard returns a card by exact name, hydrating the catalog from
// Scryfall on a miss.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("card name is required"))
		return
	}

	card, err := h.resolver.GetCardByName(r.Context(), name)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if card == nil {
		response.NotFound(w, fmt.Errorf("card %q not found", name))
		return
	}

	response.Success(w, card)
}

// SearchCards searches the catalog by name substring.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("query parameter q is required"))
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	results, err := h.searcher.SearchCards(r.Context(), query, limit)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, results)
}
