package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/deckforge/internal/api/response"
)

// AvailabilityChecker reports whether the LLM backend responds.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context) error
}

// CatalogCounter reports the catalog size.
type CatalogCounter interface {
	CountCards(ctx context.Context) (int, error)
}

// SystemHandler handles health and status requests.
type SystemHandler struct {
	catalog CatalogCounter
	llm     AvailabilityChecker
}

// NewSystemHandler creates a new SystemHandler. Both dependencies may be
// nil; their status is then reported as unavailable.
func NewSystemHandler(catalog CatalogCounter, llm AvailabilityChecker) *SystemHandler {
	return &SystemHandler{catalog: catalog, llm: llm}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status      string `json:"status"`
	CatalogSize int    `json:"catalog_size"`
	LLMReady    bool   `json:"llm_ready"`
}

// Health reports service health. The service is "ok" as long as it can
// answer; degraded collaborators show up in the individual fields.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok"}

	if h.catalog != nil {
		if count, err := h.catalog.CountCards(r.Context()); err == nil {
			status.CatalogSize = count
		}
	}
	if h.llm != nil {
		status.LLMReady = h.llm.CheckAvailability(r.Context()) == nil
	}

	response.JSON(w, http.StatusOK, status)
}
