package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/campuscare/internal/items"
	"github.com/erazemk/campuscare/internal/model"
)

// ListingsHandler serves the listings feed as JSON.
type ListingsHandler struct {
	Items *items.Service
}

// List handles GET /api/listings.
func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Items.Listings(r.Context())
	if err != nil {
		slog.Error("failed to load listings", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Empty feeds encode as [] rather than null.
	if listings.Lost == nil {
		listings.Lost = []model.Item{}
	}
	if listings.Found == nil {
		listings.Found = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, listings)
}
