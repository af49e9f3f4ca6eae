package api

import (
	"net/http"

	"github.com/erazemk/campuscare/internal/items"
)

// NewRouter creates the JSON API router. Every endpoint is public and read-only.
func NewRouter(svc *items.Service) http.Handler {
	mux := http.NewServeMux()

	listings := &ListingsHandler{Items: svc}
	mux.HandleFunc("GET /api/listings", listings.List)

	return mux
}
