package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/campuscare/internal/items"
	"github.com/erazemk/campuscare/internal/upload"
)

// HomePage handles GET /.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, &FormData{})
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, signup *FormData) {
	s.Templates.Render(w, "home.html", &struct {
		PageData
		Signup *FormData
	}{
		PageData: s.page(w, r, "CampusCare Lost & Found"),
		Signup:   signup,
	})
}

// ListingsPage handles GET /listings.
func (s *Server) ListingsPage(w http.ResponseWriter, r *http.Request) {
	listings, err := s.Items.Listings(r.Context())
	if err != nil {
		slog.Error("failed to load listings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "listings.html", &struct {
		PageData
		*items.Listings
	}{
		PageData: s.page(w, r, "Listings"),
		Listings: listings,
	})
}

// UploadGet handles GET /uploads/{filename}.
func (s *Server) UploadGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	rc, err := s.Uploads.Open(r.Context(), name)
	if errors.Is(err, upload.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to open upload", "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", upload.ContentType(name))
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to write upload response", "name", name, "error", err)
	}
}
