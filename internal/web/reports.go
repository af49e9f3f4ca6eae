package web

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/campuscare/internal/items"
	"github.com/erazemk/campuscare/internal/model"
	"github.com/erazemk/campuscare/internal/upload"
)

// ReportPage handles GET /report/{kind}.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.renderReport(w, r, kind, &FormData{})
}

func (s *Server) renderReport(w http.ResponseWriter, r *http.Request, kind model.Kind, form *FormData) {
	title := "Report a lost item"
	if kind == model.KindFound {
		title = "Report a found item"
	}

	s.Templates.Render(w, "report.html", &struct {
		PageData
		Kind model.Kind
		Form *FormData
	}{
		PageData: s.page(w, r, title),
		Kind:     kind,
		Form:     form,
	})
}

// ReportSubmit handles POST /report/{kind}.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.submitReport(w, r, kind)
}

// reportSubmitKind serves the older /report-lost and /report-found form targets.
func (s *Server) reportSubmitKind(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.submitReport(w, r, kind)
	}
}

func (s *Server) submitReport(w http.ResponseWriter, r *http.Request, kind model.Kind) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxRequestSize)
	if err := r.ParseMultipartForm(upload.MaxRequestSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "request too large or malformed", http.StatusBadRequest)
		return
	}

	in := items.Report{
		ItemName:    r.FormValue("item-name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Contact:     r.FormValue("contact"),
	}

	var img *items.Image
	file, header, err := r.FormFile("item-image")
	switch {
	case err == nil:
		defer file.Close()
		img = imageFromPart(file, header)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		http.Error(w, "invalid image upload", http.StatusBadRequest)
		return
	}

	res, err := s.Items.Report(r.Context(), SessionFromContext(r.Context()), kind, in, img)

	var verr *model.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		s.renderReport(w, r, kind, &FormData{
			Values: map[string]string{
				"item-name":   in.ItemName,
				"description": in.Description,
				"category":    in.Category,
				"contact":     in.Contact,
			},
			Errors: verr.Fields,
		})
		return
	case errors.Is(err, model.ErrLoginRequired):
		s.addFlash(w, r, Flash{Kind: "error", Message: "Please log in to access this feature."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	default:
		slog.Error("failed to report item", "kind", kind, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	flashes := []Flash{{Kind: "success", Message: "Your report has been posted."}}
	if res.ImageDropped {
		flashes = append(flashes, Flash{Kind: "warning", Message: "The photo was not attached: only PNG, JPG, JPEG and GIF images are accepted."})
	}
	s.addFlash(w, r, flashes...)
	http.Redirect(w, r, "/listings", http.StatusSeeOther)
}

func imageFromPart(file multipart.File, header *multipart.FileHeader) *items.Image {
	return &items.Image{Reader: file, Filename: header.Filename, Size: header.Size}
}
