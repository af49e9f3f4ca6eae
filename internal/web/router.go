package web

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/erazemk/campuscare/internal/auth"
	"github.com/erazemk/campuscare/internal/items"
	"github.com/erazemk/campuscare/internal/upload"
	webembed "github.com/erazemk/campuscare/web"
)

// Options tune the web frontend.
type Options struct {
	// RequireLogin gates the report pages behind a session.
	RequireLogin bool
	// SecureCookies marks cookies Secure for deployments behind HTTPS.
	SecureCookies bool
}

// Server holds all dependencies for page handlers.
type Server struct {
	Templates *Templates
	Auth      *auth.Service
	Items     *items.Service
	Uploads   *upload.Handler
	Options   Options

	flashes *securecookie.SecureCookie
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, sessionSecret string, uploads *upload.Handler, opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	authSvc := &auth.Service{DB: db, Secret: sessionSecret}
	s := &Server{
		Templates: templates,
		Auth:      authSvc,
		Items:     &items.Service{DB: db, Uploads: uploads, RequireLogin: opts.RequireLogin},
		Uploads:   uploads,
		Options:   opts,
	}
	return s.Routes(), nil
}

// Routes registers every page route on a new mux wrapped in the session middleware.
func (s *Server) Routes() http.Handler {
	// Flash cookies are signed with the session key.
	s.flashes = newFlashCodec(s.Auth.Secret)

	mux := http.NewServeMux()

	gate := func(h http.HandlerFunc) http.Handler { return h }
	if s.Options.RequireLogin {
		gate = func(h http.HandlerFunc) http.Handler { return s.requireSession(h) }
	}

	// Static assets and uploaded photos.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /uploads/{filename}", s.UploadGet)

	// Public pages.
	mux.HandleFunc("GET /{$}", s.HomePage)
	mux.HandleFunc("GET /listings", s.ListingsPage)

	// Accounts.
	mux.HandleFunc("POST /signup", s.SignupSubmit)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /logout", s.Logout)
	mux.HandleFunc("POST /logout", s.Logout)

	// Reports.
	mux.Handle("GET /report/{kind}", gate(s.ReportPage))
	mux.Handle("POST /report/{kind}", gate(s.ReportSubmit))

	// Older links.
	mux.Handle("GET /lost", http.RedirectHandler("/report/lost", http.StatusMovedPermanently))
	mux.Handle("GET /found", http.RedirectHandler("/report/found", http.StatusMovedPermanently))
	mux.Handle("POST /report-lost", gate(s.reportSubmitKind("lost")))
	mux.Handle("POST /report-found", gate(s.reportSubmitKind("found")))

	return SessionMiddleware(s.Auth)(mux)
}

// page builds the base template data for a request and consumes pending flashes.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) PageData {
	return PageData{
		Title:        title,
		User:         SessionFromContext(r.Context()),
		Flashes:      s.popFlashes(w, r),
		RequireLogin: s.Options.RequireLogin,
	}
}
