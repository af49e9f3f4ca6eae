package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

const flashCookie = "flash"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"k"` // "success", "error" or "warning"
	Message string `json:"m"`
}

// newFlashCodec returns the codec that signs flash cookies with key.
func newFlashCodec(key string) *securecookie.SecureCookie {
	return securecookie.New([]byte(key), nil).SetSerializer(securecookie.JSONEncoder{})
}

// addFlash queues messages for the next page. Call before redirecting.
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, flashes ...Flash) {
	all := append(s.readFlashes(r), flashes...)
	value, err := s.flashes.Encode(flashCookie, all)
	if err != nil {
		slog.Error("failed to encode flash", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Options.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns queued messages and clears them.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	if _, err := r.Cookie(flashCookie); err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.readFlashes(r)
}

// readFlashes decodes the flash cookie. Unsigned or tampered cookies yield nothing.
func (s *Server) readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	var flashes []Flash
	if err := s.flashes.Decode(flashCookie, cookie.Value, &flashes); err != nil {
		return nil
	}
	return flashes
}
