package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/campuscare/internal/auth"
	"github.com/erazemk/campuscare/internal/model"
)

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	reg := auth.Registration{
		Email:           r.FormValue("email"),
		FirstName:       r.FormValue("first-name"),
		LastName:        r.FormValue("last-name"),
		Phone:           r.FormValue("phone"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm-password"),
	}

	_, err := s.Auth.Register(r.Context(), reg)

	var verr *model.ValidationError
	switch {
	case err == nil:
		s.addFlash(w, r, Flash{Kind: "success", Message: "Account created. You can log in now."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &verr):
		// Passwords are never echoed back into the form.
		s.renderHome(w, r, &FormData{
			Values: map[string]string{
				"email":      reg.Email,
				"first-name": reg.FirstName,
				"last-name":  reg.LastName,
				"phone":      reg.Phone,
			},
			Errors: verr.Fields,
		})
	case errors.Is(err, model.ErrDuplicateEmail):
		s.addFlash(w, r, Flash{Kind: "error", Message: "An account with this email already exists."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		slog.Error("failed to register user", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	remember := r.FormValue("remember") != ""

	sess, err := s.Auth.Login(r.Context(), r.FormValue("email"), r.FormValue("password"), remember)
	if errors.Is(err, model.ErrAuthFailed) {
		s.addFlash(w, r, Flash{Kind: "error", Message: "Invalid email or password."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("failed to log in", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Options.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	// Without remember the cookie dies with the browser session.
	if remember {
		cookie.MaxAge = int(auth.RememberExpiry.Seconds())
	}
	http.SetCookie(w, cookie)

	s.addFlash(w, r, Flash{Kind: "success", Message: "Welcome back, " + sess.User.FirstName + "!"})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET and POST /logout. It succeeds with or without a session.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	claims := SessionFromContext(r.Context())
	if err := s.Auth.Logout(r.Context(), claims); err != nil {
		slog.Error("failed to revoke session", "error", err)
	}

	clearSessionCookie(w)
	if claims != nil {
		s.addFlash(w, r, Flash{Kind: "success", Message: "You have been logged out."})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
