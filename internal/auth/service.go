package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/campuscare/internal/model"
	"github.com/erazemk/campuscare/internal/store"
)

// Service registers accounts and manages login sessions.
type Service struct {
	DB     *sql.DB
	Secret string

	// Cost is the bcrypt work factor. Zero means bcrypt.DefaultCost.
	Cost int
}

// Registration is the signup form.
type Registration struct {
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Session is the result of a successful login.
type Session struct {
	Token  string
	Claims *Claims
	User   *model.User
}

// ExpiresAt returns when the session token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	return s.Claims.ExpiresAt.Time
}

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)

// normalizePhone strips the separators people type into phone numbers.
func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

// Validate checks the signup form and returns a *model.ValidationError keyed
// by form field name.
func (r *Registration) Validate() error {
	var verr model.ValidationError

	firstName := strings.TrimSpace(r.FirstName)
	lastName := strings.TrimSpace(r.LastName)

	switch {
	case firstName == "":
		verr.Add("first-name", "First name is required.")
	case len([]rune(firstName)) < model.MinNameLength:
		verr.Add("first-name", "First name must be at least 2 characters long.")
	}
	switch {
	case lastName == "":
		verr.Add("last-name", "Last name is required.")
	case len([]rune(lastName)) < model.MinNameLength:
		verr.Add("last-name", "Last name must be at least 2 characters long.")
	}

	email := model.NormalizeEmail(r.Email)
	if email == "" {
		verr.Add("email", "Email is required.")
	} else if err := model.ValidateEmail(email); err != nil {
		verr.Add("email", "Please enter a valid email address.")
	}

	if phone := normalizePhone(r.Phone); phone != "" && !phonePattern.MatchString(phone) {
		verr.Add("phone", "Please enter a valid phone number.")
	}

	switch err := model.ValidatePassword(r.Password); {
	case errors.Is(err, model.ErrPasswordTooLong):
		verr.Add("password", "Password must be at most 72 bytes long.")
	case err != nil:
		verr.Add("password", "Password must be at least 6 characters long.")
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		verr.Add("confirm-password", "Passwords do not match.")
	}

	return verr.Err()
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

// Register creates an account. It does not log the user in.
func (s *Service) Register(ctx context.Context, reg Registration) (*model.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(reg.Email)

	existing, err := store.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if existing != nil {
		return nil, model.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost())
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// The unique index on email catches a concurrent signup that slipped
	// between the check above and this insert.
	user, err := store.CreateUser(ctx, s.DB, &model.User{
		Email:        email,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		Phone:        normalizePhone(reg.Phone),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// dummyHash is compared against when the email is unknown so that both failure
// paths of Login cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("campuscare-no-such-user"), bcrypt.DefaultCost)
	return hash
})

// Login checks credentials and issues a session. Every failure is reported as
// model.ErrAuthFailed.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*Session, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, model.ErrAuthFailed
	}

	user, err := store.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		slog.Warn("login failed", "email", email)
		return nil, model.ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", email)
		return nil, model.ErrAuthFailed
	}

	token, claims, err := GenerateToken(s.Secret, user, remember)
	if err != nil {
		return nil, fmt.Errorf("issuing session: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "remember", remember)
	return &Session{Token: token, Claims: claims, User: user}, nil
}

// Validate returns the claims of a live session token. Expired, forged and
// logged-out tokens are rejected.
func (s *Service) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := ValidateToken(s.Secret, token)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := store.IsTokenRevoked(ctx, s.DB, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errors.New("token has been revoked")
		}
	}

	return claims, nil
}

// Logout ends the session described by claims. A nil claims value means there
// was no session and is not an error.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	expiresAt := time.Now().Add(RememberExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := store.RevokeToken(ctx, s.DB, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("ending session: %w", err)
	}

	slog.Info("user logged out", "user_id", claims.UserID)
	return nil
}
