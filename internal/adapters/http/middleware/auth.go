package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session roles
const (
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

const (
	sessionCookieName = "dojo_session"
	tokenIssuer       = "dojoroster"
)

// Session errors
var (
	ErrInvalidToken = errors.New("session token is invalid")
	ErrExpiredToken = errors.New("session token is expired")
	ErrInvalidRole  = errors.New("session role must be trainer or admin")
)

// Session represents an authenticated caller. Subject is the trainer id for
// trainers and the admin id for admins.
type Session struct {
	Subject    string
	Email      string
	Name       string
	Role       string
	ClubID     string
	SuperAdmin bool
	ExpiresAt  time.Time
}

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	ClubID     string `json:"club_id,omitempty"`
	SuperAdmin bool   `json:"super_admin,omitempty"`
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	key []byte
	ttl time.Duration
	Now func() time.Time
}

// NewTokens creates a token signer.
// PRE: len(key) > 0, ttl > 0
// POST: Returns a signer whose tokens expire ttl after issue
func NewTokens(key []byte, ttl time.Duration) *Tokens {
	return &Tokens{key: key, ttl: ttl, Now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for the session. ExpiresAt is set from the TTL.
// PRE: s.Subject is non-empty, s.Role is trainer or admin
// POST: Returns the signed token and the session as carried by it
func (t *Tokens) Issue(s Session) (string, Session, error) {
	if strings.TrimSpace(s.Subject) == "" {
		return "", Session{}, ErrInvalidToken
	}
	if s.Role != RoleTrainer && s.Role != RoleAdmin {
		return "", Session{}, ErrInvalidRole
	}
	now := t.Now().UTC()
	s.ExpiresAt = now.Add(t.ttl).Truncate(time.Second)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   s.Subject,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		Email:      s.Email,
		Name:       s.Name,
		Role:       s.Role,
		ClubID:     s.ClubID,
		SuperAdmin: s.SuperAdmin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, s, nil
}

// Verify checks the signature and expiry of a token.
// PRE: none
// POST: Returns the session, or ErrInvalidToken / ErrExpiredToken
func (t *Tokens) Verify(token string) (Session, error) {
	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &parsed, func(*jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrExpiredToken
		}
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed.Subject == "" || (parsed.Role != RoleTrainer && parsed.Role != RoleAdmin) {
		return Session{}, ErrInvalidToken
	}
	return Session{
		Subject:    parsed.Subject,
		Email:      parsed.Email,
		Name:       parsed.Name,
		Role:       parsed.Role,
		ClubID:     parsed.ClubID,
		SuperAdmin: parsed.SuperAdmin,
		ExpiresAt:  parsed.ExpiresAt.Time.UTC(),
	}, nil
}

// Auth returns middleware that verifies the session token from the cookie or
// an Authorization bearer header and puts the session in context.
// Missing, invalid and expired tokens leave the request anonymous; use
// RequireAuth or RequireRole to block.
func Auth(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := tokenFromRequest(r); raw != "" {
				session, err := tokens.Verify(raw)
				if err == nil {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				} else {
					slog.Debug("session_rejected", "path", r.URL.Path, "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth returns middleware that blocks anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks requests from sessions without one of the specified roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !roleSet[session.Role] {
				slog.Warn("auth_denied", "path", r.URL.Path, "subject", session.Subject, "role", session.Role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
