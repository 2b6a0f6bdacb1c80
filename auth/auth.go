// Package auth implements the admin credential check, JWT session tokens and
// the guard applied to session-gated endpoints.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phbpx/prits"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the cookie carrying the session token for browser clients.
const CookieName = "prits_session"

// MinSecretLength is the shortest accepted HMAC signing secret.
const MinSecretLength = 32

var ErrInvalidToken = errors.New("invalid or expired session token")

// Claims represents the session token claims. The subject is the admin email.
type Claims struct {
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subject and reports when it expires.
func (s *Sessions) Issue(subject string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks signature and expiry and returns the claims.
func (s *Sessions) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Guard decides whether a request may run a gated operation. A nil result
// allows the call; prits.ErrUnauthorized denies it.
type Guard func(r *http.Request) error

// Guard returns the guard that allows requests carrying a valid session.
func (s *Sessions) Guard() Guard {
	return func(r *http.Request) error {
		token := TokenFromRequest(r)
		if token == "" {
			return prits.ErrUnauthorized
		}
		if _, err := s.Verify(token); err != nil {
			return prits.ErrUnauthorized
		}
		return nil
	}
}

// TokenFromRequest reads a bearer token from the Authorization header, falling
// back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Admin is the single back-office credential.
type Admin struct {
	Email        string
	PasswordHash string
}

// Authenticator checks the admin credential and opens sessions.
type Authenticator struct {
	admin    Admin
	sessions *Sessions
}

func NewAuthenticator(admin Admin, sessions *Sessions) *Authenticator {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return &Authenticator{
		admin:    admin,
		sessions: sessions,
	}
}

// Login verifies email and password and issues a session token.
func (a *Authenticator) Login(email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.admin.Email)) == 1
	// The hash is compared even on an email mismatch so both failures cost the same.
	pwErr := bcrypt.CompareHashAndPassword([]byte(a.admin.PasswordHash), []byte(password))
	if !emailOK || a.admin.Email == "" || pwErr != nil {
		return "", time.Time{}, prits.ErrInvalidCredentials
	}

	return a.sessions.Issue(a.admin.Email)
}

// HashPassword returns the bcrypt hash stored in configuration.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
