package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phbpx/prits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newSessions(t *testing.T) *Sessions {
	t.Helper()
	s, err := NewSessions(testSecret, time.Hour)
	require.NoError(t, err)
	return s
}

func TestNewSessionsRejectsShortSecret(t *testing.T) {
	_, err := NewSessions("short", time.Hour)
	assert.Error(t, err)
}

func TestIssueVerify(t *testing.T) {
	s := newSessions(t)

	token, expiresAt, err := s.Issue("admin@prits.test")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@prits.test", claims.Subject)
}

func TestVerifyRejects(t *testing.T) {
	s := newSessions(t)

	expired := newSessions(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue("admin@prits.test")
	require.NoError(t, err)

	other, err := NewSessions("fedcba9876543210fedcba9876543210", time.Hour)
	require.NoError(t, err)
	foreignToken, _, err := other.Issue("admin@prits.test")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGuard(t *testing.T) {
	s := newSessions(t)
	guard := s.Guard()

	token, _, err := s.Issue("admin@prits.test")
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		wantErr error
	}{
		{
			name:    "no session",
			prepare: func(*http.Request) {},
			wantErr: prits.ErrUnauthorized,
		},
		{
			name:    "bearer token",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
		},
		{
			name:    "cookie",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) },
		},
		{
			name:    "bad bearer",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantErr: prits.ErrUnauthorized,
		},
		{
			name:    "non bearer scheme",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) },
			wantErr: prits.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/enquiries", nil)
			tt.prepare(r)

			err := guard(r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	s := newSessions(t)
	a := NewAuthenticator(Admin{Email: "Admin@Prits.test", PasswordHash: string(hash)}, s)

	t.Run("valid credential", func(t *testing.T) {
		token, _, err := a.Login(" admin@prits.test ", "hunter2")
		require.NoError(t, err)
		claims, err := s.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "admin@prits.test", claims.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := a.Login("admin@prits.test", "hunter3")
		assert.ErrorIs(t, err, prits.ErrInvalidCredentials)
	})

	t.Run("wrong email", func(t *testing.T) {
		_, _, err := a.Login("someone@prits.test", "hunter2")
		assert.ErrorIs(t, err, prits.ErrInvalidCredentials)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	_, err = HashPassword("")
	assert.Error(t, err)
}
