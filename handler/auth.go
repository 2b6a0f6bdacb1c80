package handler

import (
	"net/http"
	"time"

	"github.com/phbpx/prits/auth"
	"github.com/phbpx/prits/metrics"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type AuthHandler struct {
	auth         *auth.Authenticator
	secureCookie bool
	log          *otelzap.SugaredLogger
}

func NewAuthHandler(a *auth.Authenticator, secureCookie bool, log *otelzap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		auth:         a,
		secureCookie: secureCookie,
		log:          log,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (ah AuthHandler) Login(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var c credentials
	if err := decode(rw, r, &c); err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	token, expiresAt, err := ah.auth.Login(c.Email, c.Password)
	metrics.RecordAuthAttempt(err == nil)
	if err != nil {
		ah.log.Ctx(ctx).Warnw("Login", "error", err.Error(), "remote", r.RemoteAddr)
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	http.SetCookie(rw, ah.cookie(token, expiresAt))
	respond(ctx, rw, http.StatusOK, session{Token: token, ExpiresAt: expiresAt})
}

// Logout clears the session cookie. Tokens are stateless and stay valid until
// they expire.
func (ah AuthHandler) Logout(rw http.ResponseWriter, r *http.Request) {
	c := ah.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(rw, c)
	respond(r.Context(), rw, http.StatusNoContent, nil)
}

func (ah AuthHandler) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   ah.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
