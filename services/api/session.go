package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hearth/services/hearth"
)

const tokenIssuer = "hearth"

type ctxKey int

const callerKey ctxKey = iota

type caller struct {
	email     string
	sessionID uuid.UUID
}

func callerFrom(ctx context.Context) (caller, bool) {
	c, ok := ctx.Value(callerKey).(caller)
	return c, ok
}

// issueCookie signs a token naming the session and sets it as an HttpOnly cookie.
func (a *API) issueCookie(w http.ResponseWriter, sess hearth.Session) error {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID.String(),
		Subject:   sess.Email,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.config.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   a.config.CookieDomain,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   a.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (a *API) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.config.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   a.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// resolveCaller verifies the session cookie and confirms the session is
// still active server-side.
func (a *API) resolveCaller(r *http.Request) (caller, error) {
	cookie, err := r.Cookie(a.config.CookieName)
	if err != nil || cookie.Value == "" {
		return caller{}, hearth.ErrUnauthenticated
	}

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (any, error) {
		return a.config.SessionSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return caller{}, hearth.ErrUnauthenticated
	}

	sid, err := uuid.Parse(claims.ID)
	if err != nil {
		return caller{}, hearth.ErrUnauthenticated
	}

	email, err := a.service.WhoAmI(r.Context(), sid)
	if err != nil {
		return caller{}, err
	}
	if email != claims.Subject {
		return caller{}, hearth.ErrUnauthenticated
	}
	return caller{email: email, sessionID: sid}, nil
}

// requireSession rejects requests without an active session and exposes the
// caller to downstream handlers.
func (a *API) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := a.resolveCaller(r)
		if err != nil {
			if !errors.Is(err, hearth.ErrUnauthenticated) {
				a.respondServiceError(w, r, err)
				return
			}
			respondError(w, http.StatusUnauthorized, hearth.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, c)))
	})
}

func mustCaller(r *http.Request) caller {
	c, ok := callerFrom(r.Context())
	if !ok {
		panic("api: handler mounted without requireSession")
	}
	return c
}
