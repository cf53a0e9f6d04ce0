package api

import (
	"errors"
	"net/http"

	"hearth/services/hearth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	sess, err := a.service.Login(ctx, req.Email, req.Password)
	a.counters.logins.WithLabelValues(result(err)).Inc()
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}

	if err := a.issueCookie(w, sess); err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"email":      sess.Email,
		"expires_at": sess.ExpiresAt,
	})
}

type whoAmIResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
}

// handleWhoAmI reports the session state; anonymous callers are not an error.
func (a *API) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	c, err := a.resolveCaller(r)
	switch {
	case errors.Is(err, hearth.ErrUnauthenticated):
		respondJSON(w, http.StatusOK, whoAmIResponse{})
	case err != nil:
		a.respondServiceError(w, r, err)
	default:
		respondJSON(w, http.StatusOK, whoAmIResponse{LoggedIn: true, Email: c.email})
	}
}

// handleLogout always clears the cookie, even when the session is already gone.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	c, err := a.resolveCaller(r)
	if err != nil && !errors.Is(err, hearth.ErrUnauthenticated) {
		a.respondServiceError(w, r, err)
		return
	}

	if err == nil {
		ctx, cancel := withTimeout(r.Context())
		defer cancel()
		if err := a.service.Logout(ctx, c.sessionID); err != nil {
			a.respondServiceError(w, r, err)
			return
		}
	}

	a.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
