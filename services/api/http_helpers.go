package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hearth/services/hearth"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

// respondServiceError maps the service error kinds onto HTTP statuses.
// Anything unclassified is logged and reported as an opaque 500.
func (a *API) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, hearth.ErrValidation):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, hearth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, hearth.ErrInvalidCredentials)
	case errors.Is(err, hearth.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, hearth.ErrUnauthenticated)
	case errors.Is(err, hearth.ErrForbidden):
		respondError(w, http.StatusForbidden, err)
	case errors.Is(err, hearth.ErrNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, hearth.ErrConflict):
		respondError(w, http.StatusConflict, err)
	default:
		a.log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		respondError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", hearth.ErrValidation, name, raw)
	}
	return id, nil
}
