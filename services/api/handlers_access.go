package api

import (
	"net/http"
)

type accessCodeRequest struct {
	Code string `json:"code"`
}

type accessRequestRequest struct {
	Email string `json:"email"`
}

func (a *API) handleCheckAccessCode(w http.ResponseWriter, r *http.Request) {
	var req accessCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"valid": a.service.CheckAccessCode(req.Code)})
}

func (a *API) handleRequestAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	entry, err := a.service.RequestAccess(ctx, req.Email)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}
