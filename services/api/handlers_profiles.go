package api

import (
	"net/http"

	"hearth/services/hearth"
)

type createProfileRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	AccessCode     string `json:"access_code"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	AboutMe        string `json:"about_me"`
	OnlinePresence string `json:"online_presence"`
	Phone          string `json:"phone"`
}

func (a *API) handleProfileExists(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	exists, err := a.service.ProfileExists(ctx, r.URL.Query().Get("email"))
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (a *API) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	profile, err := a.service.CreateProfile(ctx, hearth.Profile{
		Email:          req.Email,
		Name:           req.Name,
		Location:       req.Location,
		AboutMe:        req.AboutMe,
		OnlinePresence: req.OnlinePresence,
		Phone:          req.Phone,
	}, req.Password, req.AccessCode)
	a.counters.signups.WithLabelValues(result(err)).Inc()
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, profile)
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	profile, err := a.service.GetProfile(ctx, mustCaller(r).email)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch hearth.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	profile, err := a.service.UpdateProfile(ctx, mustCaller(r).email, patch)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (a *API) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := a.service.DeleteAccount(ctx, mustCaller(r).email); err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	a.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
