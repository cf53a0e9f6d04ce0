package api

import (
	"net/http"

	"hearth/services/hearth"
)

type createActivityRequest struct {
	Description      string `json:"description"`
	Location         string `json:"location"`
	Timing           string `json:"timing"`
	BuddyDescription string `json:"buddy_description"`
}

func (a *API) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	activity, err := a.service.CreateActivity(ctx, mustCaller(r).email, hearth.Activity{
		Description:      req.Description,
		Location:         req.Location,
		Timing:           req.Timing,
		BuddyDescription: req.BuddyDescription,
	})
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, activity)
}

func (a *API) handleListFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	items, err := a.service.ListFeed(ctx, mustCaller(r).email)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": nonNil(items)})
}

func (a *API) handleListOwned(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	items, err := a.service.ListOwned(ctx, mustCaller(r).email)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": nonNil(items)})
}

func (a *API) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "activityID")
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := a.service.DeleteActivity(ctx, mustCaller(r).email, id); err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	items, err := a.service.Dashboard(ctx, mustCaller(r).email)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": nonNil(items)})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
