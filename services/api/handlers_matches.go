package api

import (
	"net/http"
)

func (a *API) handleRequestMatch(w http.ResponseWriter, r *http.Request) {
	activityID, err := pathID(r, "activityID")
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	match, err := a.service.RequestMatch(ctx, mustCaller(r).email, activityID)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	a.counters.matches.WithLabelValues("requested").Inc()
	respondJSON(w, http.StatusCreated, match)
}

func (a *API) handleListMatches(w http.ResponseWriter, r *http.Request) {
	activityID, err := pathID(r, "activityID")
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	matches, err := a.service.ListMatchesForActivity(ctx, mustCaller(r).email, activityID)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": nonNil(matches)})
}

func (a *API) handleApproveMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	match, err := a.service.ApproveMatch(ctx, mustCaller(r).email, matchID)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	a.counters.matches.WithLabelValues("approved").Inc()
	respondJSON(w, http.StatusOK, match)
}

func (a *API) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := a.service.DeleteMatch(ctx, mustCaller(r).email, matchID); err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	a.counters.matches.WithLabelValues("deleted").Inc()
	w.WriteHeader(http.StatusNoContent)
}
