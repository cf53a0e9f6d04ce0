package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hearth/pkg/telemetry"
)

// Routes constructs the chi router containing all API endpoints.
func (a *API) Routes() (http.Handler, error) {
	if a == nil {
		return nil, errors.New("nil api")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.Middleware(ServiceName, a.log, a.http))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", a.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(a.config.RateLimitPerMinute, time.Minute))

		r.Post("/access-code/check", a.handleCheckAccessCode)
		r.Post("/access-requests", a.handleRequestAccess)

		r.With(httprate.LimitByIP(a.config.LoginLimitPerMin, time.Minute)).Post("/sessions", a.handleLogin)
		r.Get("/sessions/current", a.handleWhoAmI)
		r.Delete("/sessions/current", a.handleLogout)

		r.Get("/profiles/exists", a.handleProfileExists)
		r.Post("/profiles", a.handleCreateProfile)

		r.Group(func(r chi.Router) {
			r.Use(a.requireSession)

			r.Get("/profiles/me", a.handleGetProfile)
			r.Patch("/profiles/me", a.handleUpdateProfile)
			r.Delete("/profiles/me", a.handleDeleteAccount)

			r.Post("/activities", a.handleCreateActivity)
			r.Get("/activities/feed", a.handleListFeed)
			r.Get("/activities/mine", a.handleListOwned)
			r.Delete("/activities/{activityID}", a.handleDeleteActivity)
			r.Post("/activities/{activityID}/matches", a.handleRequestMatch)
			r.Get("/activities/{activityID}/matches", a.handleListMatches)

			r.Post("/matches/{matchID}/approve", a.handleApproveMatch)
			r.Delete("/matches/{matchID}", a.handleDeleteMatch)

			r.Get("/dashboard", a.handleDashboard)
		})
	})

	return r, nil
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if err := a.service.Store().Ping(ctx); err != nil {
		a.log.Warn().Err(err).Msg("readiness check failed")
		respondError(w, http.StatusServiceUnavailable, errors.New("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
