package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"hearth/pkg/telemetry"
	"hearth/services/hearth"
)

const (
	// ServiceName labels traces, metrics and logs emitted by the HTTP API.
	ServiceName = "hearth-api"

	defaultCookieName   = "hearth_session"
	defaultRateLimit    = 100
	defaultLoginLimit   = 10
	maxRequestBodyBytes = 1 << 20
)

// Config controls runtime behaviour for the API handlers.
type Config struct {
	SessionSecret      []byte
	CookieName         string
	CookieDomain       string
	CookieSecure       bool
	AllowedOrigins     []string
	RateLimitPerMinute int
	LoginLimitPerMin   int
}

// API wires the matching service, configuration and instrumentation for HTTP handlers.
type API struct {
	service  *hearth.Service
	config   Config
	log      zerolog.Logger
	registry *prometheus.Registry
	http     *telemetry.Metrics
	counters *counters
}

// New initialises the API layer with sane defaults applied to the provided configuration.
func New(service *hearth.Service, cfg Config, logger zerolog.Logger, registry *prometheus.Registry) (*API, error) {
	if service == nil {
		return nil, errors.New("service is required")
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if registry == nil {
		return nil, errors.New("metrics registry is required")
	}
	if len(cfg.AllowedOrigins) == 0 {
		return nil, errors.New("at least one allowed origin is required")
	}
	for _, origin := range cfg.AllowedOrigins {
		if strings.Contains(origin, "*") {
			return nil, fmt.Errorf("allowed origin %q: wildcards cannot be combined with credentialed cookies", origin)
		}
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = defaultRateLimit
	}
	if cfg.LoginLimitPerMin <= 0 {
		cfg.LoginLimitPerMin = defaultLoginLimit
	}

	httpMetrics, err := telemetry.NewMetrics(registry, ServiceName)
	if err != nil {
		return nil, err
	}
	domain, err := newCounters(registry)
	if err != nil {
		return nil, err
	}

	return &API{
		service:  service,
		config:   cfg,
		log:      logger,
		registry: registry,
		http:     httpMetrics,
		counters: domain,
	}, nil
}
