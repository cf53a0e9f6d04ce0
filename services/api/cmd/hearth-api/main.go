package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hearth/pkg/bus"
	"hearth/pkg/db"
	"hearth/pkg/render"
	"hearth/pkg/telemetry"
	"hearth/services/api"
	"hearth/services/api/internal/config"
	"hearth/services/hearth"
	"hearth/services/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("validate config")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	logger := log.With().Str("service", api.ServiceName).Logger()

	cleanup, err := telemetry.Init(ctx, api.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown otel")
		}
	}()

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, cfg.DBDSN); err != nil {
			logger.Fatal().Err(err).Msg("migrate database")
		}
	}

	database, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error().Err(err).Msg("close database")
		}
	}()

	engine, err := render.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("load templates")
	}

	notifiers := notify.Fanout{notify.LogNotifier{Logger: logger}}
	if cfg.NATSURL != "" {
		b, err := bus.New(cfg.NATSURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect nats")
		}
		defer b.Close()
		if err := b.EnsureStream(notify.StreamName, notify.SubjectWildcard); err != nil {
			logger.Fatal().Err(err).Msg("ensure notification stream")
		}
		publisher, err := notify.NewBusNotifier(b)
		if err != nil {
			logger.Fatal().Err(err).Msg("bus notifier")
		}
		notifiers = append(notifiers, publisher)
	} else if cfg.MailEnabled() {
		mailer, err := notify.NewMailNotifier(mailConfig(cfg))
		if err != nil {
			logger.Fatal().Err(err).Msg("mail notifier")
		}
		notifiers = append(notifiers, mailer)
	}

	store, err := hearth.NewStore(database)
	if err != nil {
		logger.Fatal().Err(err).Msg("init store")
	}
	svc, err := hearth.NewService(store, notifiers, engine, hearth.Config{
		AccessCodes: cfg.AccessCodes,
		SessionTTL:  cfg.SessionTTL,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init service")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handlerAPI, err := api.New(svc, api.Config{
		SessionSecret:      []byte(cfg.SessionSecret),
		CookieDomain:       cfg.CookieDomain,
		CookieSecure:       cfg.CookieSecure,
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, logger, registry)
	if err != nil {
		logger.Fatal().Err(err).Msg("init api")
	}
	router, err := handlerAPI.Routes()
	if err != nil {
		logger.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("starting hearth-api")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown server")
	}
	if err := svc.Drain(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("notifications still in flight")
	}
}

func mailConfig(cfg config.Config) notify.MailConfig {
	return notify.MailConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUser,
		Password:   cfg.SMTPPassword,
		From:       cfg.SMTPFrom,
		AdminEmail: cfg.AdminEmail,
	}
}
