package config

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the hearth API and its CLI.
type Config struct {
	Addr               string        `env:"HEARTH_ADDR,default=:8080"`
	Env                string        `env:"APP_ENV,default=development"`
	LogLevel           string        `env:"LOG_LEVEL,default=info"`
	DBDSN              string        `env:"DB_DSN,required"`
	DBMigrate          bool          `env:"DB_MIGRATE,default=true"`
	AllowedOrigins     []string      `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE,default=100"`
	SessionSecret      string        `env:"SESSION_SECRET"`
	SessionTTL         time.Duration `env:"SESSION_TTL,default=24h"`
	CookieDomain       string        `env:"COOKIE_DOMAIN"`
	CookieSecure       bool          `env:"COOKIE_SECURE,default=false"`
	AccessCodes        []string      `env:"HEARTH_ACCESS_CODES"`
	AdminEmail         string        `env:"ADMIN_EMAIL"`
	SMTPHost           string        `env:"SMTP_HOST"`
	SMTPPort           int           `env:"SMTP_PORT,default=587"`
	SMTPUser           string        `env:"SMTP_USER"`
	SMTPPassword       string        `env:"SMTP_PASSWORD"`
	SMTPFrom           string        `env:"SMTP_FROM"`
	NATSURL            string        `env:"NATS_URL"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c Config) ValidateServer() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes")
	}
	return nil
}

// MailEnabled reports whether SMTP delivery is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.AdminEmail != ""
}
