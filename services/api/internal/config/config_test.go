package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN": "postgres://localhost/hearth",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.DBMigrate)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.AccessCodes)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN":              "postgres://localhost/hearth",
		"HEARTH_ACCESS_CODES": "alpha,beta",
		"SESSION_TTL":         "2h",
		"SMTP_HOST":           "mail.local",
		"ADMIN_EMAIL":         "admin@x.com",
		"DB_MIGRATE":          "false",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, cfg.AccessCodes)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.DBMigrate)
	assert.True(t, cfg.MailEnabled())
}

func TestLoadRequiresDSN(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestValidateServer(t *testing.T) {
	assert.Error(t, Config{SessionSecret: "short"}.ValidateServer())
	assert.NoError(t, Config{SessionSecret: strings.Repeat("k", 32)}.ValidateServer())
}
