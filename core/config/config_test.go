package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t", RunMode: "Polling"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback ", ""}},
		Metrics:   MetricsConfig{Listen: ":9090"},
	}
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, "wishbot:session", cfg.Session.KeyPrefix)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, []string{UpdateCallback, ""}, cfg.RateLimit.ExcludeUpdates)
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"nil token", Config{}, "Token"},
		{"webhook without url", Config{
			Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook},
		}, "webhook.url"},
		{"webhook without port", Config{
			Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook},
			Webhook:  WebhookConfig{URL: "https://x", Listen: "0.0.0.0"},
		}, "webhook.port"},
		{"unknown run mode", Config{
			Telegram: TelegramConfig{Token: "t", RunMode: "push"},
		}, "run_mode"},
		{"unknown excluded update", Config{
			Telegram:  TelegramConfig{Token: "t"},
			RateLimit: RateLimitConfig{ExcludeUpdates: []string{"poll"}},
		}, "exclude_updates"},
		{"redis without address", Config{
			Telegram: TelegramConfig{Token: "t"},
			Session:  SessionConfig{Backend: "redis"},
		}, "redis"},
		{"unknown session backend", Config{
			Telegram: TelegramConfig{Token: "t"},
			Session:  SessionConfig{Backend: "etcd"},
		}, "session.backend"},
		{"negative burst", Config{
			Telegram:  TelegramConfig{Token: "t"},
			RateLimit: RateLimitConfig{Burst: -1},
		}, "Burst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := Normalize(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
	assert.Error(t, Normalize(nil))
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram:
  token: file-token
  admin_id: 42
session:
  backend: redis
  redis_addr: localhost:6379
`), 0o600))
	t.Setenv("TELEGRAM_ADMIN_ID", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, int64(7), cfg.Telegram.AdminID)
	assert.Equal(t, SessionRedis, cfg.Session.Backend)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
