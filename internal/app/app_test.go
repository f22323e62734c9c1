package app

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/wishbot/core/config"
	coredatabase "github.com/m3rciful/wishbot/core/database"
	tg "github.com/m3rciful/wishbot/core/telegram"
)

func sqliteConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{
		Config: coreconfig.Config{
			Telegram: coreconfig.TelegramConfig{Token: "123:abc"},
			Metrics:  coreconfig.MetricsConfig{Listen: "127.0.0.1:0"},
		},
		Database: coredatabase.Config{
			Driver: coredatabase.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "wishbot.db"),
		},
	}
	require.NoError(t, cfg.Normalize())
	return cfg
}

func TestBootstrapWiresRuntime(t *testing.T) {
	cfg := sqliteConfig(t)
	carrier, err := Bootstrap(cfg)
	require.NoError(t, err)
	a := carrier.(*App)
	t.Cleanup(func() { _ = a.Close() })

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.Same(t, &cfg.Config, opts.Config)
	assert.NotEmpty(t, opts.Routes)

	names := make([]string, 0, len(opts.Middlewares))
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	assert.Contains(t, names, "recover")
	assert.Contains(t, names, "ensure_user")

	_, ok := opts.Registry.GetCallback("wish_delete_confirm")
	assert.True(t, ok)

	require.NoError(t, opts.OnStart(context.Background(), tg.Runtime{}))
	resp, err := http.Get("http://" + a.metricsServer.Addr() + cfg.Metrics.Path)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "go_goroutines")

	require.NoError(t, opts.OnStop(context.Background(), tg.Runtime{}))
	assert.Nil(t, a.metricsServer)
}

func TestBootstrapRejectsForeignConfig(t *testing.T) {
	_, err := Bootstrap(foreignConfig{})
	assert.Error(t, err)
}

type foreignConfig struct{}

func (foreignConfig) CoreConfig() *coreconfig.Config { return &coreconfig.Config{} }
