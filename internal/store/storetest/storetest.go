// Package storetest opens throwaway SQLite databases with the schema applied.
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/m3rciful/wishbot/core/database"
	"github.com/m3rciful/wishbot/migrations"
)

// Open creates a migrated SQLite database in t's temp dir and closes it on cleanup.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	cfg := coredatabase.Config{
		Driver: coredatabase.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "wishbot.db"),
	}
	require.NoError(t, cfg.Normalize())

	src, err := migrations.For(cfg.Driver)
	require.NoError(t, err)
	require.NoError(t, coredatabase.RunMigrations(cfg, src))

	db, err := coredatabase.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
