package commands

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/coursehook/internal/testutil"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to connect to database")
	})

	t.Run("sqlite", func(t *testing.T) {
		dsn := testutil.SQLiteDSN(filepath.Join(t.TempDir(), "coursehook.db"))

		require.NoError(t, RunMigrations(logger, "sqlite3", dsn))
		require.NoError(t, RunMigrations(logger, "sqlite3", dsn), "migrations must be idempotent")
	})
}
