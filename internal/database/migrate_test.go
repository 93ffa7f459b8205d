package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SQLite(t *testing.T) {
	db, err := Connect(Config{
		Driver:           DriverSQLite,
		ConnectionString: "file:" + filepath.Join(t.TempDir(), "migrate.db"),
		ConnMaxLifetime:  time.Hour,
	})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, Migrate(db, DriverSQLite))

	// Running again is a no-op
	require.NoError(t, Migrate(db, DriverSQLite))

	for _, table := range []string{"events", "course_endpoints"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).
			Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	db, _ := newMockDB(t)

	err := Migrate(db, "oracle")
	assert.ErrorContains(t, err, "unsupported database driver")
}
