package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojf/inquisition/internal/config"
	"github.com/lojf/inquisition/internal/db"
)

func openTemp(t *testing.T) config.Database {
	t.Helper()
	return config.Database{
		Driver:   config.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), config.DefaultSQLiteDSN),
		LogLevel: "silent",
	}
}

// TestWALMode verifies that the default DSN parameters, placed in a temp
// directory, enable WAL journal mode.
func TestWALMode(t *testing.T) {
	conn, err := db.Open(openTemp(t))
	require.NoError(t, err)

	var mode string
	require.NoError(t, conn.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := db.Open(config.Database{Driver: "oracle", DSN: "x"})
	assert.ErrorIs(t, err, config.ErrDriverUnknown)
}

// TestMigrate_CreatesIndexes checks the display order indexes on both
// child tables.
func TestMigrate_CreatesIndexes(t *testing.T) {
	conn, err := db.Open(openTemp(t))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	// Running it twice must be harmless.
	require.NoError(t, db.Migrate(conn))

	sqlDB, err := conn.DB()
	require.NoError(t, err)

	assert.True(t, indexNames(t, sqlDB, "question_image_bindings")["idx_binding_question_order"])
	assert.True(t, indexNames(t, sqlDB, "question_options")["idx_option_question_order"])
}

func indexNames(t *testing.T, sqlDB *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := sqlDB.Query("PRAGMA index_list(" + table + ")")
	require.NoError(t, err)
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		require.NoError(t, rows.Scan(&seq, &name, &unique, &origin, &partial))
		out[name] = true
	}
	return out
}
