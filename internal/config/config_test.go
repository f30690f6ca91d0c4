package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "unknown driver",
			config:  Config{DB: Database{Driver: "mysql", DSN: "x"}},
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "empty dsn",
			config:  Config{DB: Database{Driver: DriverSQLite, DSN: "  "}},
			wantErr: ErrDSNEmpty,
		},
		{
			name:    "unknown collection",
			config:  Config{DB: Database{Driver: DriverPostgres, DSN: "host=db"}, Collections: []string{"videos"}},
			wantErr: ErrCollectionUnknown,
		},
		{
			name:   "valid sqlite config",
			config: Config{DB: Database{Driver: DriverSQLite, DSN: "x.db"}, Collections: []string{"images"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "_journal_mode=WAL")
	assert.Equal(t, KnownCollections, cfg.Collections)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`addr: ":9090"
db:
  driver: postgres
  dsn: "host=localhost dbname=inquisition"
collections: [options]
`), 0o644))
	t.Setenv("INQUISITION_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, []string{"options"}, cfg.Collections)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INQUISITION_ADDR=:7070\n"), 0o644))
	// godotenv never overrides a variable that is already set, and t.Setenv
	// restores it afterwards.
	t.Setenv("INQUISITION_ADDR", "")
	require.NoError(t, os.Unsetenv("INQUISITION_ADDR"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
