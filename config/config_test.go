package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashir876/Catch-Collect-sub001/config"
)

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	// GIVEN: A path that does not exist
	// WHEN: Loading
	// THEN: The defaults come back without error

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "collect.db", cfg.Database.Path)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// GIVEN: A config file setting the port and database path
	// WHEN: Loading it
	// THEN: File values win, unset values keep their defaults

	path := filepath.Join(t.TempDir(), "collect.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 3000

[database]
path = "/tmp/cards.db"
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/tmp/cards.db", cfg.Database.Path)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins, "unset fields keep defaults")
}

func TestLoad_InvalidPort_Rejected(t *testing.T) {
	// GIVEN: A config file with an out-of-range port
	// WHEN: Loading it
	// THEN: Validation fails

	path := filepath.Join(t.TempDir(), "collect.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = -1\n"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
