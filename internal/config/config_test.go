package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "contacts.db", filepath.Base(cfg.Database.Path))
}

func TestLoadFrom_OverridesAndExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
path = "~/data/contacts.db"

[export]
dir = "/tmp/exports"

[log]
level = "debug"
`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "contacts.db"), cfg.Database.Path)
	assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, Default().Log.Path, cfg.Log.Path, "unset keys keep their defaults")
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database\npath ="), 0644))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Export.Dir = "/srv/exports"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
