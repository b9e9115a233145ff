package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sidebars:
  path: website/sidebars.js
  format: js
store:
  path: nav.db
log:
  level: debug
  console: true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "website/sidebars.js", cfg.Sidebars.Path)
	assert.Equal(t, "js", cfg.Sidebars.Format)
	assert.Empty(t, cfg.Sidebars.Sidebar, "unset keys keep defaults")
	assert.Equal(t, "nav.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DOCNAV_SIDEBARS", "other.json")
	t.Setenv("DOCNAV_DB", "env.db")
	t.Setenv("DOCNAV_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "other.json", cfg.Sidebars.Path)
	assert.Equal(t, "env.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sidebars: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
