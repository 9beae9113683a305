package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "pixels", cfg.Linking.LinkType)
	assert.Equal(t, "pixels", cfg.Linking.WCSFallbackScheme)
	assert.True(t, cfg.Linking.UseAffine)
	assert.False(t, cfg.Linking.ErrorOnFail)
	assert.Equal(t, 1, cfg.Viewers.Count)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "session.json", cfg.Session.Path)

	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
linking:
  linkType: wcs
  wcsFallbackScheme: ""
  useAffine: false
viewers:
  count: 3
logging:
  level: debug
  json: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wcs", cfg.Linking.LinkType)
	assert.Empty(t, cfg.Linking.WCSFallbackScheme)
	assert.False(t, cfg.Linking.UseAffine)
	assert.Equal(t, 3, cfg.Viewers.Count)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	// untouched sections keep their defaults
	assert.Equal(t, "session.json", cfg.Session.Path)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("linking: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config file")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg := Default()
	cfg.Linking.LinkType = "wcs"
	cfg.Viewers.Count = 2
	cfg.Logging.Level = "warn"

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad link type",
			mutate:  func(c *Config) { c.Linking.LinkType = "world" },
			wantErr: `invalid linking.linkType "world"`,
		},
		{
			name:    "bad fallback scheme",
			mutate:  func(c *Config) { c.Linking.WCSFallbackScheme = "wcs" },
			wantErr: `invalid linking.wcsFallbackScheme "wcs"`,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: `invalid logging.level "verbose"`,
		},
		{
			name:    "zero viewers",
			mutate:  func(c *Config) { c.Viewers.Count = 0 },
			wantErr: "viewers.count must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewers:\n  count: 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestWatcherChecksModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(Default(), path))

	w := NewWatcher(path, time.Minute, nil)

	_, ok := w.checkForUpdate()
	assert.False(t, ok, "unchanged file must not reload")

	cfg := Default()
	cfg.Logging.Level = "debug"
	require.NoError(t, Save(cfg, path))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	loaded, ok := w.checkForUpdate()
	require.True(t, ok)
	assert.Equal(t, "debug", loaded.Logging.Level)

	_, ok = w.checkForUpdate()
	assert.False(t, ok, "reload must advance the baseline")
}

func TestWatcherKeepsRunningConfigOnBadEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(Default(), path))

	w := NewWatcher(path, time.Minute, nil)

	require.NoError(t, os.WriteFile(path, []byte("viewers:\n  count: 0\n"), 0644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	_, ok := w.checkForUpdate()
	assert.False(t, ok)

	_, ok = w.checkForUpdate()
	assert.False(t, ok, "broken edit is reported once")
}
