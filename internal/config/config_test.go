package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/maison/internal/errors"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout.Std())
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce.Std())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.API.BaseURL = "https://shop.example.pk/api"
	cfg.API.Timeout = Duration(5 * time.Second)
	cfg.Defaults.Format = "json"
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 5s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("search:\n  debounce: 150ms\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce.Std())
	assert.Equal(t, DefaultAPIURL, cfg.API.BaseURL)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout: soon\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileUnmarshal, errors.CodeOf(err))
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		EnvAPIURL:          "http://api.internal:9000/api",
		EnvDataDir:         "/var/lib/maison",
		EnvLogLevel:        "debug",
		EnvLogFormat:       "json",
		EnvTokenPassphrase: "hunter2",
		EnvTimeout:         "45s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000/api", cfg.API.BaseURL)
	assert.Equal(t, "/var/lib/maison", cfg.Storage.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "hunter2", cfg.Auth.TokenPassphrase)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout.Std())

	err = cfg.ApplyEnv(mapLookup(map[string]string{EnvTimeout: "later"}))
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://from-file/api\nlogging:\n  level: info\n"), 0o600))
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("MAISON_API_URL=http://from-dotenv/api\nMAISON_LOG_LEVEL=error\n"), 0o600))
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Resolve(path, dotenv)
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv/api", cfg.API.BaseURL, ".env overrides the file")
	assert.Equal(t, "debug", cfg.Logging.Level, "the environment overrides .env")
}

func TestResolveMissingDotenvIgnored(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Resolve(filepath.Join(dir, FileName), filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "/api" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"negative debounce", func(c *Config) { c.Search.Debounce = Duration(-time.Second) }},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"output format", func(c *Config) { c.Defaults.Format = "csv" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("api.timeout", "10s"))
	v, err := cfg.Get("api.timeout")
	require.NoError(t, err)
	assert.Equal(t, "10s", v)

	require.NoError(t, cfg.Set("defaults.no_color", "true"))
	assert.True(t, cfg.Defaults.NoColor)

	err = cfg.Set("defaults.format", "csv")
	require.Error(t, err)
	assert.Equal(t, "text", cfg.Defaults.Format, "a rejected value leaves the config unchanged")

	err = cfg.Set("search.debounce", "soon")
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))

	_, err = cfg.Get("providers.default")
	assert.Equal(t, errors.ErrCodeConfigKey, errors.CodeOf(err))
	assert.Contains(t, Keys(), "storage.data_dir")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.maison")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".maison"), got)

	got, err = ExpandHome("/tmp/maison")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/maison", got)
}

func TestPathHonoursOverride(t *testing.T) {
	t.Setenv(EnvConfigFile, "/etc/maison.yaml")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/etc/maison.yaml", p)
}
