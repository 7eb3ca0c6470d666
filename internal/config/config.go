// Package config loads Maison's settings from ~/.maison/config.yaml, a .env
// file and MAISON_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/maison/internal/errors"
)

// Defaults.
const (
	DefaultAPIURL   = "http://localhost:8000/api"
	DefaultDirName  = ".maison"
	DefaultTimeout  = 30 * time.Second
	DefaultDebounce = 300 * time.Millisecond
	FileName        = "config.yaml"
)

// Environment variables.
const (
	EnvConfigFile      = "MAISON_CONFIG"
	EnvAPIURL          = "MAISON_API_URL"
	EnvDataDir         = "MAISON_DATA_DIR"
	EnvLogLevel        = "MAISON_LOG_LEVEL"
	EnvLogFormat       = "MAISON_LOG_FORMAT"
	EnvTokenPassphrase = "MAISON_TOKEN_PASSPHRASE"
	EnvTimeout         = "MAISON_TIMEOUT"
)

// Duration is a time.Duration written as "30s" in YAML and JSON.
type Duration time.Duration

// Std converts to time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the full client configuration.
type Config struct {
	API      APIConfig      `yaml:"api" json:"api"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Search   SearchConfig   `yaml:"search" json:"search"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
	Defaults OutputDefaults `yaml:"defaults" json:"defaults"`
	Auth     AuthConfig     `yaml:"auth,omitempty" json:"-"`
}

type APIConfig struct {
	BaseURL string   `yaml:"base_url" json:"base_url"`
	Timeout Duration `yaml:"timeout" json:"timeout"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type SearchConfig struct {
	Debounce Duration `yaml:"debounce" json:"debounce"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // text, json
}

type OutputDefaults struct {
	Format  string `yaml:"format" json:"format"` // text, json, yaml
	NoColor bool   `yaml:"no_color,omitempty" json:"no_color"`
}

// AuthConfig is kept out of JSON output.
type AuthConfig struct {
	TokenPassphrase string `yaml:"token_passphrase,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultAPIURL,
			Timeout: Duration(DefaultTimeout),
		},
		Storage: StorageConfig{DataDir: "~/" + DefaultDirName},
		Search:  SearchConfig{Debounce: Duration(DefaultDebounce)},
		Logging: LoggingConfig{Level: "warn", Format: "text"},
		Defaults: OutputDefaults{
			Format: "text",
		},
	}
}

// Path returns the configuration file location: $MAISON_CONFIG, or
// ~/.maison/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, FileName), nil
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read config", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write config", err)
	}
	return nil
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup layers the process environment over the variables defined in a
// .env file. A missing .env file is ignored.
func EnvLookup(dotenv string) (LookupFunc, error) {
	fileVars := map[string]string{}
	if dotenv != "" {
		vars, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			fileVars = vars
		case !os.IsNotExist(err):
			return nil, errors.NewFileUnmarshalError(dotenv, "dotenv", err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides cfg with MAISON_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.Storage.DataDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvTokenPassphrase); ok {
		c.Auth.TokenPassphrase = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfigInvalid, EnvTimeout+" is not a duration", err)
		}
		c.API.Timeout = Duration(d)
	}
	return nil
}

// Resolve loads the file at path, then applies the .env file and the
// environment, and validates the result.
func Resolve(path, dotenv string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	lookup, err := EnvLookup(dotenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	logLevels     = []string{"debug", "info", "warn", "warning", "error"}
	logFormats    = []string{"text", "json"}
	outputFormats = []string{"text", "json", "yaml"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf(format, args...)).
		WithSuggestion("Run 'maison config view' to inspect the effective configuration")
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return invalid("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Search.Debounce < 0 {
		return invalid("search.debounce must not be negative, got %s", c.Search.Debounce)
	}
	if c.Storage.DataDir == "" {
		return invalid("storage.data_dir must be set")
	}
	if !oneOf(c.Logging.Level, logLevels) {
		return invalid("logging.level %q is not one of %v", c.Logging.Level, logLevels)
	}
	if !oneOf(c.Logging.Format, logFormats) {
		return invalid("logging.format %q is not one of %v", c.Logging.Format, logFormats)
	}
	if !oneOf(c.Defaults.Format, outputFormats) {
		return invalid("defaults.format %q is not one of %v", c.Defaults.Format, outputFormats)
	}
	return nil
}

// DataDir returns the storage directory with a leading ~ expanded.
func (c *Config) DataDir() (string, error) {
	return ExpandHome(c.Storage.DataDir)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
