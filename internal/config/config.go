package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL         = "https://api.monday.com/v2"
	DefaultTimeoutSeconds = 30.0
	DefaultPageSize       = 500
	DefaultLogLevel       = "warn"

	MinPageSize       = 1
	MaxPageSize       = 1000
	MinTimeoutSeconds = 1.0

	configFileName = ".monday-export.toml"

	configDirEnvKey  = "MONDAY_EXPORT_CONFIG_DIR"
	apiTokenEnvKey   = "MONDAY_API_TOKEN"
	apiURLEnvKey     = "MONDAY_API_URL"
	apiVersionEnvKey = "MONDAY_API_VERSION"
	pageSizeEnvKey   = "MONDAY_PAGE_SIZE"
	timeoutEnvKey    = "MONDAY_TIMEOUT"
	historyDBEnvKey  = "MONDAY_EXPORT_HISTORY_DB"
)

// Config defines runtime configuration for monday-export.
type Config struct {
	APIURL            string  `toml:"api_url"`
	APIToken          string  `toml:"api_token"`
	APIVersion        string  `toml:"api_version"`
	TimeoutSeconds    float64 `toml:"timeout_seconds"`
	PageSize          int     `toml:"page_size"`
	IncludeSubitems   bool    `toml:"include_subitems"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	HistoryDB         string  `toml:"history_db"`
	LogLevel          string  `toml:"log_level"`
	ConfigPath        string  `toml:"-"`
}

// ConfigError reports a missing or out-of-range setting.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		PageSize:       DefaultPageSize,
	}
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Validate checks the settings the exporter needs before any network use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIToken) == "" {
		return &ConfigError{
			Field:  "api_token",
			Reason: "an API token is required; provide it via --api-token or the " + apiTokenEnvKey + " environment variable",
		}
	}
	u, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "api_url", Reason: fmt.Sprintf("%q is not an http(s) URL", c.APIURL)}
	}
	if c.PageSize < MinPageSize || c.PageSize > MaxPageSize {
		return &ConfigError{Field: "page_size", Reason: fmt.Sprintf("%d is outside %d-%d", c.PageSize, MinPageSize, MaxPageSize)}
	}
	if c.TimeoutSeconds < MinTimeoutSeconds {
		return &ConfigError{Field: "timeout_seconds", Reason: fmt.Sprintf("%g is below the %gs minimum", c.TimeoutSeconds, MinTimeoutSeconds)}
	}
	if c.RequestsPerSecond < 0 {
		return &ConfigError{Field: "requests_per_second", Reason: "must not be negative"}
	}
	return nil
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, &ConfigError{Field: "config_file", Reason: fmt.Sprintf("failed to parse %s: %v", path, err), Err: err}
	}
	return true, nil
}

var allowedKeys = []string{
	"api_url",
	"api_token",
	"api_version",
	"timeout_seconds",
	"page_size",
	"include_subitems",
	"requests_per_second",
	"history_db",
	"log_level",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key. The API token is masked.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "api_token":
		return maskToken(c.APIToken), nil
	case "api_version":
		return c.APIVersion, nil
	case "timeout_seconds":
		return strconv.FormatFloat(c.TimeoutSeconds, 'f', -1, 64), nil
	case "page_size":
		return strconv.Itoa(c.PageSize), nil
	case "include_subitems":
		return strconv.FormatBool(c.IncludeSubitems), nil
	case "requests_per_second":
		return strconv.FormatFloat(c.RequestsPerSecond, 'f', -1, 64), nil
	case "history_db":
		return c.HistoryDB, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}

// Path returns the config file path.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	data[key] = parsedValue

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads the config file, a .env file in the working directory and the
// environment, in increasing order of precedence. It does not validate.
func Load() (*Config, error) {
	cfg := Default()

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, &ConfigError{Field: ".env", Reason: fmt.Sprintf("failed to load: %v", err), Err: err}
	}

	path, err := Path()
	if err == nil {
		loaded, loadErr := loadFileIfExists(path, &cfg)
		if loadErr != nil {
			return nil, loadErr
		}
		if loaded {
			cfg.ConfigPath = path
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if token := strings.TrimSpace(os.Getenv(apiTokenEnvKey)); token != "" {
		cfg.APIToken = token
	}
	if apiURL := strings.TrimSpace(os.Getenv(apiURLEnvKey)); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if version := strings.TrimSpace(os.Getenv(apiVersionEnvKey)); version != "" {
		cfg.APIVersion = version
	}
	if historyDB := strings.TrimSpace(os.Getenv(historyDBEnvKey)); historyDB != "" {
		cfg.HistoryDB = historyDB
	}
	if raw := strings.TrimSpace(os.Getenv(pageSizeEnvKey)); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return &ConfigError{Field: pageSizeEnvKey, Reason: fmt.Sprintf("%q is not an integer", raw)}
		}
		cfg.PageSize = parsed
	}
	if raw := strings.TrimSpace(os.Getenv(timeoutEnvKey)); raw != "" {
		seconds, err := parseTimeoutSeconds(raw)
		if err != nil {
			return &ConfigError{Field: timeoutEnvKey, Reason: err.Error()}
		}
		cfg.TimeoutSeconds = seconds
	}
	return nil
}

// parseTimeoutSeconds accepts a Go duration ("45s") or plain seconds ("45").
func parseTimeoutSeconds(raw string) (float64, error) {
	if duration, err := time.ParseDuration(raw); err == nil {
		return duration.Seconds(), nil
	}
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return seconds, nil
	}
	return 0, fmt.Errorf("%q is not a duration", raw)
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "page_size":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < MinPageSize || parsed > MaxPageSize {
			return nil, fmt.Errorf("%s must be an integer between %d and %d", key, MinPageSize, MaxPageSize)
		}
		return int64(parsed), nil
	case "timeout_seconds":
		parsed, err := parseTimeoutSeconds(value)
		if err != nil || parsed < MinTimeoutSeconds {
			return nil, fmt.Errorf("%s must be at least %g", key, MinTimeoutSeconds)
		}
		return parsed, nil
	case "requests_per_second":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%s must be a non-negative number", key)
		}
		return parsed, nil
	case "include_subitems":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}
