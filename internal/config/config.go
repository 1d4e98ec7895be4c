// Package config provides configuration loading and validation for the
// navigator server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Defaults applied by MergeWithDefaults(Defaults()).
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultStore             = StoreMemory
	DefaultSessionTTLMinutes = 24 * 60
	DefaultTypingDelayMS     = 1500
	DefaultKafkaTopic        = "navigator.interview-events"
	DefaultRateLimit         = 5.0
	DefaultRateBurst         = 20
)

// Config represents the navigator configuration. It can be loaded from a
// JSON or YAML file and overridden from the environment. All fields are
// optional; zero values are filled by MergeWithDefaults.
type Config struct {
	// Server
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// Session storage
	Store             string `json:"store,omitempty" yaml:"store,omitempty"`           // memory, file, sqlite, postgres or redis
	StorePath         string `json:"store_path,omitempty" yaml:"store_path,omitempty"` // directory for file, database file for sqlite
	DatabaseURL       string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	RedisURL          string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	SessionTTLMinutes int    `json:"session_ttl_minutes,omitempty" yaml:"session_ttl_minutes,omitempty"`

	// Events
	KafkaBrokers []string `json:"kafka_brokers,omitempty" yaml:"kafka_brokers,omitempty"`
	KafkaTopic   string   `json:"kafka_topic,omitempty" yaml:"kafka_topic,omitempty"`

	// Conversation
	TypingDelayMS int    `json:"typing_delay_ms,omitempty" yaml:"typing_delay_ms,omitempty"`
	CatalogDir    string `json:"catalog_dir,omitempty" yaml:"catalog_dir,omitempty"`

	// Rate limiting (requests per second per client)
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	RateBurst int     `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty"`

	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:              DefaultPort,
		LogLevel:          DefaultLogLevel,
		Store:             DefaultStore,
		SessionTTLMinutes: DefaultSessionTTLMinutes,
		KafkaTopic:        DefaultKafkaTopic,
		TypingDelayMS:     DefaultTypingDelayMS,
		RateLimit:         DefaultRateLimit,
		RateBurst:         DefaultRateBurst,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", key, err)
		}
		*dst = n
		return nil
	}

	if err := num("PORT", &c.Port); err != nil {
		return err
	}
	if err := num("NAVIGATOR_PORT", &c.Port); err != nil {
		return err
	}
	str("NAVIGATOR_LOG_LEVEL", &c.LogLevel)
	str("NAVIGATOR_STORE", &c.Store)
	str("NAVIGATOR_STORE_PATH", &c.StorePath)
	str("DATABASE_URL", &c.DatabaseURL)
	str("REDIS_URL", &c.RedisURL)
	if err := num("NAVIGATOR_SESSION_TTL_MINUTES", &c.SessionTTLMinutes); err != nil {
		return err
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.KafkaBrokers = splitList(v)
	}
	str("KAFKA_TOPIC", &c.KafkaTopic)
	if err := num("NAVIGATOR_TYPING_DELAY_MS", &c.TypingDelayMS); err != nil {
		return err
	}
	str("NAVIGATOR_CATALOG_DIR", &c.CatalogDir)
	if v, ok := lookup("NAVIGATOR_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid NAVIGATOR_RATE_LIMIT: %v", err)
		}
		c.RateLimit = f
	}
	if err := num("NAVIGATOR_RATE_BURST", &c.RateBurst); err != nil {
		return err
	}
	if v, ok := lookup("NAVIGATOR_ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.SessionTTLMinutes < 0 {
		return fmt.Errorf("config error: 'session_ttl_minutes' must be non-negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_burst' must be non-negative")
	}

	switch c.Store {
	case "", StoreMemory:
	case StoreFile, StoreSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("config error: store %q requires 'store_path'", c.Store)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: store %q requires 'database_url'", c.Store)
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: store %q requires 'redis_url'", c.Store)
		}
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}

	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("config error: 'kafka_topic' is required when 'kafka_brokers' is set")
	}

	// Validate catalog directory exists (if specified)
	if c.CatalogDir != "" {
		if info, err := os.Stat(c.CatalogDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: catalog directory not found: %s", c.CatalogDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.StorePath == "" {
		result.StorePath = defaults.StorePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.KafkaTopic == "" {
		result.KafkaTopic = defaults.KafkaTopic
	}
	if result.CatalogDir == "" {
		result.CatalogDir = defaults.CatalogDir
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SessionTTLMinutes == 0 {
		result.SessionTTLMinutes = defaults.SessionTTLMinutes
	}
	if result.TypingDelayMS == 0 {
		result.TypingDelayMS = defaults.TypingDelayMS
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}

	// Slice fields
	if len(result.KafkaBrokers) == 0 {
		result.KafkaBrokers = defaults.KafkaBrokers
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	return result
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// TypingDelay returns the pause used to pace bot messages. A negative
// typing_delay_ms disables pacing.
func (c *Config) TypingDelay() time.Duration {
	if c.TypingDelayMS < 0 {
		return 0
	}
	return time.Duration(c.TypingDelayMS) * time.Millisecond
}

// Load reads path (if set), applies environment overrides, fills defaults
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
