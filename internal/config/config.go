// Package config loads runtime configuration for the CLI, HTTP server and queue worker.
//
// Values are layered: built-in defaults, then an optional config file (json, yaml or toml),
// then environment variables. Every key can be set as ATS_<SECTION>_<KEY>; the common
// deployment variables (DATABASE_URL, GEMINI_API_KEY, JWT_SECRET, ...) are also honored.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/ats-tailor/internal/logging"
)

// Config is the complete runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
	Storage  StorageConfig  `mapstructure:"storage"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	History  HistoryConfig  `mapstructure:"history"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	MaxBodyBytes int64           `mapstructure:"max_body_bytes"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures per-client token buckets. Whitelisted IPs skip limiting,
// blacklisted IPs are always rejected.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// DatabaseConfig configures the PostgreSQL store for users and saved applications.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig configures the analysis cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AMQPConfig configures the scoring worker.
type AMQPConfig struct {
	URL         string `mapstructure:"url"`
	Queue       string `mapstructure:"queue"`
	Exchange    string `mapstructure:"exchange"`
	Concurrency int    `mapstructure:"concurrency"`
}

// StorageConfig configures the S3-compatible bucket resumes are uploaded to.
type StorageConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	MaxObjectBytes  int64  `mapstructure:"max_object_bytes"`
}

// LLMConfig configures job-description analysis.
type LLMConfig struct {
	APIKey string            `mapstructure:"api_key"`
	Tier   string            `mapstructure:"tier"`
	Models map[string]string `mapstructure:"models"`
}

// AuthConfig configures token issuance and password hashing.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HistoryConfig configures the local sqlite score history used by the CLI.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

var defaults = map[string]any{
	"server.port":                        8080,
	"server.max_body_bytes":              5 << 20,
	"server.rate_limit.enabled":          true,
	"server.rate_limit.default_limit":    1000,
	"server.rate_limit.default_window":   "1m",
	"server.rate_limit.cleanup_interval": "5m",
	"redis.db":                           0,
	"redis.ttl":                          "24h",
	"amqp.queue":                         "ats_score_requests",
	"amqp.exchange":                      "ats_score_results",
	"amqp.concurrency":                   4,
	"storage.region":                     "auto",
	"storage.max_object_bytes":           10 << 20,
	"llm.tier":                           "standard",
	"auth.jwt_expiration_hours":          24,
	"auth.bcrypt_cost":                   12,
	"log.level":                          "info",
	"log.format":                         "console",
	"history.path":                       "ats_history.db",
}

// Unprefixed environment variables accepted in addition to ATS_<SECTION>_<KEY>.
var envAliases = map[string][]string{
	"database.url":                {"DATABASE_URL"},
	"redis.addr":                  {"REDIS_ADDR"},
	"redis.password":              {"REDIS_PASSWORD"},
	"amqp.url":                    {"AMQP_URL", "RABBITMQ_URL"},
	"storage.bucket":              {"S3_BUCKET"},
	"storage.endpoint":            {"S3_ENDPOINT"},
	"storage.access_key_id":       {"AWS_ACCESS_KEY_ID"},
	"storage.secret_access_key":   {"AWS_SECRET_ACCESS_KEY"},
	"llm.api_key":                 {"GEMINI_API_KEY"},
	"auth.jwt_secret":             {"JWT_SECRET"},
	"auth.jwt_expiration_hours":   {"JWT_EXPIRATION_HOURS"},
	"auth.bcrypt_cost":            {"BCRYPT_COST"},
	"auth.password_pepper":        {"PASSWORD_PEPPER"},
	"log.level":                   {"LOG_LEVEL"},
	"server.port":                 {"PORT"},
	"server.rate_limit.enabled":   {"RATE_LIMIT_ENABLED"},
	"server.rate_limit.whitelist": {"RATE_LIMIT_WHITELIST"},
	"server.rate_limit.blacklist": {"RATE_LIMIT_BLACKLIST"},
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("ATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{"ATS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Settings only some commands need (database URL, API key,
// JWT secret) are checked where they are used.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("config error: server.max_body_bytes must be positive")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.DefaultLimit < 1 || c.Server.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: server.rate_limit needs a positive default_limit and default_window")
	}
	if c.AMQP.Concurrency < 1 {
		return fmt.Errorf("config error: amqp.concurrency must be at least 1")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config error: redis.ttl must not be negative")
	}
	switch c.LLM.Tier {
	case "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: llm.tier must be lite, standard or advanced, got %q", c.LLM.Tier)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
