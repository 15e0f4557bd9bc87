package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(5<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "ats_score_requests", cfg.AMQP.Queue)
	assert.Equal(t, "ats_score_results", cfg.AMQP.Exchange)
	assert.Equal(t, "standard", cfg.LLM.Tier)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "ats_history.db", cfg.History.Path)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 1000, cfg.Server.RateLimit.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.DefaultWindow)
}

func TestLoad_Files(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "yaml", file: "config.yaml", content: "server:\n  port: 9090\nllm:\n  models:\n    advanced: custom-pro\n"},
		{name: "toml", file: "config.toml", content: "[server]\nport = 9090\n\n[llm.models]\nadvanced = \"custom-pro\"\n"},
		{name: "json", file: "config.json", content: `{"server": {"port": 9090}, "llm": {"models": {"advanced": "custom-pro"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, 9090, cfg.Server.Port)
			assert.Equal(t, "custom-pro", cfg.LLM.Models["advanced"])
		})
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ats")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("ATS_SERVER_PORT", "7070")
	t.Setenv("ATS_REDIS_TTL", "90m")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(writeFile(t, "config.yaml", "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/ats", cfg.Database.URL)
	assert.Equal(t, "key-123", cfg.LLM.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 90*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Server.RateLimit.Whitelist)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "server:\n  port: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080, MaxBodyBytes: 1},
			AMQP:   AMQPConfig{Concurrency: 1},
			LLM:    LLMConfig{Tier: "standard"},
			Log:    LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, errMsg: "server.port"},
		{name: "no body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }, errMsg: "max_body_bytes"},
		{name: "no workers", mutate: func(c *Config) { c.AMQP.Concurrency = 0 }, errMsg: "amqp.concurrency"},
		{name: "negative ttl", mutate: func(c *Config) { c.Redis.TTL = -time.Second }, errMsg: "redis.ttl"},
		{name: "bad tier", mutate: func(c *Config) { c.LLM.Tier = "ultra" }, errMsg: "llm.tier"},
		{
			name:   "rate limit without window",
			mutate: func(c *Config) { c.Server.RateLimit = RateLimitConfig{Enabled: true, DefaultLimit: 10} },
			errMsg: "rate_limit",
		},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, errMsg: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
