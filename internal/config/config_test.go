package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/millionaire/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:          ":8080",
		DBPath:        "test.db",
		LogLevel:      "INFO",
		LogFormat:     "text",
		ScoreCacheTTL: time.Minute,
		DefaultLang:   "en",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "empty addr",
			mutate: func(c *config.Config) { c.Addr = "" },
			want:   "ADDR cannot be empty",
		},
		{
			name:   "empty db path",
			mutate: func(c *config.Config) { c.DBPath = "" },
			want:   "DB_PATH cannot be empty",
		},
		{
			name:   "unknown log format",
			mutate: func(c *config.Config) { c.LogFormat = "xml" },
			want:   "LOG_FORMAT",
		},
		{
			name:   "negative redis db",
			mutate: func(c *config.Config) { c.RedisDB = -1 },
			want:   "REDIS_DB",
		},
		{
			name:   "negative ttl",
			mutate: func(c *config.Config) { c.ScoreCacheTTL = -time.Second },
			want:   "SCORE_CACHE_TTL",
		},
		{
			name:   "unsupported language",
			mutate: func(c *config.Config) { c.DefaultLang = "fr" },
			want:   "DEFAULT_LANG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "file:other.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SCORE_CACHE_TTL", "30s")
	t.Setenv("DEFAULT_LANG", "de")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "file:other.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.ScoreCacheTTL)
	assert.Equal(t, "de", cfg.DefaultLang)
	assert.True(t, cfg.CacheEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SCORE_CACHE_TTL", "forever")

	cfg := config.Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.ScoreCacheTTL)
}
