package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CAMPAIGN_SOURCE", "LOAD_TIMEOUT", "LOAD_DELAY", "MONGODB_DATABASE", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7521", cfg.Port)
	assert.Equal(t, SourceStatic, cfg.CampaignSource)
	assert.Equal(t, "hopefund", cfg.MongoDatabase)
	assert.Equal(t, 5*time.Second, cfg.LoadTimeout)
	assert.Equal(t, time.Duration(0), cfg.LoadDelay)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CAMPAIGN_SOURCE", "file")
	t.Setenv("CATALOG_PATH", "/tmp/campaigns.yaml")
	t.Setenv("LOAD_DELAY", "800ms")
	t.Setenv("PAYMENT_DECLINE_ABOVE", "100000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceFile, cfg.CampaignSource)
	assert.Equal(t, 800*time.Millisecond, cfg.LoadDelay)
	assert.Equal(t, int64(100000), cfg.PaymentDeclineAbove)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{Port: "7521", CampaignSource: SourceStatic, LoadTimeout: time.Second, LogLevel: "info"}
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"empty port", func(c *Config) { c.Port = " " }, ErrInvalidPort},
		{"unknown source", func(c *Config) { c.CampaignSource = "firestore" }, ErrInvalidSource},
		{"file without path", func(c *Config) { c.CampaignSource = SourceFile }, ErrMissingCatalogPath},
		{"zero timeout", func(c *Config) { c.LoadTimeout = 0 }, ErrInvalidLoadTimeout},
		{"negative delay", func(c *Config) { c.LoadDelay = -time.Second }, ErrInvalidLoadDelay},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, ErrInvalidLogLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
