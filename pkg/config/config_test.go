package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/admin/substitution", cfg.Portal.FallbackPath)
	assert.Equal(t, "/admin/dashboard", cfg.Portal.DashboardPath)
	assert.Zero(t, cfg.Portal.Timeout)
	assert.Equal(t, PreferenceStoreFile, cfg.Preferences.Store)
	assert.Equal(t, 30*time.Minute, cfg.Exports.SignedURLTTL)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("PORTAL_BASE_URL", "https://portal.example.com/")
	v.Set("PORTAL_TIMEOUT", "15s")
	v.Set("PREFERENCES_STORE", "REDIS")
	v.Set("ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg := fromViper(v)
	assert.Equal(t, "https://portal.example.com", cfg.Portal.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Portal.Timeout)
	assert.Equal(t, PreferenceStoreRedis, cfg.Preferences.Store)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Second, parseDuration("bogus", time.Second))
	assert.Equal(t, time.Second, parseDuration("", time.Second))
}
