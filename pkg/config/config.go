package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	PreferenceStoreFile  = "file"
	PreferenceStoreRedis = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Portal      PortalConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Preferences PreferencesConfig
	Exports     ExportsConfig
	Metrics     MetricsConfig
}

// PortalConfig describes how to reach the substitution portal.
type PortalConfig struct {
	BaseURL  string
	Email    string
	Password string
	// Timeout of zero leaves outbound requests unbounded.
	Timeout       time.Duration
	FallbackPath  string
	DashboardPath string
	UserAgent     string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// PreferencesConfig selects the backing store for local UI preferences such as the theme.
type PreferencesConfig struct {
	Store       string
	Dir         string
	KeyPrefix   string
	SystemTheme string
}

// ExportsConfig controls where rendered PDFs land and how download links are signed.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Portal = PortalConfig{
		BaseURL:       strings.TrimRight(v.GetString("PORTAL_BASE_URL"), "/"),
		Email:         v.GetString("PORTAL_EMAIL"),
		Password:      v.GetString("PORTAL_PASSWORD"),
		Timeout:       parseDuration(v.GetString("PORTAL_TIMEOUT"), 0),
		FallbackPath:  v.GetString("PORTAL_FALLBACK_PATH"),
		DashboardPath: v.GetString("PORTAL_DASHBOARD_PATH"),
		UserAgent:     v.GetString("PORTAL_USER_AGENT"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
		Output: v.GetString("LOG_OUTPUT"),
	}

	cfg.Preferences = PreferencesConfig{
		Store:       strings.ToLower(v.GetString("PREFERENCES_STORE")),
		Dir:         v.GetString("PREFERENCES_DIR"),
		KeyPrefix:   v.GetString("PREFERENCES_KEY_PREFIX"),
		SystemTheme: strings.ToLower(v.GetString("SYSTEM_THEME")),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 30*time.Minute),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("PORTAL_BASE_URL", "http://localhost:5000")
	v.SetDefault("PORTAL_EMAIL", "")
	v.SetDefault("PORTAL_PASSWORD", "")
	v.SetDefault("PORTAL_TIMEOUT", "0s")
	v.SetDefault("PORTAL_FALLBACK_PATH", "/admin/substitution")
	v.SetDefault("PORTAL_DASHBOARD_PATH", "/admin/dashboard")
	v.SetDefault("PORTAL_USER_AGENT", "sma-substitution-console/0.1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stderr")

	v.SetDefault("PREFERENCES_STORE", PreferenceStoreFile)
	v.SetDefault("PREFERENCES_DIR", "./.subctl")
	v.SetDefault("PREFERENCES_KEY_PREFIX", "subctl:pref:")
	v.SetDefault("SYSTEM_THEME", "light")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "30m")

	v.SetDefault("ENABLE_METRICS", true)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
