package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Server    ServerSettings    `mapstructure:"server"`
	Backend   BackendSettings   `mapstructure:"backend"`
	Cache     CacheSettings     `mapstructure:"cache"`
	Database  DatabaseSettings  `mapstructure:"database"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Insights  InsightSettings   `mapstructure:"insights"`
	Format    FormatSettings    `mapstructure:"format"`
	RateLimit RateLimitSettings `mapstructure:"ratelimit"`
	Log       LogSettings       `mapstructure:"log"`
}

type ServerSettings struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type BackendSettings struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheSettings struct {
	TTL           time.Duration `mapstructure:"ttl"`
	InsightTTL    time.Duration `mapstructure:"insight_ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	WarmSchedule  string        `mapstructure:"warm_schedule"`
}

type DatabaseSettings struct {
	URL string `mapstructure:"url"`
}

type AuthSettings struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
	MaxStrikes    int           `mapstructure:"max_strikes"`
	BanDuration   time.Duration `mapstructure:"ban_duration"`
}

type InsightSettings struct {
	Enabled       bool          `mapstructure:"enabled"`
	Provider      string        `mapstructure:"provider"`
	Model         string        `mapstructure:"model"`
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
	Schedule      string        `mapstructure:"schedule"`
}

type FormatSettings struct {
	Currency string `mapstructure:"currency"`
	Locale   string `mapstructure:"locale"`
	Timezone string `mapstructure:"timezone"`
}

type RateLimitSettings struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var (
	ErrMissingBackendURL = errors.New("backend.base_url is required")
	ErrWeakJWTSecret     = errors.New("auth.jwt_secret must be at least 16 bytes")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.timeout", 10*time.Second)

	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.insight_ttl", 6*time.Hour)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.warm_schedule", "@every 5m")

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.max_strikes", 5)
	v.SetDefault("auth.ban_duration", 15*time.Minute)

	v.SetDefault("insights.enabled", false)
	v.SetDefault("insights.provider", "google")
	v.SetDefault("insights.model", "gemini-1.5-flash")
	v.SetDefault("insights.api_key", "")
	v.SetDefault("insights.base_url", "")
	v.SetDefault("insights.timeout", 30*time.Second)
	v.SetDefault("insights.max_tokens", 512)
	v.SetDefault("insights.temperature", 0.4)
	v.SetDefault("insights.rate_per_minute", 10)
	v.SetDefault("insights.schedule", "0 7 * * *")

	v.SetDefault("format.currency", "IDR")
	v.SetDefault("format.locale", "id")
	v.SetDefault("format.timezone", "Asia/Jakarta")

	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Load reads .env, the optional config file and DASHBOARD_* environment
// variables, in increasing order of precedence.
func Load(configFile string) (Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

func (s Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Backend.BaseURL) == "" {
		errs = append(errs, ErrMissingBackendURL)
	}
	if len(s.Auth.JWTSecret) < 16 {
		errs = append(errs, ErrWeakJWTSecret)
	}
	return errors.Join(errs...)
}

// Location returns the configured reporting timezone, UTC when unknown.
func (s Settings) Location() *time.Location {
	if s.Format.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Format.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
