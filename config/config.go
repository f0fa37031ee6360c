package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	API       APIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Filter    FilterConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// APIConfig points at the clinic REST backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Store      string // "redis" or "memory"
	Secret     string
	CookieName string
	TTL        time.Duration // zero means sessions never expire
	Secure     bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type FilterConfig struct {
	Debounce time.Duration
}

type RateLimitConfig struct {
	LoginLimit  int
	LoginWindow time.Duration
}

var ErrMissingSessionSecret = errors.New("SESSION_SECRET must be set")

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:8081")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("SESSION_STORE", SessionStoreRedis)
	v.SetDefault("SESSION_COOKIE", "cms_session")
	v.SetDefault("SESSION_TTL", "0s")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FILTER_DEBOUNCE", "250ms")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")

	// A missing .env is fine, the environment alone is enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Session: SessionConfig{
			Store:      strings.ToLower(v.GetString("SESSION_STORE")),
			Secret:     v.GetString("SESSION_SECRET"),
			CookieName: v.GetString("SESSION_COOKIE"),
			TTL:        v.GetDuration("SESSION_TTL"),
			Secure:     v.GetString("APP_ENV") == "production",
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Filter: FilterConfig{
			Debounce: v.GetDuration("FILTER_DEBOUNCE"),
		},
		RateLimit: RateLimitConfig{
			LoginLimit:  v.GetInt("LOGIN_RATE_LIMIT"),
			LoginWindow: v.GetDuration("LOGIN_RATE_WINDOW"),
		},
	}

	if config.Session.Secret == "" {
		return nil, ErrMissingSessionSecret
	}

	return config, nil
}
