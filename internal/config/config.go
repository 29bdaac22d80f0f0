package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env       string
	AppSecret string
	Port      string
	SiteName  string
	SiteUrl   string

	// 后端 REST API
	APIBaseURL string
	APITimeout time.Duration

	// Session cookie 仅在 HTTPS 下发送
	CookieSecure bool

	HealthInterval time.Duration

	// 删除确认令牌
	ConfirmTTL        time.Duration
	ConfirmLedgerSize int

	// 限流
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// Load 加载并校验配置
func Load() (*Config, error) {
	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		AppSecret:         getEnv("APP_SECRET", defaultSecret),
		Port:              getEnv("PORT", "5005"),
		SiteName:          getEnv("SITE_NAME", "Movie Tickets"),
		SiteUrl:           getEnv("SITE_URL", "http://localhost:5005"),
		APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		APITimeout:        time.Duration(getEnvInt("API_TIMEOUT_SECS", 10)) * time.Second,
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),
		HealthInterval:    time.Duration(getEnvInt("HEALTH_INTERVAL_SECS", 30)) * time.Second,
		ConfirmTTL:        time.Duration(getEnvInt("CONFIRM_TTL_SECS", 300)) * time.Second,
		ConfirmLedgerSize: getEnvInt("CONFIRM_LEDGER_SIZE", 1024),
		RateLimitEnabled:  getEnvBool("RATE_LIMIT_ENABLED", false),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 10),
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute http(s) url, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT_SECS must be positive")
	}
	if cfg.HealthInterval <= 0 {
		return nil, fmt.Errorf("HEALTH_INTERVAL_SECS must be positive")
	}
	if cfg.ConfirmTTL <= 0 {
		return nil, fmt.Errorf("CONFIRM_TTL_SECS must be positive")
	}
	if cfg.ConfirmLedgerSize <= 0 {
		return nil, fmt.Errorf("CONFIRM_LEDGER_SIZE must be positive")
	}
	if cfg.RateLimitEnabled && (cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0) {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}

	if cfg.Env == "production" && cfg.AppSecret == defaultSecret {
		log.Println("[Config] WARNING: running in production with the default APP_SECRET")
	}

	return cfg, nil
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
