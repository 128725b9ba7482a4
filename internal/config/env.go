package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// AppConfig holds the tunables read from the environment. Zero values mean
// "use the package default".
type AppConfig struct {
	Port             string
	LLMProvider      string
	PageUserAgent    string
	PageFetchTimeout time.Duration
	KnowledgeTimeout time.Duration
	SessionCacheTTL  time.Duration
	TokenTTL         time.Duration
	ChatRateLimit    rate.Limit
	ChatRateBurst    int

	PageAllowPrivateNetworks bool
}

func LoadAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		Port:          os.Getenv("APP_PORT"),
		LLMProvider:   os.Getenv("LLM_PROVIDER"),
		PageUserAgent: os.Getenv("PAGE_FETCH_USER_AGENT"),
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	var err error
	if cfg.PageFetchTimeout, err = durationEnv("PAGE_FETCH_TIMEOUT"); err != nil {
		return AppConfig{}, err
	}
	if cfg.KnowledgeTimeout, err = durationEnv("KNOWLEDGE_TIMEOUT"); err != nil {
		return AppConfig{}, err
	}
	if cfg.SessionCacheTTL, err = durationEnv("SESSION_CACHE_TTL"); err != nil {
		return AppConfig{}, err
	}
	if cfg.TokenTTL, err = durationEnv("JWT_ACCESS_TOKEN_TTL"); err != nil {
		return AppConfig{}, err
	}

	if raw := os.Getenv("CHAT_RATE_LIMIT"); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil || limit < 0 {
			return AppConfig{}, fmt.Errorf("invalid CHAT_RATE_LIMIT %q", raw)
		}
		cfg.ChatRateLimit = rate.Limit(limit)
	}
	if raw := os.Getenv("CHAT_RATE_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst < 0 {
			return AppConfig{}, fmt.Errorf("invalid CHAT_RATE_BURST %q", raw)
		}
		cfg.ChatRateBurst = burst
	}

	if raw := os.Getenv("PAGE_FETCH_ALLOW_PRIVATE"); raw != "" {
		allow, err := strconv.ParseBool(raw)
		if err != nil {
			return AppConfig{}, fmt.Errorf("invalid PAGE_FETCH_ALLOW_PRIVATE %q", raw)
		}
		cfg.PageAllowPrivateNetworks = allow
	}

	return cfg, nil
}

func durationEnv(key string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}
