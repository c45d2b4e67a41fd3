package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	ServiceName          string
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	SessionSigningKey    string
	SessionTTL           time.Duration
	SessionCookieName    string
	SessionCookieSecure  bool
	IdPIssuer            string
	IdPJWKSURL           string
	IdPProfileURL        string
	BackendAPIURL        string
	RateLimitRPM         int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		ServiceName:          getEnv("SERVICE_NAME", "ar-properties-identity"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		SessionSigningKey:    strings.TrimSpace(os.Getenv("SESSION_SIGNING_KEY")),
		SessionTTL:           getDuration("SESSION_TTL", 30*24*time.Hour),
		SessionCookieName:    getEnv("SESSION_COOKIE_NAME", "arp_session"),
		SessionCookieSecure:  getBool("SESSION_COOKIE_SECURE", false),
		IdPIssuer:            strings.TrimSpace(os.Getenv("IDP_ISSUER")),
		IdPJWKSURL:           strings.TrimSpace(os.Getenv("IDP_JWKS_URL")),
		IdPProfileURL:        strings.TrimSpace(os.Getenv("IDP_PROFILE_URL")),
		BackendAPIURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_API_URL")), "/"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if len(cfg.SessionSigningKey) < 32 {
		return Config{}, fmt.Errorf("SESSION_SIGNING_KEY is required and must be at least 32 bytes")
	}
	if cfg.IdPIssuer == "" || cfg.IdPJWKSURL == "" {
		return Config{}, fmt.Errorf("IDP_ISSUER and IDP_JWKS_URL are required")
	}
	if cfg.BackendAPIURL == "" {
		return Config{}, fmt.Errorf("BACKEND_API_URL is required")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
