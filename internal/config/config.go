package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envProduction = "production"
	devJWTSecret  = "dev-secret-change-in-production"
	minSecretLen  = 32
)

var (
	ErrInsecureSecret  = errors.New("JWT_SECRET must be set to at least 32 bytes in production")
	ErrInvalidSameSite = errors.New("COOKIE_SAMESITE must be one of lax, strict, none")
)

type Config struct {
	Port string
	Env  string

	DatabaseDriver string
	MongoURI       string
	MongoDatabase  string
	DatabaseDSN    string

	JWTSecret      string
	JWTExpiry      time.Duration
	CookieSecure   bool
	CookieSameSite http.SameSite

	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string

	OTelEnabled  bool
	OTelEndpoint string

	LogLevel string
}

// IsProduction reports whether ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == envProduction
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "mongo"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "nexaboard"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/nexaboard?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		OTelEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174"),
		CORSAllowedMethods: getList("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,PATCH,OPTIONS"),
		CORSAllowedHeaders: getList("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,Accept,X-Requested-With"),
	}

	var err error
	if cfg.JWTExpiry, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("parsing JWT_TTL: %w", err)
	}
	if cfg.JWTExpiry <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTExpiry)
	}
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.OTelEnabled, err = getBool("OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.CookieSameSite, err = parseSameSite(getEnv("COOKIE_SAMESITE", "lax")); err != nil {
		return Config{}, err
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == devJWTSecret || len(cfg.JWTSecret) < minSecretLen {
			return Config{}, ErrInsecureSecret
		}
		cfg.CookieSecure = true
	}

	return cfg, nil
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidSameSite
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}

func getList(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
