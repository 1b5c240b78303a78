package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port              string
	DatabaseURL       string
	DBMaxConns        int32
	JWTSecret         string
	JWTIssuer         string
	JWTTTL            time.Duration
	CORSOrigins       []string
	VerifyPassword    bool
	AuthRatePerMinute int
	AuthRateBurst     int
	LogLevel          string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:              fallback(os.Getenv("PORT"), "5000"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:        int32(positiveInt(os.Getenv("DB_MAX_CONNS"), 10)),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:         fallback(os.Getenv("JWT_ISSUER"), "charity-backend"),
		JWTTTL:            time.Duration(positiveInt(os.Getenv("JWT_TTL_MINUTES"), 24*60)) * time.Minute,
		CORSOrigins:       parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		VerifyPassword:    parseBool(os.Getenv("AUTH_VERIFY_PASSWORD"), true),
		AuthRatePerMinute: positiveInt(os.Getenv("AUTH_RATE_PER_MINUTE"), 30),
		AuthRateBurst:     positiveInt(os.Getenv("AUTH_RATE_BURST"), 10),
		LogLevel:          fallback(os.Getenv("LOG_LEVEL"), "info"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(value string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	return def
}

func parseBool(value string, def bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
		return b
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
