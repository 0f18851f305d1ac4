package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	DatabaseURL     string
	RedisAddr       string
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	RememberTTL     time.Duration
	EventBackend    string
	MigrationsDir   string
	RateLimitPerMin int
}

// Load returns application config populated from environment variables.
// DATABASE_URL and JWT_SIGNING_KEY have no usable defaults; missing either
// is a startup error.
func Load() (App, error) {
	_ = godotenv.Load()

	cfg := App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		JWTIssuer:       getEnv("JWT_ISSUER", "coachtrack"),
		JWTSigningKey:   os.Getenv("JWT_SIGNING_KEY"),
		AccessTTL:       durationEnv("ACCESS_TTL", 15*time.Minute),
		RefreshTTL:      durationEnv("REFRESH_TTL", 24*time.Hour),
		RememberTTL:     durationEnv("REMEMBER_TTL", 30*24*time.Hour),
		EventBackend:    getEnv("EVENT_BACKEND", "redis"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
	}

	if cfg.DatabaseURL == "" {
		return App{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSigningKey == "" {
		return App{}, errors.New("JWT_SIGNING_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
