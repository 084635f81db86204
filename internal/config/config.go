package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	BackendURL      string
	BackendTimeout  time.Duration
	NoticeBackend   string
	RedisAddr       string
	NoticeKey       string
	NoticeBuffer    int
	RateLimitPerMin int
	CORSOrigins     []string
}

// Load returns application config populated from environment variables with sensible defaults.
// A .env file in the working directory is read first when present; real
// environment variables win over it.
func Load() App {
	_ = godotenv.Load()

	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8090"),
		BackendURL:      getEnv("BACKEND_URL", "http://127.0.0.1:8000"),
		BackendTimeout:  durationEnv("BACKEND_TIMEOUT", 0),
		NoticeBackend:   getEnv("NOTICE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		NoticeKey:       getEnv("NOTICE_KEY", "attendance:notices"),
		NoticeBuffer:    intEnv("NOTICE_BUFFER", 64),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		CORSOrigins:     listEnv("CORS_ORIGINS", []string{"*"}),
	}
}

// Production reports whether the app runs with production settings.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

// RedisNotices reports whether notices travel over Redis.
func (a App) RedisNotices() bool {
	return a.NoticeBackend == "redis"
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
		if err != nil || d < 0 {
			log.Printf("invalid duration for %s: %q, using fallback %s", key, val, fallback)
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

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
