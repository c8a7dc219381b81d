package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	DBPath string
	// WebDir serves static files from disk instead of the embedded assets
	WebDir   string
	LogLevel string
	LogJSON  bool

	// Coach
	OpenAIKey     string
	OpenAIBaseURL string
	CoachModel    string
	CoachTimeout  time.Duration

	// Coach rate limiting; an empty RedisAddr disables it
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CoachRateLimit  int
	CoachRateWindow time.Duration

	SessionMaxAge   time.Duration
	CleanupInterval time.Duration
}

// Load reads .env if present, then the environment. Every setting has a
// default; malformed numbers fall back to it.
func Load() *Config {
	_ = godotenv.Load()

	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		key = os.Getenv("GPTAPI")
	}

	return &Config{
		Port:     envString("PORT", "8080"),
		DBPath:   envString("DB_PATH", "arena.db"),
		WebDir:   os.Getenv("WEB_DIR"),
		LogLevel: envString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		OpenAIKey:     key,
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		CoachModel:    envString("COACH_MODEL", "gpt-4o-mini"),
		CoachTimeout:  envDuration("COACH_TIMEOUT", 10*time.Second),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         envInt("REDIS_DB", 0),
		CoachRateLimit:  envInt("COACH_RATE_LIMIT", 20),
		CoachRateWindow: envDuration("COACH_RATE_WINDOW", time.Minute),

		SessionMaxAge:   envDuration("SESSION_MAX_AGE", 2*time.Hour),
		CleanupInterval: envDuration("CLEANUP_INTERVAL", 5*time.Minute),
	}
}

func envString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// envDuration accepts Go durations ("90s") or plain seconds ("90").
func envDuration(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
