package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	MarketBaseURL string
	UserAgent     string
	FetchTimeout  time.Duration
	PagesToScrape int
	PauseSeconds  float64
	RenderMode    string
	ChromeBin     string

	CacheTTL    time.Duration
	CacheSize   int
	StatsScope  string
	DedupeLinks bool

	DataDir        string
	CatalogPath    string
	MaxImagePixels int
	AdminCode      string
	HTTPPort       string
	LogLevel       string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	FluentEnabled bool
	FluentHost    string
	FluentPort    int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		MarketBaseURL: getEnv("MARKET_BASE_URL", "https://www.vinted.fr"),
		UserAgent:     getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"),
		FetchTimeout:  time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		PagesToScrape: getEnvInt("PAGES_TO_SCRAPE", 2),
		PauseSeconds:  getEnvFloat("PAUSE_SECONDS", 1.0),
		RenderMode:    getEnv("RENDER_MODE", "http"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		CacheTTL:    time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		CacheSize:   getEnvInt("CACHE_SIZE", 128),
		StatsScope:  getEnv("STATS_SCOPE", "filtered"),
		DedupeLinks: getEnvBool("DEDUPE_LINKS", false),

		DataDir:        getEnv("DATA_DIR", "./data"),
		CatalogPath:    getEnv("CATALOG_PATH", "./catalog.yaml"),
		MaxImagePixels: getEnvInt("MAX_IMAGE_PIXELS", 40_000_000),
		AdminCode:      getEnv("ADMIN_CODE", ""),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scout"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scout"),
		PostgresDB:       getEnv("POSTGRES_DB", "market_scout"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		FluentEnabled: getEnvBool("FLUENT_ENABLED", false),
		FluentHost:    getEnv("FLUENT_HOST", "127.0.0.1"),
		FluentPort:    getEnvInt("FLUENT_PORT", 24224),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Pause converts PauseSeconds into a duration, clamping negatives to zero.
func (c *Config) Pause() time.Duration {
	if c.PauseSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PauseSeconds * float64(time.Second))
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.Printf("[config] %s=%q is not an int, using %d", key, val, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
		log.Printf("[config] %s=%q is not a number, using %g", key, val, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
		log.Printf("[config] %s=%q is not a bool, using %t", key, val, fallback)
	}
	return fallback
}
