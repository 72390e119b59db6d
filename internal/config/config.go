package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Storage
	StoreBackend string
	SQLitePath   string
	DataDir      string
	LegacyOwner  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pipeline
	PipelineAPIKey string

	// Price feeds
	CoinGeckoBaseURL  string
	FMPBaseURL        string
	FMPAPIKey         string
	FeedTimeout       time.Duration
	FeedRatePerMinute int
	AssetMappingsFile string

	// Quote cache
	RedisAddr     string
	RedisPassword string
	FeedCacheTTL  time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Storage
		StoreBackend: getEnv("STORE_BACKEND", BackendPostgres),
		SQLitePath:   getEnv("SQLITE_PATH", "invtracker.db"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		LegacyOwner:  os.Getenv("LEGACY_OWNER_ID"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "invtracker"),
		DBPassword: getEnv("DB_PASSWORD", "invtracker"),
		DBName:     getEnv("DB_NAME", "invtracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:        getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTExpirationDur: getDuration("JWT_EXPIRES_IN", 24*time.Hour),

		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		// Price feeds
		CoinGeckoBaseURL:  getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		FMPBaseURL:        getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
		FMPAPIKey:         os.Getenv("FMP_API_KEY"),
		FeedTimeout:       getDuration("FEED_TIMEOUT", 5*time.Second),
		FeedRatePerMinute: getInt("FEED_RATE_PER_MINUTE", 30),
		AssetMappingsFile: os.Getenv("ASSET_MAPPINGS_FILE"),

		// Quote cache
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		FeedCacheTTL:  getDuration("FEED_CACHE_TTL", 60*time.Second),
	}

	switch config.StoreBackend {
	case BackendPostgres, BackendSQLite, BackendFile:
	default:
		log.Printf("Warning: unknown STORE_BACKEND '%s', falling back to %s\n", config.StoreBackend, BackendPostgres)
		config.StoreBackend = BackendPostgres
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
