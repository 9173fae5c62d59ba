package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	LogLevel string

	HTTPAddr string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Engine EngineConfig
	Queue  QueueConfig
}

// EngineConfig carries the matching-engine tunables. Values are bounded in
// withDefaults so a bad environment never produces a zero batch size.
type EngineConfig struct {
	MaxCandidates   int
	NotifyBatchSize int
	RatingCacheTTL  time.Duration
}

// QueueConfig controls the distribution job queue.
type QueueConfig struct {
	Concurrency int
	MaxRetry    int
	Timeout     time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "matchengine"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "matchengine"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		Engine: EngineConfig{
			MaxCandidates:   getenvInt("ENGINE_MAX_CANDIDATES", 0),
			NotifyBatchSize: getenvInt("ENGINE_NOTIFY_BATCH_SIZE", 0),
			RatingCacheTTL:  time.Duration(getenvInt("ENGINE_RATING_CACHE_TTL_SECONDS", 0)) * time.Second,
		},
		Queue: QueueConfig{
			Concurrency: getenvInt("QUEUE_CONCURRENCY", 0),
			MaxRetry:    getenvInt("QUEUE_MAX_RETRY", 0),
			Timeout:     time.Duration(getenvInt("QUEUE_TIMEOUT_SECONDS", 0)) * time.Second,
		},
	}

	cfg.Engine = cfg.Engine.withDefaults()
	cfg.Queue = cfg.Queue.withDefaults()
	return cfg
}

// DefaultEngineConfig returns the engine tunables used when the environment
// does not override them.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxCandidates:   20,
		NotifyBatchSize: 5,
		RatingCacheTTL:  5 * time.Minute,
	}
}

func (c EngineConfig) withDefaults() EngineConfig {
	defaults := DefaultEngineConfig()
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = defaults.MaxCandidates
	}
	if c.NotifyBatchSize <= 0 {
		c.NotifyBatchSize = defaults.NotifyBatchSize
	}
	if c.RatingCacheTTL <= 0 {
		c.RatingCacheTTL = defaults.RatingCacheTTL
	}
	return c
}

// DefaultQueueConfig returns the queue tunables used when the environment
// does not override them.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Concurrency: 10,
		MaxRetry:    5,
		Timeout:     2 * time.Minute,
	}
}

func (c QueueConfig) withDefaults() QueueConfig {
	defaults := DefaultQueueConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = defaults.MaxRetry
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
