package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	AppName            string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PresignExpiry bounds how long proof/image URLs handed to dashboards stay valid.
	PresignExpiry time.Duration
}

// RedisConfig holds the catalog cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// GatewayConfig holds the payment gateway (Midtrans-compatible) settings.
type GatewayConfig struct {
	ServerKey    string
	SnapBaseURL  string
	APIBaseURL   string
	RateLimitRPS int
	Timeout      time.Duration
}

// WorkerConfig holds settings for background sweeps run from portalctl.
type WorkerConfig struct {
	SweepWorkers   int
	SweepPageSize  int
	ReconcileBatch int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppEnv   string
	AppHost  string
	Port     string
	LogLevel string
	Timezone string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Worker   WorkerConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppEnv:   getEnv("APP_ENV", "prod"),
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			AppName:            getEnv("DB_APP_NAME", "umrahportal"),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", ""),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: time.Duration(getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 900)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Gateway: GatewayConfig{
			ServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			SnapBaseURL:  getEnv("MIDTRANS_SNAP_URL", "https://app.sandbox.midtrans.com"),
			APIBaseURL:   getEnv("MIDTRANS_API_URL", "https://api.sandbox.midtrans.com"),
			RateLimitRPS: getEnvInt("MIDTRANS_RATE_LIMIT_RPS", 5),
			Timeout:      time.Duration(getEnvInt("MIDTRANS_TIMEOUT_SEC", 20)) * time.Second,
		},
		Worker: WorkerConfig{
			SweepWorkers:   getEnvInt("SWEEP_WORKERS", 4),
			SweepPageSize:  getEnvInt("SWEEP_PAGE_SIZE", 100),
			ReconcileBatch: getEnvInt("RECONCILE_BATCH", 100),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
