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
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// EditorConfig holds connection settings for the external document editor
// (an ONLYOFFICE-compatible document server).
type EditorConfig struct {
	// Address is the editor address browsers load the editor API from.
	Address string
	// InternalAddress is the editor address this server uses for outbound
	// requests (file downloads, conversion). Falls back to Address when empty.
	InternalAddress string
	// SecretKey enables token signing and callback verification when set.
	// When empty, inbound callbacks are accepted without signature checks.
	SecretKey string
	// TokenHeader is the header the editor delivers callback tokens in.
	TokenHeader string
	// InsecureSkipVerify relaxes TLS verification on outbound requests to the
	// editor. Only meant for internal networks with self-signed certificates.
	InsecureSkipVerify bool
}

// DemoConfig holds the time-boxed trial connection to the vendor-hosted
// demo editor.
type DemoConfig struct {
	Enabled   bool
	StartedAt time.Time
}

// AuthConfig holds settings for authenticating content-host users.
type AuthConfig struct {
	// JWTSecret verifies Bearer tokens issued by the content host.
	JWTSecret string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port string
	// PublicHost is the externally reachable base URL of this server.
	PublicHost string
	// InternalHost is the base URL the editor uses to reach this server for
	// document downloads and callbacks. Falls back to PublicHost when empty.
	InternalHost  string
	DefaultLocale string
	Auth          AuthConfig
	Editor        EditorConfig
	Demo          DemoConfig
	Database      DatabaseConfig
	MinIO         MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	cfg := &AppConfig{
		Port:          getEnv("PORT", "8080"), // default only for non-sensitive value
		PublicHost:    getEnv("PUBLIC_HOST", "http://localhost:8080"),
		InternalHost:  getEnv("INTERNAL_HOST", ""),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Editor: EditorConfig{
			Address:            getEnv("EDITOR_ADDRESS", ""),
			InternalAddress:    getEnv("EDITOR_INTERNAL_ADDRESS", ""),
			SecretKey:          getEnv("EDITOR_SECRET_KEY", ""),
			TokenHeader:        getEnv("EDITOR_TOKEN_HEADER", "Authorization"),
			InsecureSkipVerify: getEnvBool("EDITOR_INSECURE_SKIP_VERIFY", false),
		},
		Demo: DemoConfig{
			Enabled:   getEnvBool("EDITOR_DEMO_ENABLED", false),
			StartedAt: getEnvTime("EDITOR_DEMO_STARTED_AT"),
		},
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
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
	if cfg.InternalHost == "" {
		cfg.InternalHost = cfg.PublicHost
	}
	if cfg.Editor.InternalAddress == "" {
		cfg.Editor.InternalAddress = cfg.Editor.Address
	}
	return cfg
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

func getEnvTime(key string) time.Time {
	if v := os.Getenv(key); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}
