package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers for the credential store and the recipe archive
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDB       = "db"
	DriverS3       = "s3"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/"
	defaultGeminiModel = "gemini-2.0-flash"
	devJWTSecret       = "dev-only-jwt-secret"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Storage configuration
	DataDir       string
	StorageDriver string
	ArchiveDriver string

	// Database configuration, used by the sqlite and postgres drivers
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis configuration, optional
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// S3 configuration, used by the s3 archive driver
	S3Bucket  string
	AWSRegion string

	// Auth configuration
	JWTSecret      string
	PasswordHash   string
	PasswordPepper string

	// Generation service
	GeminiAPIKey string
	GeminiModel  string
	GeminiAPIURL string

	// Generation requests allowed per user per hour, 0 disables the limiter
	GenerationLimit int

	CORSAllowedOrigins []string
	LogLevel           string
}

// LoadConfig reads the optional .env file, then the process environment
// (falling back to *_FILE variables and Docker secrets for credentials),
// and validates the result.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Env:        GetEnvironment(),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", ""),

		DataDir:       getEnv("DATA_DIR", "data"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
		ArchiveDriver: strings.ToLower(getEnv("ARCHIVE_DRIVER", DriverFile)),

		DatabaseURL: getSecret("DATABASE_URL", "database_url"),
		DBHost:      getEnv("DB_HOST", ""),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getSecret("DB_USER", "db_user"),
		DBPassword:  getSecret("DB_PASSWORD", "db_password"),
		DBName:      getEnv("DB_NAME", "cooking_assistant"),
		DBSSLMode:   getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD", "redis_password"),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisURL:      getSecret("REDIS_URL", "redis_url"),

		S3Bucket:  getEnv("S3_BUCKET_NAME", ""),
		AWSRegion: getEnv("AWS_REGION", ""),

		JWTSecret:      getSecret("JWT_SECRET", "jwt_secret"),
		PasswordHash:   strings.ToLower(getEnv("PASSWORD_HASH", "sha256")),
		PasswordPepper: getSecret("PASSWORD_PEPPER", "password_pepper"),

		GeminiAPIKey: getSecret("GEMINI_API_KEY", "gemini_api_key"),
		GeminiModel:  getEnv("GEMINI_MODEL", defaultGeminiModel),
		GeminiAPIURL: getEnv("GEMINI_API_URL", defaultGeminiURL),

		GenerationLimit: getIntEnv("GENERATION_LIMIT_PER_HOUR", 0),

		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" && !cfg.Env.IsProduction() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN built from the DB_* fields
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// SQLitePath returns DATABASE_URL when set, otherwise a database file under DataDir
func (c *Config) SQLitePath() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return filepath.Join(c.DataDir, "cooking_assistant.db")
}

// UsesDatabase reports whether any store needs a gorm connection
func (c *Config) UsesDatabase() bool {
	return c.StorageDriver != DriverFile || c.ArchiveDriver == DriverDB
}

// RedisEnabled reports whether a Redis endpoint was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func getListEnv(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getSecret resolves a credential from KEY, then from the file named by
// KEY_FILE, then from the Docker secret with the given name.
func getSecret(key, secretName string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
