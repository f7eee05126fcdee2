package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable. All problems are
// reported together as joined ValidationErrors.
func ValidateConfig(cfg *Config) error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.GeminiAPIKey == "" {
		add("GEMINI_API_KEY", "environment variable not set")
	}
	if cfg.ServerPort == "" {
		add("SERVER_PORT", "must not be empty")
	}

	switch cfg.StorageDriver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" && cfg.DBHost == "" {
			add("DATABASE_URL", "DATABASE_URL or DB_HOST is required for the postgres driver")
		}
	default:
		add("STORAGE_DRIVER", fmt.Sprintf("unknown driver %q", cfg.StorageDriver))
	}

	switch cfg.ArchiveDriver {
	case DriverFile, DriverDB:
	case DriverS3:
		if cfg.S3Bucket == "" {
			add("S3_BUCKET_NAME", "required for the s3 archive driver")
		}
	default:
		add("ARCHIVE_DRIVER", fmt.Sprintf("unknown driver %q", cfg.ArchiveDriver))
	}
	if cfg.ArchiveDriver == DriverDB && cfg.StorageDriver == DriverFile {
		add("ARCHIVE_DRIVER", "the db archive needs STORAGE_DRIVER sqlite or postgres")
	}

	switch cfg.PasswordHash {
	case "sha256":
	case "pbkdf2":
		if cfg.PasswordPepper == "" {
			add("PASSWORD_PEPPER", "required when PASSWORD_HASH is pbkdf2")
		}
	default:
		add("PASSWORD_HASH", fmt.Sprintf("unknown hash %q", cfg.PasswordHash))
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		add("CORS_ALLOWED_ORIGINS", "must list at least one origin")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "required in production")
	}
	if cfg.GenerationLimit > 0 && !cfg.RedisEnabled() {
		add("GENERATION_LIMIT_PER_HOUR", "the generation limiter needs REDIS_URL or REDIS_HOST")
	}

	return errors.Join(errs...)
}
