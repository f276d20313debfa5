// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	AdminToken     string `mapstructure:"ADMIN_TOKEN"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// AI assistant settings (DeepSeek-compatible completion API).
	AIAPIKey string `mapstructure:"AI_API_KEY"`
	AIAPIURL string `mapstructure:"AI_API_URL"`
	AIModel  string `mapstructure:"AI_MODEL"`

	// Upload storage settings.
	StorageBackend   string `mapstructure:"STORAGE_BACKEND"` // local or s3
	UploadDir        string `mapstructure:"UPLOAD_DIR"`
	MaxImageSizeMB   int    `mapstructure:"MAX_IMAGE_SIZE_MB"`
	MaxMusicSizeMB   int    `mapstructure:"MAX_MUSIC_SIZE_MB"`
	MaxFileSizeMB    int    `mapstructure:"MAX_FILE_SIZE_MB"`
	S3Bucket         string `mapstructure:"S3_BUCKET"`
	S3Region         string `mapstructure:"S3_REGION"`
	S3Endpoint       string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey      string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey      string `mapstructure:"S3_SECRET_KEY"`
	S3ForcePathStyle bool   `mapstructure:"S3_FORCE_PATH_STYLE"`

	// Tracing settings.
	TraceExporter string `mapstructure:"TRACE_EXPORTER"` // none, stdout or otlp
	OTLPEndpoint  string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("loading config.%s.yml: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	viper.SetDefault("PORT", "3001")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "inkwell")
	viper.SetDefault("DB_PASSWORD", "inkwell")
	viper.SetDefault("DB_NAME", "inkwell")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("ADMIN_TOKEN", "change-me-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("AI_API_URL", "https://api.deepseek.com/v1/chat/completions")
	viper.SetDefault("AI_MODEL", "deepseek-chat")
	viper.SetDefault("STORAGE_BACKEND", "local")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("MAX_IMAGE_SIZE_MB", 10)
	viper.SetDefault("MAX_MUSIC_SIZE_MB", 50)
	viper.SetDefault("MAX_FILE_SIZE_MB", 100)
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_FORCE_PATH_STYLE", false)
	viper.SetDefault("TRACE_EXPORTER", "none")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AdminToken == "" {
		return errors.New("ADMIN_TOKEN is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.StorageBackend {
	case "local", "s3":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be local or s3, got %q", c.StorageBackend)
	}
	if c.StorageBackend == "s3" && c.S3Bucket == "" {
		return errors.New("S3_BUCKET is required when STORAGE_BACKEND=s3")
	}

	if c.IsProduction() {
		if c.AdminToken == "change-me-in-production" {
			return errors.New("ADMIN_TOKEN must be changed from the default value in production")
		}
		if c.JWTSecret == "change-me-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBSSLMode == "disable" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production")
		}
		if strings.Contains(c.AllowedOrigins, "*") {
			log.Println("WARNING: ALLOWED_ORIGINS contains '*' in production")
		}
	}

	return nil
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
