package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:           "3001",
		Env:            "development",
		JWTSecret:      "secure-secret-at-least-32-chars-long",
		AdminToken:     "some-admin-token",
		StorageBackend: "local",
		UploadDir:      "./uploads",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing admin token", func(c *Config) { c.AdminToken = "" }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown storage backend", func(c *Config) { c.StorageBackend = "ftp" }, true},
		{"s3 without bucket", func(c *Config) { c.StorageBackend = "s3" }, true},
		{"s3 with bucket", func(c *Config) {
			c.StorageBackend = "s3"
			c.S3Bucket = "inkwell-uploads"
		}, false},
		{"production with default admin token", func(c *Config) {
			c.Env = "production"
			c.AdminToken = "change-me-in-production"
		}, true},
		{"production with default jwt secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "change-me-in-production"
		}, true},
		{"production with short jwt secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production with strong secrets", func(c *Config) {
			c.Env = "production"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	os.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", c.Port)
	assert.Equal(t, "local", c.StorageBackend)
	assert.Equal(t, 10, c.MaxImageSizeMB)
	assert.Equal(t, 50, c.MaxMusicSizeMB)
	assert.Equal(t, 100, c.MaxFileSizeMB)
	assert.Equal(t, "deepseek-chat", c.AIModel)
	assert.Equal(t, "none", c.TraceExporter)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("STORAGE_BACKEND")
	defer os.Unsetenv("S3_BUCKET")

	os.Setenv("PORT", "9000")
	os.Setenv("STORAGE_BACKEND", "s3")
	os.Setenv("S3_BUCKET", "inkwell-media")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "s3", c.StorageBackend)
	assert.Equal(t, "inkwell-media", c.S3Bucket)
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: "test"}).IsProduction())
}
