package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProdConfig() *Config {
	return &Config{
		Port:           "8375",
		Env:            "production",
		JWTSecret:      strings.Repeat("s", 32),
		DBPassword:     "something-strong",
		DBSSLMode:      "require",
		AllowedOrigins: "https://warbler.example.com",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid production config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: "PORT is required",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "default jwt secret in production",
			mutate:  func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" },
			wantErr: "changed from the default",
		},
		{
			name:    "short jwt secret in production",
			mutate:  func(c *Config) { c.JWTSecret = "short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "weak db password in production",
			mutate:  func(c *Config) { c.DBPassword = "password" },
			wantErr: "DB_PASSWORD",
		},
		{
			name:    "ssl disabled in production",
			mutate:  func(c *Config) { c.DBSSLMode = "disable" },
			wantErr: "DB_SSLMODE",
		},
		{
			name: "prod alias enforces the same checks",
			mutate: func(c *Config) {
				c.Env = "prod"
				c.DBSSLMode = ""
			},
			wantErr: "DB_SSLMODE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProdConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_DevelopmentIsLenient(t *testing.T) {
	cfg := &Config{
		Port:      "8375",
		Env:       "development",
		JWTSecret: "short-dev-secret",
		DBSSLMode: "disable",
	}
	assert.NoError(t, cfg.Validate())
}
