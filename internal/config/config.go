// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible store for sessions and toggle guards)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Blob storage. StorageDriver is "s3" or "minio"; storage is disabled
	// when the endpoint or credentials are empty.
	StorageDriver string
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string
	StorageUseSSL bool

	// CommentsPerMinute limits comment posting per client IP.
	CommentsPerMinute int

	// LiveRefresh is how often live project pages are refreshed.
	LiveRefresh time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; real environment variables take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "diyverse"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "diyverse"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		StorageDriver: envOrDefault("STORAGE_DRIVER", "s3"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3Region:      envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:   os.Getenv("S3_PUBLIC_URL"),
		StorageUseSSL: envOrDefault("STORAGE_USE_SSL", "true") == "true",
	}

	perMinute, err := strconv.Atoi(envOrDefault("COMMENTS_PER_MINUTE", "10"))
	if err != nil || perMinute <= 0 {
		return nil, fmt.Errorf("COMMENTS_PER_MINUTE must be a positive integer")
	}
	cfg.CommentsPerMinute = perMinute

	liveSeconds, err := strconv.Atoi(envOrDefault("LIVE_REFRESH_SECONDS", "15"))
	if err != nil || liveSeconds <= 0 {
		return nil, fmt.Errorf("LIVE_REFRESH_SECONDS must be a positive integer")
	}
	cfg.LiveRefresh = time.Duration(liveSeconds) * time.Second

	switch cfg.StorageDriver {
	case "s3", "minio":
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER must be \"s3\" or \"minio\", got %q", cfg.StorageDriver)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
