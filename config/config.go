// Copyright (c) StackSpot. All rights reserved.

// Package config loads SDK configuration from the environment once, into an
// explicit struct with named fields and documented defaults. A .env file in
// the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the SDK consumes: credentials, base URLs, and the
// knobs for timeouts, retries, and upload concurrency. Resolve it once with
// [Load] and pass values into the client constructors; components never read
// the environment themselves.
type Config struct {
	// Realm scopes the credentials and agents to a tenant.
	Realm        string
	ClientID     string
	ClientSecret string
	AgentID      string

	// AuthURL, InferenceURL and UploadURL are base URLs; empty values fall
	// back to the platform defaults baked into the stackspot package.
	AuthURL      string
	InferenceURL string
	UploadURL    string

	// Timeout bounds each HTTP call. Default 2m.
	Timeout time.Duration
	// MaxRetries bounds retries of transient failures. Default 3.
	MaxRetries int
	// UploadConcurrency bounds parallel file uploads in a batch. Default 4.
	UploadConcurrency int
}

// Load reads configuration from STACKSPOT_-prefixed environment variables,
// loading a .env file first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Realm:             os.Getenv("STACKSPOT_REALM"),
		ClientID:          os.Getenv("STACKSPOT_CLIENT_ID"),
		ClientSecret:      os.Getenv("STACKSPOT_CLIENT_SECRET"),
		AgentID:           os.Getenv("STACKSPOT_AGENT_ID"),
		AuthURL:           os.Getenv("STACKSPOT_AUTH_URL"),
		InferenceURL:      os.Getenv("STACKSPOT_INFERENCE_URL"),
		UploadURL:         os.Getenv("STACKSPOT_UPLOAD_URL"),
		Timeout:           getDuration("STACKSPOT_TIMEOUT", 2*time.Minute),
		MaxRetries:        getInt("STACKSPOT_MAX_RETRIES", 3),
		UploadConcurrency: getInt("STACKSPOT_UPLOAD_CONCURRENCY", 4),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing required fields before any network use.
func (c *Config) Validate() error {
	switch {
	case c.Realm == "":
		return fmt.Errorf("config: STACKSPOT_REALM is required")
	case c.ClientID == "":
		return fmt.Errorf("config: STACKSPOT_CLIENT_ID is required")
	case c.ClientSecret == "":
		return fmt.Errorf("config: STACKSPOT_CLIENT_SECRET is required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: max retries must not be negative")
	}
	if c.UploadConcurrency < 1 {
		return fmt.Errorf("config: upload concurrency must be at least 1")
	}
	return nil
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
