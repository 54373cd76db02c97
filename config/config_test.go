// Copyright (c) StackSpot. All rights reserved.

package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stackspot/agent-sdk-go/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("STACKSPOT_REALM", "acme")
	t.Setenv("STACKSPOT_CLIENT_ID", "cid")
	t.Setenv("STACKSPOT_CLIENT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("STACKSPOT_TIMEOUT", "")
	t.Setenv("STACKSPOT_MAX_RETRIES", "")
	t.Setenv("STACKSPOT_UPLOAD_CONCURRENCY", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Realm != "acme" || cfg.ClientID != "cid" || cfg.ClientSecret != "secret" {
		t.Errorf("credentials = %q/%q/***", cfg.Realm, cfg.ClientID)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want default 2m", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.MaxRetries)
	}
	if cfg.UploadConcurrency != 4 {
		t.Errorf("UploadConcurrency = %d, want default 4", cfg.UploadConcurrency)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("STACKSPOT_AGENT_ID", "agent-1")
	t.Setenv("STACKSPOT_AUTH_URL", "https://idm.example.test")
	t.Setenv("STACKSPOT_TIMEOUT", "30s")
	t.Setenv("STACKSPOT_MAX_RETRIES", "5")
	t.Setenv("STACKSPOT_UPLOAD_CONCURRENCY", "2")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AgentID != "agent-1" {
		t.Errorf("AgentID = %q", cfg.AgentID)
	}
	if cfg.AuthURL != "https://idm.example.test" {
		t.Errorf("AuthURL = %q", cfg.AuthURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.UploadConcurrency != 2 {
		t.Errorf("UploadConcurrency = %d", cfg.UploadConcurrency)
	}
}

func TestLoadUnparsableValuesFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("STACKSPOT_TIMEOUT", "soon")
	t.Setenv("STACKSPOT_MAX_RETRIES", "lots")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want the default", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want the default", cfg.MaxRetries)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"realm", "STACKSPOT_REALM"},
		{"client id", "STACKSPOT_CLIENT_ID"},
		{"client secret", "STACKSPOT_CLIENT_SECRET"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.unset, "")

			_, err := config.Load()
			if err == nil {
				t.Fatal("Load should fail without", tc.unset)
			}
			if !strings.Contains(err.Error(), tc.unset) {
				t.Errorf("error %q should name %s", err, tc.unset)
			}
		})
	}
}

func TestValidateBounds(t *testing.T) {
	cfg := &config.Config{Realm: "r", ClientID: "c", ClientSecret: "s", MaxRetries: -1, UploadConcurrency: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("negative MaxRetries should fail validation")
	}
	cfg.MaxRetries = 0
	cfg.UploadConcurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero UploadConcurrency should fail validation")
	}
}
