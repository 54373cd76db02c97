// Copyright (c) StackSpot. All rights reserved.

package stackspot

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAuthURL      = "https://idm.stackspot.com"
	defaultInferenceURL = "https://genai-inference-app.stackspot.com"
	defaultUploadURL    = "https://data-integration-api.stackspot.com"

	inferenceAPIVersion = "v1"
	uploadAPIVersion    = "v2"

	defaultTimeout           = 2 * time.Minute
	defaultTokenMargin       = 10 * time.Second
	defaultUploadConcurrency = 4
)

// Credentials identify an OAuth client within a realm. They are supplied at
// construction, never mutated, and never logged.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Realm        string
}

// clientConfig holds resolved configuration for a platform [Client].
type clientConfig struct {
	httpClient        *http.Client
	authURL           string
	inferenceURL      string
	uploadURL         string
	timeout           time.Duration
	tokenMargin       time.Duration
	retry             RetryConfig
	uploadConcurrency int
	logger            *slog.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		authURL:           defaultAuthURL,
		inferenceURL:      defaultInferenceURL,
		uploadURL:         defaultUploadURL,
		timeout:           defaultTimeout,
		tokenMargin:       defaultTokenMargin,
		retry:             DefaultRetryConfig(),
		uploadConcurrency: defaultUploadConcurrency,
	}
}

// Option configures a platform [Client].
type Option func(*clientConfig)

// WithHTTPClient provides a custom http.Client for all requests, including
// the token exchange and storage transfers.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithAuthURL overrides the identity service base URL.
func WithAuthURL(url string) Option {
	return func(c *clientConfig) { c.authURL = url }
}

// WithInferenceURL overrides the inference API base URL.
func WithInferenceURL(url string) Option {
	return func(c *clientConfig) { c.inferenceURL = url }
}

// WithUploadURL overrides the upload API base URL.
func WithUploadURL(url string) Option {
	return func(c *clientConfig) { c.uploadURL = url }
}

// WithTimeout sets the per-call HTTP timeout. A timeout is treated the same
// as a transport failure for retry purposes.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithTokenMargin sets the safety margin subtracted from a token's expiry
// when deciding whether it is still usable.
func WithTokenMargin(d time.Duration) Option {
	return func(c *clientConfig) { c.tokenMargin = d }
}

// WithRetryConfig overrides the retry bounds for transient failures.
func WithRetryConfig(rc RetryConfig) Option {
	return func(c *clientConfig) { c.retry = rc }
}

// WithUploadConcurrency bounds the number of files uploaded in parallel
// during a batch upload.
func WithUploadConcurrency(n int) Option {
	return func(c *clientConfig) { c.uploadConcurrency = n }
}

// WithLogger sets the logger used for request/response records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// joinURL joins a base URL and path segments, normalizing slashes exactly
// once. Empty segments are dropped.
func joinURL(base string, parts ...string) string {
	b := strings.TrimRight(base, "/")
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			b += "/" + p
		}
	}
	return b
}
