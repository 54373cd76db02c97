// Copyright (c) StackSpot. All rights reserved.

// Package stackspot implements the platform side of the SDK: the OAuth token
// provider, the authenticated request pipeline, the three-hop file-upload
// protocol, and agent lifecycle management.
//
// Create a client with [New] and pass it to [agentchat.New]:
//
//	client, err := stackspot.New(agentID, stackspot.Credentials{
//	    ClientID:     os.Getenv("STACKSPOT_CLIENT_ID"),
//	    ClientSecret: os.Getenv("STACKSPOT_CLIENT_SECRET"),
//	    Realm:        os.Getenv("STACKSPOT_REALM"),
//	})
//	chat := agentchat.New(client)
package stackspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/stackspot/agent-sdk-go/agentchat"
)

// Client talks to the platform on behalf of one configured agent. It
// implements [agentchat.InferenceClient] and [agentchat.FileUploader];
// lifecycle operations live on [Client.Management].
type Client struct {
	agentID    string
	tp         *transport
	httpClient *http.Client
	retry      RetryConfig
	logger     *slog.Logger

	chatURL           string
	uploadFormURL     string
	agentsURL         string
	uploadConcurrency int
}

// Verify interface compliance at compile time.
var (
	_ agentchat.InferenceClient = (*Client)(nil)
	_ agentchat.FileUploader    = (*Client)(nil)
)

// New creates a platform [Client] for the given agent and credentials.
func New(agentID string, creds Credentials, opts ...Option) (*Client, error) {
	if agentID == "" {
		return nil, fmt.Errorf("%w: agent id is required", agentchat.ErrUsage)
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client credentials are required", agentchat.ErrUsage)
	}
	if creds.Realm == "" {
		return nil, fmt.Errorf("%w: realm is required", agentchat.ErrUsage)
	}

	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}
	if cfg.uploadConcurrency < 1 {
		cfg.uploadConcurrency = 1
	}

	tokens := newTokenProvider(creds, cfg.authURL, cfg.tokenMargin, cfg.httpClient, cfg.retry, cfg.logger)

	return &Client{
		agentID: agentID,
		tp: &transport{
			client: cfg.httpClient,
			tokens: tokens,
			retry:  cfg.retry,
			logger: cfg.logger,
		},
		httpClient:        cfg.httpClient,
		retry:             cfg.retry,
		logger:            cfg.logger,
		chatURL:           joinURL(cfg.inferenceURL, inferenceAPIVersion, "agent", agentID, "chat"),
		uploadFormURL:     joinURL(cfg.uploadURL, uploadAPIVersion, "file-upload", "form"),
		agentsURL:         joinURL(cfg.inferenceURL, inferenceAPIVersion, "agents"),
		uploadConcurrency: cfg.uploadConcurrency,
	}, nil
}

// AgentID returns the agent this client is configured for.
func (c *Client) AgentID() string { return c.agentID }

// answerResponse is the non-streaming inference payload.
type answerResponse struct {
	Answer string `json:"answer"`
}

// Answer sends a non-streaming inference request and returns the complete
// answer text.
func (c *Client) Answer(ctx context.Context, req *agentchat.InferenceRequest) (string, error) {
	req.Streaming = false
	body, err := c.tp.doJSON(ctx, http.MethodPost, c.chatURL, req)
	if err != nil {
		return "", err
	}

	var resp answerResponse
	if err := unmarshalResponse(body, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// StreamAnswer sends a streaming inference request and returns the chunked
// answer body. The caller owns the body and must close it.
func (c *Client) StreamAnswer(ctx context.Context, req *agentchat.InferenceRequest) (io.ReadCloser, error) {
	req.Streaming = true
	resp, err := c.tp.doStream(ctx, http.MethodPost, c.chatURL, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func unmarshalResponse(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &agentchat.APIError{
			Body: fmt.Sprintf("parse response: %v", err),
			Err:  agentchat.ErrAPI,
		}
	}
	return nil
}
