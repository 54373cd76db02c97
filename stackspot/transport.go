// Copyright (c) StackSpot. All rights reserved.

package stackspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/stackspot/agent-sdk-go/agentchat"
)

// transport is the authenticated request pipeline shared by every platform
// call: it injects the bearer token, retries transient failures with backoff,
// performs exactly one forced token refresh on a 401, and maps everything
// else to typed errors.
type transport struct {
	client *http.Client
	tokens *tokenProvider
	retry  RetryConfig
	logger *slog.Logger
}

// doJSON performs an authenticated request with a JSON body and returns the
// raw response body.
func (t *transport) doJSON(ctx context.Context, method, url string, body any) ([]byte, error) {
	payload, err := marshalBody(body)
	if err != nil {
		return nil, err
	}
	resp, err := t.do(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &agentchat.APIError{
			Resource: resourcePath(url),
			Body:     fmt.Sprintf("read response: %v", err),
			Err:      agentchat.ErrAPI,
		}
	}
	return data, nil
}

// doStream performs an authenticated request and returns the response with
// its body still open. The caller owns the body.
func (t *transport) doStream(ctx context.Context, method, url string, body any) (*http.Response, error) {
	payload, err := marshalBody(body)
	if err != nil {
		return nil, err
	}
	return t.do(ctx, method, url, payload)
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return payload, nil
}

func (t *transport) do(ctx context.Context, method, rawURL string, payload []byte) (*http.Response, error) {
	resource := resourcePath(rawURL)

	var lastErr error
	delay := t.retry.InitialInterval
	retries := 0
	refreshed := false

	for {
		tok, err := t.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tok)

		start := time.Now()
		resp, err := t.client.Do(req)
		latency := time.Since(start)

		if err == nil && resp.StatusCode < 400 {
			t.logger.DebugContext(ctx, "request completed",
				"method", method,
				"path", resource,
				"status", resp.StatusCode,
				"latency", latency,
			)
			return resp, nil
		}

		switch {
		case err != nil:
			// Transport failure or timeout, retryable.
			lastErr = &agentchat.APIError{
				Resource: resource,
				Body:     err.Error(),
				Err:      agentchat.ErrAPI,
			}
			t.logger.WarnContext(ctx, "request failed",
				"method", method,
				"path", resource,
				"error", err,
				"latency", latency,
			)

		case resp.StatusCode == http.StatusUnauthorized:
			drainBody(resp)
			t.logger.WarnContext(ctx, "request unauthorized",
				"method", method,
				"path", resource,
				"status", resp.StatusCode,
				"latency", latency,
			)
			if refreshed {
				return nil, &agentchat.AuthError{
					Realm:      t.tokens.creds.Realm,
					StatusCode: resp.StatusCode,
					Message:    "request unauthorized after token refresh",
					Err:        agentchat.ErrAuth,
				}
			}
			// Exactly one forced refresh-and-retry, without backoff.
			refreshed = true
			t.tokens.Invalidate()
			continue

		case resp.StatusCode >= 500:
			body := drainBody(resp)
			lastErr = &agentchat.APIError{
				StatusCode: resp.StatusCode,
				Resource:   resource,
				Body:       truncate(body, 512),
				Err:        agentchat.ErrAPI,
			}
			t.logger.WarnContext(ctx, "request failed",
				"method", method,
				"path", resource,
				"status", resp.StatusCode,
				"latency", latency,
			)

		default:
			// Remaining 4xx are definitive, never retried.
			body := drainBody(resp)
			t.logger.WarnContext(ctx, "request rejected",
				"method", method,
				"path", resource,
				"status", resp.StatusCode,
				"latency", latency,
			)
			return nil, &agentchat.APIError{
				StatusCode: resp.StatusCode,
				Resource:   resource,
				Body:       truncate(body, 512),
				Err:        agentchat.ErrAPI,
			}
		}

		if retries >= t.retry.MaxRetries {
			return nil, lastErr
		}
		retries++
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
		delay = t.retry.next(delay)
	}
}

func drainBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return string(body)
}

func resourcePath(rawURL string) string {
	if u, err := neturl.Parse(rawURL); err == nil && u.Path != "" {
		return u.Path
	}
	return rawURL
}
