// Copyright (c) StackSpot. All rights reserved.

package stackspot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/stackspot/agent-sdk-go/agentchat"
)

// tokenProvider obtains and caches OAuth access tokens via the
// client-credentials grant, keyed by realm.
//
// A cached token is reused until its expiry minus a safety margin. Expired or
// missing tokens trigger exactly one exchange round trip per expiry window
// per realm: concurrent callers share the in-flight exchange.
type tokenProvider struct {
	creds      Credentials
	tokenURL   string
	margin     time.Duration
	httpClient *http.Client
	retry      RetryConfig
	logger     *slog.Logger

	mu     sync.Mutex
	tokens map[string]*oauth2.Token
	group  singleflight.Group
}

func newTokenProvider(creds Credentials, authURL string, margin time.Duration, httpClient *http.Client, retry RetryConfig, logger *slog.Logger) *tokenProvider {
	return &tokenProvider{
		creds:      creds,
		tokenURL:   joinURL(authURL, creds.Realm, "oauth", "token"),
		margin:     margin,
		httpClient: httpClient,
		retry:      retry,
		logger:     logger,
		tokens:     make(map[string]*oauth2.Token),
	}
}

// Token returns a valid access token, performing a client-credentials
// exchange only when the cached token is missing or inside the safety margin.
func (p *tokenProvider) Token(ctx context.Context) (string, error) {
	if tok := p.cached(); tok != nil {
		return tok.AccessToken, nil
	}

	v, err, _ := p.group.Do(p.creds.Realm, func() (any, error) {
		// A concurrent caller may have refreshed while we waited.
		if tok := p.cached(); tok != nil {
			return tok, nil
		}
		return p.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(*oauth2.Token).AccessToken, nil
}

// Invalidate drops the cached token for the provider's realm, forcing the
// next Token call to perform a fresh exchange.
func (p *tokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tokens, p.creds.Realm)
}

func (p *tokenProvider) cached() *oauth2.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	tok := p.tokens[p.creds.Realm]
	if tok == nil || !tok.Expiry.After(time.Now().Add(p.margin)) {
		return nil
	}
	return tok
}

// exchange performs the client-credentials round trip. Transient failures
// (5xx from the identity endpoint, transport errors) are retried with the
// same backoff bounds as platform calls; a credential rejection is immediate.
func (p *tokenProvider) exchange(ctx context.Context) (*oauth2.Token, error) {
	cfg := &clientcredentials.Config{
		ClientID:     p.creds.ClientID,
		ClientSecret: p.creds.ClientSecret,
		TokenURL:     p.tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	var lastErr *agentchat.AuthError
	delay := p.retry.InitialInterval

	for attempt := 0; ; attempt++ {
		start := time.Now()
		tok, err := cfg.Token(ctx)
		if err == nil {
			p.logger.DebugContext(ctx, "token exchanged",
				"realm", p.creds.Realm,
				"expires_in", time.Until(tok.Expiry).Round(time.Second),
				"latency", time.Since(start),
			)
			p.mu.Lock()
			p.tokens[p.creds.Realm] = tok
			p.mu.Unlock()
			return tok, nil
		}

		authErr := &agentchat.AuthError{
			Realm:   p.creds.Realm,
			Message: "token exchange failed",
			Err:     agentchat.ErrAuth,
		}
		transient := true
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			authErr.StatusCode = re.Response.StatusCode
			authErr.Message = fmt.Sprintf("token exchange rejected: %s", truncate(string(re.Body), 512))
			transient = re.Response.StatusCode >= 500
		}

		if !transient {
			p.logger.ErrorContext(ctx, "token exchange failed",
				"realm", p.creds.Realm,
				"status", authErr.StatusCode,
			)
			return nil, authErr
		}

		lastErr = authErr
		p.logger.WarnContext(ctx, "token exchange failed",
			"realm", p.creds.Realm,
			"status", authErr.StatusCode,
			"latency", time.Since(start),
		)

		if attempt >= p.retry.MaxRetries {
			return nil, lastErr
		}
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
		delay = p.retry.next(delay)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
