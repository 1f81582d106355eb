package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
)

// TokenURL path of the client-credentials grant endpoint, relative to the
// API base.
const tokenPath = "/oauth2/token"

// Ensure TokenProvider implements the interface.
var _ driven.TokenProvider = (*TokenProvider)(nil)

// TokenProvider performs the client-credentials grant against the remote
// API and caches the resulting bearer token until Invalidate is called.
// The exchange sends HTTP Basic credentials built from
// base64(client_id:client_secret), which clientcredentials handles via
// AuthStyleInHeader.
type TokenProvider struct {
	conf *clientcredentials.Config

	mu     sync.Mutex
	source oauth2.TokenSource
}

// NewTokenProvider creates a provider exchanging the consumer key pair at
// <baseURL>/oauth2/token.
func NewTokenProvider(baseURL, clientID, clientSecret string) *TokenProvider {
	return &TokenProvider{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     baseURL + tokenPath,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
	}
}

// Token returns the cached access token, exchanging credentials first if
// none is cached. A rejected exchange or an empty access token is
// domain.ErrAuthFailed.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.source == nil {
		// The source outlives the triggering request, so it is bound to
		// a background context with its own timeout-limited client.
		exchangeCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
			Timeout: DefaultTimeout,
		})
		p.source = p.conf.TokenSource(exchangeCtx)
	}
	source := p.source
	p.mu.Unlock()

	// Honor the caller's deadline even though the underlying exchange
	// runs on the provider's own client.
	type result struct {
		tok *oauth2.Token
		err error
	}
	ch := make(chan result, 1)
	go func() {
		tok, err := source.Token()
		ch <- result{tok, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			var retrieveErr *oauth2.RetrieveError
			if errors.As(res.err, &retrieveErr) {
				return "", fmt.Errorf("token endpoint returned %d: %w",
					retrieveErr.Response.StatusCode, domain.ErrAuthFailed)
			}
			return "", fmt.Errorf("%v: %w", res.err, domain.ErrAuthFailed)
		}
		if res.tok.AccessToken == "" {
			return "", fmt.Errorf("token response without access_token: %w", domain.ErrAuthFailed)
		}
		return res.tok.AccessToken, nil
	}
}

// Invalidate drops the cached token source so the next Token call
// re-exchanges credentials.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = nil
}

// DefaultTimeout bounds every outbound call to the remote API.
const DefaultTimeout = 30 * time.Second
