package driven

import (
	"context"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// TokenProvider exchanges API credentials for a bearer token and caches
// it until invalidated. Implementations are safe for concurrent use; a
// race between two invalidations at worst re-exchanges redundantly.
type TokenProvider interface {
	// Token returns the current access token, performing the
	// client-credentials exchange if none is cached. A rejected exchange
	// or a response without an access token yields domain.ErrAuthFailed.
	Token(ctx context.Context) (string, error)

	// Invalidate drops the cached token so the next Token call
	// re-exchanges. Called after the remote API rejects the bearer.
	Invalidate()
}

// SearchAPI issues one parameterized query against the remote search API
// and returns the raw result page. It performs no deduplication against
// storage and no retries.
type SearchAPI interface {
	Search(ctx context.Context, query domain.SearchQuery) (*domain.ResultPage, error)
}
