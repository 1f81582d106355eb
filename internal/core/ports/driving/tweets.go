package driving

import (
	"context"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// TweetReader answers read queries against the stored tweets.
type TweetReader interface {
	// Get returns one tweet with its hashtag and url records, or
	// domain.ErrNotFound.
	Get(ctx context.Context, tweetID string) (*domain.TweetDetail, error)

	// Page returns a paginated listing. start is 1-indexed; start < 1 or
	// limit <= 0 is domain.ErrInvalidRange, a start beyond the stored
	// total is domain.ErrNotFound.
	Page(ctx context.Context, start, limit int) (*domain.TweetPage, error)

	// ByTag returns every tweet bearing the tag, exact case-sensitive
	// match. An empty result is domain.ErrNotFound, not an empty list.
	ByTag(ctx context.Context, tag string) ([]domain.Tweet, error)

	// ByPopularity returns all tweets ordered by favorite count
	// descending.
	ByPopularity(ctx context.Context) ([]domain.Tweet, error)
}
