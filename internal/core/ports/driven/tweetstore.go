package driven

import (
	"context"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// TweetStore is the persistence boundary for tweets and their derived
// records. The ingestion service owns the write path; everything else
// only reads.
type TweetStore interface {
	// SavePage persists one ingestion page atomically: every tweet with
	// its hashtags and urls, or nothing at all. A duplicate tweet id in
	// the batch or in the store aborts the whole page with
	// domain.ErrAlreadyExists.
	SavePage(ctx context.Context, tweets []domain.Tweet, tags []domain.Hashtag, urls []domain.URLRecord) error

	// Exists reports whether a tweet with the given remote id is stored.
	Exists(ctx context.Context, tweetID string) (bool, error)

	// Get returns a single tweet by remote id, or domain.ErrNotFound.
	Get(ctx context.Context, tweetID string) (*domain.Tweet, error)

	// Hashtags returns the hashtag records of a tweet, in insertion order.
	Hashtags(ctx context.Context, tweetID string) ([]domain.Hashtag, error)

	// URLs returns the url records of a tweet, in insertion order.
	URLs(ctx context.Context, tweetID string) ([]domain.URLRecord, error)

	// List returns up to limit tweets starting at the zero-based offset,
	// in insertion order.
	List(ctx context.Context, offset, limit int) ([]domain.Tweet, error)

	// Count returns the number of stored tweets.
	Count(ctx context.Context) (int, error)

	// ListByTag returns all tweets bearing the tag, exact case-sensitive
	// match, in insertion order. An empty result is an empty slice; the
	// not-found contract lives in the service layer.
	ListByTag(ctx context.Context, tag string) ([]domain.Tweet, error)

	// ListByPopularity returns all tweets ordered by favorite count
	// descending, insertion order on ties.
	ListByPopularity(ctx context.Context) ([]domain.Tweet, error)
}
