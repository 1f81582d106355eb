package services

import (
	"context"
	"fmt"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
	"github.com/aviary-labs/aviary/internal/core/ports/driving"
)

// Ensure TweetService implements the interface.
var _ driving.TweetReader = (*TweetService)(nil)

// TweetService answers read queries against the tweet store. It never
// writes.
type TweetService struct {
	store driven.TweetStore
}

// NewTweetService creates a read accessor over the given store.
func NewTweetService(store driven.TweetStore) *TweetService {
	return &TweetService{store: store}
}

// Get returns one tweet with its hashtag and url records.
func (s *TweetService) Get(ctx context.Context, tweetID string) (*domain.TweetDetail, error) {
	tweet, err := s.store.Get(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	tags, err := s.store.Hashtags(ctx, tweetID)
	if err != nil {
		return nil, fmt.Errorf("load hashtags: %w", err)
	}
	urls, err := s.store.URLs(ctx, tweetID)
	if err != nil {
		return nil, fmt.Errorf("load urls: %w", err)
	}

	return &domain.TweetDetail{Tweet: *tweet, Hashtags: tags, URLs: urls}, nil
}

// Page returns a paginated listing. start is 1-indexed. The effective
// limit is clamped at the tail so the page never reads past the stored
// total; the previous offset steps back one full requested limit.
func (s *TweetService) Page(ctx context.Context, start, limit int) (*domain.TweetPage, error) {
	if start < 1 || limit <= 0 {
		return nil, fmt.Errorf("start=%d limit=%d: %w", start, limit, domain.ErrInvalidRange)
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tweets: %w", err)
	}
	if start > total {
		return nil, fmt.Errorf("page start %d beyond %d stored tweets: %w", start, total, domain.ErrNotFound)
	}

	effective := limit
	if start+limit-1 > total {
		effective = total - start + 1
	}

	items, err := s.store.List(ctx, start-1, effective)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}

	page := &domain.TweetPage{
		Items: items,
		Count: len(items),
		Total: total,
	}
	if start > 1 {
		page.HasPrevious = true
		page.Previous = start - limit
		if page.Previous < 1 {
			page.Previous = 1
		}
	}
	if start+len(items) <= total {
		page.HasNext = true
		page.Next = start + len(items)
	}
	return page, nil
}

// ByTag returns every tweet bearing the tag, exact case-sensitive match.
// No match is domain.ErrNotFound, mirroring the API contract.
func (s *TweetService) ByTag(ctx context.Context, tag string) ([]domain.Tweet, error) {
	if tag == "" {
		return nil, fmt.Errorf("empty tag: %w", domain.ErrInvalidInput)
	}
	tweets, err := s.store.ListByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("list by tag: %w", err)
	}
	if len(tweets) == 0 {
		return nil, fmt.Errorf("no tweets tagged %q: %w", tag, domain.ErrNotFound)
	}
	return tweets, nil
}

// ByPopularity returns all tweets, favorite count descending, insertion
// order on ties.
func (s *TweetService) ByPopularity(ctx context.Context) ([]domain.Tweet, error) {
	tweets, err := s.store.ListByPopularity(ctx)
	if err != nil {
		return nil, fmt.Errorf("list by popularity: %w", err)
	}
	return tweets, nil
}
