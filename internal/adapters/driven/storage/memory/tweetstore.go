package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
)

// Ensure TweetStore implements the interface.
var _ driven.TweetStore = (*TweetStore)(nil)

// TweetStore is an in-memory implementation of driven.TweetStore used in
// tests and local development. It mirrors the SQLite store's semantics,
// including atomic page commits and duplicate rejection.
type TweetStore struct {
	mu     sync.RWMutex
	order  []string // tweet ids in insertion order
	tweets map[string]domain.Tweet
	tags   map[string][]domain.Hashtag
	urls   map[string][]domain.URLRecord

	// FailSavePage forces the next SavePage to fail after staging
	// nothing, for atomicity tests.
	FailSavePage bool
}

// NewTweetStore creates an empty in-memory tweet store.
func NewTweetStore() *TweetStore {
	return &TweetStore{
		tweets: make(map[string]domain.Tweet),
		tags:   make(map[string][]domain.Hashtag),
		urls:   make(map[string][]domain.URLRecord),
	}
}

// SavePage persists the page atomically: it validates the whole batch
// against the store before mutating anything.
func (s *TweetStore) SavePage(
	_ context.Context,
	tweets []domain.Tweet,
	tags []domain.Hashtag,
	urls []domain.URLRecord,
) error {
	if len(tweets) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSavePage {
		return fmt.Errorf("memory store: simulated commit failure")
	}

	seen := make(map[string]struct{}, len(tweets))
	for _, t := range tweets {
		if _, ok := s.tweets[t.TweetID]; ok {
			return fmt.Errorf("tweet %s: %w", t.TweetID, domain.ErrAlreadyExists)
		}
		if _, ok := seen[t.TweetID]; ok {
			return fmt.Errorf("tweet %s: %w", t.TweetID, domain.ErrAlreadyExists)
		}
		seen[t.TweetID] = struct{}{}
	}

	for _, t := range tweets {
		s.tweets[t.TweetID] = t
		s.order = append(s.order, t.TweetID)
	}
	for _, tag := range tags {
		s.tags[tag.TweetID] = append(s.tags[tag.TweetID], tag)
	}
	for _, u := range urls {
		s.urls[u.TweetID] = append(s.urls[u.TweetID], u)
	}
	return nil
}

// Exists reports whether a tweet id is stored.
func (s *TweetStore) Exists(_ context.Context, tweetID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tweets[tweetID]
	return ok, nil
}

// Get returns a tweet by id.
func (s *TweetStore) Get(_ context.Context, tweetID string) (*domain.Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tweets[tweetID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// Hashtags returns the hashtag records of a tweet.
func (s *TweetStore) Hashtags(_ context.Context, tweetID string) ([]domain.Hashtag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Hashtag(nil), s.tags[tweetID]...), nil
}

// URLs returns the url records of a tweet.
func (s *TweetStore) URLs(_ context.Context, tweetID string) ([]domain.URLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.URLRecord(nil), s.urls[tweetID]...), nil
}

// List returns up to limit tweets from the zero-based offset, in
// insertion order.
func (s *TweetStore) List(_ context.Context, offset, limit int) ([]domain.Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 || offset >= len(s.order) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.order) {
		end = len(s.order)
	}

	tweets := make([]domain.Tweet, 0, end-offset)
	for _, id := range s.order[offset:end] {
		tweets = append(tweets, s.tweets[id])
	}
	return tweets, nil
}

// Count returns the number of stored tweets.
func (s *TweetStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// ListByTag returns all tweets bearing the tag, exact case-sensitive
// match, in insertion order.
func (s *TweetStore) ListByTag(_ context.Context, tag string) ([]domain.Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tweets []domain.Tweet
	for _, id := range s.order {
		for _, h := range s.tags[id] {
			if h.Text == tag {
				tweets = append(tweets, s.tweets[id])
				break
			}
		}
	}
	return tweets, nil
}

// ListByPopularity returns all tweets, favorite count descending,
// insertion order on ties.
func (s *TweetStore) ListByPopularity(_ context.Context) ([]domain.Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tweets := make([]domain.Tweet, 0, len(s.order))
	for _, id := range s.order {
		tweets = append(tweets, s.tweets[id])
	}
	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].FavoriteCount > tweets[j].FavoriteCount
	})
	return tweets, nil
}
