package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
	"github.com/aviary-labs/aviary/internal/core/ports/driving"
)

// DuplicatePolicy decides what an already-stored tweet id does to the
// rest of the page.
type DuplicatePolicy string

const (
	// DuplicateHalt stops processing the remainder of the page on the
	// first known id. Matches the historically observed behavior; note
	// that it under-ingests when the remote API returns newest-first.
	DuplicateHalt DuplicatePolicy = "halt"

	// DuplicateSkip skips known ids and keeps processing the page.
	DuplicateSkip DuplicatePolicy = "skip"
)

// ParseDuplicatePolicy converts a config string to a policy, defaulting
// to halt for the empty string.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "":
		return DuplicateHalt, nil
	case DuplicateHalt, DuplicateSkip:
		return DuplicatePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q: %w", s, domain.ErrInvalidInput)
	}
}

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService coordinates one ingestion run: search, per-item
// normalization with the duplicate policy applied, and a single atomic
// page commit. It exclusively owns the write path into the tweet store.
type IngestService struct {
	store  driven.TweetStore
	search driven.SearchAPI
	tokens driven.TokenProvider
	log    *logrus.Entry

	mu     sync.RWMutex
	policy DuplicatePolicy
}

// NewIngestService creates an ingestion coordinator. The token provider
// is only used to force a re-exchange after an authorization failure;
// the search adapter attaches the bearer itself.
func NewIngestService(
	store driven.TweetStore,
	search driven.SearchAPI,
	tokens driven.TokenProvider,
	policy DuplicatePolicy,
	log *logrus.Entry,
) *IngestService {
	if policy == "" {
		policy = DuplicateHalt
	}
	return &IngestService{
		store:  store,
		search: search,
		tokens: tokens,
		log:    log,
		policy: policy,
	}
}

// Policy returns the current duplicate policy.
func (s *IngestService) Policy() DuplicatePolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy swaps the duplicate policy. Used by config hot reload.
func (s *IngestService) SetPolicy(policy DuplicatePolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
}

// Ingest fetches one result page and stores the new tweets. Either every
// staged tweet with its hashtags and urls persists, or none do. The
// returned count is the number of tweets committed.
func (s *IngestService) Ingest(ctx context.Context, query domain.SearchQuery) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, fmt.Errorf("validate query: %w", err)
	}

	page, err := s.searchWithReauth(ctx, query)
	if err != nil {
		return 0, err
	}

	policy := s.Policy()

	var (
		tweets []domain.Tweet
		tags   []domain.Hashtag
		urls   []domain.URLRecord
		staged = make(map[string]struct{})
	)

	// Items are processed in the order the remote API returned them.
	for _, raw := range page.Items {
		known := false
		if _, ok := staged[raw.IDStr]; ok && raw.IDStr != "" {
			known = true
		} else if raw.IDStr != "" {
			known, err = s.store.Exists(ctx, raw.IDStr)
			if err != nil {
				return 0, fmt.Errorf("check duplicate: %w", err)
			}
		}
		if known {
			if policy == DuplicateHalt {
				s.log.WithField("tweet_id", raw.IDStr).Warn("duplicate tweet id, halting page")
				break
			}
			s.log.WithField("tweet_id", raw.IDStr).Debug("duplicate tweet id, skipping")
			continue
		}

		tweet, itemTags, itemURLs, err := Normalize(raw)
		if err != nil {
			// Atomic-commit semantics: a malformed item aborts the
			// whole page with nothing committed.
			return 0, err
		}
		tweets = append(tweets, tweet)
		tags = append(tags, itemTags...)
		urls = append(urls, itemURLs...)
		staged[tweet.TweetID] = struct{}{}
	}

	if len(tweets) == 0 {
		s.log.Info("no new tweets in page")
		return 0, nil
	}

	if err := s.store.SavePage(ctx, tweets, tags, urls); err != nil {
		return 0, fmt.Errorf("commit page: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"inserted": len(tweets),
		"hashtags": len(tags),
		"urls":     len(urls),
	}).Info("page ingested")

	return len(tweets), nil
}

// searchWithReauth performs the search, re-exchanging the bearer token
// exactly once if the remote API rejects it mid-run.
func (s *IngestService) searchWithReauth(ctx context.Context, query domain.SearchQuery) (*domain.ResultPage, error) {
	page, err := s.search.Search(ctx, query)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, domain.ErrAuthFailed) {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.log.Warn("bearer token rejected, re-authenticating")
	s.tokens.Invalidate()
	if _, tokenErr := s.tokens.Token(ctx); tokenErr != nil {
		return nil, fmt.Errorf("re-authenticate: %w", tokenErr)
	}

	page, err = s.search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search after re-auth: %w", err)
	}
	return page, nil
}
