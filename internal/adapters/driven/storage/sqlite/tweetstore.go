package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
)

// tweetColumns is the scan order shared by every tweet query.
const tweetColumns = `tweet_id, created_at, text, result_type, geo, coordinates,
	retweet_count, favorite_count, lang,
	author_id, author_name, author_screen_name, author_location,
	author_followers, author_friends, author_statuses, author_lang`

// tweetStore implements driven.TweetStore.
type tweetStore struct {
	store *Store
}

var _ driven.TweetStore = (*tweetStore)(nil)

// SavePage persists one ingestion page in a single transaction. The
// unique constraint on tweet_id turns a concurrent duplicate into an
// aborted page rather than a partial one.
func (s *tweetStore) SavePage(
	ctx context.Context,
	tweets []domain.Tweet,
	tags []domain.Hashtag,
	urls []domain.URLRecord,
) error {
	if len(tweets) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO tweets (`+tweetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing tweet insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tweets {
		res, err := stmt.ExecContext(ctx,
			t.TweetID, t.CreatedAt, t.Text, t.ResultType, t.Geo, t.Coordinates,
			t.RetweetCount, t.FavoriteCount, t.Lang,
			t.AuthorID, t.AuthorName, t.AuthorScreenName, t.AuthorLocation,
			t.AuthorFollowers, t.AuthorFriends, t.AuthorStatuses, t.AuthorLang)
		if err != nil {
			return fmt.Errorf("inserting tweet %s: %w", t.TweetID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("inserting tweet %s: %w", t.TweetID, err)
		}
		if affected == 0 {
			// Lost a race with a concurrent ingest; abort the page.
			return fmt.Errorf("tweet %s: %w", t.TweetID, domain.ErrAlreadyExists)
		}
	}

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO hashtags (tweet_id, text) VALUES (?, ?)",
			tag.TweetID, tag.Text); err != nil {
			return fmt.Errorf("inserting hashtag for %s: %w", tag.TweetID, err)
		}
	}

	for _, u := range urls {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO urls (tweet_id, url, expanded_url, display_url) VALUES (?, ?, ?, ?)",
			u.TweetID, u.URL, u.ExpandedURL, u.DisplayURL); err != nil {
			return fmt.Errorf("inserting url for %s: %w", u.TweetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing page: %w", err)
	}
	return nil
}

// Exists reports whether a tweet with the given remote id is stored.
func (s *tweetStore) Exists(ctx context.Context, tweetID string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tweets WHERE tweet_id = ?", tweetID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking tweet: %w", err)
	}
	return count > 0, nil
}

// Get retrieves a tweet by remote id.
func (s *tweetStore) Get(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+tweetColumns+" FROM tweets WHERE tweet_id = ?", tweetID)

	tweet, err := scanTweetRow(row)
	if err != nil {
		return nil, err
	}
	return tweet, nil
}

// Hashtags returns the hashtag records of a tweet, in insertion order.
func (s *tweetStore) Hashtags(ctx context.Context, tweetID string) ([]domain.Hashtag, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT tweet_id, text FROM hashtags WHERE tweet_id = ? ORDER BY id", tweetID)
	if err != nil {
		return nil, fmt.Errorf("querying hashtags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Hashtag //nolint:prealloc // size unknown from query
	for rows.Next() {
		var tag domain.Hashtag
		if err := rows.Scan(&tag.TweetID, &tag.Text); err != nil {
			return nil, fmt.Errorf("scanning hashtag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hashtags: %w", err)
	}
	return tags, nil
}

// URLs returns the url records of a tweet, in insertion order.
func (s *tweetStore) URLs(ctx context.Context, tweetID string) ([]domain.URLRecord, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT tweet_id, url, expanded_url, display_url FROM urls WHERE tweet_id = ? ORDER BY id", tweetID)
	if err != nil {
		return nil, fmt.Errorf("querying urls: %w", err)
	}
	defer rows.Close()

	var urls []domain.URLRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var u domain.URLRecord
		if err := rows.Scan(&u.TweetID, &u.URL, &u.ExpandedURL, &u.DisplayURL); err != nil {
			return nil, fmt.Errorf("scanning url: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating urls: %w", err)
	}
	return urls, nil
}

// List returns up to limit tweets starting at the zero-based offset, in
// insertion order.
func (s *tweetStore) List(ctx context.Context, offset, limit int) ([]domain.Tweet, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+tweetColumns+" FROM tweets ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying tweets: %w", err)
	}
	defer rows.Close()

	return scanTweets(rows)
}

// Count returns the number of stored tweets.
func (s *tweetStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tweets").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tweets: %w", err)
	}
	return count, nil
}

// ListByTag returns all tweets bearing the tag. SQLite string equality
// is case-sensitive by default, which is exactly the contract.
func (s *tweetStore) ListByTag(ctx context.Context, tag string) ([]domain.Tweet, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+tweetColumns+`
		FROM tweets
		WHERE tweet_id IN (SELECT tweet_id FROM hashtags WHERE text = ?)
		ORDER BY id
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("querying tweets by tag: %w", err)
	}
	defer rows.Close()

	return scanTweets(rows)
}

// ListByPopularity returns all tweets, favorite count descending,
// insertion order on ties.
func (s *tweetStore) ListByPopularity(ctx context.Context) ([]domain.Tweet, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+tweetColumns+" FROM tweets ORDER BY favorite_count DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying tweets by popularity: %w", err)
	}
	defer rows.Close()

	return scanTweets(rows)
}

// scanTweetRow scans a single tweet row.
func scanTweetRow(row *sql.Row) (*domain.Tweet, error) {
	var t domain.Tweet
	if err := row.Scan(
		&t.TweetID, &t.CreatedAt, &t.Text, &t.ResultType, &t.Geo, &t.Coordinates,
		&t.RetweetCount, &t.FavoriteCount, &t.Lang,
		&t.AuthorID, &t.AuthorName, &t.AuthorScreenName, &t.AuthorLocation,
		&t.AuthorFollowers, &t.AuthorFriends, &t.AuthorStatuses, &t.AuthorLang,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning tweet: %w", err)
	}
	return &t, nil
}

// scanTweets scans multiple tweet rows.
func scanTweets(rows *sql.Rows) ([]domain.Tweet, error) {
	var tweets []domain.Tweet //nolint:prealloc // size unknown from query
	for rows.Next() {
		var t domain.Tweet
		if err := rows.Scan(
			&t.TweetID, &t.CreatedAt, &t.Text, &t.ResultType, &t.Geo, &t.Coordinates,
			&t.RetweetCount, &t.FavoriteCount, &t.Lang,
			&t.AuthorID, &t.AuthorName, &t.AuthorScreenName, &t.AuthorLocation,
			&t.AuthorFollowers, &t.AuthorFriends, &t.AuthorStatuses, &t.AuthorLang,
		); err != nil {
			return nil, fmt.Errorf("scanning tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tweets: %w", err)
	}
	return tweets, nil
}
