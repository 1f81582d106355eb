package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

func TestNormalize(t *testing.T) {
	t.Run("full item maps onto tweet with hashtags and urls", func(t *testing.T) {
		raw := domain.RawTweet{
			IDStr:         "1001",
			CreatedAt:     "Mon Sep 24 03:35:21 +0000 2012",
			Text:          "two tags one link #go #sqlite https://t.co/abc",
			Metadata:      &domain.RawMetadata{ResultType: "recent"},
			Geo:           json.RawMessage(`{"type": "Point"}`),
			RetweetCount:  3,
			FavoriteCount: 7,
			Lang:          "en",
			User: &domain.RawUser{
				ID:             json.Number("42"),
				IDStr:          "42",
				Name:           "Gopher",
				ScreenName:     "gopher",
				Location:       "The Burrow",
				FollowersCount: 100,
				FriendsCount:   50,
				StatusesCount:  200,
				Lang:           "en",
			},
			Entities: &domain.RawEntities{
				Hashtags: []domain.RawHashtag{{Text: "go"}, {Text: "sqlite"}},
				URLs: []domain.RawURL{{
					URL:         "https://t.co/abc",
					ExpandedURL: "https://example.com/post",
					DisplayURL:  "example.com/post",
				}},
			},
		}

		tweet, tags, urls, err := Normalize(raw)

		require.NoError(t, err)
		assert.Equal(t, "1001", tweet.TweetID)
		assert.Equal(t, "Mon Sep 24 03:35:21 +0000 2012", tweet.CreatedAt)
		assert.Equal(t, "recent", tweet.ResultType)
		assert.Equal(t, `{"type":"Point"}`, tweet.Geo)
		assert.Equal(t, 7, tweet.FavoriteCount)
		assert.Equal(t, "42", tweet.AuthorID)
		assert.Equal(t, "gopher", tweet.AuthorScreenName)

		require.Len(t, tags, 2)
		assert.Equal(t, domain.Hashtag{TweetID: "1001", Text: "go"}, tags[0])
		assert.Equal(t, domain.Hashtag{TweetID: "1001", Text: "sqlite"}, tags[1])

		require.Len(t, urls, 1)
		assert.Equal(t, "1001", urls[0].TweetID)
		assert.Equal(t, "https://example.com/post", urls[0].ExpandedURL)
	})

	t.Run("missing id_str is malformed", func(t *testing.T) {
		_, _, _, err := Normalize(domain.RawTweet{Text: "no id"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMalformedTweet)
	})

	t.Run("everything else defaults when absent", func(t *testing.T) {
		tweet, tags, urls, err := Normalize(domain.RawTweet{IDStr: "1002"})

		require.NoError(t, err)
		assert.Equal(t, "1002", tweet.TweetID)
		assert.Empty(t, tweet.Text)
		assert.Empty(t, tweet.ResultType)
		assert.Empty(t, tweet.Geo)
		assert.Empty(t, tweet.AuthorID)
		assert.Zero(t, tweet.FavoriteCount)
		assert.Empty(t, tags)
		assert.Empty(t, urls)
	})

	t.Run("null geo and coordinates stay empty", func(t *testing.T) {
		tweet, _, _, err := Normalize(domain.RawTweet{
			IDStr:       "1003",
			Geo:         json.RawMessage("null"),
			Coordinates: json.RawMessage("null"),
		})

		require.NoError(t, err)
		assert.Empty(t, tweet.Geo)
		assert.Empty(t, tweet.Coordinates)
	})

	t.Run("numeric author id used when id_str absent", func(t *testing.T) {
		tweet, _, _, err := Normalize(domain.RawTweet{
			IDStr: "1004",
			User:  &domain.RawUser{ID: json.Number("987654321")},
		})

		require.NoError(t, err)
		assert.Equal(t, "987654321", tweet.AuthorID)
	})

	t.Run("each url entity becomes one record", func(t *testing.T) {
		_, _, urls, err := Normalize(domain.RawTweet{
			IDStr: "1005",
			Entities: &domain.RawEntities{
				URLs: []domain.RawURL{
					{URL: "https://t.co/a", ExpandedURL: "https://a.example"},
					{URL: "https://t.co/b", ExpandedURL: "https://b.example"},
				},
			},
		})

		require.NoError(t, err)
		require.Len(t, urls, 2)
		assert.Equal(t, "https://a.example", urls[0].ExpandedURL)
		assert.Equal(t, "https://b.example", urls[1].ExpandedURL)
	})
}
