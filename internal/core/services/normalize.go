package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// Normalize maps one raw result item onto a tweet plus its hashtag and
// url records. The remote id is the only field with no sane default;
// everything else degrades to empty/zero when absent, since partial
// profiles are common in live data.
func Normalize(raw domain.RawTweet) (domain.Tweet, []domain.Hashtag, []domain.URLRecord, error) {
	if raw.IDStr == "" {
		return domain.Tweet{}, nil, nil, fmt.Errorf("item without id_str: %w", domain.ErrMalformedTweet)
	}

	tweet := domain.Tweet{
		TweetID:       raw.IDStr,
		CreatedAt:     raw.CreatedAt,
		Text:          raw.Text,
		Geo:           compactJSON(raw.Geo),
		Coordinates:   compactJSON(raw.Coordinates),
		RetweetCount:  raw.RetweetCount,
		FavoriteCount: raw.FavoriteCount,
		Lang:          raw.Lang,
	}
	if raw.Metadata != nil {
		tweet.ResultType = raw.Metadata.ResultType
	}
	if user := raw.User; user != nil {
		tweet.AuthorID = user.IDStr
		if tweet.AuthorID == "" {
			tweet.AuthorID = user.ID.String()
		}
		tweet.AuthorName = user.Name
		tweet.AuthorScreenName = user.ScreenName
		tweet.AuthorLocation = user.Location
		tweet.AuthorFollowers = user.FollowersCount
		tweet.AuthorFriends = user.FriendsCount
		tweet.AuthorStatuses = user.StatusesCount
		tweet.AuthorLang = user.Lang
	}

	var tags []domain.Hashtag
	var urls []domain.URLRecord
	if raw.Entities != nil {
		for _, h := range raw.Entities.Hashtags {
			tags = append(tags, domain.Hashtag{TweetID: raw.IDStr, Text: h.Text})
		}
		// One record per url entity; each entity nests a single
		// url/expanded/display triplet.
		for _, u := range raw.Entities.URLs {
			urls = append(urls, domain.URLRecord{
				TweetID:     raw.IDStr,
				URL:         u.URL,
				ExpandedURL: u.ExpandedURL,
				DisplayURL:  u.DisplayURL,
			})
		}
	}

	return tweet, tags, urls, nil
}

// compactJSON renders a raw JSON value as compact text, or "" for an
// absent or null value. Geo and coordinates are stored opaquely, never
// interpreted.
func compactJSON(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
