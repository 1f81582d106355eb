package twitter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// staticTokens hands out a fixed token and records invalidations.
type staticTokens struct {
	token         string
	err           error
	invalidations int
}

func (s *staticTokens) Token(_ context.Context) (string, error) {
	return s.token, s.err
}

func (s *staticTokens) Invalidate() { s.invalidations++ }

const searchBody = `{
	"statuses": [
		{
			"id_str": "250075927172759552",
			"created_at": "Mon Sep 24 03:35:21 +0000 2012",
			"text": "just another test",
			"metadata": {"result_type": "recent"},
			"user": {"id": 1234, "id_str": "1234", "screen_name": "tester"},
			"entities": {
				"hashtags": [{"text": "freebandnames"}],
				"urls": [{"url": "https://t.co/x", "expanded_url": "https://example.com", "display_url": "example.com"}]
			}
		}
	],
	"search_metadata": {"next_results": "?max_id=249279667666817023&q=test"}
}`

func TestClientSearch(t *testing.T) {
	ctx := context.Background()
	query := domain.SearchQuery{Q: "test", Count: 15}

	t.Run("decodes a result page", func(t *testing.T) {
		var gotAuth string
		var gotQuery map[string][]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, searchPath, r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, searchBody) //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(server.URL, &staticTokens{token: "tok"}, testLogger())

		page, err := client.Search(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, "Bearer tok", gotAuth)
		assert.Equal(t, []string{"true"}, gotQuery["include_entities"])
		assert.Equal(t, []string{"test"}, gotQuery["q"])

		require.Len(t, page.Items, 1)
		item := page.Items[0]
		assert.Equal(t, "250075927172759552", item.IDStr)
		assert.Equal(t, "recent", item.Metadata.ResultType)
		assert.Equal(t, "1234", item.User.IDStr)
		require.Len(t, item.Entities.Hashtags, 1)
		assert.Equal(t, "freebandnames", item.Entities.Hashtags[0].Text)
		assert.NotEmpty(t, page.NextCursor)
	})

	t.Run("401 invalidates the token and is an auth failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"errors":[{"message":"Invalid or expired token","code":89}]}`) //nolint:errcheck
		}))
		defer server.Close()

		tokens := &staticTokens{token: "stale"}
		client := NewClient(server.URL, tokens, testLogger())

		_, err := client.Search(ctx, query)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthFailed)
		assert.Equal(t, 1, tokens.invalidations)
		assert.Contains(t, err.Error(), "Invalid or expired token")
	})

	t.Run("5xx is an upstream failure without invalidation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		tokens := &staticTokens{token: "tok"}
		client := NewClient(server.URL, tokens, testLogger())

		_, err := client.Search(ctx, query)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Zero(t, tokens.invalidations)
	})

	t.Run("unparseable body is an upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "<html>not json</html>") //nolint:errcheck
		}))
		defer server.Close()

		client := NewClient(server.URL, &staticTokens{token: "tok"}, testLogger())

		_, err := client.Search(ctx, query)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("token provider failure short-circuits", func(t *testing.T) {
		client := NewClient("http://unused.invalid", &staticTokens{err: domain.ErrAuthFailed}, testLogger())

		_, err := client.Search(ctx, query)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthFailed)
	})
}

func TestEncodeQuery(t *testing.T) {
	t.Run("always sends entities and required params", func(t *testing.T) {
		encoded := encodeQuery(domain.SearchQuery{Q: "#golang", Count: 15})

		assert.Contains(t, encoded, "q=%23golang")
		assert.Contains(t, encoded, "count=15")
		assert.Contains(t, encoded, "include_entities=true")
		assert.NotContains(t, encoded, "result_type")
		assert.NotContains(t, encoded, "geocode")
	})

	t.Run("includes optional params when set", func(t *testing.T) {
		encoded := encodeQuery(domain.SearchQuery{
			Q:          "test",
			Count:      100,
			ResultType: "popular",
			Lang:       "en",
			Geocode:    "37.78,-122.40,1mi",
			Until:      "2026-08-01",
			SinceID:    "100",
			MaxID:      "200",
		})

		assert.Contains(t, encoded, "result_type=popular")
		assert.Contains(t, encoded, "lang=en")
		assert.Contains(t, encoded, "geocode=")
		assert.Contains(t, encoded, "until=2026-08-01")
		assert.Contains(t, encoded, "since_id=100")
		assert.Contains(t, encoded, "max_id=200")
	})
}

func TestAPIError(t *testing.T) {
	t.Run("401 and 403 unwrap to auth failure", func(t *testing.T) {
		for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
			err := &APIError{StatusCode: code, Message: "nope"}
			assert.ErrorIs(t, err, domain.ErrAuthFailed)
		}
	})

	t.Run("other statuses unwrap to upstream failure", func(t *testing.T) {
		for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError} {
			err := &APIError{StatusCode: code, Message: "nope"}
			assert.ErrorIs(t, err, domain.ErrUpstream)
		}
	})
}
