package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviary-labs/aviary/internal/adapters/driven/cache"
	"github.com/aviary-labs/aviary/internal/adapters/driven/storage/memory"
	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/services"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// stubIngestor returns a scripted count or error.
type stubIngestor struct {
	count int
	err   error
	calls int
}

func (s *stubIngestor) Ingest(_ context.Context, _ domain.SearchQuery) (int, error) {
	s.calls++
	return s.count, s.err
}

// testServer bundles the server with the stores behind it.
type testServer struct {
	server   *Server
	handler  http.Handler
	tweets   *memory.TweetStore
	accounts *services.AccountService
	ingestor *stubIngestor
}

func newTestServer(t *testing.T, protected bool) *testServer {
	t.Helper()

	tweets := memory.NewTweetStore()
	accounts := services.NewAccountService(
		memory.NewAccountStore(), []byte("test-secret"), time.Hour, testLogger())
	ingestor := &stubIngestor{count: 1}

	server := NewServer(
		"aviary",
		ingestor,
		services.NewTweetService(tweets),
		accounts,
		cache.NewLRU(cache.DefaultSize, time.Minute),
		protected,
		testLogger(),
	)

	return &testServer{
		server:   server,
		handler:  server.Handler(),
		tweets:   tweets,
		accounts: accounts,
		ingestor: ingestor,
	}
}

func (ts *testServer) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func seedTweet(t *testing.T, ts *testServer, id string, favorites int, tag string) {
	t.Helper()
	var tags []domain.Hashtag
	if tag != "" {
		tags = append(tags, domain.Hashtag{TweetID: id, Text: tag})
	}
	require.NoError(t, ts.tweets.SavePage(context.Background(),
		[]domain.Tweet{{TweetID: id, Text: "tweet " + id, FavoriteCount: favorites}},
		tags, nil))
}

func TestIngestEndpoint(t *testing.T) {
	t.Run("reports the stored count in the legacy shape", func(t *testing.T) {
		ts := newTestServer(t, false)
		ts.ingestor.count = 7

		rec := ts.do(t, http.MethodPost, "/ingest", "", map[string]string{"q": "#golang"})

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"7 tweet": "OK"}, body)
	})

	t.Run("invalid body is a 400 envelope", func(t *testing.T) {
		ts := newTestServer(t, false)

		req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "aviary", envelope.Name)
		assert.Equal(t, "Bad Request", envelope.Status)
		assert.Equal(t, http.StatusBadRequest, envelope.Code)
		assert.Zero(t, ts.ingestor.calls)
	})

	t.Run("auth failure against the remote API is a 502", func(t *testing.T) {
		ts := newTestServer(t, false)
		ts.ingestor.err = domain.ErrAuthFailed

		rec := ts.do(t, http.MethodPost, "/ingest", "", map[string]string{"q": "x"})

		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("purges the read cache on success", func(t *testing.T) {
		ts := newTestServer(t, false)
		seedTweet(t, ts, "1", 0, "")

		first := ts.do(t, http.MethodGet, "/records/byPopularity", "", nil)
		require.Equal(t, http.StatusOK, first.Code)

		cached := ts.do(t, http.MethodGet, "/records/byPopularity", "", nil)
		assert.Equal(t, "HIT", cached.Header().Get("X-Cache"))

		ts.do(t, http.MethodPost, "/ingest", "", map[string]string{"q": "x"})

		fresh := ts.do(t, http.MethodGet, "/records/byPopularity", "", nil)
		assert.Empty(t, fresh.Header().Get("X-Cache"))
	})
}

func TestReadEndpoints(t *testing.T) {
	t.Run("record fetch returns tweet with entities", func(t *testing.T) {
		ts := newTestServer(t, false)
		seedTweet(t, ts, "42", 3, "go")

		rec := ts.do(t, http.MethodGet, "/record/42", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var detail domain.TweetDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		assert.Equal(t, "42", detail.Tweet.TweetID)
		require.Len(t, detail.Hashtags, 1)
		assert.Equal(t, "go", detail.Hashtags[0].Text)
	})

	t.Run("unknown record is a 404 envelope", func(t *testing.T) {
		ts := newTestServer(t, false)

		rec := ts.do(t, http.MethodGet, "/record/missing", "", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "Not Found", envelope.Status)
		assert.Equal(t, http.StatusNotFound, envelope.Code)
	})

	t.Run("page endpoint paginates", func(t *testing.T) {
		ts := newTestServer(t, false)
		for _, id := range []string{"1", "2", "3", "4", "5"} {
			seedTweet(t, ts, id, 0, "")
		}

		rec := ts.do(t, http.MethodGet, "/records/page?start=2&limit=2", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var page domain.TweetPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, 2, page.Count)
		assert.Equal(t, 5, page.Total)
		assert.True(t, page.HasNext)
		assert.True(t, page.HasPrevious)
	})

	t.Run("malformed pagination params are a 400", func(t *testing.T) {
		ts := newTestServer(t, false)
		seedTweet(t, ts, "1", 0, "")

		for _, target := range []string{
			"/records/page",
			"/records/page?start=1",
			"/records/page?start=abc&limit=2",
			"/records/page?start=0&limit=2",
		} {
			rec := ts.do(t, http.MethodGet, target, "", nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
		}
	})

	t.Run("page start beyond the stored total is a 404", func(t *testing.T) {
		ts := newTestServer(t, false)
		seedTweet(t, ts, "1", 0, "")

		rec := ts.do(t, http.MethodGet, "/records/page?start=5&limit=2", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("tag endpoint matches case sensitively", func(t *testing.T) {
		ts := newTestServer(t, false)
		seedTweet(t, ts, "1", 0, "Go")

		hit := ts.do(t, http.MethodGet, "/tag/Go", "", nil)
		require.Equal(t, http.StatusOK, hit.Code)
		var tweets []domain.Tweet
		require.NoError(t, json.Unmarshal(hit.Body.Bytes(), &tweets))
		require.Len(t, tweets, 1)

		miss := ts.do(t, http.MethodGet, "/tag/go", "", nil)
		assert.Equal(t, http.StatusNotFound, miss.Code)
	})

	t.Run("popularity endpoint orders by favorites", func(t *testing.T) {
		ts := newTestServer(t, false)
		seedTweet(t, ts, "low", 1, "")
		seedTweet(t, ts, "high", 10, "")

		rec := ts.do(t, http.MethodGet, "/records/byPopularity", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var tweets []domain.Tweet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tweets))
		require.Len(t, tweets, 2)
		assert.Equal(t, "high", tweets[0].TweetID)
	})
}

func TestAccountEndpoints(t *testing.T) {
	register := func(t *testing.T, ts *testServer) (string, string) {
		t.Helper()
		rec := ts.do(t, http.MethodPost, "/accounts", "", map[string]string{
			"username": "alice", "email": "alice@example.com", "password": "pw",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var account domain.Account
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))

		login := ts.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice", "password": "pw",
		})
		require.Equal(t, http.StatusOK, login.Code)
		var resp loginResponse
		require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)

		return account.ID, resp.Token
	}

	t.Run("register, login, fetch", func(t *testing.T) {
		ts := newTestServer(t, true)
		id, token := register(t, ts)

		rec := ts.do(t, http.MethodGet, "/account/"+id, token, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var account domain.Account
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
		assert.Equal(t, "alice", account.Username)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("login with a still-valid token echoes it", func(t *testing.T) {
		ts := newTestServer(t, true)
		_, token := register(t, ts)

		rec := ts.do(t, http.MethodPost, "/login", "", map[string]string{"token": token})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp loginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, token, resp.Token)
		assert.Equal(t, "alice", resp.Account.Username)
	})

	t.Run("bad credentials are a 401 envelope", func(t *testing.T) {
		ts := newTestServer(t, true)
		register(t, ts)

		rec := ts.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice", "password": "wrong",
		})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, http.StatusUnauthorized, envelope.Code)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		ts := newTestServer(t, true)
		register(t, ts)

		rec := ts.do(t, http.MethodPost, "/accounts", "", map[string]string{
			"username": "alice", "email": "alice2@example.com", "password": "pw",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("protected endpoints demand a token", func(t *testing.T) {
		ts := newTestServer(t, true)
		id, _ := register(t, ts)

		for _, c := range []struct{ method, target string }{
			{http.MethodPost, "/ingest"},
			{http.MethodGet, "/account/" + id},
			{http.MethodPut, "/account/" + id},
			{http.MethodDelete, "/account/" + id},
		} {
			rec := ts.do(t, c.method, c.target, "", map[string]string{"q": "x"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", c.method, c.target)
		}
	})

	t.Run("mutating another account is forbidden", func(t *testing.T) {
		ts := newTestServer(t, true)
		_, token := register(t, ts)

		other := ts.do(t, http.MethodPost, "/accounts", "", map[string]string{
			"username": "bob", "email": "bob@example.com", "password": "pw",
		})
		require.Equal(t, http.StatusOK, other.Code)
		var bob domain.Account
		require.NoError(t, json.Unmarshal(other.Body.Bytes(), &bob))

		rec := ts.do(t, http.MethodDelete, "/account/"+bob.ID, token, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner can update and change password", func(t *testing.T) {
		ts := newTestServer(t, true)
		id, token := register(t, ts)

		update := ts.do(t, http.MethodPut, "/account/"+id, token, map[string]string{
			"username": "alice2", "email": "alice2@example.com",
		})
		require.Equal(t, http.StatusOK, update.Code)

		change := ts.do(t, http.MethodPut, "/account/"+id+"/password", token, map[string]string{
			"old_password": "pw", "new_password": "pw2",
		})
		require.Equal(t, http.StatusOK, change.Code)

		relogin := ts.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice2", "password": "pw2",
		})
		assert.Equal(t, http.StatusOK, relogin.Code)
	})

	t.Run("wrong old password is forbidden", func(t *testing.T) {
		ts := newTestServer(t, true)
		id, token := register(t, ts)

		rec := ts.do(t, http.MethodPut, "/account/"+id+"/password", token, map[string]string{
			"old_password": "wrong", "new_password": "pw2",
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unprotected variant serves without tokens", func(t *testing.T) {
		ts := newTestServer(t, false)

		rec := ts.do(t, http.MethodPost, "/ingest", "", map[string]string{"q": "x"})

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
