package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
)

// searchPath is the standard search endpoint, relative to the API base.
const searchPath = "/1.1/search/tweets.json"

// Ensure Client implements the interface.
var _ driven.SearchAPI = (*Client)(nil)

// Client issues parameterized queries against the remote search API.
// Each call carries the bearer token from the injected provider; no
// retries, no storage-side deduplication.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      driven.TokenProvider
	rateLimiter *RateLimiter
	log         *logrus.Entry
}

// NewClient creates a search client against the given API base URL.
func NewClient(baseURL string, tokens driven.TokenProvider, log *logrus.Entry) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		tokens:      tokens,
		rateLimiter: NewRateLimiter(),
		log:         log,
	}
}

// searchResponse is the wire shape of one result page.
type searchResponse struct {
	Statuses       []domain.RawTweet `json:"statuses"`
	SearchMetadata struct {
		NextResults string `json:"next_results"`
	} `json:"search_metadata"`
}

// apiErrorBody is the wire shape of a remote error response.
type apiErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
}

// Search performs one GET against the search endpoint and returns the
// raw page in upstream order. An authorization rejection invalidates the
// cached token before surfacing domain.ErrAuthFailed; any other
// non-success status or an unparseable body is domain.ErrUpstream.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) (*domain.ResultPage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + searchPath + "?" + encodeQuery(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	c.log.WithField("q", query.Q).Debug("searching remote API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromResponse(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.tokens.Invalidate()
		}
		return nil, fmt.Errorf("search: %w", &APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp),
			URL:        reqURL,
		})
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %v: %w", err, domain.ErrUpstream)
	}

	return &domain.ResultPage{
		Items:      decoded.Statuses,
		NextCursor: decoded.SearchMetadata.NextResults,
	}, nil
}

// encodeQuery renders the recognized parameters. include_entities is
// always sent: hashtag/url extraction depends on it.
func encodeQuery(query domain.SearchQuery) string {
	params := url.Values{}
	params.Set("q", query.Q)
	params.Set("count", strconv.Itoa(query.Count))
	params.Set("include_entities", "true")
	if query.Geocode != "" {
		params.Set("geocode", query.Geocode)
	}
	if query.Lang != "" {
		params.Set("lang", query.Lang)
	}
	if query.Locale != "" {
		params.Set("locale", query.Locale)
	}
	if query.ResultType != "" {
		params.Set("result_type", query.ResultType)
	}
	if query.Until != "" {
		params.Set("until", query.Until)
	}
	if query.SinceID != "" {
		params.Set("since_id", query.SinceID)
	}
	if query.MaxID != "" {
		params.Set("max_id", query.MaxID)
	}
	return params.Encode()
}

// readErrorMessage extracts the first error message from a remote error
// body, falling back to the HTTP status text.
func readErrorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var decoded apiErrorBody
		if json.Unmarshal(body, &decoded) == nil && len(decoded.Errors) > 0 {
			return decoded.Errors[0].Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
