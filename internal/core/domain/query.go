package domain

// Result type filters recognized by the remote search API.
const (
	ResultTypePopular = "popular"
	ResultTypeRecent  = "recent"
	ResultTypeMixed   = "mixed"
)

// MaxPageSize is the page size cap enforced by the remote API.
const MaxPageSize = 100

// DefaultPageSize is used when a query does not set a count.
const DefaultPageSize = 15

// SearchQuery holds the recognized parameters of one remote search call.
// include_entities is not represented here: it is always sent as true,
// since hashtag/url extraction depends on it.
type SearchQuery struct {
	Q          string `json:"q"`
	Geocode    string `json:"geocode,omitempty"`
	Lang       string `json:"lang,omitempty"`
	Locale     string `json:"locale,omitempty"`
	ResultType string `json:"result_type,omitempty"`
	Count      int    `json:"count,omitempty"`
	Until      string `json:"until,omitempty"`
	SinceID    string `json:"since_id,omitempty"`
	MaxID      string `json:"max_id,omitempty"`
}

// Validate checks the query and fills in defaults. The query text is the
// only required field.
func (q *SearchQuery) Validate() error {
	if q.Q == "" {
		return ErrInvalidInput
	}
	switch q.ResultType {
	case "", ResultTypePopular, ResultTypeRecent, ResultTypeMixed:
	default:
		return ErrInvalidInput
	}
	if q.Count < 0 || q.Count > MaxPageSize {
		return ErrInvalidInput
	}
	if q.Count == 0 {
		q.Count = DefaultPageSize
	}
	return nil
}
