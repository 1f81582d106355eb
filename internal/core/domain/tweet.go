package domain

// Tweet is the canonical persisted form of one ingested search result.
// CreatedAt is kept as the opaque string the remote API returns; it is
// never parsed. Geo and Coordinates hold the compact raw JSON of the
// corresponding fields, or the empty string when absent.
type Tweet struct {
	// TweetID is the remote identifier. Unique across the store;
	// inserting a duplicate is rejected, never overwritten.
	TweetID       string `json:"tweet_id"`
	CreatedAt     string `json:"created_at"`
	Text          string `json:"text"`
	ResultType    string `json:"result_type"`
	Geo           string `json:"geo,omitempty"`
	Coordinates   string `json:"coordinates,omitempty"`
	RetweetCount  int    `json:"retweet_count"`
	FavoriteCount int    `json:"favorite_count"`
	Lang          string `json:"lang"`

	// Author snapshot taken at ingestion time. Partial profiles are
	// common in live data, so every field may be empty/zero.
	AuthorID         string `json:"author_id"`
	AuthorName       string `json:"author_name"`
	AuthorScreenName string `json:"author_screen_name"`
	AuthorLocation   string `json:"author_location,omitempty"`
	AuthorFollowers  int    `json:"author_followers"`
	AuthorFriends    int    `json:"author_friends"`
	AuthorStatuses   int    `json:"author_statuses"`
	AuthorLang       string `json:"author_lang,omitempty"`
}

// Hashtag is one topical tag extracted from a tweet. Written in the same
// transaction as its parent and immutable afterwards.
type Hashtag struct {
	TweetID string `json:"tweet_id"`
	Text    string `json:"text"`
}

// URLRecord is one URL reference extracted from a tweet. Each url entity
// of the raw item carries exactly one url/expanded/display triplet and
// contributes exactly one URLRecord.
type URLRecord struct {
	TweetID     string `json:"tweet_id"`
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

// TweetDetail is a tweet together with its extracted hashtag and url
// records, as served by the single-record endpoint.
type TweetDetail struct {
	Tweet
	Hashtags []Hashtag   `json:"hashtags"`
	URLs     []URLRecord `json:"urls"`
}

// TweetPage is one paginated slice of the stored tweets.
type TweetPage struct {
	Items []Tweet `json:"items"`
	// Count is the number of items in this page.
	Count int `json:"count"`
	// Total is the number of tweets in the store.
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	// Next and Previous are 1-indexed start offsets, valid only when the
	// corresponding Has flag is set.
	Next     int `json:"next,omitempty"`
	Previous int `json:"previous,omitempty"`
}
