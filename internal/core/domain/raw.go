package domain

import "encoding/json"

// RawTweet is the decoded JSON shape of one result item as returned by the
// remote search API. Only id_str is mandatory; every other field may be
// absent in live data and is normalized with explicit defaults.
type RawTweet struct {
	IDStr         string          `json:"id_str"`
	CreatedAt     string          `json:"created_at"`
	Text          string          `json:"text"`
	Metadata      *RawMetadata    `json:"metadata"`
	Geo           json.RawMessage `json:"geo"`
	Coordinates   json.RawMessage `json:"coordinates"`
	RetweetCount  int             `json:"retweet_count"`
	FavoriteCount int             `json:"favorite_count"`
	Lang          string          `json:"lang"`
	User          *RawUser        `json:"user"`
	Entities      *RawEntities    `json:"entities"`
}

// RawMetadata carries the per-result classification assigned upstream.
type RawMetadata struct {
	ResultType string `json:"result_type"`
}

// RawUser is the embedded author object. The remote API sends both a
// numeric id and an id_str; id_str wins when present.
type RawUser struct {
	ID             json.Number `json:"id"`
	IDStr          string      `json:"id_str"`
	Name           string      `json:"name"`
	ScreenName     string      `json:"screen_name"`
	Location       string      `json:"location"`
	FollowersCount int         `json:"followers_count"`
	FriendsCount   int         `json:"friends_count"`
	StatusesCount  int         `json:"statuses_count"`
	Lang           string      `json:"lang"`
}

// RawEntities holds the structured metadata lists. A nil or empty list is
// normal, not an error.
type RawEntities struct {
	Hashtags []RawHashtag `json:"hashtags"`
	URLs     []RawURL     `json:"urls"`
}

// RawHashtag is one hashtag entity.
type RawHashtag struct {
	Text string `json:"text"`
}

// RawURL is one url entity. Each entity nests exactly one
// url/expanded/display triplet.
type RawURL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

// ResultPage is one batch of results from a single search call, in the
// order the remote API returned them, plus the opaque cursor for the next
// page (empty when the remote API reports no further results).
type ResultPage struct {
	Items      []RawTweet
	NextCursor string
}
