package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange indicates pagination parameters outside the valid
	// range (start < 1 or limit <= 0).
	ErrInvalidRange = errors.New("invalid range")

	// ErrMalformedTweet indicates a result item without its remote
	// identifier or with an unrecoverable structural defect.
	ErrMalformedTweet = errors.New("malformed tweet")

	// ErrUpstream indicates a non-success response or unparseable body
	// from the remote search API.
	ErrUpstream = errors.New("upstream search failed")

	// ErrAuthFailed indicates the credential exchange with the remote API
	// was rejected or returned no access token.
	ErrAuthFailed = errors.New("credential exchange failed")

	// ErrUnauthorized indicates a missing or invalid caller token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller token lacks the required
	// privilege for the operation.
	ErrForbidden = errors.New("forbidden")
)
