// Package sqlite persists tweets, their derived records and caller
// accounts in a single SQLite database with embedded migrations. The
// unique constraint on tweet_id is the authority on duplicates; the
// application never relies on its own locking.
package sqlite
