// Package domain contains the core entities of the aviary service:
// tweets with their derived hashtag and url records, caller accounts,
// search queries and the domain error taxonomy. The package has no
// dependencies on adapters or infrastructure.
package domain
