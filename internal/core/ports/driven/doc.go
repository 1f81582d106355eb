// Package driven defines the interfaces the core services consume:
// storage, the remote search API, token acquisition and response caching.
// Adapters under internal/adapters/driven implement them.
package driven
