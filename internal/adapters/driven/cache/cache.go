// Package cache provides the response cache backends selected by
// configuration: a fixed-TTL expirable LRU and a no-op pass-through.
package cache

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
)

// Backend selectors accepted by the configuration.
const (
	BackendMemory = "memory"
	BackendNone   = "none"
)

// DefaultSize bounds the number of cached responses.
const DefaultSize = 512

// New creates the response cache named by the backend selector.
func New(backend string, ttl time.Duration) (driven.ResponseCache, error) {
	switch backend {
	case BackendMemory, "":
		return NewLRU(DefaultSize, ttl), nil
	case BackendNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q: %w", backend, domain.ErrInvalidInput)
	}
}

// Ensure both backends implement the interface.
var (
	_ driven.ResponseCache = (*LRU)(nil)
	_ driven.ResponseCache = Noop{}
)

// LRU is a fixed-TTL expirable LRU response cache. Entries are only ever
// inserted and expired; there is no update-in-place.
type LRU struct {
	entries *expirable.LRU[string, []byte]
}

// NewLRU creates a cache holding up to size responses for ttl each.
func NewLRU(size int, ttl time.Duration) *LRU {
	return &LRU{entries: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns the cached response for key, if any.
func (c *LRU) Get(key string) ([]byte, bool) {
	return c.entries.Get(key)
}

// Set stores a response under key.
func (c *LRU) Set(key string, value []byte) {
	c.entries.Add(key, value)
}

// Purge drops every cached entry.
func (c *LRU) Purge() {
	c.entries.Purge()
}

// Noop is the disabled cache backend: every lookup misses.
type Noop struct{}

// Get always misses.
func (Noop) Get(string) ([]byte, bool) { return nil, false }

// Set discards the value.
func (Noop) Set(string, []byte) {}

// Purge does nothing.
func (Noop) Purge() {}
