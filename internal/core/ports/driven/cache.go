package driven

// ResponseCache caches rendered HTTP responses under an opaque key for a
// fixed TTL chosen by the implementation. There is no per-entry policy:
// entries expire, they are never updated in place.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	// Purge drops every cached entry. Used after writes that invalidate
	// read results wholesale.
	Purge()
}
