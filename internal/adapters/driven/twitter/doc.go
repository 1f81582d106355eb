// Package twitter talks to the remote search API: the client-credentials
// token exchange and the parameterized search call, throttled by a
// dual-strategy rate limiter.
package twitter
