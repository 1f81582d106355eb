// Package driving defines the service interfaces the REST and CLI
// adapters call into. Implementations live in internal/core/services.
package driving
