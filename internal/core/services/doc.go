// Package services implements the core use cases: the ingestion
// coordinator with its duplicate policy, the raw-item normalizer, the
// read accessor with pagination and the account manager.
package services
