package driving

import (
	"context"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// Ingestor drives one ingestion run: token, search, normalization and the
// atomic page commit.
type Ingestor interface {
	// Ingest fetches one result page for the query, stores the tweets
	// that are not yet present and returns how many were inserted.
	Ingest(ctx context.Context, query domain.SearchQuery) (int, error)
}
