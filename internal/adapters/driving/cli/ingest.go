package cli

import (
	"github.com/spf13/cobra"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// Flags for ingest.
var (
	ingestQuery      string
	ingestCount      int
	ingestResultType string
	ingestLang       string
	ingestGeocode    string
	ingestUntil      string
	ingestSinceID    string
	ingestMaxID      string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch one page of search results into the archive",
	Long: `Run a single search-and-store pass without the HTTP server.

Examples:
  aviary ingest --query "#golang"
  aviary ingest --query "from:NASA" --count 100 --result-type recent`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(
		&ingestQuery, "query", "q", "", "Search query (required)")
	ingestCmd.Flags().IntVar(
		&ingestCount, "count", 0, "Tweets per page, 1-100 (default 15)")
	ingestCmd.Flags().StringVar(
		&ingestResultType, "result-type", "", "popular, recent, or mixed")
	ingestCmd.Flags().StringVar(
		&ingestLang, "lang", "", "Restrict results to an ISO 639-1 language")
	ingestCmd.Flags().StringVar(
		&ingestGeocode, "geocode", "", "lat,long,radius filter")
	ingestCmd.Flags().StringVar(
		&ingestUntil, "until", "", "Only tweets before this YYYY-MM-DD date")
	ingestCmd.Flags().StringVar(
		&ingestSinceID, "since-id", "", "Only tweets newer than this id")
	ingestCmd.Flags().StringVar(
		&ingestMaxID, "max-id", "", "Only tweets at or older than this id")
	_ = ingestCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	query := domain.SearchQuery{
		Q:          ingestQuery,
		Count:      ingestCount,
		ResultType: ingestResultType,
		Lang:       ingestLang,
		Geocode:    ingestGeocode,
		Until:      ingestUntil,
		SinceID:    ingestSinceID,
		MaxID:      ingestMaxID,
	}

	count, err := a.ingestor.Ingest(cmd.Context(), query)
	if err != nil {
		return err
	}

	cmd.Printf("Stored %d new tweet(s)\n", count)
	return nil
}
