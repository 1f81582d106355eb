package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aviary-labs/aviary/internal/adapters/driven/storage/sqlite"
	"github.com/aviary-labs/aviary/internal/adapters/driven/twitter"
	"github.com/aviary-labs/aviary/internal/config"
	"github.com/aviary-labs/aviary/internal/core/services"
)

// app bundles the wired core services for a command invocation.
type app struct {
	cfg      *config.Config
	log      *logrus.Entry
	store    *sqlite.Store
	ingestor *services.IngestService
	tweets   *services.TweetService
	accounts *services.AccountService
}

// buildApp loads configuration and constructs the full service stack.
// Callers must Close the app when done.
func buildApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	tokens := twitter.NewTokenProvider(
		cfg.Twitter.BaseURL, cfg.Twitter.ConsumerKey, cfg.Twitter.ConsumerSecret)
	search := twitter.NewClient(cfg.Twitter.BaseURL, tokens, log)

	policy, err := services.ParseDuplicatePolicy(cfg.Ingest.OnDuplicate)
	if err != nil {
		store.Close() //nolint:errcheck
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		ingestor: services.NewIngestService(store.TweetStore(), search, tokens, policy, log),
		tweets:   services.NewTweetService(store.TweetStore()),
		accounts: services.NewAccountService(
			store.AccountStore(), []byte(cfg.SecretKey), cfg.TokenTTL(), log),
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	return a.store.Close()
}
