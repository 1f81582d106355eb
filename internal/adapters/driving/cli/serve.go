package cli

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aviary-labs/aviary/internal/adapters/driven/cache"
	"github.com/aviary-labs/aviary/internal/adapters/driving/rest"
	"github.com/aviary-labs/aviary/internal/config"
	"github.com/aviary-labs/aviary/internal/core/services"
)

var flagListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long: `Run the tweet ingestion and archive service.

The config file is watched while the server runs: changes to the
duplicate policy and log level take effect without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(
		&flagListenAddr, "listen", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	responseCache, err := cache.New(a.cfg.Cache.Backend, a.cfg.CacheTTL())
	if err != nil {
		return err
	}

	server := rest.NewServer(
		a.cfg.ServiceName,
		a.ingestor,
		a.tweets,
		a.accounts,
		responseCache,
		a.cfg.SecretKey != "",
		a.log,
	)

	stopWatch, err := config.Watch(flagConfig, a.log, func(cfg *config.Config) {
		if policy, err := services.ParseDuplicatePolicy(cfg.Ingest.OnDuplicate); err == nil {
			a.ingestor.SetPolicy(policy)
		} else {
			a.log.WithError(err).Warn("ignoring reloaded duplicate policy")
		}
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil && !flagVerbose {
			a.log.Logger.SetLevel(level)
		}
	})
	if err != nil {
		a.log.WithError(err).Warn("config watching disabled")
	} else {
		defer stopWatch()
	}

	addr := a.cfg.ListenAddr
	if flagListenAddr != "" {
		addr = flagListenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx, addr)
}
