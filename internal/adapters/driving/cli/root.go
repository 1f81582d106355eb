// Package cli implements the aviary command line interface. The serve
// command runs the HTTP service; ingest and account offer one-shot
// access to the same core services without a running server.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aviary-labs/aviary/internal/config"
)

var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aviary",
	Short: "Tweet ingestion and archive service",
	Long: `Aviary pulls tweets from the Twitter search API and archives them
in a local database, exposing the archive over HTTP.

Examples:
  # Run the HTTP service
  aviary serve

  # Ingest one query without running the server
  aviary ingest --query "#golang" --count 50

  # Create a service account
  aviary account create --username alice --email alice@example.com`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A local .env is a development convenience, not a requirement.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&flagConfig, "config", config.DefaultPath, "Path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the CLI. v is the build version stamped by the linker.
func Execute(v string) {
	if v != "" {
		version = v
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config and applies
// environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level. The
// --verbose flag forces debug.
func newLogger(cfg *config.Config) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if flagVerbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	return log.WithField("service", cfg.ServiceName)
}
