// Package rest exposes the ingestion and read operations over HTTP.
// Every error is rendered as a uniform JSON envelope carrying the
// service name, the HTTP reason phrase, the numeric code, and a
// human-readable message.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aviary-labs/aviary/internal/core/ports/driven"
	"github.com/aviary-labs/aviary/internal/core/ports/driving"
)

// Server wires the driving ports to HTTP routes.
type Server struct {
	name     string
	ingestor driving.Ingestor
	tweets   driving.TweetReader
	accounts driving.AccountManager
	cache    driven.ResponseCache
	log      *logrus.Entry

	// protected gates bearer-token checks. Off when no signing key is
	// configured.
	protected bool
}

// NewServer creates the HTTP surface. name labels error envelopes.
func NewServer(
	name string,
	ingestor driving.Ingestor,
	tweets driving.TweetReader,
	accounts driving.AccountManager,
	cache driven.ResponseCache,
	protected bool,
	log *logrus.Entry,
) *Server {
	return &Server{
		name:      name,
		ingestor:  ingestor,
		tweets:    tweets,
		accounts:  accounts,
		cache:     cache,
		protected: protected,
		log:       log,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ingest", s.requireAuth(s.handleIngest))

	mux.HandleFunc("GET /record/{id}", s.cached(s.handleRecord))
	mux.HandleFunc("GET /records/page", s.cached(s.handlePage))
	mux.HandleFunc("GET /records/byPopularity", s.cached(s.handlePopularity))
	mux.HandleFunc("GET /tag/{text}", s.cached(s.handleTag))

	mux.HandleFunc("POST /accounts", s.handleAccountCreate)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /account/{id}", s.requireAuth(s.handleAccountGet))
	mux.HandleFunc("PUT /account/{id}", s.requireOwner(s.handleAccountUpdate))
	mux.HandleFunc("DELETE /account/{id}", s.requireOwner(s.handleAccountDelete))
	mux.HandleFunc("PUT /account/{id}/password", s.requireOwner(s.handlePasswordChange))

	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.WithField("addr", addr).Info("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info("http server stopped")
		return nil
	}
}
