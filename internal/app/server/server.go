package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"sentinel/internal/auth"
	"sentinel/internal/blacklist"
	"sentinel/internal/health"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type BlacklistService interface {
	AddEntry(ctx context.Context, in blacklist.AddEntryInput) (*blacklist.AddResult, error)
	CheckEntry(ctx context.Context, email string) (*blacklist.CheckResult, error)
}

type TokenIssuer interface {
	Token() (string, error)
}

type HealthReporter interface {
	Status(ctx context.Context) health.Status
	Ping() health.Ping
}

type Deps struct {
	Blacklist BlacklistService
	Gate      *auth.Gate
	Issuer    TokenIssuer
	Health    HealthReporter

	// Debug exposes store failure details in 500 responses.
	Debug bool
}

// Server owns the process-scoped collaborators behind the HTTP routes.
type Server struct {
	blacklist BlacklistService
	gate      *auth.Gate
	issuer    TokenIssuer
	health    HealthReporter
	debug     bool
}

func New(deps Deps) (*Server, error) {
	switch {
	case deps.Blacklist == nil:
		return nil, errors.New("server: blacklist service is required")
	case deps.Gate == nil:
		return nil, errors.New("server: auth gate is required")
	case deps.Issuer == nil:
		return nil, errors.New("server: token issuer is required")
	case deps.Health == nil:
		return nil, errors.New("server: health reporter is required")
	}

	return &Server{
		blacklist: deps.Blacklist,
		gate:      deps.Gate,
		issuer:    deps.Issuer,
		health:    deps.Health,
		debug:     deps.Debug,
	}, nil
}

// OpenRoutes serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) OpenRoutes(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting sentinel on port :%d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	return <-errCh
}
