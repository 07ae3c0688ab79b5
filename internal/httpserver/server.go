package httpserver

import (
	"context"
	"errors"
	"net/http"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/config"
)

// Server wraps the console's http.Server with the configured timeouts and
// drain logging.
type Server struct {
	srv    *http.Server
	env    string
	logger *slog.Logger
}

func New(cfg config.Config, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      handler,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
			IdleTimeout:  cfg.HTTPIdleTimeout,
		},
		env:    cfg.Env,
		logger: logger,
	}
}

// Start blocks until the listener fails or Shutdown is called. A graceful
// close is not an error.
func (s *Server) Start() error {
	s.logger.Info("console API listening", "addr", s.srv.Addr, "env", s.env)
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("console API draining connections")
	return s.srv.Shutdown(ctx)
}
