// Package httpapi is the thin HTTP binding of the drive core: it maps verbs
// and paths onto service calls, carries the bearer credential, and translates
// the error taxonomy into status codes. No business logic lives here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dsmirnov/drivebox/internal/logging"
	"github.com/dsmirnov/drivebox/internal/server/config"
	"github.com/dsmirnov/drivebox/internal/server/services"
)

type Server struct {
	address         string
	logger          logging.Logger
	users           *services.UserService
	files           *services.FileService
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, fs *services.FileService) *Server {
	return &Server{
		address:         cfg.HTTPAddr,
		logger:          l.With("module", "http_server"),
		users:           us,
		files:           fs,
		jwtSecret:       []byte(cfg.SecretKey),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Handler builds the route table. Storage operations sit behind the bearer
// middleware; register, login and the health probe do not.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)

	mux.Handle("POST /folders", s.requireAuth(http.HandlerFunc(s.handleCreateFolder)))
	mux.Handle("POST /upload", s.requireAuth(http.HandlerFunc(s.handleUpload)))
	mux.Handle("GET /files", s.requireAuth(http.HandlerFunc(s.handleList)))
	mux.Handle("GET /download/{id}", s.requireAuth(http.HandlerFunc(s.handleDownload)))
	mux.Handle("PUT /files/{id}", s.requireAuth(http.HandlerFunc(s.handleRename)))
	mux.Handle("DELETE /files/{id}", s.requireAuth(http.HandlerFunc(s.handleDelete)))

	return s.withRequestID(s.withAccessLog(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
