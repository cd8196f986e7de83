package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	logger   *slog.Logger
	handlers *Handlers
	metrics  http.Handler
}

func New(logger *slog.Logger, handlers *Handlers, metricsHandler http.Handler) *Server {
	return &Server{
		logger:   logger,
		handlers: handlers,
		metrics:  metricsHandler,
	}
}

func newRouter(handlers *Handlers, metricsHandler http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Get("/ping", handlers.Ping)
	router.Get("/healthz", handlers.Health)
	router.Get("/games/recent", handlers.RecentGames)
	router.Method(http.MethodGet, "/metrics", metricsHandler)

	return router
}

// Start runs the HTTP server until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      newRouter(that.handlers, that.metrics),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			that.logger.Error("failed to shut down http server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
