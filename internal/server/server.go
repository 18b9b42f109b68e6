// Package server owns the HTTP surface and process lifecycle (component
// 4.J): route registration, request logging, and graceful shutdown on
// SIGINT/SIGTERM with a bounded grace window.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/trailbeacon/core/internal/ingest"
	"github.com/trailbeacon/core/internal/logging"
	"github.com/trailbeacon/core/internal/middleware"
	"github.com/trailbeacon/core/internal/statshandler"
)

// Server wraps the Fiber app and the hook it runs after the app has shut
// down.
type Server struct {
	app           *fiber.App
	shutdownGrace time.Duration
	onShutdown    func()
}

// New builds a Server with /track and /stats/ mounted, plus a request
// logging middleware in front of everything.
func New(ingestHandler *ingest.Handler, statsHandler *statshandler.Handler, shutdownGrace time.Duration, onShutdown func()) *Server {
	app := fiber.New(fiber.Config{
		AppName: "trailbeacon",
	})

	app.Use(middleware.RequestLogger)

	app.Get("/track", ingestHandler.Track)
	app.Post("/stats/", statsHandler.Query)

	return &Server{
		app:           app,
		shutdownGrace: shutdownGrace,
		onShutdown:    onShutdown,
	}
}

// Run listens on addr until SIGINT/SIGTERM, then drains in-flight requests
// for up to the configured grace window before returning.
func (s *Server) Run(addr string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.app.Listen(addr)
	}()

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logging.L().Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		logging.L().Warn("server: shutdown did not complete cleanly", zap.Error(err))
	}

	if s.onShutdown != nil {
		s.onShutdown()
	}

	return nil
}
