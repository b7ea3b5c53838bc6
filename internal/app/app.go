// Package app wires configuration, logging, the engine, and the HTTP
// transport together and runs the server until signaled to stop.
package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/soundroom/server/internal/config"
	"github.com/soundroom/server/internal/engine"
	"github.com/soundroom/server/internal/httpapi"
	"github.com/soundroom/server/internal/logging"
	"github.com/soundroom/server/internal/youtube"
)

// Run starts the server and blocks until a termination signal is received;
// cancelling ctx does not stop it. On the signal it shuts the HTTP server
// down, waiting up to 30s for in-flight HTTP requests; upgraded WebSocket
// connections are neither waited for nor closed by the shutdown. A listener
// error is returned immediately.
func Run(ctx context.Context, cfg *config.Config) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	handler := &logging.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}
	logger := slog.New(handler)

	coordinator := engine.NewCoordinator(
		engine.SystemClock(),
		engine.NewIDGenerator(),
		engine.WithLogger(logger),
		engine.WithRoomsLimit(cfg.RoomsLimit),
		engine.WithCrossfadeMax(cfg.CrossfadeMax),
	)

	resolver := youtube.NewResolver()

	server := httpapi.NewServer(coordinator, resolver, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: server.Handler(),
	}

	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
