// Command surge runs the HTTP/1.1 server: echo, user-agent reflection,
// and file serving under an optional configured directory.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/surge/pkg/surge/server"
)

const shutdownGracePeriod = 5 * time.Second

func main() {
	addr := flag.String("addr", "127.0.0.1:4221", "TCP address to listen on")
	directory := flag.String("directory", "", "directory served under /files/ (unset disables file routes)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	app := newApp(*directory, logger)
	srv := server.New(server.Config{
		Addr:   *addr,
		Routes: app.routes(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("server starting", "addr", *addr, "directory", *directory)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown incomplete", "error", err)
		}
	}

	logger.Info("server stopped")
}
