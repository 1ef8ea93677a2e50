package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"desire-paths/internal/app"
	"desire-paths/internal/core"
	"desire-paths/internal/scenario"
	"desire-paths/internal/sims/park"
	"desire-paths/internal/stream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("desire-serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := app.NewConfig()
	cfg.Bind(fs)
	addr := fs.String("addr", ":8080", "listen address")
	paused := fs.Bool("paused", false, "start paused")
	var overrides core.KVList
	fs.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := core.NewLogger(stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	world, err := scenario.NewWorld(park.FromMap(cfg.FactoryConfig(overrides.Map())), cfg.DataDir)
	if err != nil {
		return err
	}
	world.SetLogger(logger)

	server := stream.NewServer(world, stream.Options{
		TPS:         cfg.TPS,
		Paused:      *paused,
		AllowOrigin: true,
		Logger:      logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", server)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "ok clients=%d\n", server.Hub().Clients())
	})
	httpServer := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- server.Run(ctx) }()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	size := world.Size()
	logger.Info("serving park", "addr", *addr, "park", world.Config().Park, "w", size.W, "h", size.H, "tps", cfg.TPS)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-runErr
		return err
	}
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
