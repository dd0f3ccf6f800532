package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "turbo_reviews/internal/adapters/http_server"
	"turbo_reviews/internal/adapters/observability"
	"turbo_reviews/internal/app"
	"turbo_reviews/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// deps
	src, err := shared.NewSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("review source init failed")
	}
	opts := app.CountOptions{
		CacheTTL:    cfg.CacheTTL,
		Location:    cfg.Location,
		DropUndated: cfg.DropUndated,
	}
	if cache := shared.NewCache(ctx, cfg); cache != nil {
		defer cache.Close()
		opts.Cache = cache
	}
	if db, runs := shared.NewRunLog(cfg); db != nil {
		defer db.Close()
		opts.Runs = runs
	}
	svc := app.NewCountService(src, opts)

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Svc: svc})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("file_id", src.ID()).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
