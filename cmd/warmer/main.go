package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"turbo_reviews/internal/adapters/observability"
	"turbo_reviews/internal/app"
	"turbo_reviews/internal/domain"
	"turbo_reviews/internal/shared"
)

// warmer precomputes the unfiltered count plus one count per WARM_STORE_IDS
// entry and writes them to the result cache, so the first API hit for those
// filters does not pay for a full download.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.WarmWorkers).
		Int("stores", len(cfg.WarmStoreIDs)).
		Msg("warmer starting")

	src, err := shared.NewSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("review source init failed")
	}
	cache := shared.NewCache(ctx, cfg)
	if cache == nil {
		log.Fatal().Msg("warmer needs a reachable REDIS_ADDR")
	}
	defer cache.Close()

	opts := app.CountOptions{
		Cache:       cache,
		CacheTTL:    cfg.CacheTTL,
		Location:    cfg.Location,
		DropUndated: cfg.DropUndated,
	}
	if db, runs := shared.NewRunLog(cfg); db != nil {
		defer db.Close()
		opts.Runs = runs
	}
	svc := app.NewCountService(src, opts)

	jobs := []domain.FilterCriteria{{}}
	for _, id := range cfg.WarmStoreIDs {
		c, err := app.ParseCriteria(id, "", "", "")
		if err != nil {
			log.Warn().Str("store", id).Err(err).Msg("skipping store")
			continue
		}
		jobs = append(jobs, c)
	}

	workers := cfg.WarmWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, c := range jobs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("warm interrupted")
			break
		}

		wg.Add(1)
		go func(c domain.FilterCriteria) {
			defer wg.Done()
			defer sem.Release(1)

			store := "ALL"
			if c.StoreID != nil {
				store = *c.StoreID
			}
			res, err := svc.Refresh(ctx, c)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("store", store).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("store", store).Int("review_count", res.ReviewCount).Msg("warm ok")
		}(c)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int32("failed", n).Int("jobs", len(jobs)).Msg("warm completed with failures")
		os.Exit(1)
	}
	log.Info().Int("jobs", len(jobs)).Msg("warm completed")
}
