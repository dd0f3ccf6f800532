package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"turbo_reviews/internal/adapters/observability"
	"turbo_reviews/internal/csvrows"
	"turbo_reviews/internal/domain"
)

// ValidationError carries a message that is safe to return to the client.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

var ErrRunLogDisabled = errors.New("run log disabled")

// MaxStoreIDLen matches count_runs.store.
const MaxStoreIDLen = 64

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseCriteria validates raw filter values before any I/O happens. Empty
// strings mean "no filter". store_id length is checked first, then dates,
// then rating.
func ParseCriteria(storeID, rating, startDate, endDate string) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria
	if s := strings.TrimSpace(storeID); s != "" {
		if utf8.RuneCountInString(s) > MaxStoreIDLen {
			return c, &ValidationError{Msg: fmt.Sprintf("store_id must be at most %d characters", MaxStoreIDLen)}
		}
		c.StoreID = &s
	}
	if startDate != "" {
		if !isoDate.MatchString(startDate) {
			return c, &ValidationError{Msg: "start_date must be YYYY-MM-DD"}
		}
		c.StartDate = &startDate
	}
	if endDate != "" {
		if !isoDate.MatchString(endDate) {
			return c, &ValidationError{Msg: "end_date must be YYYY-MM-DD"}
		}
		c.EndDate = &endDate
	}
	if rating != "" {
		r := NormalizeRating(rating)
		if r == nil {
			return c, &ValidationError{Msg: "rating must be 1-5 or one…five"}
		}
		c.Rating = r
	}
	return c, nil
}

type CountOptions struct {
	Cache       domain.Cache  // optional
	Runs        domain.RunLog // optional
	CacheTTL    time.Duration
	Location    *time.Location
	DropUndated bool
}

// CountService answers count requests against a single review source. Each
// call to Count builds its own pipeline; nothing but the cache and run log
// outlives a request.
type CountService struct {
	src         domain.ReviewSource
	cache       domain.Cache
	runs        domain.RunLog
	norm        *RowNormalizer
	cacheTTL    time.Duration
	dropUndated bool
}

func NewCountService(src domain.ReviewSource, opts CountOptions) *CountService {
	return &CountService{
		src:         src,
		cache:       opts.Cache,
		runs:        opts.Runs,
		norm:        NewRowNormalizer(opts.Location),
		cacheTTL:    opts.CacheTTL,
		dropUndated: opts.DropUndated,
	}
}

func (s *CountService) FileID() string { return s.src.ID() }

// Count returns a cached result when one exists, otherwise runs the pipeline.
func (s *CountService) Count(ctx context.Context, c domain.FilterCriteria) (domain.CountResult, error) {
	return s.count(ctx, c, true)
}

// Refresh drops the cached entry, recomputes and stores the new result.
func (s *CountService) Refresh(ctx context.Context, c domain.FilterCriteria) (domain.CountResult, error) {
	return s.count(ctx, c, false)
}

func (s *CountService) count(ctx context.Context, c domain.FilterCriteria, readCache bool) (domain.CountResult, error) {
	key := s.cacheKey(c)
	if s.cache != nil && !readCache {
		// a failed refresh must not leave the old count behind
		if err := s.cache.Del(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache del failed")
		}
	}
	if s.cache != nil && readCache {
		var cached domain.CountResult
		if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if ok {
			cached.Cached = true
			return cached, nil
		}
	}

	res, err := s.compute(ctx, c)
	if err != nil {
		return domain.CountResult{}, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	if s.runs != nil {
		if err := s.runs.RecordRun(ctx, toRun(res)); err != nil {
			log.Warn().Err(err).Str("run_id", res.RunID).Msg("record run failed")
		}
	}
	return res, nil
}

func (s *CountService) compute(ctx context.Context, c domain.FilterCriteria) (domain.CountResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	rc, err := s.src.Open(ctx)
	if err != nil {
		observability.ObserveRun("open_error", domain.Stats{}, time.Since(start))
		return domain.CountResult{}, fmt.Errorf("open source %s: %w", s.src.ID(), err)
	}
	defer rc.Close()

	count, st, err := s.run(ctx, c, rc)
	dur := time.Since(start)
	if err != nil {
		observability.ObserveRun("error", st, dur)
		return domain.CountResult{}, fmt.Errorf("run %s: %w", runID, err)
	}
	observability.ObserveRun("ok", st, dur)

	log.Info().
		Str("run_id", runID).
		Str("file_id", s.src.ID()).
		Int("review_count", count).
		Int("total_rows", st.TotalRows).
		Dur("duration", dur).
		Msg("count run completed")

	return domain.CountResult{
		RunID:       runID,
		FileID:      s.src.ID(),
		Criteria:    c,
		ReviewCount: count,
		Stats:       st,
		Duration:    dur,
	}, nil
}

func (s *CountService) run(ctx context.Context, c domain.FilterCriteria, r io.Reader) (int, domain.Stats, error) {
	p := NewStreamPipeline(s.norm, c, s.dropUndated)
	return p.Run(ctx, csvrows.NewReader(r))
}

// RecentRuns lists the newest recorded runs.
func (s *CountService) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.runs == nil {
		return nil, ErrRunLogDisabled
	}
	return s.runs.ListRuns(ctx, limit)
}

func (s *CountService) cacheKey(c domain.FilterCriteria) string {
	part := func(p *string) string {
		if p == nil {
			return "*"
		}
		return url.QueryEscape(*p)
	}
	return fmt.Sprintf("reviews:count:%s:%s:%s:%s:%s:%t",
		url.QueryEscape(s.src.ID()), part(c.StoreID), part(c.Rating), part(c.StartDate), part(c.EndDate), s.dropUndated)
}

func toRun(res domain.CountResult) domain.Run {
	return domain.Run{
		ID:          res.RunID,
		FileID:      res.FileID,
		Store:       res.Criteria.StoreID,
		Rating:      res.Criteria.Rating,
		StartDate:   res.Criteria.StartDate,
		EndDate:     res.Criteria.EndDate,
		ReviewCount: res.ReviewCount,
		TotalRows:   res.Stats.TotalRows,
		DurationMS:  res.Duration.Milliseconds(),
	}
}
