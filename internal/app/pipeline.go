package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"turbo_reviews/internal/domain"
)

// RowSource yields rows one at a time and returns io.EOF after the last one.
// The next row is only requested once the previous one is fully processed.
type RowSource interface {
	Next() (domain.RawRow, error)
}

// StreamPipeline drives one counting run. Build a new one per request; the
// deduplicator and stats it owns are never shared.
type StreamPipeline struct {
	norm   *RowNormalizer
	filter *FilterEngine
	dedupe *Deduplicator
	stats  *StatsCollector
	used   bool
}

func NewStreamPipeline(norm *RowNormalizer, c domain.FilterCriteria, dropUndated bool) *StreamPipeline {
	return &StreamPipeline{
		norm:   norm,
		filter: NewFilterEngine(c, dropUndated),
		dedupe: NewDeduplicator(),
		stats:  NewStatsCollector(),
	}
}

var errPipelineReused = errors.New("pipeline: already run")

// Run consumes src to the end and returns the unique count with diagnostics.
// Any read error or context cancellation aborts the run without a result.
func (p *StreamPipeline) Run(ctx context.Context, src RowSource) (int, domain.Stats, error) {
	if p.used {
		return 0, domain.Stats{}, errPipelineReused
	}
	p.used = true

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, domain.Stats{}, err
		}
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, domain.Stats{}, fmt.Errorf("pipeline: read row: %w", err)
		}
		if p.step(row) {
			count++
		}
	}

	st := p.stats.Snapshot()
	return count, st, nil
}

// step processes one row and reports whether it counted as a new unique match.
func (p *StreamPipeline) step(row domain.RawRow) bool {
	rec := p.norm.Normalize(row)
	p.stats.Observe(rec)

	for _, stage := range Stages {
		if !p.filter.Passes(rec, stage) {
			return false
		}
		p.stats.Pass(stage)
	}

	if p.dedupe.IsDuplicate(rec) {
		return false
	}
	p.stats.Unique()
	return true
}
