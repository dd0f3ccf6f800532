package domain

import (
	"context"
	"io"
)

// ReviewSource opens the review CSV as a byte stream. The caller closes it.
type ReviewSource interface {
	ID() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type RunLog interface {
	RecordRun(ctx context.Context, r Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
