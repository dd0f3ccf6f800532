package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "turbo_reviews/internal/adapters/redis"
	"turbo_reviews/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	store := "12"
	min := "2024-01-05"
	in := domain.CountResult{
		RunID:       "run-1",
		FileID:      "file-1",
		Criteria:    domain.FilterCriteria{StoreID: &store},
		ReviewCount: 7,
		Stats:       domain.Stats{TotalRows: 9, StoresSeen: []string{"12"}, MinDate: &min},
	}
	if err := c.Set(ctx, "k", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("turbo:k") {
		t.Fatalf("expected prefixed key in redis, have %v", mr.Keys())
	}

	var out domain.CountResult
	ok, err := c.Get(ctx, "k", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.ReviewCount != 7 || out.Stats.TotalRows != 9 || *out.Criteria.StoreID != "12" || *out.Stats.MinDate != min {
		t.Fatalf("unexpected cached value: %+v", out)
	}
}

func TestCache_MissAndExpiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var out domain.CountResult
	if ok, err := c.Get(ctx, "absent", &out); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", domain.CountResult{ReviewCount: 1}, 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(11 * time.Second)
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("expected key to expire")
	}
}

func TestCache_Del(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.CountResult{ReviewCount: 1}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("turbo:k") {
		t.Fatalf("expected key removed")
	}
}

func TestCache_CorruptValueIsMiss(t *testing.T) {
	c, mr := newCache(t)
	if err := mr.Set("turbo:k", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var out domain.CountResult
	ok, err := c.Get(context.Background(), "k", &out)
	if ok || err == nil {
		t.Fatalf("expected decode error and miss, got ok=%v err=%v", ok, err)
	}
}
