package app

import (
	"strings"

	"github.com/zeebo/xxh3"

	"turbo_reviews/internal/domain"
)

const keySep = "|"

// Deduplicator tracks keys seen during one pipeline run; first occurrence wins.
// Keys are kept as 128-bit digests so long comments don't inflate the set.
// Not safe for concurrent use; each run owns its own instance.
type Deduplicator struct {
	seen map[xxh3.Uint128]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[xxh3.Uint128]struct{}, 1024)}
}

// DedupeKey prefers the review id and falls back to store|date|comment.
func DedupeKey(rec domain.CanonicalRecord) string {
	if rec.ReviewID != "" {
		return rec.ReviewID
	}
	date := ""
	if rec.ReviewDate != nil {
		date = *rec.ReviewDate
	}
	return strings.Join([]string{rec.StoreID, date, rec.Comment}, keySep)
}

// IsDuplicate reports whether rec's key was seen before and records it if not.
func (d *Deduplicator) IsDuplicate(rec domain.CanonicalRecord) bool {
	h := xxh3.HashString128(DedupeKey(rec))
	if _, ok := d.seen[h]; ok {
		return true
	}
	d.seen[h] = struct{}{}
	return false
}

func (d *Deduplicator) Len() int { return len(d.seen) }
