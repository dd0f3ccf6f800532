package app

import "turbo_reviews/internal/domain"

// Stage is one filtering step. Stages run in declaration order.
type Stage int

const (
	StageStore Stage = iota
	StageRating
	StageDates
)

var Stages = []Stage{StageStore, StageRating, StageDates}

func (s Stage) String() string {
	switch s {
	case StageStore:
		return "store"
	case StageRating:
		return "rating"
	case StageDates:
		return "dates"
	}
	return "unknown"
}

// FilterEngine evaluates one stage at a time against fixed criteria.
//
// With DropUndated unset, a record without a date passes an explicit date
// range; set it to exclude such records instead.
type FilterEngine struct {
	c           domain.FilterCriteria
	DropUndated bool
}

func NewFilterEngine(c domain.FilterCriteria, dropUndated bool) *FilterEngine {
	return &FilterEngine{c: c, DropUndated: dropUndated}
}

func (f *FilterEngine) Passes(rec domain.CanonicalRecord, stage Stage) bool {
	switch stage {
	case StageStore:
		return f.c.StoreID == nil || rec.StoreID == *f.c.StoreID
	case StageRating:
		if f.c.Rating == nil {
			return true
		}
		return rec.Rating != nil && *rec.Rating == *f.c.Rating
	case StageDates:
		if f.c.StartDate == nil && f.c.EndDate == nil {
			return true
		}
		if rec.ReviewDate == nil {
			return !f.DropUndated
		}
		d := *rec.ReviewDate
		if f.c.StartDate != nil && d < *f.c.StartDate {
			return false
		}
		if f.c.EndDate != nil && d > *f.c.EndDate {
			return false
		}
		return true
	}
	return false
}
