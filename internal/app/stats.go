package app

import "turbo_reviews/internal/domain"

const (
	maxStoreSamples  = 20
	maxRatingSamples = 10
)

// sampleSet keeps the first max distinct values in arrival order.
type sampleSet struct {
	max   int
	seen  map[string]struct{}
	order []string
}

func newSampleSet(max int) *sampleSet {
	return &sampleSet{max: max, seen: make(map[string]struct{}, max)}
}

func (s *sampleSet) add(v string) {
	if len(s.order) >= s.max {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *sampleSet) values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// StatsCollector accumulates diagnostics for a single run. Observe sees every
// row, filtered or not; the stage counters are driven by the pipeline.
type StatsCollector struct {
	st      domain.Stats
	stores  *sampleSet
	ratings *sampleSet
}

func NewStatsCollector() *StatsCollector {
	return &StatsCollector{
		stores:  newSampleSet(maxStoreSamples),
		ratings: newSampleSet(maxRatingSamples),
	}
}

func (c *StatsCollector) Observe(rec domain.CanonicalRecord) {
	c.st.TotalRows++

	if rec.StoreID != "" {
		c.stores.add(rec.StoreID)
	}
	// unparseable ratings are sampled by their raw text
	if rec.Rating != nil {
		c.ratings.add(*rec.Rating)
	} else if rec.RatingRaw != "" {
		c.ratings.add(rec.RatingRaw)
	}

	if rec.ReviewDate != nil {
		d := *rec.ReviewDate
		if c.st.MinDate == nil || d < *c.st.MinDate {
			c.st.MinDate = &d
		}
		if c.st.MaxDate == nil || d > *c.st.MaxDate {
			c.st.MaxDate = &d
		}
	}
}

// Pass counts a record that survived stage and every stage before it.
func (c *StatsCollector) Pass(stage Stage) {
	switch stage {
	case StageStore:
		c.st.AfterStore++
	case StageRating:
		c.st.AfterRating++
	case StageDates:
		c.st.AfterDates++
	}
}

func (c *StatsCollector) Unique() { c.st.UniqueAfterDedupe++ }

func (c *StatsCollector) Snapshot() domain.Stats {
	out := c.st
	out.StoresSeen = c.stores.values()
	out.RatingsSeen = c.ratings.values()
	return out
}
