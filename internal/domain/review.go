package domain

import "time"

// RawRow is one tokenized CSV row keyed by header name. Header spelling varies
// between file revisions (StoreNumber, Store_Number, store_number, ...).
type RawRow map[string]string

// CanonicalRecord is the schema-stable form of a review row.
type CanonicalRecord struct {
	StoreID    string
	ReviewDate *string // YYYY-MM-DD, nil when missing or unparseable
	Rating     *string // "1".."5", nil when missing or unparseable
	RatingRaw  string  // trimmed, lower-cased source value; diagnostics only
	ReviewID   string
	Comment    string
}

// FilterCriteria holds the normalized request filters. Nil means "no filter".
type FilterCriteria struct {
	StoreID   *string
	Rating    *string
	StartDate *string
	EndDate   *string
}

// Stats is the per-run diagnostic snapshot.
type Stats struct {
	TotalRows         int      `json:"total_rows"`
	AfterStore        int      `json:"after_store"`
	AfterRating       int      `json:"after_rating"`
	AfterDates        int      `json:"after_dates"`
	UniqueAfterDedupe int      `json:"unique_after_dedupe"`
	StoresSeen        []string `json:"stores_seen"`
	RatingsSeen       []string `json:"ratings_seen"`
	MinDate           *string  `json:"min_date"`
	MaxDate           *string  `json:"max_date"`
}

// CountResult is what one count request produces, whether computed or cached.
type CountResult struct {
	RunID       string         `json:"run_id"`
	FileID      string         `json:"file_id"`
	Criteria    FilterCriteria `json:"criteria"`
	ReviewCount int            `json:"review_count"`
	Stats       Stats          `json:"stats"`
	Cached      bool           `json:"-"`
	Duration    time.Duration  `json:"duration"`
}

// Run is an audit entry for one computed count (not a review record).
type Run struct {
	ID          string
	FileID      string
	Store       *string
	Rating      *string
	StartDate   *string
	EndDate     *string
	ReviewCount int
	TotalRows   int
	DurationMS  int64
	CreatedAt   time.Time
}
