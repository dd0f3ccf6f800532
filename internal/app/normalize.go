package app

import (
	"regexp"
	"strings"
	"time"

	"turbo_reviews/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Ordered per field; the first present, non-empty column wins.
var rowAliases = map[string][]string{
	"store":     {"StoreNumber", "Store_Number", "store_number", "Store", "StoreID", "store_id", "store"},
	"date":      {"ReviewDate", "review_date", "Date", "date"},
	"rating":    {"Rating", "rating"},
	"review_id": {"ReviewId", "ReviewID", "review_id"},
	"comment":   {"Comment", "comment"},
}

var ratingWords = map[string]string{"one": "1", "two": "2", "three": "3", "four": "4", "five": "5"}

var isoDatePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// "... GMT+0100 (Central European Standard Time)"
var zoneNameSuffix = regexp.MustCompile(`\s*\([^()]*\)$`)

// Fallback layouts for dates that are not ISO-prefixed. Order matters: US
// month-first before day-first, four-digit years before two-digit years.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006-1-2",
	"2006.1.2",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04:05",
	"Jan 2 2006 15:04:05",
	"January 2, 2006 15:04:05",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// RowNormalizer maps loosely keyed rows to canonical records. Dates that need
// generic parsing are rendered in loc.
type RowNormalizer struct {
	loc *time.Location
}

func NewRowNormalizer(loc *time.Location) *RowNormalizer {
	if loc == nil {
		loc = time.Local
	}
	return &RowNormalizer{loc: loc}
}

// Normalize never fails; unusable values degrade to "" or nil.
func (n *RowNormalizer) Normalize(row domain.RawRow) domain.CanonicalRecord {
	rawRating := strings.ToLower(strings.TrimSpace(firstAlias(row, "rating")))
	return domain.CanonicalRecord{
		StoreID:    strings.TrimSpace(firstAlias(row, "store")),
		ReviewDate: n.NormalizeDate(firstAlias(row, "date")),
		Rating:     NormalizeRating(rawRating),
		RatingRaw:  rawRating,
		ReviewID:   strings.TrimSpace(firstAlias(row, "review_id")),
		Comment:    strings.TrimSpace(firstAlias(row, "comment")),
	}
}

// NormalizeRating accepts "1".."5" or "one".."five" in any case.
func NormalizeRating(v string) *string {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return nil
	}
	if d, ok := ratingWords[s]; ok {
		return &d
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '5' {
		return &s
	}
	return nil
}

// NormalizeDate returns YYYY-MM-DD or nil.
func (n *RowNormalizer) NormalizeDate(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	// ISO prefix is taken verbatim so a trailing offset can't shift the day.
	if m := isoDatePrefix.FindStringSubmatch(s); m != nil {
		d := m[1]
		return &d
	}
	s = zoneNameSuffix.ReplaceAllString(s, "")
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, n.loc)
		if err != nil {
			continue
		}
		d := t.In(n.loc).Format("2006-01-02")
		return &d
	}
	return nil
}

/********** tiny helpers **********/

func firstAlias(row domain.RawRow, field string) string {
	for _, col := range rowAliases[field] {
		if v, ok := row[col]; ok && v != "" {
			return v
		}
	}
	return ""
}
