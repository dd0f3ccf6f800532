package app_test

import (
	"testing"

	"turbo_reviews/internal/app"
	"turbo_reviews/internal/domain"
)

func TestFilterEngine_Stages(t *testing.T) {
	rec := domain.CanonicalRecord{StoreID: "101", Rating: ptr("5"), ReviewDate: ptr("2024-02-10")}

	cases := []struct {
		name  string
		c     domain.FilterCriteria
		stage app.Stage
		want  bool
	}{
		{"no store filter", domain.FilterCriteria{}, app.StageStore, true},
		{"store match", domain.FilterCriteria{StoreID: ptr("101")}, app.StageStore, true},
		{"store mismatch", domain.FilterCriteria{StoreID: ptr("10")}, app.StageStore, false},
		{"rating match", domain.FilterCriteria{Rating: ptr("5")}, app.StageRating, true},
		{"rating mismatch", domain.FilterCriteria{Rating: ptr("4")}, app.StageRating, false},
		{"start inclusive", domain.FilterCriteria{StartDate: ptr("2024-02-10")}, app.StageDates, true},
		{"end inclusive", domain.FilterCriteria{EndDate: ptr("2024-02-10")}, app.StageDates, true},
		{"before start", domain.FilterCriteria{StartDate: ptr("2024-02-11")}, app.StageDates, false},
		{"after end", domain.FilterCriteria{EndDate: ptr("2024-02-09")}, app.StageDates, false},
		{"inside range", domain.FilterCriteria{StartDate: ptr("2024-01-01"), EndDate: ptr("2024-12-31")}, app.StageDates, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := app.NewFilterEngine(tc.c, false)
			if got := f.Passes(rec, tc.stage); got != tc.want {
				t.Fatalf("Passes = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterEngine_UnparsedRatingFailsRatingFilter(t *testing.T) {
	f := app.NewFilterEngine(domain.FilterCriteria{Rating: ptr("3")}, false)
	if f.Passes(domain.CanonicalRecord{RatingRaw: "meh"}, app.StageRating) {
		t.Fatal("record without rating passed a rating filter")
	}
}

func TestFilterEngine_Undated(t *testing.T) {
	rec := domain.CanonicalRecord{StoreID: "1"}
	c := domain.FilterCriteria{StartDate: ptr("2024-01-01")}

	if !app.NewFilterEngine(c, false).Passes(rec, app.StageDates) {
		t.Fatal("undated record should pass a date range by default")
	}
	if app.NewFilterEngine(c, true).Passes(rec, app.StageDates) {
		t.Fatal("undated record should be dropped when DropUndated is set")
	}
	if !app.NewFilterEngine(domain.FilterCriteria{}, true).Passes(rec, app.StageDates) {
		t.Fatal("undated record should pass when no date filter is set")
	}
}
