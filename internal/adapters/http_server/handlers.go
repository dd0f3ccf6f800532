// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"turbo_reviews/internal/app"
	"turbo_reviews/internal/domain"
)

const processingFailed = "Failed to fetch or parse reviews."

type Handlers struct{ Svc *app.CountService }

type countResponse struct {
	Store       string     `json:"store"`
	Rating      string     `json:"rating"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	ReviewCount int        `json:"review_count"`
	Debug       *debugBody `json:"debug,omitempty"`
}

type debugBody struct {
	Counts struct {
		TotalRows         int `json:"total_rows"`
		AfterStore        int `json:"after_store"`
		AfterRating       int `json:"after_rating"`
		AfterDates        int `json:"after_dates"`
		UniqueAfterDedupe int `json:"unique_after_dedupe"`
	} `json:"counts"`
	Sample struct {
		StoresSeen  []string `json:"stores_seen"`
		RatingsSeen []string `json:"ratings_seen"`
	} `json:"sample"`
	DateRangeInFile struct {
		Min *string `json:"min"`
		Max *string `json:"max"`
	} `json:"date_range_in_file"`
	FileIDUsed string `json:"file_id_used"`
}

type runView struct {
	RunID       string    `json:"run_id"`
	FileID      string    `json:"file_id"`
	Store       *string   `json:"store"`
	Rating      *string   `json:"rating"`
	StartDate   *string   `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	ReviewCount int       `json:"review_count"`
	TotalRows   int       `json:"total_rows"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Turbo Reviews API is live"))
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/reviews", h.countReviews)
	s.mux.Get("/reviews/runs", h.listRuns)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeError(w, http.StatusInternalServerError, processingFailed)
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// debugRequested treats ?debug, ?debug=1, ?debug=true as on; ?debug=0 and
// ?debug=false as off.
func debugRequested(r *http.Request) bool {
	q := r.URL.Query()
	if !q.Has("debug") {
		return false
	}
	switch q.Get("debug") {
	case "0", "false":
		return false
	}
	return true
}

func orDefault(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func (h *Handlers) countReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := app.ParseCriteria(q.Get("store_id"), q.Get("rating"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		var ve *app.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Msg)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid filters")
		return
	}

	res, err := h.Svc.Count(r.Context(), c)
	if err != nil {
		log.Error().
			Err(err).
			Str("req_id", chimw.GetReqID(r.Context())).
			Str("file_id", h.Svc.FileID()).
			Msg("review count failed")
		writeError(w, http.StatusInternalServerError, processingFailed)
		return
	}

	out := countResponse{
		Store:       orDefault(c.StoreID, "ALL"),
		Rating:      orDefault(c.Rating, "ALL"),
		StartDate:   orDefault(c.StartDate, "N/A"),
		EndDate:     orDefault(c.EndDate, "N/A"),
		ReviewCount: res.ReviewCount,
	}
	if debugRequested(r) {
		out.Debug = newDebugBody(res)
	}
	writeJSON(w, r, out)
}

func newDebugBody(res domain.CountResult) *debugBody {
	d := &debugBody{FileIDUsed: res.FileID}
	st := res.Stats
	d.Counts.TotalRows = st.TotalRows
	d.Counts.AfterStore = st.AfterStore
	d.Counts.AfterRating = st.AfterRating
	d.Counts.AfterDates = st.AfterDates
	d.Counts.UniqueAfterDedupe = st.UniqueAfterDedupe
	d.Sample.StoresSeen = nonNil(st.StoresSeen)
	d.Sample.RatingsSeen = nonNil(st.RatingsSeen)
	d.DateRangeInFile.Min = st.MinDate
	d.DateRangeInFile.Max = st.MaxDate
	return d
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (h *Handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	runs, err := h.Svc.RecentRuns(r.Context(), limit)
	if errors.Is(err, app.ErrRunLogDisabled) {
		writeError(w, http.StatusNotFound, "run log is not enabled")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("req_id", chimw.GetReqID(r.Context())).Msg("list runs failed")
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	out := make([]runView, 0, len(runs))
	for _, rn := range runs {
		out = append(out, runView{
			RunID:       rn.ID,
			FileID:      rn.FileID,
			Store:       rn.Store,
			Rating:      rn.Rating,
			StartDate:   rn.StartDate,
			EndDate:     rn.EndDate,
			ReviewCount: rn.ReviewCount,
			TotalRows:   rn.TotalRows,
			DurationMS:  rn.DurationMS,
			CreatedAt:   rn.CreatedAt,
		})
	}
	writeJSON(w, r, map[string]any{"items": out})
}
