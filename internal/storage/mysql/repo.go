package mysql

import (
	"context"
	"database/sql"

	"turbo_reviews/internal/domain"
)

const maxListLimit = 500

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Repo is the MySQL-backed run log.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) RecordRun(ctx context.Context, run domain.Run) error {
	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.FileID,
		valStr(run.Store),
		valStr(run.Rating),
		valStr(run.StartDate),
		valStr(run.EndDate),
		run.ReviewCount,
		run.TotalRows,
		run.DurationMS,
	)
	return err
}

func (r *Repo) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	rows, err := r.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Run
	for rows.Next() {
		var run domain.Run
		var store, rating, start, end sql.NullString
		if err := rows.Scan(
			&run.ID,
			&run.FileID,
			&store, &rating,
			&start, &end,
			&run.ReviewCount,
			&run.TotalRows,
			&run.DurationMS,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		run.Store = ptrNull(store)
		run.Rating = ptrNull(rating)
		run.StartDate = ptrNull(start)
		run.EndDate = ptrNull(end)
		out = append(out, run)
	}
	return out, rows.Err()
}
