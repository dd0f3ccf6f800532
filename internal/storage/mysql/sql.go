package mysql

// Runs are immutable; a replayed run id keeps the first row.
const insertRunSQL = `
INSERT INTO count_runs
  (run_id, file_id, store, rating, start_date, end_date, review_count, total_rows, duration_ms)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE run_id = run_id
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; served by idx_count_runs_created.
const listRunsSQL = `
SELECT
  run_id,
  file_id,
  store,
  rating,
  start_date,
  end_date,
  review_count,
  total_rows,
  duration_ms,
  created_at
FROM count_runs
ORDER BY created_at DESC, run_id
LIMIT ?
`
