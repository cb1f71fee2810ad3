package mysql

const insertRunSQL = `
INSERT INTO runs
  (id, brand, source_kind, sheet_id, sheet_url,
   total_reviews, unique_reviews, low_rated_reviews,
   processed, non_compliant, failed,
   started_at, finished_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  brand             = VALUES(brand),
  source_kind       = VALUES(source_kind),
  sheet_id          = VALUES(sheet_id),
  sheet_url         = VALUES(sheet_url),
  total_reviews     = VALUES(total_reviews),
  unique_reviews    = VALUES(unique_reviews),
  low_rated_reviews = VALUES(low_rated_reviews),
  processed         = VALUES(processed),
  non_compliant     = VALUES(non_compliant),
  failed            = VALUES(failed),
  started_at        = VALUES(started_at),
  finished_at       = VALUES(finished_at)
`

const listRunsSQL = `
SELECT
  id, brand, source_kind, sheet_id, sheet_url,
  total_reviews, unique_reviews, low_rated_reviews,
  processed, non_compliant, failed,
  started_at, finished_at
FROM runs
ORDER BY finished_at DESC
LIMIT ?
`
