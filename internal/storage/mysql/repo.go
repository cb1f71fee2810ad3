// Package mysql persists completed-run summaries for the audit trail.
package mysql

import (
	"context"
	"database/sql"

	"review_removal/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveRun(ctx context.Context, run domain.RunRecord) error {
	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.Brand,
		run.SourceKind,
		run.SheetID,
		run.SheetURL,
		run.TotalReviews,
		run.UniqueReviews,
		run.LowRatedReviews,
		run.Processed,
		run.NonCompliant,
		run.Failed,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

func (r *Repo) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RunRecord
	for rows.Next() {
		var run domain.RunRecord
		if err := rows.Scan(
			&run.ID,
			&run.Brand,
			&run.SourceKind,
			&run.SheetID,
			&run.SheetURL,
			&run.TotalReviews,
			&run.UniqueReviews,
			&run.LowRatedReviews,
			&run.Processed,
			&run.NonCompliant,
			&run.Failed,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
