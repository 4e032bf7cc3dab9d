package store

import (
	"context"
	"database/sql"
	"time"
)

// ReportRepository runs the read-only aggregation queries behind the
// manager reports.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProductivityAggregate is one (user, job type) grouping produced by
// the productivity window join. Rate figures are derived by the caller.
type ProductivityAggregate struct {
	UserID          int
	FirstName       string
	LastName        string
	JobTypeName     string
	ExpectedPPOH    float64
	HoursWorked     float64
	PiecesCompleted int
}

// ProductivityByEmployee aggregates closed timeclock entries inside
// [start, end] per (user, job type). Pieces are attributed to a
// grouping only when the scan's created_at falls inside a specific
// entry's own start/end window and matches its job, not merely the
// report range. Open entries are excluded by the end_time bound.
func (r *ReportRepository) ProductivityByEmployee(ctx context.Context, start, end time.Time) ([]ProductivityAggregate, error) {
	const query = `
		SELECT u.id, u.first_name, u.last_name, j.name, j.expected_ppoh,
			SUM(EXTRACT(EPOCH FROM (t.end_time - t.start_time)) / 3600) AS hours_worked,
			SUM((
				SELECT COUNT(1)
				FROM production_entries p
				WHERE p.user_id = t.user_id
				  AND p.job_id = t.job_type_id
				  AND p.created_at >= t.start_time
				  AND p.created_at <= t.end_time
			)) AS pieces_completed
		FROM timeclock_entries t
		JOIN users u ON u.id = t.user_id
		JOIN job_types j ON j.id = t.job_type_id
		WHERE t.start_time >= $1 AND t.end_time <= $2
		GROUP BY u.id, u.first_name, u.last_name, j.id, j.name, j.expected_ppoh
		ORDER BY u.last_name, u.first_name, j.name`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggregates := make([]ProductivityAggregate, 0)
	for rows.Next() {
		var agg ProductivityAggregate
		if err := rows.Scan(
			&agg.UserID,
			&agg.FirstName,
			&agg.LastName,
			&agg.JobTypeName,
			&agg.ExpectedPPOH,
			&agg.HoursWorked,
			&agg.PiecesCompleted,
		); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, rows.Err()
}
