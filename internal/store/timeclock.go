package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/pressline/apiserver/types"
)

// TimeclockRepository handles persistence for timeclock entries.
type TimeclockRepository struct {
	db *sql.DB
}

func NewTimeclockRepository(db *sql.DB) *TimeclockRepository {
	return &TimeclockRepository{db: db}
}

const timeclockColumns = `id, user_id, job_type_id, start_time, end_time, total_hours, clock_out_reason`

func scanTimeclockEntry(row interface{ Scan(...any) error }) (types.TimeclockEntry, error) {
	var entry types.TimeclockEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.JobTypeID,
		&entry.StartTime,
		&entry.EndTime,
		&entry.TotalHours,
		&entry.ClockOutReason,
	)
	return entry, err
}

// Create inserts an open entry. The partial unique index on open
// sessions turns a concurrent double clock-in into ErrSessionOpen.
func (r *TimeclockRepository) Create(ctx context.Context, entry types.TimeclockEntry) (types.TimeclockEntry, error) {
	const query = `
		INSERT INTO timeclock_entries (user_id, job_type_id, start_time)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		entry.UserID,
		entry.JobTypeID,
		entry.StartTime,
	).Scan(&entry.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return types.TimeclockEntry{}, ErrSessionOpen
		}
		return types.TimeclockEntry{}, err
	}
	return entry, nil
}

func (r *TimeclockRepository) Get(ctx context.Context, id int64) (types.TimeclockEntry, error) {
	const query = `
		SELECT ` + timeclockColumns + `
		FROM timeclock_entries
		WHERE id = $1`
	entry, err := scanTimeclockEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TimeclockEntry{}, ErrNotFound
		}
		return types.TimeclockEntry{}, err
	}
	return entry, nil
}

// Close stamps the end of an open entry. Closing is conditional on the
// entry still being open; a second close returns ErrSessionClosed and a
// missing entry returns ErrNotFound.
func (r *TimeclockRepository) Close(ctx context.Context, id int64, endTime time.Time, totalHours float64, reason string) (types.TimeclockEntry, error) {
	const query = `
		UPDATE timeclock_entries
		SET end_time = $1,
			total_hours = $2,
			clock_out_reason = $3
		WHERE id = $4 AND end_time IS NULL
		RETURNING ` + timeclockColumns
	entry, err := scanTimeclockEntry(r.db.QueryRowContext(ctx, query, endTime, totalHours, reason, id))
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return types.TimeclockEntry{}, err
	}

	if _, err := r.Get(ctx, id); err != nil {
		return types.TimeclockEntry{}, err
	}
	return types.TimeclockEntry{}, ErrSessionClosed
}

// OpenEntry returns the user's current open session. If legacy data
// holds more than one, the most recently started wins.
func (r *TimeclockRepository) OpenEntry(ctx context.Context, userID int) (types.TimeclockEntry, error) {
	const query = `
		SELECT ` + timeclockColumns + `
		FROM timeclock_entries
		WHERE user_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`
	entry, err := scanTimeclockEntry(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TimeclockEntry{}, ErrNotFound
		}
		return types.TimeclockEntry{}, err
	}
	return entry, nil
}

// EntriesForUserSince returns the user's entries with start_time at or
// after the reference time, paired with their job types.
func (r *TimeclockRepository) EntriesForUserSince(ctx context.Context, userID int, since time.Time) ([]types.EntryWithJobType, error) {
	const query = `
		SELECT t.id, t.user_id, t.job_type_id, t.start_time, t.end_time, t.total_hours, t.clock_out_reason,
			j.id, j.name, j.expected_ppoh, j.paid, COALESCE(j.department, ''), j.created_at, j.updated_at
		FROM timeclock_entries t
		JOIN job_types j ON j.id = t.job_type_id
		WHERE t.user_id = $1 AND t.start_time >= $2
		ORDER BY t.start_time`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntriesWithJobType(rows)
}

// EntriesForUserInRange returns the user's entries starting inside
// [start, end), paired with their job types.
func (r *TimeclockRepository) EntriesForUserInRange(ctx context.Context, userID int, start, end time.Time) ([]types.EntryWithJobType, error) {
	const query = `
		SELECT t.id, t.user_id, t.job_type_id, t.start_time, t.end_time, t.total_hours, t.clock_out_reason,
			j.id, j.name, j.expected_ppoh, j.paid, COALESCE(j.department, ''), j.created_at, j.updated_at
		FROM timeclock_entries t
		JOIN job_types j ON j.id = t.job_type_id
		WHERE t.user_id = $1 AND t.start_time >= $2 AND t.start_time < $3
		ORDER BY t.start_time`
	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntriesWithJobType(rows)
}

// EntryWithUser bundles an entry with both its user and job type, the
// shape the cross-user day and range reports consume.
type EntryWithUser struct {
	Entry   types.TimeclockEntry
	JobType types.JobType
	User    types.User
}

// EntriesInRange returns all entries starting inside [start, end]
// joined with their users and job types, ordered by start time.
func (r *TimeclockRepository) EntriesInRange(ctx context.Context, start, end time.Time) ([]EntryWithUser, error) {
	const query = `
		SELECT t.id, t.user_id, t.job_type_id, t.start_time, t.end_time, t.total_hours, t.clock_out_reason,
			j.id, j.name, j.expected_ppoh, j.paid, COALESCE(j.department, ''), j.created_at, j.updated_at,
			u.id, u.first_name, u.last_name, u.username, u.role, u.pay_rate, u.pay_type, u.department, u.created_at, u.updated_at
		FROM timeclock_entries t
		JOIN job_types j ON j.id = t.job_type_id
		JOIN users u ON u.id = t.user_id
		WHERE t.start_time >= $1 AND t.start_time <= $2
		ORDER BY t.start_time`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]EntryWithUser, 0)
	for rows.Next() {
		var item EntryWithUser
		if err := rows.Scan(
			&item.Entry.ID,
			&item.Entry.UserID,
			&item.Entry.JobTypeID,
			&item.Entry.StartTime,
			&item.Entry.EndTime,
			&item.Entry.TotalHours,
			&item.Entry.ClockOutReason,
			&item.JobType.ID,
			&item.JobType.Name,
			&item.JobType.ExpectedPPOH,
			&item.JobType.Paid,
			&item.JobType.Department,
			&item.JobType.CreatedAt,
			&item.JobType.UpdatedAt,
			&item.User.ID,
			&item.User.FirstName,
			&item.User.LastName,
			&item.User.Username,
			&item.User.Role,
			&item.User.PayRate,
			&item.User.PayType,
			&item.User.Department,
			&item.User.CreatedAt,
			&item.User.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, item)
	}
	return entries, rows.Err()
}

// UpdateCorrection overwrites the window and job type of an entry, used
// by manager correction tools. Clearing end_time while the user already
// has another open entry trips the partial unique index and returns
// ErrSessionOpen.
func (r *TimeclockRepository) UpdateCorrection(ctx context.Context, id int64, startTime time.Time, endTime *time.Time, jobTypeID int) error {
	const query = `
		UPDATE timeclock_entries
		SET start_time = $1,
			end_time = $2,
			job_type_id = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, startTime, endTime, jobTypeID, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrSessionOpen
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func collectEntriesWithJobType(rows *sql.Rows) ([]types.EntryWithJobType, error) {
	entries := make([]types.EntryWithJobType, 0)
	for rows.Next() {
		var item types.EntryWithJobType
		if err := rows.Scan(
			&item.Entry.ID,
			&item.Entry.UserID,
			&item.Entry.JobTypeID,
			&item.Entry.StartTime,
			&item.Entry.EndTime,
			&item.Entry.TotalHours,
			&item.Entry.ClockOutReason,
			&item.JobType.ID,
			&item.JobType.Name,
			&item.JobType.ExpectedPPOH,
			&item.JobType.Paid,
			&item.JobType.Department,
			&item.JobType.CreatedAt,
			&item.JobType.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, item)
	}
	return entries, rows.Err()
}
