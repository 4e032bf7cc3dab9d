package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pressline/apiserver/types"
)

// JobTypeRepository handles persistence for job types.
type JobTypeRepository struct {
	db *sql.DB
}

func NewJobTypeRepository(db *sql.DB) *JobTypeRepository {
	return &JobTypeRepository{db: db}
}

const jobTypeColumns = `id, name, expected_ppoh, paid, department, created_at, updated_at`

func scanJobType(row interface{ Scan(...any) error }) (types.JobType, error) {
	var jt types.JobType
	var department sql.NullString
	err := row.Scan(
		&jt.ID,
		&jt.Name,
		&jt.ExpectedPPOH,
		&jt.Paid,
		&department,
		&jt.CreatedAt,
		&jt.UpdatedAt,
	)
	jt.Department = department.String
	return jt, err
}

func (r *JobTypeRepository) GetByID(ctx context.Context, id int) (types.JobType, error) {
	const query = `
		SELECT ` + jobTypeColumns + `
		FROM job_types
		WHERE id = $1`
	jt, err := scanJobType(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.JobType{}, ErrNotFound
		}
		return types.JobType{}, err
	}
	return jt, nil
}

func (r *JobTypeRepository) List(ctx context.Context) ([]types.JobType, error) {
	const query = `
		SELECT ` + jobTypeColumns + `
		FROM job_types
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobTypes := make([]types.JobType, 0)
	for rows.Next() {
		jt, err := scanJobType(rows)
		if err != nil {
			return nil, err
		}
		jobTypes = append(jobTypes, jt)
	}
	return jobTypes, rows.Err()
}

func (r *JobTypeRepository) Create(ctx context.Context, jt types.JobType) (types.JobType, error) {
	now := time.Now()
	jt.CreatedAt = now
	jt.UpdatedAt = now

	department := sql.NullString{String: jt.Department, Valid: jt.Department != ""}

	const query = `
		INSERT INTO job_types (name, expected_ppoh, paid, department, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		jt.Name,
		jt.ExpectedPPOH,
		jt.Paid,
		department,
		jt.CreatedAt,
		jt.UpdatedAt,
	).Scan(&jt.ID); err != nil {
		return types.JobType{}, err
	}
	return jt, nil
}

func (r *JobTypeRepository) Update(ctx context.Context, jt types.JobType) (types.JobType, error) {
	jt.UpdatedAt = time.Now()

	department := sql.NullString{String: jt.Department, Valid: jt.Department != ""}

	const query = `
		UPDATE job_types
		SET name = $1,
			expected_ppoh = $2,
			paid = $3,
			department = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		jt.Name,
		jt.ExpectedPPOH,
		jt.Paid,
		department,
		jt.UpdatedAt,
		jt.ID,
	)
	if err != nil {
		return types.JobType{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.JobType{}, err
	}
	if affected == 0 {
		return types.JobType{}, ErrNotFound
	}
	return jt, nil
}

func (r *JobTypeRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM job_types WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
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
