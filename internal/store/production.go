package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pressline/apiserver/types"
)

// ProductionRepository handles persistence for production entries.
type ProductionRepository struct {
	db *sql.DB
}

func NewProductionRepository(db *sql.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) Create(ctx context.Context, entry types.ProductionEntry) (types.ProductionEntry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	const query = `
		INSERT INTO production_entries (user_id, job_id, barcode, production_value, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		entry.UserID,
		entry.JobID,
		entry.Barcode,
		entry.ProductionValue,
		entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return types.ProductionEntry{}, err
	}
	return entry, nil
}

// DistinctBarcodeCount counts distinct barcodes scanned by the user at
// or after the reference time. Duplicate scans of one physical item
// count once.
func (r *ProductionRepository) DistinctBarcodeCount(ctx context.Context, userID int, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(DISTINCT barcode)
		FROM production_entries
		WHERE user_id = $1 AND created_at >= $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountSince counts scans without deduplication, the figure the
// session-stats view reports.
func (r *ProductionRepository) CountSince(ctx context.Context, userID int, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(1)
		FROM production_entries
		WHERE user_id = $1 AND created_at >= $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SumProductionValueSince totals production value across all of the
// user's scans at or after the reference time.
func (r *ProductionRepository) SumProductionValueSince(ctx context.Context, userID int, since time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(production_value), 0)
		FROM production_entries
		WHERE user_id = $1 AND created_at >= $2`
	var total float64
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// SumPaidProductionValueSince totals production value restricted to
// scans performed under paid job types.
func (r *ProductionRepository) SumPaidProductionValueSince(ctx context.Context, userID int, since time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(p.production_value), 0)
		FROM production_entries p
		JOIN job_types j ON j.id = p.job_id
		WHERE p.user_id = $1 AND p.created_at >= $2 AND j.paid`
	var total float64
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
