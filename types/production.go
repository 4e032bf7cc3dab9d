package types

import "time"

// ProductionEntry records a single barcode scan. Entries are immutable
// once created and carry no session foreign key; session attribution is
// inferred at read time by comparing CreatedAt against timeclock windows.
type ProductionEntry struct {
	ID int64 `json:"id" db:"id"`

	UserID int `json:"userId" db:"user_id"`

	// JobID references the job type the scan was performed under.
	JobID int `json:"jobId" db:"job_id"`

	// Barcode identifies the physical item. It is not globally unique;
	// it is only deduplicated per user per day for counting.
	Barcode string `json:"barcode" db:"barcode"`

	// ProductionValue is the normalized unit-of-work contribution,
	// computed by the scanning client as 100 / expectedPPOH.
	ProductionValue float64 `json:"productionValue" db:"production_value"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
