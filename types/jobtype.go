package types

import "time"

// Departments a job type may belong to.
var Departments = []string{
	"Laundered Shirts",
	"Dry Clean Press",
	"Assembly",
	"Wash & Fold",
	"Cleaning",
}

// JobType represents a kind of work an employee can clock into.
type JobType struct {
	// ID is the unique identifier of the job type.
	ID int `json:"id" db:"id"`

	// Name is the unique display name of the job type.
	Name string `json:"name" db:"name"`

	// ExpectedPPOH is the pieces-per-operator-hour goal for this job.
	// Zero means no goal is tracked.
	ExpectedPPOH float64 `json:"expectedPPOH" db:"expected_ppoh"`

	// Paid reports whether time on this job counts toward payroll hours.
	Paid bool `json:"paid" db:"paid"`

	// Department is one of the fixed shop departments.
	Department string `json:"department" db:"department"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
