package types

import "time"

// Reasons an employee may give when clocking out.
const (
	ClockOutEndShift       = "End Shift"
	ClockOutChangeJobs     = "Change Jobs"
	ClockOutBreak          = "Break"
	ClockOutRanOutOfPieces = "Ran Out Of Pieces"
)

// TimeclockEntry records one clocked session for a user on a job type.
// An entry with a nil EndTime is an open session; at most one open entry
// exists per user at any time.
type TimeclockEntry struct {
	ID int64 `json:"id" db:"id"`

	UserID    int `json:"userId" db:"user_id"`
	JobTypeID int `json:"jobTypeId" db:"job_type_id"`

	// StartTime is set at clock-in.
	StartTime time.Time `json:"startTime" db:"start_time"`

	// EndTime is nil while the session is open and set exactly once
	// at clock-out.
	EndTime *time.Time `json:"endTime" db:"end_time"`

	// TotalHours is derived at clock-out: (EndTime - StartTime) in hours.
	TotalHours *float64 `json:"totalHours" db:"total_hours"`

	// ClockOutReason is one of the ClockOut* constants, set at clock-out.
	ClockOutReason *string `json:"clockOutReason" db:"clock_out_reason"`
}

// IsOpen reports whether the session has not been clocked out.
func (e TimeclockEntry) IsOpen() bool {
	return e.EndTime == nil
}

// Duration returns the session length through its end time, or through
// now for an open session.
func (e TimeclockEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	return end.Sub(e.StartTime)
}

// EntryWithJobType pairs a timeclock entry with its resolved job type,
// the shape the manager report and correction views exchange.
type EntryWithJobType struct {
	Entry   TimeclockEntry `json:"entry"`
	JobType JobType        `json:"jobType"`
}

// UserTimeclocks groups a day's entries under their user for the
// manager timeclock report.
type UserTimeclocks struct {
	User    User               `json:"user"`
	Entries []EntryWithJobType `json:"entries"`
}
