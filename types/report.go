package types

// ProductivityRow is one (user, job type) row of the
// productivity-by-employee report. Pieces are attributed to the specific
// clocked sessions covering the job, not merely the report date range.
type ProductivityRow struct {
	UserID          int     `json:"userId"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	JobType         string  `json:"jobType"`
	HoursWorked     float64 `json:"hoursWorked"`
	PiecesCompleted int     `json:"piecesCompleted"`
	PPH             float64 `json:"pph"`
	Efficiency      float64 `json:"efficiency"`
	GoalReached     bool    `json:"goalReached"`
}

// DayHours is one calendar day's paid/unpaid hour totals.
type DayHours struct {
	Paid   float64 `json:"paid"`
	Unpaid float64 `json:"unpaid"`
}

// WeeklyTimecard is one user's per-day hour buckets for a payroll week.
// Keys of WeekData are "YYYY-MM-DD" dates taken from each entry's start
// time; an entry is attributed entirely to its start day.
type WeeklyTimecard struct {
	User     WeeklyTimecardUser   `json:"user"`
	WeekData map[string]*DayHours `json:"weekData"`
}

// WeeklyTimecardUser is the trimmed user identity carried on a timecard.
type WeeklyTimecardUser struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
