package types

// HoursSplit partitions worked hours by the paid flag of the job type
// each session was clocked into.
type HoursSplit struct {
	Paid   float64 `json:"paid"`
	Unpaid float64 `json:"unpaid"`
}

// TodayStats is the per-user daily view: hours worked split paid/unpaid
// and the distinct-barcode item count since start of day.
type TodayStats struct {
	HoursWorked  HoursSplit `json:"hoursWorked"`
	ItemsPressed int        `json:"itemsPressed"`
}

// SessionStats describes the user's current open session. The item
// count here is a raw (non-distinct) count of scans since session start.
type SessionStats struct {
	SessionItemsPressed int     `json:"sessionItemsPressed"`
	SessionHours        float64 `json:"sessionHours"`
}

// OverallStats is the live dashboard view for one user: today's total
// pieces, current PPOH against the goal of the most recent job.
type OverallStats struct {
	TotalPieces  float64 `json:"totalPieces"`
	ItemsPressed float64 `json:"itemsPressed"`
	CurrentPPOH  float64 `json:"currentPPOH"`
	GoalPPOH     float64 `json:"goalPPOH"`
	CurrentJobID *int    `json:"currentJobId"`
}

// RosterEntry is one row of the cross-user roster snapshot.
type RosterEntry struct {
	UserID      int     `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Efficiency  float64 `json:"efficiency"`
	IsClockedIn bool    `json:"isClockedIn"`
}

// UserVolume is one row of the per-user daily distinct item counts.
type UserVolume struct {
	UserID         int    `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ItemsProcessed int    `json:"itemsProcessed"`
}
