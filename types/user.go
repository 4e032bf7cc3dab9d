package types

import "time"

// Roles assignable to a user account.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// User represents an employee account in the system.
// It contains identity, role, and pay attributes.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// FirstName and LastName are the user's display name,
	// also used for report sort order.
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`

	// Username is the unique login name chosen for the user.
	Username string `json:"username" db:"username"`

	// Role indicates the user's level within the system:
	// "employee", "manager", or "admin".
	Role string `json:"role" db:"role"`

	// PayRate is the hourly or per-piece pay figure, interpreted
	// according to PayType.
	PayRate float64 `json:"payRate" db:"pay_rate"`

	// PayType is "hourly" or "piecework".
	PayType string `json:"payType" db:"pay_type"`

	// Department is the shop department the user belongs to.
	Department string `json:"department" db:"department"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
