package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrSessionOpen is returned when a clock-in would create a second open
// session for the same user.
var ErrSessionOpen = errors.New("session already open")

// ErrSessionClosed is returned when a clock-out targets an entry that
// was already closed.
var ErrSessionClosed = errors.New("session already closed")
