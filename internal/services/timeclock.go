package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pressline/apiserver/internal/mq"
	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

// ErrInvalidClockOutReason reports a clock-out reason outside the fixed set.
var ErrInvalidClockOutReason = errors.New("invalid clock-out reason")

// ErrOverlappingEntries reports a bulk correction whose edited windows
// overlap each other.
var ErrOverlappingEntries = errors.New("corrected entries overlap")

// TimeclockRepository defines persistence operations for timeclock entries.
type TimeclockRepository interface {
	Create(ctx context.Context, entry types.TimeclockEntry) (types.TimeclockEntry, error)
	Get(ctx context.Context, id int64) (types.TimeclockEntry, error)
	Close(ctx context.Context, id int64, endTime time.Time, totalHours float64, reason string) (types.TimeclockEntry, error)
	OpenEntry(ctx context.Context, userID int) (types.TimeclockEntry, error)
	EntriesForUserSince(ctx context.Context, userID int, since time.Time) ([]types.EntryWithJobType, error)
	UpdateCorrection(ctx context.Context, id int64, startTime time.Time, endTime *time.Time, jobTypeID int) error
}

// TimeclockService enforces the clock-in/clock-out session lifecycle.
type TimeclockService struct {
	entries    TimeclockRepository
	production ProductionCounter
	users      UserGetter
	jobTypes   JobTypeGetter
	publisher  mq.Publisher
	log        *slog.Logger
	now        func() time.Time
}

// ProductionCounter is the slice of the production repository the
// session lifecycle needs.
type ProductionCounter interface {
	DistinctBarcodeCount(ctx context.Context, userID int, since time.Time) (int, error)
	CountSince(ctx context.Context, userID int, since time.Time) (int, error)
}

// UserGetter resolves user identifiers.
type UserGetter interface {
	GetByID(ctx context.Context, id int) (types.User, error)
}

// JobTypeGetter resolves job type identifiers.
type JobTypeGetter interface {
	GetByID(ctx context.Context, id int) (types.JobType, error)
}

func NewTimeclockService(entries TimeclockRepository, production ProductionCounter, users UserGetter, jobTypes JobTypeGetter, publisher mq.Publisher, log *slog.Logger) *TimeclockService {
	return &TimeclockService{
		entries:    entries,
		production: production,
		users:      users,
		jobTypes:   jobTypes,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

// ClockIn opens a session for the user on the job type and returns the
// new entry together with today's distinct item count. A second open
// session for the same user is rejected with store.ErrSessionOpen.
func (s *TimeclockService) ClockIn(ctx context.Context, userID, jobTypeID int) (types.TimeclockEntry, int, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return types.TimeclockEntry{}, 0, err
	}
	if _, err := s.jobTypes.GetByID(ctx, jobTypeID); err != nil {
		return types.TimeclockEntry{}, 0, err
	}

	now := s.now()
	entry, err := s.entries.Create(ctx, types.TimeclockEntry{
		UserID:    userID,
		JobTypeID: jobTypeID,
		StartTime: now,
	})
	if err != nil {
		return types.TimeclockEntry{}, 0, err
	}

	itemsPressed, err := s.production.DistinctBarcodeCount(ctx, userID, startOfDay(now))
	if err != nil {
		return types.TimeclockEntry{}, 0, err
	}

	s.publishEvent(ctx, mq.Event{
		Type:      mq.EventClockIn,
		UserID:    userID,
		JobTypeID: jobTypeID,
		EntryID:   entry.ID,
		At:        now,
	})
	return entry, itemsPressed, nil
}

// ClockOut closes the entry, stamping end time, total hours, and the
// reason. Closing an already-closed entry returns store.ErrSessionClosed
// instead of silently overwriting the first close.
func (s *TimeclockService) ClockOut(ctx context.Context, entryID int64, reason string) (types.TimeclockEntry, error) {
	switch reason {
	case types.ClockOutEndShift, types.ClockOutChangeJobs, types.ClockOutBreak, types.ClockOutRanOutOfPieces:
	default:
		return types.TimeclockEntry{}, ErrInvalidClockOutReason
	}

	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		return types.TimeclockEntry{}, err
	}

	endTime := s.now()
	totalHours := endTime.Sub(entry.StartTime).Hours()
	closed, err := s.entries.Close(ctx, entryID, endTime, totalHours, reason)
	if err != nil {
		return types.TimeclockEntry{}, err
	}

	s.publishEvent(ctx, mq.Event{
		Type:      mq.EventClockOut,
		UserID:    closed.UserID,
		JobTypeID: closed.JobTypeID,
		EntryID:   closed.ID,
		At:        endTime,
	})
	return closed, nil
}

// Current returns the user's open session with its job type, or
// isClockedIn=false when there is none. If legacy data holds more than
// one open entry, the most recently started wins.
func (s *TimeclockService) Current(ctx context.Context, userID int) (types.EntryWithJobType, bool, error) {
	entry, err := s.entries.OpenEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.EntryWithJobType{}, false, nil
		}
		return types.EntryWithJobType{}, false, err
	}

	jobType, err := s.jobTypes.GetByID(ctx, entry.JobTypeID)
	if err != nil {
		return types.EntryWithJobType{}, false, err
	}
	return types.EntryWithJobType{Entry: entry, JobType: jobType}, true, nil
}

// SessionStats reports the current open session's elapsed hours and a
// raw (non-distinct) count of scans since session start. Returns
// store.ErrNotFound when no session is open.
func (s *TimeclockService) SessionStats(ctx context.Context, userID int) (types.SessionStats, error) {
	entry, err := s.entries.OpenEntry(ctx, userID)
	if err != nil {
		return types.SessionStats{}, err
	}

	now := s.now()
	count, err := s.production.CountSince(ctx, userID, entry.StartTime)
	if err != nil {
		return types.SessionStats{}, err
	}
	return types.SessionStats{
		SessionItemsPressed: count,
		SessionHours:        now.Sub(entry.StartTime).Hours(),
	}, nil
}

// Correction is one edit applied by a manager bulk correction.
type Correction struct {
	EntryID   int64
	JobTypeID int
	StartTime time.Time
	EndTime   *time.Time
}

// BulkCorrect overwrites the window and job type of each named entry.
// Edited windows must not overlap each other within the batch.
func (s *TimeclockService) BulkCorrect(ctx context.Context, corrections []Correction) error {
	for i := range corrections {
		for j := i + 1; j < len(corrections); j++ {
			if windowsOverlap(corrections[i], corrections[j]) {
				return ErrOverlappingEntries
			}
		}
	}

	for _, c := range corrections {
		if err := s.entries.UpdateCorrection(ctx, c.EntryID, c.StartTime, c.EndTime, c.JobTypeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TimeclockService) publishEvent(ctx context.Context, event mq.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish timeclock event", slog.Any("error", err))
	}
}

// windowsOverlap treats an open-ended window as extending indefinitely.
func windowsOverlap(a, b Correction) bool {
	aEndsBeforeB := a.EndTime != nil && !a.EndTime.After(b.StartTime)
	bEndsBeforeA := b.EndTime != nil && !b.EndTime.After(a.StartTime)
	return !aEndsBeforeB && !bEndsBeforeA
}

// startOfDay truncates a timestamp to local midnight, the reference
// point for all daily counts.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
