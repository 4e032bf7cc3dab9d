package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pressline/apiserver/internal/mq"
	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

var testNow = time.Date(2026, time.March, 12, 14, 30, 0, 0, time.Local)

func newTimeclockService(entries *MockTimeclockRepo, production *MockProductionRepo, users *MockUserRepo, jobTypes *MockJobTypeRepo, publisher *MockPublisher) *TimeclockService {
	svc := NewTimeclockService(entries, production, users, jobTypes, publisher, testLogger())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestClockInOpensEntryAndCounts(t *testing.T) {
	entries := new(MockTimeclockRepo)
	production := new(MockProductionRepo)
	users := new(MockUserRepo)
	jobTypes := new(MockJobTypeRepo)
	publisher := new(MockPublisher)

	users.On("GetByID", mock.Anything, 7).Return(types.User{ID: 7}, nil)
	jobTypes.On("GetByID", mock.Anything, 3).Return(types.JobType{ID: 3, Paid: true}, nil)
	entries.On("Create", mock.Anything, types.TimeclockEntry{UserID: 7, JobTypeID: 3, StartTime: testNow}).
		Return(types.TimeclockEntry{ID: 42, UserID: 7, JobTypeID: 3, StartTime: testNow}, nil)
	production.On("DistinctBarcodeCount", mock.Anything, 7, startOfDay(testNow)).Return(4, nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e mq.Event) bool {
		return e.Type == mq.EventClockIn && e.UserID == 7 && e.EntryID == 42
	})).Return(nil)

	svc := newTimeclockService(entries, production, users, jobTypes, publisher)
	entry, itemsPressed, err := svc.ClockIn(context.Background(), 7, 3)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), entry.ID)
	assert.Equal(t, 4, itemsPressed)
	entries.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestClockInRejectsSecondOpenSession(t *testing.T) {
	entries := new(MockTimeclockRepo)
	production := new(MockProductionRepo)
	users := new(MockUserRepo)
	jobTypes := new(MockJobTypeRepo)
	publisher := new(MockPublisher)

	users.On("GetByID", mock.Anything, 7).Return(types.User{ID: 7}, nil)
	jobTypes.On("GetByID", mock.Anything, 3).Return(types.JobType{ID: 3}, nil)
	entries.On("Create", mock.Anything, mock.Anything).
		Return(types.TimeclockEntry{}, store.ErrSessionOpen)

	svc := newTimeclockService(entries, production, users, jobTypes, publisher)
	_, _, err := svc.ClockIn(context.Background(), 7, 3)

	assert.ErrorIs(t, err, store.ErrSessionOpen)
	production.AssertNotCalled(t, "DistinctBarcodeCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestClockInUnknownUser(t *testing.T) {
	entries := new(MockTimeclockRepo)
	production := new(MockProductionRepo)
	users := new(MockUserRepo)
	jobTypes := new(MockJobTypeRepo)
	publisher := new(MockPublisher)

	users.On("GetByID", mock.Anything, 99).Return(types.User{}, store.ErrNotFound)

	svc := newTimeclockService(entries, production, users, jobTypes, publisher)
	_, _, err := svc.ClockIn(context.Background(), 99, 3)

	assert.ErrorIs(t, err, store.ErrNotFound)
	entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClockOutStampsEndAndHours(t *testing.T) {
	entries := new(MockTimeclockRepo)
	production := new(MockProductionRepo)
	users := new(MockUserRepo)
	jobTypes := new(MockJobTypeRepo)
	publisher := new(MockPublisher)

	start := testNow.Add(-2 * time.Hour)
	entries.On("Get", mock.Anything, int64(42)).
		Return(types.TimeclockEntry{ID: 42, UserID: 7, JobTypeID: 3, StartTime: start}, nil)
	entries.On("Close", mock.Anything, int64(42), testNow, 2.0, types.ClockOutEndShift).
		Return(types.TimeclockEntry{ID: 42, UserID: 7, JobTypeID: 3, StartTime: start, EndTime: &testNow}, nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e mq.Event) bool {
		return e.Type == mq.EventClockOut && e.EntryID == 42
	})).Return(nil)

	svc := newTimeclockService(entries, production, users, jobTypes, publisher)
	entry, err := svc.ClockOut(context.Background(), 42, types.ClockOutEndShift)

	assert.NoError(t, err)
	assert.False(t, entry.IsOpen())
	entries.AssertExpectations(t)
}

func TestClockOutInvalidReason(t *testing.T) {
	entries := new(MockTimeclockRepo)
	svc := newTimeclockService(entries, new(MockProductionRepo), new(MockUserRepo), new(MockJobTypeRepo), new(MockPublisher))

	_, err := svc.ClockOut(context.Background(), 42, "Lunch")

	assert.ErrorIs(t, err, ErrInvalidClockOutReason)
	entries.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestClockOutAlreadyClosed(t *testing.T) {
	entries := new(MockTimeclockRepo)
	publisher := new(MockPublisher)

	endTime := testNow.Add(-time.Hour)
	entries.On("Get", mock.Anything, int64(42)).
		Return(types.TimeclockEntry{ID: 42, StartTime: testNow.Add(-3 * time.Hour), EndTime: &endTime}, nil)
	entries.On("Close", mock.Anything, int64(42), testNow, mock.Anything, types.ClockOutBreak).
		Return(types.TimeclockEntry{}, store.ErrSessionClosed)

	svc := newTimeclockService(entries, new(MockProductionRepo), new(MockUserRepo), new(MockJobTypeRepo), publisher)
	_, err := svc.ClockOut(context.Background(), 42, types.ClockOutBreak)

	assert.ErrorIs(t, err, store.ErrSessionClosed)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCurrentWithoutOpenSession(t *testing.T) {
	entries := new(MockTimeclockRepo)
	entries.On("OpenEntry", mock.Anything, 7).Return(types.TimeclockEntry{}, store.ErrNotFound)

	svc := newTimeclockService(entries, new(MockProductionRepo), new(MockUserRepo), new(MockJobTypeRepo), new(MockPublisher))
	_, isClockedIn, err := svc.Current(context.Background(), 7)

	assert.NoError(t, err)
	assert.False(t, isClockedIn)
}

func TestSessionStatsAfterClockOut(t *testing.T) {
	entries := new(MockTimeclockRepo)
	production := new(MockProductionRepo)
	entries.On("OpenEntry", mock.Anything, 7).Return(types.TimeclockEntry{}, store.ErrNotFound)

	svc := newTimeclockService(entries, production, new(MockUserRepo), new(MockJobTypeRepo), new(MockPublisher))
	_, err := svc.SessionStats(context.Background(), 7)

	assert.ErrorIs(t, err, store.ErrNotFound)
	production.AssertNotCalled(t, "CountSince", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionStatsCountsRawScans(t *testing.T) {
	entries := new(MockTimeclockRepo)
	production := new(MockProductionRepo)

	start := testNow.Add(-90 * time.Minute)
	entries.On("OpenEntry", mock.Anything, 7).
		Return(types.TimeclockEntry{ID: 42, UserID: 7, StartTime: start}, nil)
	production.On("CountSince", mock.Anything, 7, start).Return(12, nil)

	svc := newTimeclockService(entries, production, new(MockUserRepo), new(MockJobTypeRepo), new(MockPublisher))
	stats, err := svc.SessionStats(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, 12, stats.SessionItemsPressed)
	assert.InDelta(t, 1.5, stats.SessionHours, 1e-9)
}

func TestBulkCorrectRejectsOverlap(t *testing.T) {
	entries := new(MockTimeclockRepo)

	end1 := testNow.Add(2 * time.Hour)
	svc := newTimeclockService(entries, new(MockProductionRepo), new(MockUserRepo), new(MockJobTypeRepo), new(MockPublisher))
	err := svc.BulkCorrect(context.Background(), []Correction{
		{EntryID: 1, JobTypeID: 3, StartTime: testNow, EndTime: &end1},
		{EntryID: 2, JobTypeID: 3, StartTime: testNow.Add(time.Hour)},
	})

	assert.ErrorIs(t, err, ErrOverlappingEntries)
	entries.AssertNotCalled(t, "UpdateCorrection", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkCorrectPropagatesOpenSessionConflict(t *testing.T) {
	entries := new(MockTimeclockRepo)

	// Reopening an entry collides with the user's existing open session.
	entries.On("UpdateCorrection", mock.Anything, int64(1), testNow, (*time.Time)(nil), 3).
		Return(store.ErrSessionOpen)

	svc := newTimeclockService(entries, new(MockProductionRepo), new(MockUserRepo), new(MockJobTypeRepo), new(MockPublisher))
	err := svc.BulkCorrect(context.Background(), []Correction{
		{EntryID: 1, JobTypeID: 3, StartTime: testNow},
	})

	assert.ErrorIs(t, err, store.ErrSessionOpen)
}

func TestBulkCorrectAppliesDisjointEdits(t *testing.T) {
	entries := new(MockTimeclockRepo)

	end1 := testNow.Add(time.Hour)
	end2 := testNow.Add(3 * time.Hour)
	entries.On("UpdateCorrection", mock.Anything, int64(1), testNow, &end1, 3).Return(nil)
	entries.On("UpdateCorrection", mock.Anything, int64(2), testNow.Add(2*time.Hour), &end2, 5).Return(nil)

	svc := newTimeclockService(entries, new(MockProductionRepo), new(MockUserRepo), new(MockJobTypeRepo), new(MockPublisher))
	err := svc.BulkCorrect(context.Background(), []Correction{
		{EntryID: 1, JobTypeID: 3, StartTime: testNow, EndTime: &end1},
		{EntryID: 2, JobTypeID: 5, StartTime: testNow.Add(2 * time.Hour), EndTime: &end2},
	})

	assert.NoError(t, err)
	entries.AssertExpectations(t)
}
