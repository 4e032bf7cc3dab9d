package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

func TestProductivityDerivesRates(t *testing.T) {
	reports := new(MockReportRepo)
	entries := new(MockTimeclockRepo)

	start := startOfDay(testNow)
	end := start.AddDate(0, 0, 7)
	reports.On("ProductivityByEmployee", mock.Anything, start, end).Return([]store.ProductivityAggregate{
		{UserID: 1, FirstName: "Ana", LastName: "Ortiz", JobTypeName: "Pressing", ExpectedPPOH: 20, HoursWorked: 2, PiecesCompleted: 50},
		{UserID: 2, FirstName: "Ben", LastName: "Reyes", JobTypeName: "Pressing", ExpectedPPOH: 20, HoursWorked: 0, PiecesCompleted: 0},
	}, nil)

	svc := NewReportService(reports, entries)
	rows, err := svc.ProductivityByEmployee(context.Background(), start, end)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, 25.0, rows[0].PPH)
	assert.Equal(t, 1.25, rows[0].Efficiency)
	assert.True(t, rows[0].GoalReached)

	assert.Equal(t, 0.0, rows[1].PPH)
	assert.Equal(t, 0.0, rows[1].Efficiency)
	assert.False(t, rows[1].GoalReached)
}

func TestWeeklyTimecardsBucketByStartDay(t *testing.T) {
	reports := new(MockReportRepo)
	entries := new(MockTimeclockRepo)

	weekStart := startOfDay(testNow)
	weekEnd := weekStart.AddDate(0, 0, 7)

	// Session starting at 23:50 and ending 00:10 next day lands entirely
	// on its start day.
	lateStart := weekStart.Add(23*time.Hour + 50*time.Minute)
	lateEnd := lateStart.Add(20 * time.Minute)
	entries.On("EntriesInRange", mock.Anything, weekStart, weekEnd).Return([]store.EntryWithUser{
		{
			User:    types.User{ID: 1, FirstName: "Ana", LastName: "Ortiz"},
			Entry:   types.TimeclockEntry{ID: 1, UserID: 1, StartTime: lateStart, EndTime: &lateEnd},
			JobType: types.JobType{ID: 1, Paid: true},
		},
		{
			User:    types.User{ID: 1, FirstName: "Ana", LastName: "Ortiz"},
			Entry:   types.TimeclockEntry{ID: 2, UserID: 1, StartTime: weekStart.AddDate(0, 0, 2).Add(8 * time.Hour)},
			JobType: types.JobType{ID: 2, Paid: true},
		},
	}, nil)

	svc := NewReportService(reports, entries)
	cards, err := svc.WeeklyTimecards(context.Background(), weekStart, weekEnd)

	assert.NoError(t, err)
	assert.Len(t, cards, 1)

	startDayKey := lateStart.Format("2006-01-02")
	if assert.Contains(t, cards[0].WeekData, startDayKey) {
		assert.InDelta(t, 20.0/60.0, cards[0].WeekData[startDayKey].Paid, 1e-9)
	}
	nextDayKey := lateEnd.Format("2006-01-02")
	assert.NotContains(t, cards[0].WeekData, nextDayKey)

	// Open entry contributes a bucket with zero hours.
	openDayKey := weekStart.AddDate(0, 0, 2).Format("2006-01-02")
	if assert.Contains(t, cards[0].WeekData, openDayKey) {
		assert.Equal(t, 0.0, cards[0].WeekData[openDayKey].Paid)
	}
}

func TestWeeklyTimecardsSplitUnpaidJobTypes(t *testing.T) {
	reports := new(MockReportRepo)
	entries := new(MockTimeclockRepo)

	weekStart := startOfDay(testNow)
	weekEnd := weekStart.AddDate(0, 0, 7)

	paidEnd := weekStart.Add(10 * time.Hour)
	unpaidEnd := weekStart.Add(12 * time.Hour)
	entries.On("EntriesInRange", mock.Anything, weekStart, weekEnd).Return([]store.EntryWithUser{
		{
			User:    types.User{ID: 1, FirstName: "Ana", LastName: "Ortiz"},
			Entry:   types.TimeclockEntry{ID: 1, UserID: 1, StartTime: weekStart.Add(8 * time.Hour), EndTime: &paidEnd},
			JobType: types.JobType{ID: 1, Paid: true},
		},
		{
			User:    types.User{ID: 1, FirstName: "Ana", LastName: "Ortiz"},
			Entry:   types.TimeclockEntry{ID: 2, UserID: 1, StartTime: weekStart.Add(11 * time.Hour), EndTime: &unpaidEnd},
			JobType: types.JobType{ID: 2, Paid: false},
		},
	}, nil)

	svc := NewReportService(reports, entries)
	cards, err := svc.WeeklyTimecards(context.Background(), weekStart, weekEnd)

	assert.NoError(t, err)
	day := cards[0].WeekData[weekStart.Format("2006-01-02")]
	assert.InDelta(t, 2.0, day.Paid, 1e-9)
	assert.InDelta(t, 1.0, day.Unpaid, 1e-9)
}

func TestWeeklyTimecardsSortedByName(t *testing.T) {
	reports := new(MockReportRepo)
	entries := new(MockTimeclockRepo)

	weekStart := startOfDay(testNow)
	weekEnd := weekStart.AddDate(0, 0, 7)
	end := weekStart.Add(9 * time.Hour)
	entries.On("EntriesInRange", mock.Anything, weekStart, weekEnd).Return([]store.EntryWithUser{
		{
			User:    types.User{ID: 2, FirstName: "Ben", LastName: "Reyes"},
			Entry:   types.TimeclockEntry{ID: 1, UserID: 2, StartTime: weekStart.Add(8 * time.Hour), EndTime: &end},
			JobType: types.JobType{ID: 1, Paid: true},
		},
		{
			User:    types.User{ID: 1, FirstName: "Ana", LastName: "Ortiz"},
			Entry:   types.TimeclockEntry{ID: 2, UserID: 1, StartTime: weekStart.Add(8 * time.Hour), EndTime: &end},
			JobType: types.JobType{ID: 1, Paid: true},
		},
	}, nil)

	svc := NewReportService(reports, entries)
	cards, err := svc.WeeklyTimecards(context.Background(), weekStart, weekEnd)

	assert.NoError(t, err)
	assert.Equal(t, "Ortiz", cards[0].User.LastName)
	assert.Equal(t, "Reyes", cards[1].User.LastName)
}

func TestDayTimeclocksGroupsByUser(t *testing.T) {
	reports := new(MockReportRepo)
	entries := new(MockTimeclockRepo)

	day := startOfDay(testNow)
	end1 := day.Add(10 * time.Hour)
	entries.On("EntriesInRange", mock.Anything, day, mock.Anything).Return([]store.EntryWithUser{
		{
			User:    types.User{ID: 1, FirstName: "Ana", LastName: "Ortiz"},
			Entry:   types.TimeclockEntry{ID: 1, UserID: 1, StartTime: day.Add(8 * time.Hour), EndTime: &end1},
			JobType: types.JobType{ID: 1, Name: "Pressing", Paid: true},
		},
		{
			User:    types.User{ID: 1, FirstName: "Ana", LastName: "Ortiz"},
			Entry:   types.TimeclockEntry{ID: 2, UserID: 1, StartTime: day.Add(11 * time.Hour)},
			JobType: types.JobType{ID: 2, Name: "Sorting", Paid: true},
		},
		{
			User:    types.User{ID: 2, FirstName: "Ben", LastName: "Reyes"},
			Entry:   types.TimeclockEntry{ID: 3, UserID: 2, StartTime: day.Add(9 * time.Hour)},
			JobType: types.JobType{ID: 1, Name: "Pressing", Paid: true},
		},
	}, nil)

	svc := NewReportService(reports, entries)
	groups, err := svc.DayTimeclocks(context.Background(), testNow)

	assert.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "Sorting", groups[0].Entries[1].JobType.Name)
	assert.Len(t, groups[1].Entries, 1)
}
