package services

import (
	"context"
	"sort"
	"time"

	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

// ReportRepository runs the aggregation queries behind manager reports.
type ReportRepository interface {
	ProductivityByEmployee(ctx context.Context, start, end time.Time) ([]store.ProductivityAggregate, error)
}

// RangeTimeclockReader fetches timeclock entries across users.
type RangeTimeclockReader interface {
	EntriesInRange(ctx context.Context, start, end time.Time) ([]store.EntryWithUser, error)
	EntriesForUserInRange(ctx context.Context, userID int, start, end time.Time) ([]types.EntryWithJobType, error)
}

// ReportService produces the manager-facing payroll and productivity
// reports.
type ReportService struct {
	reports ReportRepository
	entries RangeTimeclockReader
}

func NewReportService(reports ReportRepository, entries RangeTimeclockReader) *ReportService {
	return &ReportService{reports: reports, entries: entries}
}

// ProductivityByEmployee reports hours, pieces, and rate figures per
// (user, job type) over closed sessions in [start, end]. Pieces are
// attributed per clocked session window, so a scan outside a session's
// own start/end is excluded even when it falls inside the report range.
// Rows come back sorted by last name, first name, job type name.
func (s *ReportService) ProductivityByEmployee(ctx context.Context, start, end time.Time) ([]types.ProductivityRow, error) {
	aggregates, err := s.reports.ProductivityByEmployee(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]types.ProductivityRow, 0, len(aggregates))
	for _, agg := range aggregates {
		row := types.ProductivityRow{
			UserID:          agg.UserID,
			FirstName:       agg.FirstName,
			LastName:        agg.LastName,
			JobType:         agg.JobTypeName,
			HoursWorked:     agg.HoursWorked,
			PiecesCompleted: agg.PiecesCompleted,
		}
		if agg.HoursWorked > 0 {
			row.PPH = float64(agg.PiecesCompleted) / agg.HoursWorked
			if agg.ExpectedPPOH > 0 {
				row.Efficiency = row.PPH / agg.ExpectedPPOH
			}
		}
		row.GoalReached = row.PPH >= agg.ExpectedPPOH
		rows = append(rows, row)
	}
	return rows, nil
}

// WeeklyTimecards buckets every entry starting in [start, end] under
// its user and its start day, split paid/unpaid by the entry's job
// type. An entry crossing midnight is attributed entirely to its start
// day, and open entries contribute zero hours.
func (s *ReportService) WeeklyTimecards(ctx context.Context, start, end time.Time) ([]types.WeeklyTimecard, error) {
	items, err := s.entries.EntriesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int]*types.WeeklyTimecard)
	for _, item := range items {
		card, ok := byUser[item.User.ID]
		if !ok {
			card = &types.WeeklyTimecard{
				User: types.WeeklyTimecardUser{
					ID:        item.User.ID,
					FirstName: item.User.FirstName,
					LastName:  item.User.LastName,
				},
				WeekData: make(map[string]*types.DayHours),
			}
			byUser[item.User.ID] = card
		}

		day := item.Entry.StartTime.Format("2006-01-02")
		hours, ok := card.WeekData[day]
		if !ok {
			hours = &types.DayHours{}
			card.WeekData[day] = hours
		}

		var duration float64
		if item.Entry.EndTime != nil {
			duration = item.Entry.EndTime.Sub(item.Entry.StartTime).Hours()
		}
		if item.JobType.Paid {
			hours.Paid += duration
		} else {
			hours.Unpaid += duration
		}
	}

	cards := make([]types.WeeklyTimecard, 0, len(byUser))
	for _, card := range byUser {
		cards = append(cards, *card)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].User.LastName != cards[j].User.LastName {
			return cards[i].User.LastName < cards[j].User.LastName
		}
		return cards[i].User.FirstName < cards[j].User.FirstName
	})
	return cards, nil
}

// DayTimeclocks groups one calendar day's entries under their users,
// each entry paired with its job type, in start-time order.
func (s *ReportService) DayTimeclocks(ctx context.Context, date time.Time) ([]types.UserTimeclocks, error) {
	dayStart := startOfDay(date)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	items, err := s.entries.EntriesInRange(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int]*types.UserTimeclocks)
	order := make([]int, 0)
	for _, item := range items {
		group, ok := byUser[item.User.ID]
		if !ok {
			group = &types.UserTimeclocks{User: item.User}
			byUser[item.User.ID] = group
			order = append(order, item.User.ID)
		}
		group.Entries = append(group.Entries, types.EntryWithJobType{
			Entry:   item.Entry,
			JobType: item.JobType,
		})
	}

	groups := make([]types.UserTimeclocks, 0, len(order))
	for _, userID := range order {
		groups = append(groups, *byUser[userID])
	}
	return groups, nil
}

// DayEntries lists one user's entries for one calendar day, each paired
// with its job type.
func (s *ReportService) DayEntries(ctx context.Context, userID int, date time.Time) ([]types.EntryWithJobType, error) {
	dayStart := startOfDay(date)
	return s.entries.EntriesForUserInRange(ctx, userID, dayStart, dayStart.Add(24*time.Hour))
}
