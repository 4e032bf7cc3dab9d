package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

// rosterConcurrency bounds the fan-out of per-user roster queries.
const rosterConcurrency = 8

// ProductionReader is the slice of the production repository the
// metrics engine needs.
type ProductionReader interface {
	DistinctBarcodeCount(ctx context.Context, userID int, since time.Time) (int, error)
	CountSince(ctx context.Context, userID int, since time.Time) (int, error)
	SumProductionValueSince(ctx context.Context, userID int, since time.Time) (float64, error)
	SumPaidProductionValueSince(ctx context.Context, userID int, since time.Time) (float64, error)
}

// UserLister enumerates users for cross-user snapshots.
type UserLister interface {
	List(ctx context.Context) ([]types.User, error)
}

// TimeclockReader is the slice of the timeclock repository the metrics
// engine needs.
type TimeclockReader interface {
	OpenEntry(ctx context.Context, userID int) (types.TimeclockEntry, error)
	EntriesForUserSince(ctx context.Context, userID int, since time.Time) ([]types.EntryWithJobType, error)
}

// StatsService is the metrics engine: pure computation over record
// store contents. Every call recomputes from scratch; nothing is
// cached. The queries are bounded to "today", which keeps whole
// recomputation affordable at shop scale.
type StatsService struct {
	users      UserLister
	entries    TimeclockReader
	production ProductionReader
	now        func() time.Time
}

func NewStatsService(users UserLister, entries TimeclockReader, production ProductionReader) *StatsService {
	return &StatsService{
		users:      users,
		entries:    entries,
		production: production,
		now:        time.Now,
	}
}

// ItemsPressedToday returns the user's distinct-barcode count since
// start of day. Duplicate scans of one item count once.
func (s *StatsService) ItemsPressedToday(ctx context.Context, userID int) (int, error) {
	return s.production.DistinctBarcodeCount(ctx, userID, startOfDay(s.now()))
}

// TodayStats reports hours worked today split paid/unpaid, with open
// entries counted through now, plus the distinct item count.
func (s *StatsService) TodayStats(ctx context.Context, userID int) (types.TodayStats, error) {
	now := s.now()
	today := startOfDay(now)

	entries, err := s.entries.EntriesForUserSince(ctx, userID, today)
	if err != nil {
		return types.TodayStats{}, err
	}

	split := splitHours(entries, now)

	itemsPressed, err := s.production.DistinctBarcodeCount(ctx, userID, today)
	if err != nil {
		return types.TodayStats{}, err
	}

	return types.TodayStats{
		HoursWorked: types.HoursSplit{
			Paid:   round2(split.Paid),
			Unpaid: round2(split.Unpaid),
		},
		ItemsPressed: itemsPressed,
	}, nil
}

// Efficiency divides today's paid production value by today's paid
// hours (open entries counted through now), rounded to two decimals.
// Zero paid hours yields zero.
func (s *StatsService) Efficiency(ctx context.Context, userID int) (float64, error) {
	now := s.now()
	today := startOfDay(now)

	totalProductionValue, err := s.production.SumPaidProductionValueSince(ctx, userID, today)
	if err != nil {
		return 0, err
	}

	entries, err := s.entries.EntriesForUserSince(ctx, userID, today)
	if err != nil {
		return 0, err
	}

	paidHours := splitHours(entries, now).Paid
	if paidHours <= 0 {
		return 0, nil
	}
	return round2(totalProductionValue / paidHours), nil
}

// SessionItems returns the distinct item count since the current open
// session's start, or zero when no session is open. Note the distinct
// count here against the raw count in the session-stats view; the two
// views intentionally disagree.
func (s *StatsService) SessionItems(ctx context.Context, userID int) (int, error) {
	entry, err := s.entries.OpenEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.production.DistinctBarcodeCount(ctx, userID, entry.StartTime)
}

// Overall is the live dashboard summary for one user: today's scan
// count, the PPOH it implies, and the goal of the most recent job.
func (s *StatsService) Overall(ctx context.Context, userID int) (types.OverallStats, error) {
	now := s.now()
	today := startOfDay(now)

	totalPieces, err := s.production.CountSince(ctx, userID, today)
	if err != nil {
		return types.OverallStats{}, err
	}

	entries, err := s.entries.EntriesForUserSince(ctx, userID, today)
	if err != nil {
		return types.OverallStats{}, err
	}

	var totalHours float64
	for _, item := range entries {
		totalHours += item.Entry.Duration(now).Hours()
	}

	stats := types.OverallStats{
		TotalPieces:  float64(totalPieces),
		ItemsPressed: float64(totalPieces),
	}
	if totalHours > 0 {
		stats.CurrentPPOH = float64(totalPieces) / totalHours
	}
	if len(entries) > 0 {
		latest := entries[len(entries)-1]
		jobID := latest.JobType.ID
		stats.CurrentJobID = &jobID
		stats.GoalPPOH = latest.JobType.ExpectedPPOH
	}
	return stats, nil
}

// Roster is the cross-user snapshot the dashboards poll and re-pull on
// refreshUsers: every user's clocked-in status and today's efficiency
// (production value over elapsed time, open entries through now).
// Per-user queries run concurrently, bounded by rosterConcurrency.
func (s *StatsService) Roster(ctx context.Context) ([]types.RosterEntry, error) {
	now := s.now()
	today := startOfDay(now)

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	roster := make([]types.RosterEntry, len(users))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rosterConcurrency)
	for i, user := range users {
		g.Go(func() error {
			entries, err := s.entries.EntriesForUserSince(ctx, user.ID, today)
			if err != nil {
				return err
			}

			var totalTime float64
			isClockedIn := false
			for _, item := range entries {
				totalTime += item.Entry.Duration(now).Hours()
				if item.Entry.IsOpen() {
					isClockedIn = true
				}
			}

			totalProduction, err := s.production.SumProductionValueSince(ctx, user.ID, today)
			if err != nil {
				return err
			}

			entry := types.RosterEntry{
				UserID:      user.ID,
				FirstName:   user.FirstName,
				LastName:    user.LastName,
				IsClockedIn: isClockedIn,
			}
			if totalTime > 0 {
				entry.Efficiency = totalProduction / totalTime
			}
			roster[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roster, nil
}

// TodayVolumes returns every user's distinct item count for today.
func (s *StatsService) TodayVolumes(ctx context.Context) ([]types.UserVolume, error) {
	today := startOfDay(s.now())

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	volumes := make([]types.UserVolume, len(users))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rosterConcurrency)
	for i, user := range users {
		g.Go(func() error {
			count, err := s.production.DistinctBarcodeCount(ctx, user.ID, today)
			if err != nil {
				return err
			}
			volumes[i] = types.UserVolume{
				UserID:         user.ID,
				FirstName:      user.FirstName,
				LastName:       user.LastName,
				ItemsProcessed: count,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return volumes, nil
}

// UserKey renders a user id the way the push channel addresses it.
func UserKey(userID int) string {
	return strconv.Itoa(userID)
}

func splitHours(entries []types.EntryWithJobType, now time.Time) types.HoursSplit {
	var split types.HoursSplit
	for _, item := range entries {
		hours := item.Entry.Duration(now).Hours()
		if item.JobType.Paid {
			split.Paid += hours
		} else {
			split.Unpaid += hours
		}
	}
	return split
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
