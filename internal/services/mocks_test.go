package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pressline/apiserver/internal/mq"
	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockTimeclockRepo struct {
	mock.Mock
}

func (m *MockTimeclockRepo) Create(ctx context.Context, entry types.TimeclockEntry) (types.TimeclockEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(types.TimeclockEntry), args.Error(1)
}

func (m *MockTimeclockRepo) Get(ctx context.Context, id int64) (types.TimeclockEntry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.TimeclockEntry), args.Error(1)
}

func (m *MockTimeclockRepo) Close(ctx context.Context, id int64, endTime time.Time, totalHours float64, reason string) (types.TimeclockEntry, error) {
	args := m.Called(ctx, id, endTime, totalHours, reason)
	return args.Get(0).(types.TimeclockEntry), args.Error(1)
}

func (m *MockTimeclockRepo) OpenEntry(ctx context.Context, userID int) (types.TimeclockEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(types.TimeclockEntry), args.Error(1)
}

func (m *MockTimeclockRepo) EntriesForUserSince(ctx context.Context, userID int, since time.Time) ([]types.EntryWithJobType, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EntryWithJobType), args.Error(1)
}

func (m *MockTimeclockRepo) EntriesForUserInRange(ctx context.Context, userID int, start, end time.Time) ([]types.EntryWithJobType, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EntryWithJobType), args.Error(1)
}

func (m *MockTimeclockRepo) EntriesInRange(ctx context.Context, start, end time.Time) ([]store.EntryWithUser, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.EntryWithUser), args.Error(1)
}

func (m *MockTimeclockRepo) UpdateCorrection(ctx context.Context, id int64, startTime time.Time, endTime *time.Time, jobTypeID int) error {
	args := m.Called(ctx, id, startTime, endTime, jobTypeID)
	return args.Error(0)
}

type MockProductionRepo struct {
	mock.Mock
}

func (m *MockProductionRepo) Create(ctx context.Context, entry types.ProductionEntry) (types.ProductionEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(types.ProductionEntry), args.Error(1)
}

func (m *MockProductionRepo) DistinctBarcodeCount(ctx context.Context, userID int, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockProductionRepo) CountSince(ctx context.Context, userID int, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockProductionRepo) SumProductionValueSince(ctx context.Context, userID int, since time.Time) (float64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProductionRepo) SumPaidProductionValueSince(ctx context.Context, userID int, since time.Time) (float64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(float64), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

type MockJobTypeRepo struct {
	mock.Mock
}

func (m *MockJobTypeRepo) GetByID(ctx context.Context, id int) (types.JobType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.JobType), args.Error(1)
}

func (m *MockJobTypeRepo) List(ctx context.Context) ([]types.JobType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.JobType), args.Error(1)
}

func (m *MockJobTypeRepo) Create(ctx context.Context, jt types.JobType) (types.JobType, error) {
	args := m.Called(ctx, jt)
	return args.Get(0).(types.JobType), args.Error(1)
}

func (m *MockJobTypeRepo) Update(ctx context.Context, jt types.JobType) (types.JobType, error) {
	args := m.Called(ctx, jt)
	return args.Get(0).(types.JobType), args.Error(1)
}

func (m *MockJobTypeRepo) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) ProductivityByEmployee(ctx context.Context, start, end time.Time) ([]store.ProductivityAggregate, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ProductivityAggregate), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyItemsPressed(userID string, count int) {
	m.Called(userID, count)
}

func (m *MockNotifier) BroadcastRefreshUsers() {
	m.Called()
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event mq.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
