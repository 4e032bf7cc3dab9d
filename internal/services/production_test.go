package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pressline/apiserver/internal/mq"
	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

func newProductionService(entries *MockProductionRepo, users *MockUserRepo, jobTypes *MockJobTypeRepo, notifier *MockNotifier, publisher *MockPublisher) *ProductionService {
	svc := NewProductionService(entries, users, jobTypes, notifier, publisher, testLogger())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestSubmitPersistsAndNotifies(t *testing.T) {
	entries := new(MockProductionRepo)
	users := new(MockUserRepo)
	jobTypes := new(MockJobTypeRepo)
	notifier := new(MockNotifier)
	publisher := new(MockPublisher)

	users.On("GetByID", mock.Anything, 7).Return(types.User{ID: 7}, nil)
	jobTypes.On("GetByID", mock.Anything, 3).Return(types.JobType{ID: 3, Paid: true}, nil)
	entries.On("Create", mock.Anything, types.ProductionEntry{
		UserID: 7, JobID: 3, Barcode: "BC-1001", ProductionValue: 1.5, CreatedAt: testNow,
	}).Return(types.ProductionEntry{ID: 11, UserID: 7, JobID: 3, Barcode: "BC-1001", ProductionValue: 1.5, CreatedAt: testNow}, nil)
	entries.On("DistinctBarcodeCount", mock.Anything, 7, startOfDay(testNow)).Return(5, nil)
	notifier.On("NotifyItemsPressed", "7", 5).Return()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e mq.Event) bool {
		return e.Type == mq.EventScan && e.Barcode == "BC-1001" && e.EntryID == 11
	})).Return(nil)

	svc := newProductionService(entries, users, jobTypes, notifier, publisher)
	saved, itemsPressed, err := svc.Submit(context.Background(), 7, 3, "BC-1001", 1.5)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), saved.ID)
	assert.Equal(t, 5, itemsPressed)
	notifier.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubmitUnknownJobType(t *testing.T) {
	entries := new(MockProductionRepo)
	users := new(MockUserRepo)
	jobTypes := new(MockJobTypeRepo)

	users.On("GetByID", mock.Anything, 7).Return(types.User{ID: 7}, nil)
	jobTypes.On("GetByID", mock.Anything, 99).Return(types.JobType{}, store.ErrNotFound)

	svc := newProductionService(entries, users, jobTypes, new(MockNotifier), new(MockPublisher))
	_, _, err := svc.Submit(context.Background(), 7, 99, "BC-1001", 1.5)

	assert.ErrorIs(t, err, store.ErrNotFound)
	entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitSurvivesPublishFailure(t *testing.T) {
	entries := new(MockProductionRepo)
	users := new(MockUserRepo)
	jobTypes := new(MockJobTypeRepo)
	notifier := new(MockNotifier)
	publisher := new(MockPublisher)

	users.On("GetByID", mock.Anything, 7).Return(types.User{ID: 7}, nil)
	jobTypes.On("GetByID", mock.Anything, 3).Return(types.JobType{ID: 3}, nil)
	entries.On("Create", mock.Anything, mock.Anything).
		Return(types.ProductionEntry{ID: 11, UserID: 7, JobID: 3, Barcode: "BC-1001"}, nil)
	entries.On("DistinctBarcodeCount", mock.Anything, 7, startOfDay(testNow)).Return(1, nil)
	notifier.On("NotifyItemsPressed", "7", 1).Return()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := newProductionService(entries, users, jobTypes, notifier, publisher)
	saved, itemsPressed, err := svc.Submit(context.Background(), 7, 3, "BC-1001", 1.5)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), saved.ID)
	assert.Equal(t, 1, itemsPressed)
}
