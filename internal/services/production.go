package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/pressline/apiserver/internal/mq"
	"github.com/pressline/apiserver/types"
)

// ProductionRepository defines persistence operations for production entries.
type ProductionRepository interface {
	ProductionReader
	Create(ctx context.Context, entry types.ProductionEntry) (types.ProductionEntry, error)
}

// PushNotifier is the push fan-out as seen by the services: targeted
// item-count updates and the global roster refresh signal. Delivery is
// best-effort and never returns an error.
type PushNotifier interface {
	NotifyItemsPressed(userID string, count int)
	BroadcastRefreshUsers()
}

// ProductionService ingests barcode scans: validate, persist, recount,
// notify. Persistence commits before notification; a missing push
// channel or broker failure never rolls the entry back.
type ProductionService struct {
	entries   ProductionRepository
	users     UserGetter
	jobTypes  JobTypeGetter
	notifier  PushNotifier
	publisher mq.Publisher
	log       *slog.Logger
	now       func() time.Time
}

func NewProductionService(entries ProductionRepository, users UserGetter, jobTypes JobTypeGetter, notifier PushNotifier, publisher mq.Publisher, log *slog.Logger) *ProductionService {
	return &ProductionService{
		entries:   entries,
		users:     users,
		jobTypes:  jobTypes,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Submit records one scan and returns the saved entry together with the
// user's updated daily distinct item count, which is also pushed to the
// user's dashboard channel if one is registered.
func (s *ProductionService) Submit(ctx context.Context, userID, jobID int, barcode string, productionValue float64) (types.ProductionEntry, int, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return types.ProductionEntry{}, 0, err
	}
	if _, err := s.jobTypes.GetByID(ctx, jobID); err != nil {
		return types.ProductionEntry{}, 0, err
	}

	now := s.now()
	saved, err := s.entries.Create(ctx, types.ProductionEntry{
		UserID:          userID,
		JobID:           jobID,
		Barcode:         barcode,
		ProductionValue: productionValue,
		CreatedAt:       now,
	})
	if err != nil {
		return types.ProductionEntry{}, 0, err
	}

	itemsPressed, err := s.entries.DistinctBarcodeCount(ctx, userID, startOfDay(now))
	if err != nil {
		return types.ProductionEntry{}, 0, err
	}

	s.notifier.NotifyItemsPressed(UserKey(userID), itemsPressed)

	if err := s.publisher.Publish(ctx, mq.Event{
		Type:      mq.EventScan,
		UserID:    userID,
		JobTypeID: jobID,
		EntryID:   saved.ID,
		Barcode:   barcode,
		At:        now,
	}); err != nil {
		s.log.Warn("failed to publish scan event", slog.Any("error", err))
	}

	return saved, itemsPressed, nil
}
