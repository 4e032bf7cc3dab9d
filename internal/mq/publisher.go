// Package mq publishes shop-floor events (scans, clock-ins, clock-outs)
// to a message broker for downstream payroll consumers. Publishing is
// best-effort: a broker failure never fails the request that produced
// the event.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pressline/apiserver/config"
)

// Event kinds published to the shop-floor channel.
const (
	EventScan     = "scan"
	EventClockIn  = "clockIn"
	EventClockOut = "clockOut"
)

// Event is the JSON payload published for every recorded mutation.
type Event struct {
	Type      string    `json:"type"`
	UserID    int       `json:"userId"`
	JobTypeID int       `json:"jobTypeId,omitempty"`
	EntryID   int64     `json:"entryId,omitempty"`
	Barcode   string    `json:"barcode,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher delivers events to the configured broker backend.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewPublisher constructs the backend named by config: "rabbitmq",
// "pubsub", or "" for a no-op publisher.
func NewPublisher(ctx context.Context, cfg config.BrokerConfig) (Publisher, error) {
	switch cfg.Backend {
	case "rabbitmq":
		return NewRabbitMQPublisher(cfg)
	case "pubsub":
		return NewPubSubPublisher(ctx, cfg)
	case "":
		return NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown broker backend %q", cfg.Backend)
	}
}

// NopPublisher drops every event; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

func marshalEvent(event Event) ([]byte, error) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	return json.Marshal(event)
}
