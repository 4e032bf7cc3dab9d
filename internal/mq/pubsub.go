package mq

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/pressline/apiserver/config"
	"google.golang.org/api/option"
)

// PubSubPublisher wraps the Google Cloud Pub/Sub SDK client bound to
// the configured event topic.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubPublisher constructs a Pub/Sub publisher from config,
// creating the topic if it does not exist.
func NewPubSubPublisher(ctx context.Context, cfg config.BrokerConfig) (*PubSubPublisher, error) {
	if strings.TrimSpace(cfg.PubSub.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}
	if strings.TrimSpace(cfg.Channel) == "" {
		return nil, errors.New("broker channel is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.PubSub.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	topic := client.Topic(cfg.Channel)
	exists, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, cfg.Channel)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	return &PubSubPublisher{client: client, topic: topic}, nil
}

// Publish sends the event to the configured topic.
func (p *PubSubPublisher) Publish(ctx context.Context, event Event) error {
	body, err := marshalEvent(event)
	if err != nil {
		return err
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       body,
		Attributes: map[string]string{"event_type": event.Type},
	})
	_, err = result.Get(ctx)
	return err
}

// Close stops the topic's goroutines and closes the client.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
