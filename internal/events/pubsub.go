package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubPublisher publishes events to a Google Cloud Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub publisher.
type PubSubConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPubSubPublisher creates a new Pub/Sub publisher.
func NewPubSubPublisher(ctx context.Context, cfg PubSubConfig) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// Publish delivers an event, blocking until the server acknowledges it.
func (p *PubSubPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type": string(event.Type),
		},
	})

	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("type", string(event.Type)).
		Str("swap_id", event.SwapID).
		Msg("event published")

	return nil
}

// Close closes the underlying Pub/Sub client.
func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// Ensure PubSubPublisher implements Publisher interface.
var _ Publisher = (*PubSubPublisher)(nil)
