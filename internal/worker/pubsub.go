package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/events"
)

// jobTypeRosterSweep triggers a reconciliation run; it is published by the
// scheduler rather than the API.
const jobTypeRosterSweep = "roster_sweep"

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	sweepJob         *SweepJob
	notifier         *Notifier
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	SweepJob         *SweepJob
	Notifier         *Notifier
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		sweepJob:         cfg.SweepJob,
		notifier:         cfg.Notifier,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	msgType := msg.Attributes["type"]

	var err error
	switch msgType {
	case string(events.TypeSwapApproved), string(events.TypeSwapRejected):
		err = h.handleSwapDecision(ctx, msg.Data)
	case jobTypeRosterSweep:
		err = h.handleRosterSweep(ctx)
	default:
		logger.Warn().Str("type", msgType).Msg("unknown message type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("message handling failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("type", msgType).
		Dur("duration", duration).
		Msg("message handled")

	msg.Ack()
}

func (h *PubSubHandler) handleSwapDecision(ctx context.Context, data []byte) error {
	var event events.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("parsing swap event: %w", err)
	}

	return h.notifier.NotifySwapDecision(ctx, event)
}

func (h *PubSubHandler) handleRosterSweep(ctx context.Context) error {
	result := h.sweepJob.Run(ctx)

	if result.Errors > 0 {
		return fmt.Errorf("roster sweep finished with %d errors", result.Errors)
	}
	return nil
}
