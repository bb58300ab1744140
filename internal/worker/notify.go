package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/skyrota/skyrota/internal/events"
	"github.com/skyrota/skyrota/internal/provider/resilience"
	"github.com/skyrota/skyrota/internal/user"
)

// Notifier delivers swap decision notifications to both crew members via
// the crew messaging webhook. When no webhook is configured, decisions are
// only logged.
type Notifier struct {
	users      user.Repository
	client     *resilience.Client
	webhookURL string
	logger     zerolog.Logger
}

// NotifierConfig holds configuration for the notifier.
type NotifierConfig struct {
	Users user.Repository

	// WebhookURL is the crew messaging endpoint. Optional.
	WebhookURL string

	// Client is the HTTP client used for webhook delivery. Optional; a
	// default resilient client is created when nil and a webhook is set.
	Client *resilience.Client

	Logger zerolog.Logger
}

// NewNotifier creates a new notifier.
func NewNotifier(cfg NotifierConfig) *Notifier {
	client := cfg.Client
	if client == nil && cfg.WebhookURL != "" {
		clientCfg := resilience.DefaultClientConfig("crew-messaging")
		clientCfg.Registry = resilience.GlobalRegistry
		client = resilience.NewClient(clientCfg)
	}

	return &Notifier{
		users:      cfg.Users,
		client:     client,
		webhookURL: cfg.WebhookURL,
		logger:     cfg.Logger,
	}
}

// notification is the webhook payload for one recipient.
type notification struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	SwapID   string `json:"swapId"`
	Decision string `json:"decision"`
	FlightID string `json:"flightId"`
}

// NotifySwapDecision tells both crew members how their swap was decided.
func (n *Notifier) NotifySwapDecision(ctx context.Context, event events.Event) error {
	recipients := []struct {
		userID   string
		flightID string
	}{
		// Each user is told about the flight they end up with.
		{event.InitiatingUserID, event.RequestingFlightID},
		{event.RequestingUserID, event.InitiatingFlightID},
	}
	if event.Type == events.TypeSwapRejected {
		recipients[0].flightID = event.InitiatingFlightID
		recipients[1].flightID = event.RequestingFlightID
	}

	var errs []error
	for _, rcpt := range recipients {
		if rcpt.userID == "" {
			continue
		}
		if err := n.notify(ctx, event, rcpt.userID, rcpt.flightID); err != nil {
			errs = append(errs, fmt.Errorf("notifying user %s: %w", rcpt.userID, err))
		}
	}

	return errors.Join(errs...)
}

func (n *Notifier) notify(ctx context.Context, event events.Event, userID, flightID string) error {
	name := userID
	if u, err := n.users.Get(ctx, userID); err == nil {
		name = u.DisplayName()
	}

	n.logger.Info().
		Str("user_id", userID).
		Str("swap_id", event.SwapID).
		Str("decision", string(event.Type)).
		Str("flight_id", flightID).
		Msg("swap decision notification")

	if n.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(notification{
		UserID:   userID,
		UserName: name,
		SwapID:   event.SwapID,
		Decision: string(event.Type),
		FlightID: flightID,
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
