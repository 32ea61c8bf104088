package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"

	"github.com/rs/zerolog"
)

// notifyRetryIntervals defines the delivery retry schedule.
var notifyRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	5 * time.Minute,
}

// WebhookNotifier implements ports.Notifier by POSTing events to a configured
// webhook URL. Delivery is fire-and-forget: a failed webhook never rolls back
// the state change that produced the event.
type WebhookNotifier struct {
	webhookURL string
	httpClient HTTPClient
	log        zerolog.Logger
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewWebhookNotifier creates a new webhook notifier. An empty URL disables
// delivery entirely.
func NewWebhookNotifier(webhookURL string, httpClient HTTPClient, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		log:        log,
	}
}

// Notify emits the event asynchronously with retries.
func (n *WebhookNotifier) Notify(_ context.Context, event ports.NotificationEvent) {
	if n.webhookURL == "" {
		return
	}
	go n.deliverWithRetries(event)
}

// deliverWithRetries attempts to deliver the event, backing off between
// attempts.
func (n *WebhookNotifier) deliverWithRetries(event ports.NotificationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error().Err(err).Str("event_type", event.Type).Msg("notify: failed to marshal event")
		return
	}

	for attempt := 0; attempt <= len(notifyRetryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(notifyRetryIntervals[attempt-1])
		}

		req, err := http.NewRequest(http.MethodPost, n.webhookURL, bytes.NewReader(payload))
		if err != nil {
			n.log.Error().Err(err).Str("event_type", event.Type).Msg("notify: failed to create request")
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			n.log.Warn().Err(err).Str("event_type", event.Type).Int("attempt", attempt+1).Msg("notify: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			n.log.Debug().Str("event_type", event.Type).Int("attempt", attempt+1).Msg("notify: delivered")
			return
		}
		n.log.Warn().Str("event_type", event.Type).Int("attempt", attempt+1).
			Int("status", resp.StatusCode).Msg("notify: non-2xx response, retrying")
	}

	n.log.Error().Str("event_type", event.Type).Str("escrow_id", event.EscrowID.String()).
		Msg("notify: all retry attempts exhausted")
}
