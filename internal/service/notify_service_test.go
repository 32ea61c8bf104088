package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingHTTPClient struct {
	mu        sync.Mutex
	requests  []*http.Request
	bodies    [][]byte
	status    int
	delivered chan struct{}
}

func newCapturingHTTPClient(status int) *capturingHTTPClient {
	return &capturingHTTPClient{status: status, delivered: make(chan struct{}, 8)}
}

func (c *capturingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.bodies = append(c.bodies, body)
	c.mu.Unlock()
	c.delivered <- struct{}{}
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func TestWebhookNotifier_DeliversEvent(t *testing.T) {
	client := newCapturingHTTPClient(http.StatusOK)
	notifier := NewWebhookNotifier("https://hooks.example/escrow", client, zerolog.Nop())

	event := ports.NotificationEvent{
		Type:       "ESCROW_FUNDED",
		EscrowID:   uuid.New(),
		EntityID:   uuid.New(),
		OccurredAt: time.Now().UTC(),
	}
	notifier.Notify(context.Background(), event)

	select {
	case <-client.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was never called")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.requests, 1)
	assert.Equal(t, "https://hooks.example/escrow", client.requests[0].URL.String())
	assert.Equal(t, "application/json", client.requests[0].Header.Get("Content-Type"))

	var got ports.NotificationEvent
	require.NoError(t, json.Unmarshal(client.bodies[0], &got))
	assert.Equal(t, "ESCROW_FUNDED", got.Type)
	assert.Equal(t, event.EscrowID, got.EscrowID)
}

func TestWebhookNotifier_EmptyURLDisablesDelivery(t *testing.T) {
	client := newCapturingHTTPClient(http.StatusOK)
	notifier := NewWebhookNotifier("", client, zerolog.Nop())

	notifier.Notify(context.Background(), ports.NotificationEvent{Type: "ESCROW_FUNDED"})

	select {
	case <-client.delivered:
		t.Fatal("webhook called despite empty URL")
	case <-time.After(100 * time.Millisecond):
	}
}
