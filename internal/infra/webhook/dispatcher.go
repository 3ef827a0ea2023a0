// Package webhook implements the Webhook Dispatcher (C13): delivery of
// inbound messages and lifecycle status changes to an instance's
// webhook_url, with its own bounded retry/backoff curve kept separate from
// the reconnector's (spec.md §2 calls this out explicitly: the dispatcher's
// retry schedule is not the reconnection backoff).
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

// Event is the JSON envelope POSTed to an instance's webhook_url.
type Event struct {
	InstanceID string    `json:"instance_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Message    *Message  `json:"message,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

// Message mirrors lifecycle.InboundMessage for the wire payload.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Body      string    `json:"body"`
	IsFromMe  bool      `json:"is_from_me"`
	Timestamp time.Time `json:"timestamp"`
}

// Dispatcher posts lifecycle and message events to each instance's
// configured webhook_url. It implements lifecycle.MessageSink.
type Dispatcher struct {
	repo       session.Repository
	httpClient *http.Client
	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
	enabled    bool
}

// New creates a Dispatcher. enabled mirrors config.FeaturesConfig.EnableWebhooks;
// when false, every dispatch is a no-op so the engine can always wire C13
// without branching on the feature flag at every call site.
func New(repo session.Repository, log logger.Logger, enabled bool) *Dispatcher {
	return &Dispatcher{
		repo:       repo,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log,
		maxRetries: 3,
		backoff:    2 * time.Second,
		enabled:    enabled,
	}
}

// OnMessage implements lifecycle.MessageSink.
func (d *Dispatcher) OnMessage(id lifecycle.InstanceID, msg lifecycle.InboundMessage) {
	d.dispatch(id, Event{
		Type: "message.received",
		Message: &Message{
			ID:        msg.ID,
			From:      msg.From,
			Body:      msg.Body,
			IsFromMe:  msg.IsFromMe,
			Timestamp: msg.Timestamp,
		},
	})
}

// OnStatusChange implements lifecycle.MessageSink.
func (d *Dispatcher) OnStatusChange(id lifecycle.InstanceID, status session.Status, reason session.DisconnectReason) {
	d.dispatch(id, Event{
		Type:   "session.status_changed",
		Status: status.String(),
		Reason: string(reason),
	})
}

func (d *Dispatcher) dispatch(id lifecycle.InstanceID, ev Event) {
	if !d.enabled {
		return
	}

	sess, err := d.repo.GetByID(context.Background(), id)
	if err != nil || sess.WebhookURL() == "" {
		return
	}

	ev.InstanceID = id.String()
	ev.SentAt = time.Now()
	url := sess.WebhookURL()

	go d.deliverWithRetry(url, ev)
}

// deliverWithRetry runs off the calling goroutine: webhook delivery must
// never block the controller's event-handling path.
func (d *Dispatcher) deliverWithRetry(url string, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		d.logger.ErrorWithError("webhook: encode event", err, logger.Fields{"instance_id": ev.InstanceID})
		return
	}

	delay := d.backoff
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		if err := d.post(url, body); err == nil {
			return
		} else if attempt == d.maxRetries {
			d.logger.WarnWithFields("webhook: delivery exhausted retries", logger.Fields{
				"instance_id": ev.InstanceID,
				"event":       ev.Type,
				"attempts":    attempt,
				"error":       err.Error(),
			})
			return
		}
		time.Sleep(delay)
		delay *= 2
	}
}

func (d *Dispatcher) post(url string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.httpClient.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}

var _ lifecycle.MessageSink = (*Dispatcher)(nil)
