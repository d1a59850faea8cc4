package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/glaadoo/print-power-purpose/internal/events"
	"github.com/glaadoo/print-power-purpose/internal/obs"
	"github.com/glaadoo/print-power-purpose/internal/resilience"
)

// TaskWebhookDeliver is the asynq task kind for webhook deliveries.
const TaskWebhookDeliver = "webhook:deliver"

// TaskEnqueuer abstracts the asynq client so tests can capture enqueued tasks.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DeliverPayload carries one endpoint/event pair through the task queue.
type DeliverPayload struct {
	EndpointID uuid.UUID       `json:"endpointId"`
	EventID    uuid.UUID       `json:"eventId"`
	Topic      string          `json:"topic"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Dispatcher fans domain events out to registered webhook endpoints. It
// implements events.Notifier by scheduling one delivery task per subscribed
// endpoint; the worker executes the signed POST.
type Dispatcher struct {
	Store     Store
	HTTP      *resilience.HTTPClient
	Tasks     TaskEnqueuer
	Enabled   bool
	Replay    ReplayProtector
	ReplayTTL time.Duration
	Logger    *zerolog.Logger
}

// Notify schedules deliveries for active endpoints subscribed to the topic.
func (d *Dispatcher) Notify(ctx context.Context, event events.Event) error {
	if d == nil || !d.Enabled || d.Store == nil || d.Tasks == nil {
		return nil
	}
	if strings.TrimSpace(event.Topic) == "" {
		return nil
	}
	endpoints, err := d.Store.ListActiveEndpointsForTopic(ctx, event.Topic)
	if err != nil {
		return err
	}
	var joined error
	for _, ep := range endpoints {
		data, err := json.Marshal(DeliverPayload{
			EndpointID: ep.ID,
			EventID:    event.ID,
			Topic:      event.Topic,
			Data:       event.Payload,
			OccurredAt: event.OccurredAt,
		})
		if err != nil {
			joined = errors.Join(joined, err)
			continue
		}
		task := asynq.NewTask(TaskWebhookDeliver, data, asynq.MaxRetry(5))
		if _, err := d.Tasks.EnqueueContext(ctx, task); err != nil {
			joined = errors.Join(joined, fmt.Errorf("enqueue delivery for %s: %w", ep.ID, err))
		}
	}
	return joined
}

// Deliver executes a single signed delivery and records the outcome.
func (d *Dispatcher) Deliver(ctx context.Context, p DeliverPayload) error {
	if d == nil || d.Store == nil {
		return errors.New("notify: dispatcher not configured")
	}
	ep, err := d.Store.GetEndpoint(ctx, p.EndpointID)
	if err != nil {
		if errors.Is(err, ErrEndpointNotFound) {
			// Endpoint removed after scheduling; nothing to retry.
			return nil
		}
		return err
	}
	if !ep.Active {
		return nil
	}
	if d.Replay != nil && d.ReplayTTL > 0 {
		key := replayKey(ep.ID, p.EventID)
		ok, err := d.Replay.Acquire(ctx, key, d.ReplayTTL)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	status, sendErr := d.send(ctx, ep, p)
	outcome := Delivery{
		EndpointID:     ep.ID,
		EventID:        p.EventID,
		Topic:          p.Topic,
		Status:         DeliveryDelivered,
		ResponseStatus: status,
	}
	if sendErr != nil || status < 200 || status >= 300 {
		outcome.Status = DeliveryFailed
		outcome.LastError = fmt.Sprintf("status=%d err=%v", status, sendErr)
	}
	if obs.WebhookDeliveryTotal != nil {
		obs.WebhookDeliveryTotal.WithLabelValues(outcome.Status).Inc()
	}
	if _, err := d.Store.RecordDelivery(ctx, outcome); err != nil && d.Logger != nil {
		d.Logger.Warn().Err(err).Str("endpoint_id", ep.ID.String()).Msg("record webhook delivery failed")
	}
	if outcome.Status == DeliveryFailed {
		if sendErr != nil {
			return sendErr
		}
		return fmt.Errorf("webhook delivery got status %d", status)
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, ep Endpoint, p DeliverPayload) (int, error) {
	if d.HTTP == nil {
		return 0, errors.New("notify: http client not configured")
	}
	if err := validateURL(ep.URL); err != nil {
		return 0, err
	}
	body, err := json.Marshal(struct {
		EventID    string          `json:"eventId"`
		Topic      string          `json:"topic"`
		Data       json.RawMessage `json:"data"`
		OccurredAt time.Time       `json:"occurredAt"`
	}{
		EventID:    p.EventID.String(),
		Topic:      p.Topic,
		Data:       p.Data,
		OccurredAt: p.OccurredAt,
	})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, strings.NewReader(string(body)))
	if err != nil {
		return 0, err
	}
	ts := time.Now().Unix()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "print-power-purpose-webhooks/1.0")
	req.Header.Set("X-Event-ID", p.EventID.String())
	req.Header.Set("X-Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("X-Signature", ComputeSignature(ep.Secret, ts, p.EventID.String(), body))
	resp, err := d.HTTP.Do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.New("webhook url must be http or https")
	}
	if parsed.Scheme == "http" {
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" {
			return errors.New("http webhook only allowed for localhost")
		}
	}
	if parsed.Host == "" {
		return errors.New("webhook url must include host")
	}
	return nil
}

// ComputeSignature calculates the webhook signature for the provided payload.
// The format is HMAC-SHA256 over "<ts>.<eventID>.<body>" using the endpoint
// secret.
func ComputeSignature(secret string, ts int64, eventID string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strconv.FormatInt(ts, 10)))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(eventID))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func replayKey(endpointID, eventID uuid.UUID) string {
	return fmt.Sprintf("wh:%s:%s", endpointID, eventID)
}
