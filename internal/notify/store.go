package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEndpointNotFound is returned when a webhook endpoint lookup matches no row.
var ErrEndpointNotFound = errors.New("notify: webhook endpoint not found")

// Endpoint is a registered webhook receiver.
type Endpoint struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Secret    string    `json:"-"`
	Topics    []string  `json:"topics"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Delivery is the outcome record of one webhook attempt.
type Delivery struct {
	ID             uuid.UUID `json:"id"`
	EndpointID     uuid.UUID `json:"endpointId"`
	EventID        uuid.UUID `json:"eventId"`
	Topic          string    `json:"topic"`
	Status         string    `json:"status"`
	ResponseStatus int       `json:"responseStatus,omitempty"`
	LastError      string    `json:"lastError,omitempty"`
	AttemptedAt    time.Time `json:"attemptedAt"`
}

// Delivery statuses recorded in the log.
const (
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// Store defines the persistence operations required for webhook management.
type Store interface {
	CreateEndpoint(ctx context.Context, ep Endpoint) (Endpoint, error)
	UpdateEndpoint(ctx context.Context, ep Endpoint) (Endpoint, error)
	GetEndpoint(ctx context.Context, id uuid.UUID) (Endpoint, error)
	ListEndpoints(ctx context.Context) ([]Endpoint, error)
	DeleteEndpoint(ctx context.Context, id uuid.UUID) error
	ListActiveEndpointsForTopic(ctx context.Context, topic string) ([]Endpoint, error)
	RecordDelivery(ctx context.Context, d Delivery) (Delivery, error)
	ListDeliveries(ctx context.Context, limit, offset int) ([]Delivery, int, error)
}

// PGStore implements Store on Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const endpointColumns = "id, url, secret, topics, active, created_at"

func scanEndpoint(row pgx.Row) (Endpoint, error) {
	var ep Endpoint
	err := row.Scan(&ep.ID, &ep.URL, &ep.Secret, &ep.Topics, &ep.Active, &ep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Endpoint{}, ErrEndpointNotFound
		}
		return Endpoint{}, err
	}
	return ep, nil
}

func (r PGStore) CreateEndpoint(ctx context.Context, ep Endpoint) (Endpoint, error) {
	if ep.ID == uuid.Nil {
		ep.ID = uuid.New()
	}
	return scanEndpoint(r.Pool.QueryRow(ctx,
		`INSERT INTO webhook_endpoints (id, url, secret, topics, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+endpointColumns,
		ep.ID, ep.URL, ep.Secret, ep.Topics, ep.Active,
	))
}

func (r PGStore) UpdateEndpoint(ctx context.Context, ep Endpoint) (Endpoint, error) {
	return scanEndpoint(r.Pool.QueryRow(ctx,
		`UPDATE webhook_endpoints
		 SET url = $2, secret = $3, topics = $4, active = $5
		 WHERE id = $1
		 RETURNING `+endpointColumns,
		ep.ID, ep.URL, ep.Secret, ep.Topics, ep.Active,
	))
}

func (r PGStore) GetEndpoint(ctx context.Context, id uuid.UUID) (Endpoint, error) {
	return scanEndpoint(r.Pool.QueryRow(ctx,
		`SELECT `+endpointColumns+` FROM webhook_endpoints WHERE id = $1`, id))
}

func (r PGStore) ListEndpoints(ctx context.Context) ([]Endpoint, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+endpointColumns+` FROM webhook_endpoints ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEndpoints(rows)
}

func (r PGStore) DeleteEndpoint(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM webhook_endpoints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEndpointNotFound
	}
	return nil
}

func (r PGStore) ListActiveEndpointsForTopic(ctx context.Context, topic string) ([]Endpoint, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+endpointColumns+`
		 FROM webhook_endpoints
		 WHERE active AND $1 = ANY(topics)
		 ORDER BY created_at`,
		topic,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEndpoints(rows)
}

func collectEndpoints(rows pgx.Rows) ([]Endpoint, error) {
	var out []Endpoint
	for rows.Next() {
		ep, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

func (r PGStore) RecordDelivery(ctx context.Context, d Delivery) (Delivery, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO webhook_deliveries (id, endpoint_id, event_id, topic, status, response_status, last_error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING attempted_at`,
		d.ID, d.EndpointID, d.EventID, d.Topic, d.Status, d.ResponseStatus, d.LastError,
	).Scan(&d.AttemptedAt)
	if err != nil {
		return Delivery{}, err
	}
	return d, nil
}

func (r PGStore) ListDeliveries(ctx context.Context, limit, offset int) ([]Delivery, int, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, endpoint_id, event_id, topic, status, response_status, last_error, attempted_at,
		        COUNT(*) OVER() AS total
		 FROM webhook_deliveries
		 ORDER BY attempted_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []Delivery
		total int
	)
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(
			&d.ID, &d.EndpointID, &d.EventID, &d.Topic, &d.Status,
			&d.ResponseStatus, &d.LastError, &d.AttemptedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}
