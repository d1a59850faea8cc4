package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists domain events in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Insert writes the event and returns the stored row.
func (s PGStore) Insert(ctx context.Context, topic, aggregateID string, payload []byte) (Event, error) {
	id := uuid.New()
	var occurredAt time.Time
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO domain_events (id, topic, aggregate_id, payload)
		 VALUES ($1, $2, $3, $4)
		 RETURNING occurred_at`,
		id, topic, aggregateID, payload,
	).Scan(&occurredAt)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:          id,
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  occurredAt,
	}, nil
}
