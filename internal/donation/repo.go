package donation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a donation lookup matches no row.
var ErrNotFound = errors.New("donation: not found")

// Donation is a recorded contribution in the ledger.
type Donation struct {
	ID          uuid.UUID `json:"id"`
	DonorID     string    `json:"donorId"`
	DonorName   string    `json:"donorName,omitempty"`
	DonorEmail  string    `json:"donorEmail,omitempty"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	OrderRef    string    `json:"orderRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store defines the persistence operations required by the donation service.
type Store interface {
	Insert(ctx context.Context, d Donation) (Donation, error)
	DonorTotalCents(ctx context.Context, donorID string) (int64, error)
	List(ctx context.Context, limit, offset int) ([]Donation, int, error)
}

// PGStore implements Store on Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Insert writes a donation and returns the stored row.
func (r PGStore) Insert(ctx context.Context, d Donation) (Donation, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO donations (id, donor_id, donor_name, donor_email, amount_cents, currency, order_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		d.ID, d.DonorID, d.DonorName, d.DonorEmail, d.AmountCents, d.Currency, d.OrderRef,
	).Scan(&d.CreatedAt)
	if err != nil {
		return Donation{}, err
	}
	return d, nil
}

// DonorTotalCents sums the lifetime contributions of a donor.
func (r PGStore) DonorTotalCents(ctx context.Context, donorID string) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM donations WHERE donor_id = $1`,
		donorID,
	).Scan(&total)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	return total, nil
}

// DonorsSince returns every donor whose ledger gained entries at or after
// since, with the amount donated inside that window and the lifetime total.
func (r PGStore) DonorsSince(ctx context.Context, since time.Time) ([]DonorActivity, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT donor_id,
		        (array_agg(donor_name ORDER BY created_at DESC))[1],
		        (array_agg(donor_email ORDER BY created_at DESC))[1],
		        COALESCE(SUM(amount_cents) FILTER (WHERE created_at >= $1), 0) AS window_cents,
		        COALESCE(SUM(amount_cents), 0) AS total_cents
		 FROM donations
		 GROUP BY donor_id
		 HAVING COALESCE(SUM(amount_cents) FILTER (WHERE created_at >= $1), 0) > 0`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DonorActivity
	for rows.Next() {
		var a DonorActivity
		if err := rows.Scan(&a.DonorID, &a.DonorName, &a.DonorEmail, &a.WindowCents, &a.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// List returns a page of donations, newest first, with the total row count.
func (r PGStore) List(ctx context.Context, limit, offset int) ([]Donation, int, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, donor_id, donor_name, donor_email, amount_cents, currency, order_ref, created_at,
		        COUNT(*) OVER() AS total
		 FROM donations
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []Donation
		total int
	)
	for rows.Next() {
		var d Donation
		if err := rows.Scan(
			&d.ID, &d.DonorID, &d.DonorName, &d.DonorEmail,
			&d.AmountCents, &d.Currency, &d.OrderRef, &d.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}
