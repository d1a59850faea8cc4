package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glaadoo/print-power-purpose/internal/pricing"
)

// ErrNotFound is returned when a vendor has no stored settings.
var ErrNotFound = errors.New("settings: vendor not configured")

// Store defines the persistence operations required by the settings service.
type Store interface {
	Get(ctx context.Context, vendor string) (VendorSettings, error)
	Upsert(ctx context.Context, vendor string, s pricing.Settings) (VendorSettings, error)
}

// PGStore implements Store on Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Get loads the stored settings for a vendor.
func (r PGStore) Get(ctx context.Context, vendor string) (VendorSettings, error) {
	var out VendorSettings
	out.Vendor = vendor
	err := r.Pool.QueryRow(ctx,
		`SELECT markup_mode, markup_fixed_cents, markup_percent,
		        share_mode, donation_fixed_cents, donation_percent_of_markup,
		        currency, updated_at
		 FROM pricing_settings WHERE vendor = $1`,
		vendor,
	).Scan(
		&out.Settings.MarkupMode,
		&out.Settings.MarkupFixedCents,
		&out.Settings.MarkupPercent,
		&out.Settings.ShareMode,
		&out.Settings.DonationFixedCents,
		&out.Settings.DonationPercentOfMarkup,
		&out.Settings.Currency,
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VendorSettings{}, ErrNotFound
		}
		return VendorSettings{}, err
	}
	return out, nil
}

// Upsert writes the settings for a vendor and returns the stored row.
func (r PGStore) Upsert(ctx context.Context, vendor string, s pricing.Settings) (VendorSettings, error) {
	out := VendorSettings{Vendor: vendor, Settings: s}
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO pricing_settings (
		    vendor, markup_mode, markup_fixed_cents, markup_percent,
		    share_mode, donation_fixed_cents, donation_percent_of_markup, currency
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (vendor) DO UPDATE SET
		    markup_mode = EXCLUDED.markup_mode,
		    markup_fixed_cents = EXCLUDED.markup_fixed_cents,
		    markup_percent = EXCLUDED.markup_percent,
		    share_mode = EXCLUDED.share_mode,
		    donation_fixed_cents = EXCLUDED.donation_fixed_cents,
		    donation_percent_of_markup = EXCLUDED.donation_percent_of_markup,
		    currency = EXCLUDED.currency,
		    updated_at = now()
		 RETURNING updated_at`,
		vendor,
		s.MarkupMode, s.MarkupFixedCents, s.MarkupPercent,
		s.ShareMode, s.DonationFixedCents, s.DonationPercentOfMarkup,
		s.Currency,
	).Scan(&out.UpdatedAt)
	if err != nil {
		return VendorSettings{}, err
	}
	return out, nil
}
