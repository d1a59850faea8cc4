package settings

import (
	"time"

	"github.com/glaadoo/print-power-purpose/internal/pricing"
)

// VendorSettings is the stored markup/donation configuration for a vendor.
type VendorSettings struct {
	Vendor    string           `json:"vendor"`
	Settings  pricing.Settings `json:"settings"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// UpdateInput is the admin payload for writing vendor settings.
type UpdateInput struct {
	MarkupMode              string  `json:"markupMode" validate:"required,oneof=fixed percent"`
	MarkupFixedCents        int64   `json:"markupFixedCents" validate:"gte=0"`
	MarkupPercent           float64 `json:"markupPercent" validate:"gte=0"`
	ShareMode               string  `json:"nonprofitShareMode" validate:"required,oneof=fixed percent_of_markup"`
	DonationFixedCents      int64   `json:"nonprofitFixedCents" validate:"gte=0"`
	DonationPercentOfMarkup float64 `json:"nonprofitPercentOfMarkup" validate:"gte=0"`
	Currency                string  `json:"currency" validate:"omitempty,len=3"`
}

// clamp forces every amount to be non-negative. Validation already rejects
// negative input, but the pricing engine is total only over sane settings, so
// the boundary enforces it a second time before anything is persisted.
func clamp(s pricing.Settings) pricing.Settings {
	if s.MarkupFixedCents < 0 {
		s.MarkupFixedCents = 0
	}
	if s.MarkupPercent < 0 {
		s.MarkupPercent = 0
	}
	if s.DonationFixedCents < 0 {
		s.DonationFixedCents = 0
	}
	if s.DonationPercentOfMarkup < 0 {
		s.DonationPercentOfMarkup = 0
	}
	return s
}

// Defaults returns the pass-through settings used when a vendor has no stored
// configuration: no markup, no donation share.
func Defaults(currency string) pricing.Settings {
	return pricing.Settings{
		MarkupMode: pricing.MarkupModeFixed,
		ShareMode:  pricing.ShareModeFixed,
		Currency:   currency,
	}
}
