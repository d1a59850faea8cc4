package pricing

import "math"

// Money represents a monetary value stored in minor units.
type Money = int64

// VendorSinaLite is the only vendor enrolled in the admin-configurable markup
// program. Items from any other vendor are priced upstream and pass through
// the engine unchanged.
const VendorSinaLite = "sinalite"

// Markup modes supported by vendor settings.
const (
	MarkupModeFixed   = "fixed"
	MarkupModePercent = "percent"
)

// Nonprofit share modes supported by vendor settings.
const (
	ShareModeFixed           = "fixed"
	ShareModePercentOfMarkup = "percent_of_markup"
)

// Settings captures the admin-configured markup and donation rules for a
// vendor. Values are expected to be sanitised (non-negative) at the ingestion
// boundary; the engine itself does not validate.
type Settings struct {
	MarkupMode              string  `json:"markupMode"`
	MarkupFixedCents        Money   `json:"markupFixedCents"`
	MarkupPercent           float64 `json:"markupPercent"`
	ShareMode               string  `json:"nonprofitShareMode"`
	DonationFixedCents      Money   `json:"nonprofitFixedCents"`
	DonationPercentOfMarkup float64 `json:"nonprofitPercentOfMarkup"`
	Currency                string  `json:"currency"`
}

// Input describes a single unit to price.
type Input struct {
	Vendor        string
	BaseCostCents Money
	Settings      Settings
}

// Output is the per-unit price breakdown. All fields are integer cents and
// satisfy FinalPricePerUnitCents = BasePricePerUnitCents + MarkupAmountCents
// and GrossMarginPerUnitCents = MarkupAmountCents - DonationPerUnitCents >= 0.
type Output struct {
	BasePricePerUnitCents   Money `json:"basePricePerUnitCents"`
	MarkupAmountCents       Money `json:"markupAmountCents"`
	DonationPerUnitCents    Money `json:"donationPerUnitCents"`
	GrossMarginPerUnitCents Money `json:"grossMarginPerUnitCents"`
	FinalPricePerUnitCents  Money `json:"finalPricePerUnitCents"`
}

// ComputeGlobalPricing derives the per-unit markup, nonprofit donation share
// and gross margin for a vendor catalog item. Vendors outside the markup
// program pass through untouched.
func ComputeGlobalPricing(in Input) Output {
	if in.Vendor != VendorSinaLite {
		return Output{
			BasePricePerUnitCents:  in.BaseCostCents,
			FinalPricePerUnitCents: in.BaseCostCents,
		}
	}

	s := in.Settings
	markup := s.MarkupFixedCents
	if s.MarkupMode == MarkupModePercent {
		markup = roundCents(float64(in.BaseCostCents) * s.MarkupPercent / 100)
	}

	var donation Money
	switch s.ShareMode {
	case ShareModePercentOfMarkup:
		donation = roundCents(float64(markup) * s.DonationPercentOfMarkup / 100)
	default:
		// The donation can never exceed the markup that funds it.
		donation = s.DonationFixedCents
		if donation > markup {
			donation = markup
		}
	}

	margin := markup - donation
	if margin < 0 {
		// A percent_of_markup share above 100% degrades to donating the whole
		// markup; per-unit margin never goes negative.
		donation = markup
		margin = 0
	}

	return Output{
		BasePricePerUnitCents:   in.BaseCostCents,
		MarkupAmountCents:       markup,
		DonationPerUnitCents:    donation,
		GrossMarginPerUnitCents: margin,
		FinalPricePerUnitCents:  in.BaseCostCents + markup,
	}
}

// roundCents rounds half away from zero and is applied exactly once per
// computed quantity, never compounded.
func roundCents(v float64) Money {
	return Money(math.Round(v))
}
