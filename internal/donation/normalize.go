package donation

import "math"

const (
	// MaxDonationCents caps a single donation at $100,000.
	MaxDonationCents int64 = 10_000_000
	// MinChargeCents is the smallest amount the payment processor accepts.
	MinChargeCents int64 = 50
)

// NormalizeCents coerces an arbitrary donation amount into a chargeable
// integer number of cents. Non-finite or negative input degrades to 0,
// fractions are truncated, values above MaxDonationCents are clamped, and a
// positive amount below the processor minimum is dropped to 0 rather than
// rejected. The function never errors.
func NormalizeCents(cents float64) int64 {
	if math.IsNaN(cents) || math.IsInf(cents, 0) {
		return 0
	}
	if cents <= 0 {
		return 0
	}
	// Clamp while still a float: converting a value beyond int64 range first
	// would wrap instead of saturating.
	if cents >= float64(MaxDonationCents) {
		return MaxDonationCents
	}
	v := int64(math.Trunc(cents))
	if v < MinChargeCents {
		return 0
	}
	return v
}

// NormalizeUSD converts a dollar amount to cents and normalizes it.
func NormalizeUSD(dollars float64) int64 {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0
	}
	// The cents product can overflow to +Inf for large finite inputs; clamp
	// here so those still saturate at the cap instead of degrading to 0.
	if dollars*100 >= float64(MaxDonationCents) {
		return MaxDonationCents
	}
	return NormalizeCents(math.Round(dollars * 100))
}

// IsValidCents reports whether the amount is either zero or chargeable as-is.
func IsValidCents(cents int64) bool {
	return cents == 0 || (cents >= MinChargeCents && cents <= MaxDonationCents)
}
