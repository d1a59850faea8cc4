package pricing

import "testing"

func TestComputeGlobalPricingPassthrough(t *testing.T) {
	settings := Settings{
		MarkupMode:         MarkupModeFixed,
		MarkupFixedCents:   300,
		ShareMode:          ShareModeFixed,
		DonationFixedCents: 100,
	}
	out := ComputeGlobalPricing(Input{Vendor: "other", BaseCostCents: 1000, Settings: settings})
	if out.FinalPricePerUnitCents != 1000 {
		t.Fatalf("expected final price 1000, got %d", out.FinalPricePerUnitCents)
	}
	if out.MarkupAmountCents != 0 || out.DonationPerUnitCents != 0 || out.GrossMarginPerUnitCents != 0 {
		t.Fatalf("expected zero markup fields for non-program vendor, got %+v", out)
	}
}

func TestComputeGlobalPricingFixedModes(t *testing.T) {
	out := ComputeGlobalPricing(Input{
		Vendor:        VendorSinaLite,
		BaseCostCents: 1000,
		Settings: Settings{
			MarkupMode:         MarkupModeFixed,
			MarkupFixedCents:   300,
			ShareMode:          ShareModeFixed,
			DonationFixedCents: 100,
		},
	})
	if out.MarkupAmountCents != 300 {
		t.Fatalf("markup: expected 300, got %d", out.MarkupAmountCents)
	}
	if out.DonationPerUnitCents != 100 {
		t.Fatalf("donation: expected 100, got %d", out.DonationPerUnitCents)
	}
	if out.GrossMarginPerUnitCents != 200 {
		t.Fatalf("margin: expected 200, got %d", out.GrossMarginPerUnitCents)
	}
	if out.FinalPricePerUnitCents != 1300 {
		t.Fatalf("final: expected 1300, got %d", out.FinalPricePerUnitCents)
	}
}

func TestComputeGlobalPricingDonationCappedAtMarkup(t *testing.T) {
	out := ComputeGlobalPricing(Input{
		Vendor:        VendorSinaLite,
		BaseCostCents: 1000,
		Settings: Settings{
			MarkupMode:         MarkupModeFixed,
			MarkupFixedCents:   200,
			ShareMode:          ShareModeFixed,
			DonationFixedCents: 500,
		},
	})
	if out.DonationPerUnitCents != 200 {
		t.Fatalf("expected donation capped at markup 200, got %d", out.DonationPerUnitCents)
	}
	if out.GrossMarginPerUnitCents != 0 {
		t.Fatalf("expected zero margin when fully donated, got %d", out.GrossMarginPerUnitCents)
	}
}

func TestComputeGlobalPricingPercentModes(t *testing.T) {
	out := ComputeGlobalPricing(Input{
		Vendor:        VendorSinaLite,
		BaseCostCents: 1000,
		Settings: Settings{
			MarkupMode:              MarkupModePercent,
			MarkupPercent:           20,
			ShareMode:               ShareModePercentOfMarkup,
			DonationPercentOfMarkup: 50,
		},
	})
	if out.MarkupAmountCents != 200 {
		t.Fatalf("markup: expected 200, got %d", out.MarkupAmountCents)
	}
	if out.DonationPerUnitCents != 100 {
		t.Fatalf("donation: expected 100, got %d", out.DonationPerUnitCents)
	}
	if out.GrossMarginPerUnitCents != 100 {
		t.Fatalf("margin: expected 100, got %d", out.GrossMarginPerUnitCents)
	}
	if out.FinalPricePerUnitCents != 1200 {
		t.Fatalf("final: expected 1200, got %d", out.FinalPricePerUnitCents)
	}
}

func TestComputeGlobalPricingExcessShareDonatesWholeMarkup(t *testing.T) {
	out := ComputeGlobalPricing(Input{
		Vendor:        VendorSinaLite,
		BaseCostCents: 1000,
		Settings: Settings{
			MarkupMode:              MarkupModePercent,
			MarkupPercent:           30,
			ShareMode:               ShareModePercentOfMarkup,
			DonationPercentOfMarkup: 150,
		},
	})
	if out.MarkupAmountCents != 300 {
		t.Fatalf("markup: expected 300, got %d", out.MarkupAmountCents)
	}
	if out.DonationPerUnitCents != 300 {
		t.Fatalf("expected whole markup donated, got %d", out.DonationPerUnitCents)
	}
	if out.GrossMarginPerUnitCents != 0 {
		t.Fatalf("expected margin clamped to 0, got %d", out.GrossMarginPerUnitCents)
	}
}

func TestComputeGlobalPricingRoundsHalfAwayFromZero(t *testing.T) {
	// 1050 * 5% = 52.5, which rounds up to 53.
	out := ComputeGlobalPricing(Input{
		Vendor:        VendorSinaLite,
		BaseCostCents: 1050,
		Settings: Settings{
			MarkupMode:    MarkupModePercent,
			MarkupPercent: 5,
		},
	})
	if out.MarkupAmountCents != 53 {
		t.Fatalf("expected markup 53, got %d", out.MarkupAmountCents)
	}
	if out.FinalPricePerUnitCents != 1103 {
		t.Fatalf("expected final 1103, got %d", out.FinalPricePerUnitCents)
	}
}

func TestComputeGlobalPricingInvariants(t *testing.T) {
	bases := []Money{0, 1, 49, 50, 999, 1000, 123457, 10_000_000}
	percents := []float64{0, 0.5, 10, 33.333, 100, 250}
	fixeds := []Money{0, 1, 100, 5000}
	for _, base := range bases {
		for _, pct := range percents {
			for _, fixed := range fixeds {
				inputs := []Input{
					{Vendor: VendorSinaLite, BaseCostCents: base, Settings: Settings{
						MarkupMode: MarkupModeFixed, MarkupFixedCents: fixed,
						ShareMode: ShareModeFixed, DonationFixedCents: fixed / 2,
					}},
					{Vendor: VendorSinaLite, BaseCostCents: base, Settings: Settings{
						MarkupMode: MarkupModePercent, MarkupPercent: pct,
						ShareMode: ShareModePercentOfMarkup, DonationPercentOfMarkup: pct,
					}},
				}
				for _, in := range inputs {
					out := ComputeGlobalPricing(in)
					if out.FinalPricePerUnitCents != out.BasePricePerUnitCents+out.MarkupAmountCents {
						t.Fatalf("final != base + markup for %+v: %+v", in, out)
					}
					if out.GrossMarginPerUnitCents < 0 {
						t.Fatalf("negative margin for %+v: %+v", in, out)
					}
					if out.DonationPerUnitCents > out.MarkupAmountCents {
						t.Fatalf("donation exceeds markup for %+v: %+v", in, out)
					}
					if out.GrossMarginPerUnitCents != out.MarkupAmountCents-out.DonationPerUnitCents {
						t.Fatalf("margin != markup - donation for %+v: %+v", in, out)
					}
					// Pure function: identical inputs produce identical outputs.
					if again := ComputeGlobalPricing(in); again != out {
						t.Fatalf("non-deterministic output for %+v", in)
					}
				}
			}
		}
	}
}
