package quote_test

import (
	"context"
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/glaadoo/print-power-purpose/internal/pricing"
	"github.com/glaadoo/print-power-purpose/internal/quote"
	"github.com/glaadoo/print-power-purpose/internal/shipping"
)

type staticSettings struct {
	settings pricing.Settings
}

func (s staticSettings) Resolve(context.Context, string) pricing.Settings {
	return s.settings
}

func sinaliteFixedSettings() pricing.Settings {
	return pricing.Settings{
		MarkupMode:         pricing.MarkupModeFixed,
		MarkupFixedCents:   300,
		ShareMode:          pricing.ShareModeFixed,
		DonationFixedCents: 100,
		Currency:           "usd",
	}
}

func newService(s pricing.Settings) *quote.Service {
	return &quote.Service{
		Settings: staticSettings{settings: s},
		Validate: validator.New(),
		Currency: "usd",
	}
}

func TestQuoteVendorProgramItems(t *testing.T) {
	svc := newService(sinaliteFixedSettings())
	donationCents := 2500.0
	result, err := svc.Quote(context.Background(), quote.Request{
		Items: []quote.Item{
			{Vendor: "sinalite", BaseCostCents: 1000, Quantity: 2, Name: "Business Cards", Category: "promo"},
			{Vendor: "sinalite", BaseCostCents: 5000, Quantity: 1, Name: "Aluminum Sign"},
		},
		DonationCents: &donationCents,
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	require.Equal(t, int64(1300), result.Items[0].Unit.FinalPricePerUnitCents)
	require.Equal(t, int64(2600), result.Items[0].LineTotalCents)
	require.Equal(t, shipping.TierLightCents, result.Items[0].ShippingTierCents)
	require.Equal(t, shipping.TierHeavyCents, result.Items[1].ShippingTierCents)

	require.Equal(t, int64(2600+5300), result.SubtotalCents)
	// Shipping is charged once at the highest tier, never summed.
	require.Equal(t, shipping.TierHeavyCents, result.ShippingCents)
	require.Equal(t, "Oversized Shipping", result.ShippingLabel)
	require.Equal(t, int64(2500), result.DonationCents)
	require.Equal(t, result.SubtotalCents+result.ShippingCents+result.DonationCents, result.TotalCents)
}

func TestQuoteListingMarkupOverridesWinOverVendorProgram(t *testing.T) {
	svc := newService(sinaliteFixedSettings())
	fixed := int64(50)
	percent := 10.0
	result, err := svc.Quote(context.Background(), quote.Request{
		Items: []quote.Item{{
			Vendor:        "sinalite",
			BaseCostCents: 1000,
			Quantity:      1,
			Name:          "Poster",
			ProductMarkup: &pricing.MarkupOverrides{MarkupFixedCents: &fixed, MarkupPercent: &percent},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1150), result.Items[0].Unit.FinalPricePerUnitCents)
	require.Equal(t, int64(150), result.Items[0].Unit.MarkupAmountCents)
	require.Zero(t, result.Items[0].Unit.DonationPerUnitCents)
}

func TestQuoteNonProgramVendorPassesThrough(t *testing.T) {
	svc := newService(sinaliteFixedSettings())
	result, err := svc.Quote(context.Background(), quote.Request{
		Items: []quote.Item{{Vendor: "scalablepress", BaseCostCents: 2000, Quantity: 3, Name: "T-Shirt", Category: "apparel"}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2000), result.Items[0].Unit.FinalPricePerUnitCents)
	require.Zero(t, result.Items[0].Unit.MarkupAmountCents)
	require.Equal(t, int64(6000), result.SubtotalCents)
}

func TestQuoteNormalizesDonations(t *testing.T) {
	svc := newService(sinaliteFixedSettings())

	small := 25.0
	result, err := svc.Quote(context.Background(), quote.Request{
		Items:         []quote.Item{{Vendor: "sinalite", BaseCostCents: 1000, Quantity: 1, Name: "Flyer"}},
		DonationCents: &small,
	})
	require.NoError(t, err)
	require.Zero(t, result.DonationCents, "sub-minimum donation drops to zero")

	usd := 12.5
	result, err = svc.Quote(context.Background(), quote.Request{
		Items:       []quote.Item{{Vendor: "sinalite", BaseCostCents: 1000, Quantity: 1, Name: "Flyer"}},
		DonationUSD: &usd,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1250), result.DonationCents)
}

func TestQuoteRejectsInvalidPayload(t *testing.T) {
	svc := newService(sinaliteFixedSettings())

	_, err := svc.Quote(context.Background(), quote.Request{})
	require.Error(t, err, "empty item list")

	_, err = svc.Quote(context.Background(), quote.Request{
		Items: []quote.Item{{Vendor: "sinalite", BaseCostCents: -1, Quantity: 1, Name: "Flyer"}},
	})
	require.Error(t, err, "negative base cost")

	_, err = svc.Quote(context.Background(), quote.Request{
		Items: []quote.Item{{Vendor: "sinalite", BaseCostCents: 100, Quantity: 0, Name: "Flyer"}},
	})
	require.Error(t, err, "zero quantity")
}
