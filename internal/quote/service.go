package quote

import (
	"context"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/glaadoo/print-power-purpose/internal/common"
	"github.com/glaadoo/print-power-purpose/internal/donation"
	"github.com/glaadoo/print-power-purpose/internal/obs"
	"github.com/glaadoo/print-power-purpose/internal/pricing"
	"github.com/glaadoo/print-power-purpose/internal/shipping"
)

// Pricing paths reported on quote item metrics.
const (
	pathVendorProgram = "vendor_program"
	pathListingMarkup = "listing_markup"
)

// SettingsResolver supplies the effective pricing settings for a vendor.
type SettingsResolver interface {
	Resolve(ctx context.Context, vendor string) pricing.Settings
}

// Item is a single line in a quote request.
type Item struct {
	Vendor        string                   `json:"vendor" validate:"required"`
	BaseCostCents int64                    `json:"baseCostCents" validate:"gte=0"`
	Quantity      int                      `json:"quantity" validate:"gte=1"`
	Name          string                   `json:"name" validate:"required"`
	Category      string                   `json:"category"`
	ProductMarkup *pricing.MarkupOverrides `json:"productMarkup,omitempty"`
	VariantMarkup *pricing.MarkupOverrides `json:"variantMarkup,omitempty"`
}

// Request is the payload for an order quote.
type Request struct {
	Items         []Item   `json:"items" validate:"required,min=1,max=100,dive"`
	DonationCents *float64 `json:"donationCents,omitempty"`
	DonationUSD   *float64 `json:"donationUsd,omitempty"`
}

// QuotedItem pairs a request line with its per-unit breakdown.
type QuotedItem struct {
	Name              string         `json:"name"`
	Vendor            string         `json:"vendor"`
	Quantity          int            `json:"quantity"`
	Unit              pricing.Output `json:"unit"`
	LineTotalCents    int64          `json:"lineTotalCents"`
	ShippingTierCents int64          `json:"shippingTierCents"`
}

// Result is the full deterministic quote breakdown.
type Result struct {
	Items         []QuotedItem `json:"items"`
	SubtotalCents int64        `json:"subtotalCents"`
	ShippingCents int64        `json:"shippingCents"`
	ShippingLabel string       `json:"shippingLabel"`
	DonationCents int64        `json:"donationCents"`
	TotalCents    int64        `json:"totalCents"`
	Currency      string       `json:"currency"`
}

// Service assembles order quotes from the pricing engine, shipping classifier
// and donation normalizer.
type Service struct {
	Settings SettingsResolver
	Validate *validator.Validate
	Currency string
}

// Quote computes the breakdown for the request. Items carrying listing-level
// markup overrides are priced by the unit calculator; everything else goes
// through the vendor-aware engine.
func (s *Service) Quote(ctx context.Context, req Request) (Result, error) {
	if s.Validate != nil {
		if err := s.Validate.Struct(req); err != nil {
			if obs.QuoteTotal != nil {
				obs.QuoteTotal.WithLabelValues("invalid").Inc()
			}
			return Result{}, common.NewAppError("VALIDATION", "invalid quote payload", http.StatusUnprocessableEntity, err)
		}
	}

	result := Result{
		Items:    make([]QuotedItem, 0, len(req.Items)),
		Currency: s.Currency,
	}
	shipItems := make([]shipping.Item, 0, len(req.Items))
	for _, item := range req.Items {
		unit := s.priceItem(ctx, item)
		line := QuotedItem{
			Name:              item.Name,
			Vendor:            item.Vendor,
			Quantity:          item.Quantity,
			Unit:              unit,
			LineTotalCents:    unit.FinalPricePerUnitCents * int64(item.Quantity),
			ShippingTierCents: shipping.Classify(item.Name, item.Category),
		}
		result.Items = append(result.Items, line)
		result.SubtotalCents += line.LineTotalCents
		shipItems = append(shipItems, shipping.Item{Name: item.Name, Category: item.Category})
	}

	result.ShippingCents = shipping.OrderShipping(shipItems)
	result.ShippingLabel = shipping.TierLabel(result.ShippingCents)
	result.DonationCents = normalizeDonation(req)
	result.TotalCents = result.SubtotalCents + result.ShippingCents + result.DonationCents

	if obs.QuoteTotal != nil {
		obs.QuoteTotal.WithLabelValues("ok").Inc()
	}
	return result, nil
}

func (s *Service) priceItem(ctx context.Context, item Item) pricing.Output {
	if item.ProductMarkup != nil || item.VariantMarkup != nil {
		fixed, percent := pricing.EffectiveMarkups(item.VariantMarkup, item.ProductMarkup)
		details := pricing.ComputePricingDetails(pricing.DetailInput{
			BasePriceCents:   item.BaseCostCents,
			MarkupFixedCents: fixed,
			MarkupPercent:    percent,
		})
		if obs.QuoteItemTotal != nil {
			obs.QuoteItemTotal.WithLabelValues(pathListingMarkup).Inc()
		}
		return pricing.Output{
			BasePricePerUnitCents:   details.BasePriceCents,
			MarkupAmountCents:       details.MarkupAmountCents,
			GrossMarginPerUnitCents: details.MarkupAmountCents,
			FinalPricePerUnitCents:  details.FinalPriceCents,
		}
	}
	if obs.QuoteItemTotal != nil {
		obs.QuoteItemTotal.WithLabelValues(pathVendorProgram).Inc()
	}
	return pricing.ComputeGlobalPricing(pricing.Input{
		Vendor:        item.Vendor,
		BaseCostCents: item.BaseCostCents,
		Settings:      s.resolveSettings(ctx, item.Vendor),
	})
}

func (s *Service) resolveSettings(ctx context.Context, vendor string) pricing.Settings {
	if s.Settings == nil {
		return pricing.Settings{}
	}
	return s.Settings.Resolve(ctx, vendor)
}

func normalizeDonation(req Request) int64 {
	if req.DonationCents != nil {
		return donation.NormalizeCents(*req.DonationCents)
	}
	if req.DonationUSD != nil {
		return donation.NormalizeUSD(*req.DonationUSD)
	}
	return 0
}
