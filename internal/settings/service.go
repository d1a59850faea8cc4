package settings

import (
	"context"
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/glaadoo/print-power-purpose/internal/common"
	"github.com/glaadoo/print-power-purpose/internal/events"
	"github.com/glaadoo/print-power-purpose/internal/obs"
	"github.com/glaadoo/print-power-purpose/internal/pricing"
)

// Service orchestrates vendor settings reads, writes and pricing previews.
type Service struct {
	Store           Store
	Cache           *Cache
	Validate        *validator.Validate
	Events          *events.Bus
	DefaultCurrency string
	Logger          *zerolog.Logger
}

// Get returns the stored settings for a vendor, reading through the cache.
func (s *Service) Get(ctx context.Context, vendor string) (VendorSettings, error) {
	vendor = normalizeVendor(vendor)
	if vendor == "" {
		return VendorSettings{}, common.NewAppError("BAD_REQUEST", "vendor is required", http.StatusBadRequest, nil)
	}
	var cached VendorSettings
	if ok, err := s.Cache.Get(ctx, vendor, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil && s.Logger != nil {
		s.Logger.Warn().Err(err).Str("vendor", vendor).Msg("settings cache read failed")
	}
	stored, err := s.Store.Get(ctx, vendor)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return VendorSettings{}, common.NewAppError("NOT_FOUND", "vendor settings not found", http.StatusNotFound, err)
		}
		return VendorSettings{}, err
	}
	if err := s.Cache.Set(ctx, stored); err != nil && s.Logger != nil {
		s.Logger.Warn().Err(err).Str("vendor", vendor).Msg("settings cache write failed")
	}
	return stored, nil
}

// Resolve returns the effective pricing settings for a vendor, falling back
// to pass-through defaults when nothing is configured. Pricing never fails on
// a missing row.
func (s *Service) Resolve(ctx context.Context, vendor string) pricing.Settings {
	stored, err := s.Get(ctx, vendor)
	if err != nil {
		return Defaults(s.DefaultCurrency)
	}
	return stored.Settings
}

// Update validates, clamps and persists vendor settings, invalidating the
// cache and emitting a settings-updated event.
func (s *Service) Update(ctx context.Context, vendor string, in UpdateInput) (VendorSettings, error) {
	vendor = normalizeVendor(vendor)
	if vendor == "" {
		return VendorSettings{}, common.NewAppError("BAD_REQUEST", "vendor is required", http.StatusBadRequest, nil)
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return VendorSettings{}, common.NewAppError("VALIDATION", "invalid settings payload", http.StatusUnprocessableEntity, err)
		}
	}
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.DefaultCurrency
	}
	next := clamp(pricing.Settings{
		MarkupMode:              in.MarkupMode,
		MarkupFixedCents:        in.MarkupFixedCents,
		MarkupPercent:           in.MarkupPercent,
		ShareMode:               in.ShareMode,
		DonationFixedCents:      in.DonationFixedCents,
		DonationPercentOfMarkup: in.DonationPercentOfMarkup,
		Currency:                currency,
	})
	stored, err := s.Store.Upsert(ctx, vendor, next)
	if err != nil {
		return VendorSettings{}, err
	}
	if err := s.Cache.Invalidate(ctx, vendor); err != nil && s.Logger != nil {
		s.Logger.Warn().Err(err).Str("vendor", vendor).Msg("settings cache invalidation failed")
	}
	if obs.SettingsUpdateTotal != nil {
		obs.SettingsUpdateTotal.WithLabelValues(vendor).Inc()
	}
	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicSettingsUpdated, vendor, stored); err != nil && s.Logger != nil {
			s.Logger.Warn().Err(err).Str("vendor", vendor).Msg("emit settings event failed")
		}
	}
	return stored, nil
}

// Preview runs the pricing engine for a vendor against a hypothetical base
// cost, using the supplied settings when present or the stored ones otherwise.
func (s *Service) Preview(ctx context.Context, vendor string, baseCostCents int64, override *UpdateInput) (pricing.Output, error) {
	vendor = normalizeVendor(vendor)
	if vendor == "" {
		return pricing.Output{}, common.NewAppError("BAD_REQUEST", "vendor is required", http.StatusBadRequest, nil)
	}
	if baseCostCents < 0 {
		return pricing.Output{}, common.NewAppError("BAD_REQUEST", "baseCostCents must be non-negative", http.StatusBadRequest, nil)
	}
	var effective pricing.Settings
	if override != nil {
		if s.Validate != nil {
			if err := s.Validate.Struct(*override); err != nil {
				return pricing.Output{}, common.NewAppError("VALIDATION", "invalid settings payload", http.StatusUnprocessableEntity, err)
			}
		}
		effective = clamp(pricing.Settings{
			MarkupMode:              override.MarkupMode,
			MarkupFixedCents:        override.MarkupFixedCents,
			MarkupPercent:           override.MarkupPercent,
			ShareMode:               override.ShareMode,
			DonationFixedCents:      override.DonationFixedCents,
			DonationPercentOfMarkup: override.DonationPercentOfMarkup,
			Currency:                override.Currency,
		})
	} else {
		effective = s.Resolve(ctx, vendor)
	}
	return pricing.ComputeGlobalPricing(pricing.Input{
		Vendor:        vendor,
		BaseCostCents: baseCostCents,
		Settings:      effective,
	}), nil
}

func normalizeVendor(vendor string) string {
	return strings.ToLower(strings.TrimSpace(vendor))
}
