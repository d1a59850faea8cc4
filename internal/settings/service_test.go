package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	validator "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/glaadoo/print-power-purpose/internal/pricing"
	"github.com/glaadoo/print-power-purpose/internal/settings"
)

type stubStore struct {
	rows     map[string]settings.VendorSettings
	getCalls int
}

func newStubStore() *stubStore {
	return &stubStore{rows: map[string]settings.VendorSettings{}}
}

func (s *stubStore) Get(_ context.Context, vendor string) (settings.VendorSettings, error) {
	s.getCalls++
	row, ok := s.rows[vendor]
	if !ok {
		return settings.VendorSettings{}, settings.ErrNotFound
	}
	return row, nil
}

func (s *stubStore) Upsert(_ context.Context, vendor string, p pricing.Settings) (settings.VendorSettings, error) {
	row := settings.VendorSettings{Vendor: vendor, Settings: p, UpdatedAt: time.Now()}
	s.rows[vendor] = row
	return row, nil
}

func newTestService(t *testing.T) (*settings.Service, *stubStore) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := newStubStore()
	svc := &settings.Service{
		Store:           store,
		Cache:           settings.NewCache(rdb, time.Minute),
		Validate:        validator.New(),
		DefaultCurrency: "usd",
	}
	return svc, store
}

func TestUpdateAndGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	stored, err := svc.Update(ctx, "SinaLite", settings.UpdateInput{
		MarkupMode:         pricing.MarkupModeFixed,
		MarkupFixedCents:   300,
		ShareMode:          pricing.ShareModeFixed,
		DonationFixedCents: 100,
	})
	require.NoError(t, err)
	require.Equal(t, "sinalite", stored.Vendor)
	require.Equal(t, "usd", stored.Settings.Currency)

	got, err := svc.Get(ctx, "sinalite")
	require.NoError(t, err)
	require.Equal(t, int64(300), got.Settings.MarkupFixedCents)
}

func TestGetReadsThroughCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "sinalite", settings.UpdateInput{
		MarkupMode: pricing.MarkupModePercent, MarkupPercent: 20,
		ShareMode: pricing.ShareModePercentOfMarkup, DonationPercentOfMarkup: 50,
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "sinalite")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "sinalite")
	require.NoError(t, err)
	require.Equal(t, 1, store.getCalls, "second read should hit the cache")
}

func TestUpdateRejectsInvalidPayload(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Update(context.Background(), "sinalite", settings.UpdateInput{
		MarkupMode: "bogus",
		ShareMode:  pricing.ShareModeFixed,
	})
	require.Error(t, err)

	_, err = svc.Update(context.Background(), "sinalite", settings.UpdateInput{
		MarkupMode:       pricing.MarkupModeFixed,
		MarkupFixedCents: -5,
		ShareMode:        pricing.ShareModeFixed,
	})
	require.Error(t, err)
}

func TestResolveDefaultsWhenUnconfigured(t *testing.T) {
	svc, _ := newTestService(t)
	resolved := svc.Resolve(context.Background(), "sinalite")
	require.Equal(t, pricing.MarkupModeFixed, resolved.MarkupMode)
	require.Zero(t, resolved.MarkupFixedCents)
	require.Equal(t, "usd", resolved.Currency)

	// Unconfigured settings price as pass-through even for program vendors.
	out := pricing.ComputeGlobalPricing(pricing.Input{
		Vendor: pricing.VendorSinaLite, BaseCostCents: 1000, Settings: resolved,
	})
	require.Equal(t, int64(1000), out.FinalPricePerUnitCents)
	require.Zero(t, out.MarkupAmountCents)
}

func TestPreviewUsesStoredAndOverrideSettings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "sinalite", settings.UpdateInput{
		MarkupMode: pricing.MarkupModeFixed, MarkupFixedCents: 300,
		ShareMode: pricing.ShareModeFixed, DonationFixedCents: 100,
	})
	require.NoError(t, err)

	out, err := svc.Preview(ctx, "sinalite", 1000, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1300), out.FinalPricePerUnitCents)
	require.Equal(t, int64(100), out.DonationPerUnitCents)

	out, err = svc.Preview(ctx, "sinalite", 1000, &settings.UpdateInput{
		MarkupMode: pricing.MarkupModePercent, MarkupPercent: 10,
		ShareMode: pricing.ShareModePercentOfMarkup, DonationPercentOfMarkup: 100,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1100), out.FinalPricePerUnitCents)
	require.Equal(t, int64(100), out.DonationPerUnitCents)
	require.Zero(t, out.GrossMarginPerUnitCents)
}
