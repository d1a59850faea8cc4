package quote_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/glaadoo/print-power-purpose/internal/quote"
)

func TestQuoteHandlerReturnsBreakdown(t *testing.T) {
	h := &quote.Handler{Svc: newService(sinaliteFixedSettings())}

	body := `{"items":[{"vendor":"sinalite","baseCostCents":1000,"quantity":2,"name":"Business Cards","category":"promo"}],"donationCents":500}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Quote(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data quote.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2600), resp.Data.SubtotalCents)
	require.Equal(t, int64(495), resp.Data.ShippingCents)
	require.Equal(t, int64(500), resp.Data.DonationCents)
	require.Equal(t, int64(3595), resp.Data.TotalCents)
	require.Equal(t, "usd", resp.Data.Currency)
}

func TestQuoteHandlerRejectsBadJSON(t *testing.T) {
	h := &quote.Handler{Svc: newService(sinaliteFixedSettings())}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Quote(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "BAD_REQUEST")
}

func TestQuoteHandlerValidationErrorEnvelope(t *testing.T) {
	h := &quote.Handler{Svc: newService(sinaliteFixedSettings())}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()
	h.Quote(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "VALIDATION", resp.Error.Code)
}

func TestShippingTiersHandler(t *testing.T) {
	h := &quote.Handler{Svc: &quote.Service{Validate: validator.New()}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipping/tiers", nil)
	rec := httptest.NewRecorder()
	h.ShippingTiers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []struct {
			Cents int64  `json:"cents"`
			Label string `json:"label"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	require.Equal(t, int64(1495), resp.Data[0].Cents)
}

func TestShippingQuoteHandler(t *testing.T) {
	h := &quote.Handler{}

	body := `{"items":[{"name":"Business Cards"},{"name":"Aluminum Sign"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shipping/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ShippingQuote(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"shippingCents":1495`)
	require.Contains(t, rec.Body.String(), "Oversized Shipping")
}
