package quote

import (
	"encoding/json"
	"net/http"

	"github.com/glaadoo/print-power-purpose/internal/common"
	"github.com/glaadoo/print-power-purpose/internal/shipping"
)

// Handler exposes public pricing and shipping endpoints.
type Handler struct {
	Svc *Service
}

// Quote handles POST /api/v1/pricing/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	result, err := h.Svc.Quote(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// ShippingTiers handles GET /api/v1/shipping/tiers, exposing the classifier
// table so storefront clients can render tier details without hardcoding them.
func (h *Handler) ShippingTiers(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": shipping.Rules()})
}

// ShippingQuoteRequest carries items for a standalone shipping estimate.
type ShippingQuoteRequest struct {
	Items []shipping.Item `json:"items"`
}

// ShippingQuote handles POST /api/v1/shipping/quote.
func (h *Handler) ShippingQuote(w http.ResponseWriter, r *http.Request) {
	var req ShippingQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	cents := shipping.OrderShipping(req.Items)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"shippingCents": cents,
		"label":         shipping.TierLabel(cents),
	}})
}
