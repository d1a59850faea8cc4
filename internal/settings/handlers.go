package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glaadoo/print-power-purpose/internal/common"
)

// Handler exposes admin endpoints for vendor pricing settings.
type Handler struct {
	Svc *Service
}

// Get handles GET /api/v1/admin/pricing/settings/{vendor}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings service not configured", nil)
		return
	}
	vendor := chi.URLParam(r, "vendor")
	stored, err := h.Svc.Get(r.Context(), vendor)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": stored})
}

// Put handles PUT /api/v1/admin/pricing/settings/{vendor}.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings service not configured", nil)
		return
	}
	vendor := chi.URLParam(r, "vendor")
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	stored, err := h.Svc.Update(r.Context(), vendor, in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": stored})
}

// PreviewRequest is the payload for pricing previews.
type PreviewRequest struct {
	Vendor        string       `json:"vendor"`
	BaseCostCents int64        `json:"baseCostCents"`
	Settings      *UpdateInput `json:"settings,omitempty"`
}

// Preview handles POST /api/v1/admin/pricing/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings service not configured", nil)
		return
	}
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	out, err := h.Svc.Preview(r.Context(), req.Vendor, req.BaseCostCents, req.Settings)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}
