package donation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glaadoo/print-power-purpose/internal/common"
)

// Handler exposes the donation ledger over HTTP.
type Handler struct {
	Svc *Service
}

// Record handles POST /api/v1/donations. Submissions that normalize to zero
// are acknowledged with 202 and recorded=false.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var in RecordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	result, err := h.Svc.Record(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	status := http.StatusCreated
	if !result.Recorded {
		status = http.StatusAccepted
	}
	common.JSON(w, status, map[string]any{"data": result})
}

// Milestones handles GET /api/v1/donors/{donorID}/milestones.
func (h *Handler) Milestones(w http.ResponseWriter, r *http.Request) {
	donorID := chi.URLParam(r, "donorID")
	status, err := h.Svc.Milestones(r.Context(), donorID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": status})
}

// Ladder handles GET /api/v1/milestones, returning the tier table so clients
// can render the full ladder without hardcoding thresholds.
func (h *Handler) Ladder(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": Tiers()})
}

// List handles GET /api/v1/admin/donations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	items, pagination, err := h.Svc.List(r.Context(), page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if items == nil {
		items = []Donation{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": pagination,
	})
}
