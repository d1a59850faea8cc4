package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glaadoo/print-power-purpose/internal/common"
	"github.com/glaadoo/print-power-purpose/internal/events"
)

// AdminHandler exposes webhook endpoint management for operators.
type AdminHandler struct {
	Store Store
}

type endpointInput struct {
	URL    string   `json:"url"`
	Secret string   `json:"secret"`
	Topics []string `json:"topics"`
	Active *bool    `json:"active"`
}

func (in endpointInput) validate() error {
	if err := validateURL(in.URL); err != nil {
		return err
	}
	if strings.TrimSpace(in.Secret) == "" {
		return errors.New("secret is required")
	}
	if len(in.Topics) == 0 {
		return errors.New("at least one topic is required")
	}
	for _, topic := range in.Topics {
		if !events.KnownTopic(topic) {
			return errors.New("unknown topic: " + topic)
		}
	}
	return nil
}

// CreateEndpoint handles POST /api/v1/admin/webhooks.
func (h *AdminHandler) CreateEndpoint(w http.ResponseWriter, r *http.Request) {
	var in endpointInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := in.validate(); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	ep, err := h.Store.CreateEndpoint(r.Context(), Endpoint{
		URL:    in.URL,
		Secret: in.Secret,
		Topics: in.Topics,
		Active: active,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "create endpoint failed", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": ep})
}

// UpdateEndpoint handles PUT /api/v1/admin/webhooks/{endpointID}.
func (h *AdminHandler) UpdateEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "endpointID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid endpoint id", nil)
		return
	}
	var in endpointInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := in.validate(); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	ep, err := h.Store.UpdateEndpoint(r.Context(), Endpoint{
		ID:     id,
		URL:    in.URL,
		Secret: in.Secret,
		Topics: in.Topics,
		Active: active,
	})
	if err != nil {
		if errors.Is(err, ErrEndpointNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "update endpoint failed", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ep})
}

// ListEndpoints handles GET /api/v1/admin/webhooks.
func (h *AdminHandler) ListEndpoints(w http.ResponseWriter, r *http.Request) {
	endpoints, err := h.Store.ListEndpoints(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "list endpoints failed", nil)
		return
	}
	if endpoints == nil {
		endpoints = []Endpoint{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": endpoints})
}

// DeleteEndpoint handles DELETE /api/v1/admin/webhooks/{endpointID}.
func (h *AdminHandler) DeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "endpointID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid endpoint id", nil)
		return
	}
	if err := h.Store.DeleteEndpoint(r.Context(), id); err != nil {
		if errors.Is(err, ErrEndpointNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "delete endpoint failed", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"deleted": true}})
}

// ListDeliveries handles GET /api/v1/admin/webhooks/deliveries.
func (h *AdminHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	deliveries, total, err := h.Store.ListDeliveries(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "list deliveries failed", nil)
		return
	}
	if deliveries == nil {
		deliveries = []Delivery{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       deliveries,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}
