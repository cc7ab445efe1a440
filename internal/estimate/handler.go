package estimate

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID int64, dto CreateEstimateDTO) (*Estimate, error)
	Get(ctx context.Context, userID, id int64) (*Estimate, error)
	List(ctx context.Context, userID, projectID int64) ([]*Estimate, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateEstimate(w http.ResponseWriter, r *http.Request) {
	var dto CreateEstimateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("CreateEstimate: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

// ListEstimates handles GET /estimates?project_id=.
func (h *Handler) ListEstimates(w http.ResponseWriter, r *http.Request) {
	projectID, _ := strconv.ParseInt(r.URL.Query().Get("project_id"), 10, 64)

	estimates, err := h.Service.List(r.Context(), internal.UserIDFromContext(r.Context()), projectID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, estimates)
}

func (h *Handler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid estimate ID")
		return
	}

	e, err := h.Service.Get(r.Context(), internal.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}
