package payment

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/transport"
)

type ServiceAPI interface {
	Generate(ctx context.Context, userID int64, dto GenerateBillDTO) (*Bill, error)
	Get(ctx context.Context, userID, id int64) (*Bill, error)
	ListByProject(ctx context.Context, userID, projectID int64) ([]*Bill, error)
	Receipt(ctx context.Context, userID, id int64) (*Receipt, error)
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

// GenerateBill handles POST /payment-bills/generate.
func (h *Handler) GenerateBill(w http.ResponseWriter, r *http.Request) {
	var dto GenerateBillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("GenerateBill: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bill, err := h.Service.Generate(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, bill)
}

func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid payment bill ID")
		return
	}

	receipt, err := h.Service.Receipt(r.Context(), internal.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, receipt)
}

// ListProjectBills handles GET /projects/{id}/payment-bills.
func (h *Handler) ListProjectBills(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	bills, err := h.Service.ListByProject(r.Context(), internal.UserIDFromContext(r.Context()), projectID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, bills)
}
