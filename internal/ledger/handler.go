package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/transport"
)

type ServiceAPI interface {
	TransferIncome(ctx context.Context, userID int64, dto TransferDTO) (*TransferResult, error)
	VerifyTransferPairs(ctx context.Context, userID int64) ([]UnpairedTransfer, error)
	DistributeSharedExpense(ctx context.Context, userID int64, dto SharedExpenseDTO) (*SharedExpenseResult, error)
	SharedExpenseGroups(ctx context.Context, userID int64) ([]*SharedExpenseGroup, error)
	Summary(ctx context.Context, userID, projectID int64) (*Summary, error)
	RemainingBudget(ctx context.Context, userID, projectID int64) (float64, error)
	MonthlyBreakdown(ctx context.Context, userID, projectID int64, year int) ([]MonthlyRow, error)
	YearlyBreakdown(ctx context.Context, userID int64) ([]YearlyRow, error)
	CategoryBreakdown(ctx context.Context, userID, projectID int64, entryType string) ([]CategoryTotal, error)
	UserTotals(ctx context.Context, userID int64) (*UserTotals, error)
	ProjectBalanceSheet(ctx context.Context, userID, projectID int64) (*BalanceSheet, error)
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

// TransferIncome handles POST /ledger/transfers.
func (h *Handler) TransferIncome(w http.ResponseWriter, r *http.Request) {
	var dto TransferDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.TransferIncome(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) UnpairedTransfers(w http.ResponseWriter, r *http.Request) {
	unpaired, err := h.Service.VerifyTransferPairs(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"balanced": len(unpaired) == 0,
		"unpaired": unpaired,
	})
}

// DistributeSharedExpense handles POST /ledger/shared-expenses.
func (h *Handler) DistributeSharedExpense(w http.ResponseWriter, r *http.Request) {
	var dto SharedExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.DistributeSharedExpense(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) SharedExpenses(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.SharedExpenseGroups(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, groups)
}

func (h *Handler) ProjectSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	summary, err := h.Service.Summary(r.Context(), internal.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) RemainingBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	remaining, err := h.Service.RemainingBudget(r.Context(), internal.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]float64{"remaining_budget": remaining})
}

// MonthlyBreakdown handles GET /projects/{id}/monthly?year=.
func (h *Handler) MonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}

	rows, err := h.Service.MonthlyBreakdown(r.Context(), internal.UserIDFromContext(r.Context()), id, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	rows, err := h.Service.CategoryBreakdown(r.Context(), internal.UserIDFromContext(r.Context()), id, r.URL.Query().Get("type"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	sheet, err := h.Service.ProjectBalanceSheet(r.Context(), internal.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sheet)
}

func (h *Handler) YearlyBreakdown(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.YearlyBreakdown(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) UserTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.UserTotals(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, totals)
}
