package category

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/transport"
)

type ServiceAPI interface {
	ListCategories(ctx context.Context, userID int64) (*CategoriesResponse, error)
	ListAllCategories(ctx context.Context, userID int64) (*CategoriesResponse, error)
	Register(ctx context.Context, userID int64, dto RegisterCategoryDTO) (*Category, error)
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

// GetCategories handles GET /categories; ?all=true includes built-ins.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())

	var (
		resp *CategoriesResponse
		err  error
	)
	if r.URL.Query().Get("all") == "true" {
		resp, err = h.Service.ListAllCategories(r.Context(), userID)
	} else {
		resp, err = h.Service.ListCategories(r.Context(), userID)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto RegisterCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.Register(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, cat)
}
