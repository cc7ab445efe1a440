package export

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	"github.com/frahmantamala/interior-ledger/internal/transport"
)

type BalanceSheetSource interface {
	ProjectBalanceSheet(ctx context.Context, userID, projectID int64) (*ledger.BalanceSheet, error)
}

type Handler struct {
	*transport.BaseHandler
	Source BalanceSheetSource
}

func NewHandler(baseHandler *transport.BaseHandler, source BalanceSheetSource) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Source:      source,
	}
}

// ExportBalanceSheet handles GET /projects/{id}/export?categories=Tiles,Paint.
func (h *Handler) ExportBalanceSheet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	sheet, err := h.Source.ProjectBalanceSheet(r.Context(), internal.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	sheet = sheet.OnlyCategories(SplitCategories(r.URL.Query().Get("categories")))

	f, err := BuildWorkbook(sheet)
	if err != nil {
		h.HandleServiceError(w, internal.NewInternalError("failed to build workbook", err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", FileName(sheet)))
	if err := f.Write(w); err != nil {
		h.Logger.Error("failed to write workbook", "error", err, "project_id", id)
	}
}

// SplitCategories parses a comma separated list, dropping blanks.
func SplitCategories(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func FileName(sheet *ledger.BalanceSheet) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, sheet.Project.Name)
	if name == "" {
		name = fmt.Sprintf("project_%d", sheet.Project.ID)
	}
	return fmt.Sprintf("%s_balance_sheet_%s.xlsx", name, sheet.GeneratedAt.Format("20060102"))
}
