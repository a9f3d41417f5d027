package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/export"
)

// Handler serves downloadable CSV statements of approved transactions.
type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/statement", h.statement)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid investment id", http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("statement_%s_%s.csv",
		strings.SplitN(id.String(), "-", 2)[0], time.Now().UTC().Format("20060102"))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.svc.WriteStatement(r.Context(), id, w); err != nil {
		slog.Error("failed to write statement", "investment_id", id, "error", err)
	}
}
