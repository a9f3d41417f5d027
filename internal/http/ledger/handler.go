package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/http/auth"
	"github.com/perchlabs/fundledger/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.With(auth.RequirePartner).Post("/{id}/decision", h.decide)
	r.Post("/{id}/cancel", h.cancel)
}

type createTransactionRequest struct {
	InvestmentID        uuid.UUID                   `json:"investment_id"`
	Type                ledger.Type                 `json:"type"`
	CreditCategory      *ledger.CreditCategory      `json:"credit_category,omitempty"`
	CashExpenseCategory *ledger.CashExpenseCategory `json:"cash_expense_category,omitempty"`
	AmountCents         int64                       `json:"amount_cents"`
	Title               string                      `json:"title"`
	Description         string                      `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), ledger.CreateParams{
		InvestmentID:        req.InvestmentID,
		Type:                req.Type,
		CreditCategory:      req.CreditCategory,
		CashExpenseCategory: req.CashExpenseCategory,
		AmountCents:         req.AmountCents,
		Title:               req.Title,
		Description:         req.Description,
		RequestedBy:         actor.ID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	investmentID, err := uuid.Parse(r.URL.Query().Get("investment_id"))
	if err != nil {
		http.Error(w, "invalid investment_id", http.StatusBadRequest)
		return
	}

	filter := ledger.ListFilter{InvestmentID: investmentID}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(ledger.Status(s))
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = new(ledger.Type(s))
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

type decisionRequest struct {
	Action ledger.DecisionAction `json:"action"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Decide(r.Context(), id, req.Action, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Cancel(r.Context(), id, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`

	// Populated for insufficient-balance failures so clients can render
	// the exact remaining amount.
	Pool           string `json:"pool,omitempty"`
	RemainingCents *int64 `json:"remaining_cents,omitempty"`
	RequestedCents *int64 `json:"requested_cents,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var validationErr *ledger.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Field: validationErr.Field})
		return
	}

	var balanceErr *ledger.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:          balanceErr.Error(),
			Pool:           string(balanceErr.Pool),
			RemainingCents: &balanceErr.RemainingCents,
			RequestedCents: &balanceErr.RequestedCents,
		})

		return
	}

	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "transaction or investment not found"})
	case errors.Is(err, ledger.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	default:
		slog.Error("ledger request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
