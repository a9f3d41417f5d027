package investment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/http/auth"
	"github.com/perchlabs/fundledger/internal/investment"
	"github.com/perchlabs/fundledger/internal/ledger"
)

type Handler struct {
	svc    *investment.Service
	ledger *ledger.Service
}

func NewHandler(svc *investment.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{svc: svc, ledger: ledgerSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(auth.RequirePartner).Post("/", h.create)
	r.With(auth.RequirePartner).Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/balances", h.balances)
	r.Get("/{id}/analytics", h.analytics)
	r.With(auth.RequirePartner).Patch("/{id}/status", h.updateStatus)
}

type createInvestmentRequest struct {
	ApplicationID         uuid.UUID `json:"application_id"`
	CashPrincipalCents    int64     `json:"cash_principal_cents"`
	CreditsPrincipalCents int64     `json:"credits_principal_cents"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CashPrincipalCents < 0 || req.CreditsPrincipalCents < 0 {
		http.Error(w, "principals must not be negative", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Create(r.Context(), investment.CreateParams{
		ApplicationID:         req.ApplicationID,
		CashPrincipalCents:    req.CashPrincipalCents,
		CreditsPrincipalCents: req.CreditsPrincipalCents,
		ApprovedBy:            actor.ID,
	})
	if err != nil {
		slog.Error("failed to create investment", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invs, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("failed to list investments", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponseList(invs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, investment.ErrNotFound) {
			http.Error(w, "investment not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to get investment", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	balances, err := h.ledger.Balances(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "investment not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to compute balances", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toBalancesResponse(balances))
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	analytics, err := h.ledger.Analytics(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "investment not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to compute analytics", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toAnalyticsResponse(analytics))
}

type updateStatusRequest struct {
	Status investment.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, investment.ErrNotFound):
			http.Error(w, "investment not found", http.StatusNotFound)
		case errors.Is(err, investment.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("failed to update investment status", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
