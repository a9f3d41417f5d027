package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/feed"
	"github.com/perchlabs/fundledger/internal/ledger"
)

const heartbeatInterval = 30 * time.Second

type Handler struct {
	hub *feed.Hub
}

func NewHandler(hub *feed.Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/feed", h.stream)
}

type eventPayload struct {
	EventType   ledger.EventType   `json:"event_type"`
	Transaction transactionPayload `json:"transaction"`
}

// stream delivers transaction change events for one investment as
// server-sent events. Clients treat each event as a signal to refetch
// balances; payload transactions may already be stale by arrival.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe(id)
	defer sub.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case event, open := <-sub.Events():
			if !open {
				return
			}

			if err := writeEvent(w, event); err != nil {
				slog.Error("failed to write feed event", "error", err)
				return
			}

			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event ledger.Event) error {
	data, err := json.Marshal(eventPayload{
		EventType:   event.Type,
		Transaction: toTransactionPayload(event.Transaction),
	})
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: transaction\ndata: %s\n\n", data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	return nil
}

type transactionPayload struct {
	ID           uuid.UUID     `json:"id"`
	InvestmentID uuid.UUID     `json:"investment_id"`
	Type         ledger.Type   `json:"type"`
	AmountCents  int64         `json:"amount_cents"`
	Status       ledger.Status `json:"status"`
}

func toTransactionPayload(tx *ledger.Transaction) transactionPayload {
	return transactionPayload{
		ID:           tx.ID,
		InvestmentID: tx.InvestmentID,
		Type:         tx.Type,
		AmountCents:  tx.AmountCents,
		Status:       tx.Status,
	}
}
