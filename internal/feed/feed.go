// Package feed fans transaction change events out to connected clients.
//
// The hub is an in-process stand-in for the platform's realtime transport:
// the ledger publishes through the narrow ledger.Publisher interface, so a
// datastore-native change feed can replace this without touching the core.
// Delivery is best-effort and unordered; clients recompute balances from
// the API on every event rather than trusting event payloads to be current.
package feed

import (
	"sync"

	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/ledger"
)

const subscriberBuffer = 16

// Hub broadcasts ledger events to per-investment subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[*Subscription]struct{})}
}

// Subscription receives events for one investment until Close is called.
type Subscription struct {
	hub          *Hub
	investmentID uuid.UUID
	ch           chan ledger.Event
	once         sync.Once
}

// Events returns the channel events are delivered on. It is closed when the
// subscription is closed.
func (s *Subscription) Events() <-chan ledger.Event {
	return s.ch
}

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

// Subscribe registers interest in one investment's transactions.
func (h *Hub) Subscribe(investmentID uuid.UUID) *Subscription {
	sub := &Subscription{
		hub:          h,
		investmentID: investmentID,
		ch:           make(chan ledger.Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[investmentID] == nil {
		h.subs[investmentID] = make(map[*Subscription]struct{})
	}

	h.subs[investmentID][sub] = struct{}{}

	return sub
}

// Publish delivers the event to every subscriber of the owning investment.
// Subscribers that cannot keep up are skipped, never blocked on: the write
// path must not stall behind a slow client.
func (h *Hub) Publish(event ledger.Event) {
	if event.Transaction == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.Transaction.InvestmentID] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[sub.investmentID]

	delete(subs, sub)

	if len(subs) == 0 {
		delete(h.subs, sub.investmentID)
	}
}
