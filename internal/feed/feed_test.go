package feed_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchlabs/fundledger/internal/feed"
	"github.com/perchlabs/fundledger/internal/ledger"
)

func event(investmentID uuid.UUID, eventType ledger.EventType) ledger.Event {
	return ledger.Event{
		Type: eventType,
		Transaction: &ledger.Transaction{
			ID:           uuid.New(),
			InvestmentID: investmentID,
			Type:         ledger.TypeCashDisbursement,
			AmountCents:  100_00,
			Status:       ledger.StatusPending,
		},
	}
}

func TestHub_DeliversToSubscribers(t *testing.T) {
	hub := feed.NewHub()
	investmentID := uuid.New()

	sub := hub.Subscribe(investmentID)
	defer sub.Close()

	hub.Publish(event(investmentID, ledger.EventInsert))

	select {
	case got := <-sub.Events():
		assert.Equal(t, ledger.EventInsert, got.Type)
		assert.Equal(t, investmentID, got.Transaction.InvestmentID)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestHub_ScopesByInvestment(t *testing.T) {
	hub := feed.NewHub()

	mine := hub.Subscribe(uuid.New())
	defer mine.Close()

	hub.Publish(event(uuid.New(), ledger.EventUpdate))

	select {
	case got := <-mine.Events():
		t.Fatalf("unexpected event for another investment: %+v", got)
	default:
	}
}

func TestHub_ClosedSubscriptionStopsReceiving(t *testing.T) {
	hub := feed.NewHub()
	investmentID := uuid.New()

	sub := hub.Subscribe(investmentID)
	sub.Close()

	// Publishing after close must not panic or deliver.
	hub.Publish(event(investmentID, ledger.EventInsert))

	_, open := <-sub.Events()
	assert.False(t, open)

	// Double close is a no-op.
	sub.Close()
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := feed.NewHub()
	investmentID := uuid.New()

	sub := hub.Subscribe(investmentID)
	defer sub.Close()

	// Overrun the buffer without draining; Publish must never block.
	done := make(chan struct{})

	go func() {
		for range 100 {
			hub.Publish(event(investmentID, ledger.EventInsert))
		}

		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHub_MultipleSubscribers(t *testing.T) {
	hub := feed.NewHub()
	investmentID := uuid.New()

	founder := hub.Subscribe(investmentID)
	defer founder.Close()

	partner := hub.Subscribe(investmentID)
	defer partner.Close()

	hub.Publish(event(investmentID, ledger.EventUpdate))

	for _, sub := range []*feed.Subscription{founder, partner} {
		select {
		case got := <-sub.Events():
			require.Equal(t, ledger.EventUpdate, got.Type)
		case <-time.After(time.Second):
			t.Fatal("expected both sides to receive the event")
		}
	}
}
