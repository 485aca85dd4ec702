package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"croupier/models"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			select {
			case eventReceived <- balanceEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	testEvent := BalanceChangeEvent{
		AccountID:    123456,
		Currency:     models.CurrencyCredits,
		ChangeAmount: 500,
		EntryType:    models.EntryTypeWin,
	}

	// Publish to the transactional bus, then flush as a commit would
	transactionalBus.Publish(testEvent)

	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	wg.Wait()

	select {
	case receivedEvent := <-eventReceived:
		assert.Equal(t, testEvent.AccountID, receivedEvent.AccountID)
		assert.Equal(t, testEvent.Currency, receivedEvent.Currency)
		assert.Equal(t, testEvent.ChangeAmount, receivedEvent.ChangeAmount)
		assert.Equal(t, testEvent.EntryType, receivedEvent.EntryType)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery tests delivering multiple events in sequence
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventsReceived := make(chan BalanceChangeEvent, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			eventsReceived <- balanceEvent
		}
	})

	published := []BalanceChangeEvent{
		{AccountID: 1, Currency: models.CurrencyTokens, ChangeAmount: 100, EntryType: models.EntryTypeWin},
		{AccountID: 2, Currency: models.CurrencyCredits, ChangeAmount: 200, EntryType: models.EntryTypeWin},
		{AccountID: 3, Currency: models.CurrencyCredits, ChangeAmount: 300, EntryType: models.EntryTypeTipReceived},
	}

	for _, event := range published {
		transactionalBus.Publish(event)
	}

	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	wg.Wait()

	receivedEvents := make([]BalanceChangeEvent, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case event := <-eventsReceived:
			receivedEvents = append(receivedEvents, event)
		case <-time.After(2 * time.Second):
			t.Fatalf("Only received %d out of 3 events", len(receivedEvents))
		}
	}

	assert.Len(t, receivedEvents, 3)

	// Handlers run concurrently so order may vary
	accountIDs := make(map[int64]bool)
	for _, received := range receivedEvents {
		accountIDs[received.AccountID] = true
	}

	assert.True(t, accountIDs[1])
	assert.True(t, accountIDs[2])
	assert.True(t, accountIDs[3])
}

// TestTransactionalBusDiscard tests that discarded events are not delivered
func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan bool, 1)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		eventReceived <- true
	})

	transactionalBus.Publish(BalanceChangeEvent{
		AccountID:    123456,
		Currency:     models.CurrencyTokens,
		ChangeAmount: -500,
	})

	// Discard instead of flush, as a rollback would
	transactionalBus.Discard()

	select {
	case <-eventReceived:
		t.Fatal("Event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
		// Expected - no event should be received
	}
}
