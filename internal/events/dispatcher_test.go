package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	var received []Event
	dispatcher.Subscribe(EventComplaintCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})
	dispatcher.Subscribe(EventComplaintResolved, func(_ context.Context, _ Event) error {
		t.Fatal("resolved handler must not fire for a created event")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		ID:          "ev-1",
		Type:        EventComplaintCreated,
		ComplaintID: "c-1",
	})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "c-1", received[0].ComplaintID)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	calls := 0
	dispatcher.Subscribe(EventComplaintEscalated, func(_ context.Context, _ Event) error {
		calls++
		return errors.New("smtp unavailable")
	})
	dispatcher.Subscribe(EventComplaintEscalated, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventComplaintEscalated})
	require.NoError(t, err, "a failing handler never propagates to the publisher")
	assert.Equal(t, 2, calls, "later handlers still run after an earlier one fails")
}

func TestDispatcherPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())
	err := dispatcher.Publish(context.Background(), Event{Type: EventComplaintAssigned})
	assert.NoError(t, err)
}
