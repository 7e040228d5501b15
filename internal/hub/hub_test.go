package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesSubscribers(t *testing.T) {
	h := NewHub()
	first := make(Client, 1)
	second := make(Client, 1)
	h.Subscribe(7, first)
	h.Subscribe(7, second)

	h.Broadcast(7, Event{Type: "notification", Payload: "hello"})

	for _, client := range []Client{first, second} {
		select {
		case raw := <-client:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, "notification", event.Type)
			assert.Equal(t, "hello", event.Payload)
		default:
			t.Fatal("expected a buffered event")
		}
	}
}

func TestBroadcastIsScopedToUser(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(7, client)

	h.Broadcast(8, Event{Type: "notification"})

	assert.Empty(t, client)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(7, client)
	h.Unsubscribe(7, client)

	_, open := <-client
	assert.False(t, open)

	// Broadcasting to a user with no streams is a no-op.
	h.Broadcast(7, Event{Type: "notification"})
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	h := NewHub()
	full := make(Client) // no buffer, nobody reading
	h.Subscribe(7, full)

	// Must not block.
	h.Broadcast(7, Event{Type: "notification"})
}
