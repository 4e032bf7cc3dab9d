package ws

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(hub *Hub) *Client {
	client := NewClient(hub, nil)
	hub.Register(client)
	return client
}

func TestSubscribeReplacesExistingChannel(t *testing.T) {
	hub := newTestHub()

	first := newTestClient(hub)
	hub.Subscribe("7", first)

	second := newTestClient(hub)
	hub.Subscribe("7", second)

	assert.Equal(t, 1, hub.ClientCount())
	assert.True(t, hub.SubscriberFor("7"))

	// The stale channel is closed so its write pump shuts down.
	_, open := <-first.send
	assert.False(t, open)

	count := 3
	hub.NotifyItemsPressed("7", count)
	msg := <-second.send
	assert.Equal(t, MessageTypeItemsPressed, msg.Type)
	if assert.NotNil(t, msg.Count) {
		assert.Equal(t, count, *msg.Count)
	}
}

func TestUnregisterStaleClientKeepsReplacement(t *testing.T) {
	hub := newTestHub()

	first := newTestClient(hub)
	hub.Subscribe("7", first)

	second := newTestClient(hub)
	hub.Subscribe("7", second)

	// The stale connection's read pump eventually unregisters it; the
	// replacement's subscription must survive that.
	hub.Unregister(first)

	assert.True(t, hub.SubscriberFor("7"))
	assert.Equal(t, 1, hub.ClientCount())
}

func TestUnregisterRemovesSubscription(t *testing.T) {
	hub := newTestHub()

	client := newTestClient(hub)
	hub.Subscribe("7", client)
	hub.Unregister(client)

	assert.False(t, hub.SubscriberFor("7"))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestNotifyItemsPressedUnknownUserIsNoOp(t *testing.T) {
	hub := newTestHub()

	client := newTestClient(hub)
	hub.Subscribe("7", client)

	hub.NotifyItemsPressed("999", 5)

	select {
	case msg := <-client.send:
		t.Fatalf("unexpected message %+v", msg)
	default:
	}
}

func TestBroadcastRefreshUsersReachesAllClients(t *testing.T) {
	hub := newTestHub()

	subscribed := newTestClient(hub)
	hub.Subscribe("7", subscribed)
	listener := newTestClient(hub)

	hub.BroadcastRefreshUsers()

	for _, client := range []*Client{subscribed, listener} {
		msg := <-client.send
		assert.Equal(t, MessageTypeRefreshUsers, msg.Type)
	}
}

func TestFullSendBufferDropsClient(t *testing.T) {
	hub := newTestHub()

	client := newTestClient(hub)
	hub.Subscribe("7", client)

	// Fill the buffer without a reader on the other end.
	for i := 0; i < cap(client.send); i++ {
		hub.NotifyItemsPressed("7", i)
	}
	hub.NotifyItemsPressed("7", 999)

	assert.Equal(t, 0, hub.ClientCount())
	assert.False(t, hub.SubscriberFor("7"))
}
