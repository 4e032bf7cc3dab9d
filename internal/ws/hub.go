// Package ws implements the dashboard push channel: a hub holding at
// most one active connection per subscribed user, plus best-effort
// broadcasts to every connected dashboard.
package ws

import (
	"log/slog"
	"sync"
)

// Message types exchanged over the push channel.
const (
	MessageTypeSubscribe    = "subscribe"
	MessageTypeClockInOut   = "clockInOut"
	MessageTypeItemsPressed = "itemsPressed"
	MessageTypeRefreshUsers = "refreshUsers"
)

// Message is a text-framed JSON push frame. Count is a pointer so that
// frames without a count omit the field entirely.
type Message struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
	Count  *int   `json:"count,omitempty"`
}

// Hub tracks every open dashboard connection and the single active
// subscription per user id. Delivery is best-effort: no queuing and no
// error surfaces to the request that triggered a broadcast.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*Client]bool
	users   map[string]*Client
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*Client]bool),
		users:   make(map[string]*Client),
	}
}

// Register adds a freshly upgraded connection to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Info("push client connected", slog.Int("total_clients", total))
}

// Unregister removes a closing connection. The user mapping is cleared
// only if it still points at this client, so a replacement that arrived
// in the meantime is left untouched.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	if client.userID != "" && h.users[client.userID] == client {
		delete(h.users, client.userID)
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Info("push client disconnected", slog.Int("total_clients", total))
}

// Subscribe binds the client to a user id, replacing and closing any
// previously registered connection for that user. This keeps a stale
// browser tab from receiving updates meant for the newest one.
func (h *Hub) Subscribe(userID string, client *Client) {
	h.mu.Lock()
	old := h.users[userID]
	if old != nil && old != client {
		if _, ok := h.clients[old]; ok {
			delete(h.clients, old)
			close(old.send)
		}
	}
	h.users[userID] = client
	client.userID = userID
	h.mu.Unlock()

	if old != nil && old != client {
		h.log.Info("replaced push subscription", slog.String("user_id", userID))
	} else {
		h.log.Info("push subscription registered", slog.String("user_id", userID))
	}
}

// NotifyItemsPressed sends the updated daily item count to the one
// channel registered for the user; silently a no-op when none is.
func (h *Hub) NotifyItemsPressed(userID string, count int) {
	msg := Message{Type: MessageTypeItemsPressed, Count: &count}

	h.mu.Lock()
	client := h.users[userID]
	if client != nil {
		h.trySend(client, msg)
	}
	h.mu.Unlock()
}

// BroadcastRefreshUsers tells every connected dashboard, subscribed or
// not, to re-pull the roster snapshot.
func (h *Hub) BroadcastRefreshUsers() {
	msg := Message{Type: MessageTypeRefreshUsers}

	h.mu.Lock()
	for client := range h.clients {
		h.trySend(client, msg)
	}
	h.mu.Unlock()
}

// CloseAll drops every connection, used at shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.users = make(map[string]*Client)
	h.mu.Unlock()
	h.log.Info("closed all push clients")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SubscriberFor reports whether a channel is registered for the user.
func (h *Hub) SubscriberFor(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.users[userID] != nil
}

// trySend must be called with the hub lock held. A client whose send
// buffer is full is dropped rather than blocking the caller.
func (h *Hub) trySend(client *Client, msg Message) {
	select {
	case client.send <- msg:
	default:
		delete(h.clients, client)
		if client.userID != "" && h.users[client.userID] == client {
			delete(h.users, client.userID)
		}
		close(client.send)
		h.log.Warn("push client send buffer full, dropping connection")
	}
}
