package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pressline/apiserver/internal/ws"
)

// WSHandler upgrades dashboard connections onto the push hub.
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewWSHandler constructs a handler with the provided dependencies.
// Origin checking is delegated to the CORS layer in front of the mux.
func NewWSHandler(hub *ws.Hub, log *slog.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve upgrades the request and hands the connection to the hub.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("push upgrade failed", slog.Any("error", err))
		return
	}
	ws.NewClient(h.hub, conn).Start()
}
