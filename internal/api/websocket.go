package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/logging"
)

// WebSocket message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeError       = "error"

	// wsSendBufferSize is the per-client outbound buffer; a client
	// that cannot drain it loses events, not the connection.
	wsSendBufferSize = 256

	wsWriteTimeout = 10 * time.Second
)

// WSMessage is the envelope for every WebSocket frame.
type WSMessage struct {
	Type      string `json:"type"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// wsSubscribePayload carries channel lists for subscribe/unsubscribe.
type wsSubscribePayload struct {
	Channels []string `json:"channels"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is a loopback developer tool; origin enforcement would
	// only break local dashboards.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Hub tracks connected WebSocket clients and fans events out to them.
type Hub struct {
	logger  *logging.Logger
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// wsClient is one connected WebSocket session.
type wsClient struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	mu            sync.RWMutex
	subscriptions map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// Bridge forwards bus events into the hub until the context ends.
func (h *Hub) Bridge(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(evt)
		}
	}
}

// broadcast delivers one event to every client subscribed to its
// type. Clients with full buffers miss the event.
func (h *Hub) broadcast(evt events.Event) {
	msg := WSMessage{
		Type:      WSTypeEvent,
		EventType: evt.Type,
		Timestamp: evt.Timestamp.Format(time.RFC3339Nano),
		Payload:   evt.Payload,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("marshalling websocket event", "type", evt.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.subscribed(evt.Type) {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client, e.g. on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", h.ClientCount())
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// handleWebSocket upgrades the connection and starts the client
// pumps. Clients start subscribed to everything; subscribe messages
// narrow the set.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.deps.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		hub:           s.hub,
		conn:          conn,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{"*": {}},
	}
	s.hub.register(client)

	go client.writePump()
	go client.readPump()
}

func (c *wsClient) subscribed(eventType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, all := c.subscriptions["*"]; all {
		return true
	}
	_, ok := c.subscriptions[eventType]
	return ok
}

func (c *wsClient) subscribe(channels []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, "*")
	for _, ch := range channels {
		c.subscriptions[ch] = struct{}{}
	}
}

func (c *wsClient) unsubscribe(channels []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range channels {
		delete(c.subscriptions, ch)
	}
}

// readPump consumes client messages (subscribe, ping) until the
// connection drops.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendMessage(WSMessage{Type: WSTypeError, Payload: "invalid message"})
			continue
		}

		switch msg.Type {
		case WSTypePing:
			c.sendMessage(WSMessage{Type: WSTypePong})
		case WSTypeSubscribe, WSTypeUnsubscribe:
			var payload wsSubscribePayload
			raw, _ := json.Marshal(msg.Payload)
			if err := json.Unmarshal(raw, &payload); err != nil {
				c.sendMessage(WSMessage{Type: WSTypeError, Payload: "invalid subscribe payload"})
				continue
			}
			if msg.Type == WSTypeSubscribe {
				c.subscribe(payload.Channels)
			} else {
				c.unsubscribe(payload.Channels)
			}
		}
	}
}

// writePump drains the send buffer onto the wire.
func (c *wsClient) writePump() {
	defer c.conn.Close()

	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *wsClient) sendMessage(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
