// Package hostd exposes a classmate workspace to editor hosts over HTTP and
// WebSocket: snapshot queries, name generation, completion candidates,
// change-event triggering, and broadcast of index invalidations.
package hostd

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is the message type broadcast through the hub.
type Event struct {
	Topic string          `json:"topic"`
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
}

// clientCommand represents a command sent from a connected editor.
type clientCommand struct {
	Type   string   `json:"type"`
	Topics []string `json:"topics,omitempty"`
}

// Client is one WebSocket connection with optional topic subscriptions.
type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	subscriptions map[string]bool // nil = receive all topics
	mu            sync.RWMutex
}

// Hub maintains connected clients and broadcasts index events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *log.Logger
}

// NewHub creates a hub. A nil logger falls back to the standard logger.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run drives the hub's main loop until ctx-less shutdown; callers run it in
// a goroutine for the lifetime of the server.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Printf("[ws] client connected (%d total)", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Printf("[ws] client disconnected (%d total)", h.ClientCount())

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Printf("[ws] marshal error: %v", err)
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.wantsTopic(event.Topic) {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to all subscribed clients.
func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}

// BroadcastRaw marshals data and broadcasts it under topic/eventType.
func (h *Hub) BroadcastRaw(topic, eventType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("[ws] broadcast marshal error: %v", err)
		return
	}
	h.Broadcast(Event{Topic: topic, Type: eventType, Data: raw})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the HTTP connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[ws] upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// wantsTopic reports whether the client subscribed to the given topic.
func (c *Client) wantsTopic(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.subscriptions == nil {
		return true // nil = receive all
	}
	return c.subscriptions[topic]
}

// readPump reads subscription commands until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Printf("[ws] read error: %v", err)
			}
			break
		}
		c.handleCommand(message)
	}
}

// writePump writes queued messages to the connection.
func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// handleCommand processes a subscribe/unsubscribe command.
func (c *Client) handleCommand(message []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		return
	}
	switch cmd.Type {
	case "subscribe":
		c.mu.Lock()
		if c.subscriptions == nil {
			c.subscriptions = make(map[string]bool)
		}
		for _, t := range cmd.Topics {
			c.subscriptions[t] = true
		}
		c.mu.Unlock()

	case "unsubscribe":
		c.mu.Lock()
		if c.subscriptions != nil {
			for _, t := range cmd.Topics {
				delete(c.subscriptions, t)
			}
		}
		c.mu.Unlock()
	}
}
