package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Notification types pushed to the console UI
const (
	NotificationTypeConnected      = "connected"
	NotificationTypeSessionExpired = "session_expired"
	NotificationTypeSubmitted      = "spot_request_submitted"
	NotificationTypeApproved       = "request_approved"
	NotificationTypeDeclined       = "request_declined"
)

var notificationMessages = map[string]string{
	NotificationTypeConnected:      "WebSocket connection established",
	NotificationTypeSessionExpired: "Session expired. Please log in again.",
	NotificationTypeSubmitted:      "Your spot request was submitted for review",
	NotificationTypeApproved:       "Your spot request was approved",
	NotificationTypeDeclined:       "Your spot request was declined",
}

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewNotification fills in the standard message for a known type.
func NewNotification(event string, data interface{}) Notification {
	return Notification{Type: event, Message: notificationMessages[event], Data: data}
}

// Client represents a connected WebSocket client
type Client struct {
	ID   string
	Conn *websocket.Conn
	send chan Notification
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		send: make(chan Notification, 16),
	}
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *logrus.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's event loop. It closes every client when ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.WithField("client", client.ID).Debug("websocket client connected")
		case client := <-h.unregister:
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.send)
		h.logger.WithField("client", client.ID).Debug("websocket client disconnected")
	}
}

// Publish broadcasts event to every connected client. Clients whose buffer
// is full miss the message rather than stall the caller.
func (h *Hub) Publish(event string, payload interface{}) {
	notification := NewNotification(event, payload)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.send <- notification:
		default:
			h.logger.WithFields(logrus.Fields{
				"client": client.ID,
				"event":  event,
			}).Warn("websocket client too slow, notification dropped")
		}
	}
}

// Clients returns how many clients are connected.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
