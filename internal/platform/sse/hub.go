package sse

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ridloal/blood-portal/internal/platform/logger"
)

const clientBuffer = 64

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// NewJSONEvent marshals payload into an Event.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{EventType: eventType, Data: string(data)}, nil
}

// Client represents a connected browser tab listening on one topic.
type Client struct {
	ID     string
	Topic  string
	Events chan Event
}

func NewClient(topic string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Topic:  topic,
		Events: make(chan Event, clientBuffer),
	}
}

// Hub manages all SSE client connections, grouped by topic.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client // topic -> client id -> client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.Topic] == nil {
		h.clients[client.Topic] = make(map[string]*Client)
	}
	h.clients[client.Topic][client.ID] = client
}

// Unregister removes the client and closes its channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	if _, ok := subs[client.ID]; !ok {
		return
	}
	close(client.Events)
	delete(subs, client.ID)
	if len(subs) == 0 {
		delete(h.clients, client.Topic)
	}
}

// Publish sends an event to every client of topic without blocking.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[topic] {
		select {
		case client.Events <- event:
		default:
			logger.Warn("SSE: client %s buffer full, skipping %s event", client.ID, event.EventType)
		}
	}
}

func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// Stream writes events for client until the request goes away. The caller
// registers the client; Stream unregisters it.
func (h *Hub) Stream(c *gin.Context, client *Client, heartbeat time.Duration) {
	defer h.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteString(fmt.Sprintf("event: connected\ndata: {\"client_id\":\"%s\"}\n\n", client.ID))
	c.Writer.Flush()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			c.Writer.WriteString(fmt.Sprintf("event: %s\ndata: %s\n\n", event.EventType, event.Data))
			c.Writer.Flush()
		case <-ticker.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
