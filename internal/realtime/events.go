// file: internal/realtime/events.go
// version: 1.0.0
// guid: 4f0c8a62-3d9b-47e5-b1a0-6c2e8f5d7b39

package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// EventType defines the type of real-time event
type EventType string

const (
	EventRegistryUpdated EventType = "registry.updated"
	EventSearchExecuted  EventType = "search.executed"
	EventSystemStatus    EventType = "system.status"
)

// Event represents a real-time event to send to clients
type Event struct {
	Type      EventType      `json:"type"`
	Domain    string         `json:"domain,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID      string
	Channel chan *Event
	Domains map[string]bool // Entity domains this client is interested in
	mu      sync.RWMutex
}

// NewClient creates a new SSE client
func NewClient(id string) *Client {
	return &Client{
		ID:      id,
		Channel: make(chan *Event, 100),
		Domains: make(map[string]bool),
	}
}

// Subscribe subscribes the client to an entity domain
func (c *Client) Subscribe(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Domains[domain] = true
}

// Unsubscribe removes a domain subscription
func (c *Client) Unsubscribe(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Domains, domain)
}

// IsSubscribed checks if the client cares about a domain
func (c *Client) IsSubscribed(domain string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Domains[domain]
}

// EventHub manages SSE connections and event distribution
type EventHub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[string]*Client),
	}
}

// RegisterClient registers a new client
func (h *EventHub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("[INFO] SSE client %s registered, total clients: %d", client.ID, len(h.clients))
}

// UnregisterClient removes a client
func (h *EventHub) UnregisterClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.clients[clientID]; exists {
		close(client.Channel)
		delete(h.clients, clientID)
		log.Printf("[INFO] SSE client %s unregistered, remaining clients: %d", clientID, len(h.clients))
	}
}

// Broadcast sends an event to all interested clients. Events without a
// domain are system-wide; clients without subscriptions receive everything.
func (h *EventHub) Broadcast(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if event.Domain != "" && len(client.Domains) > 0 && !client.IsSubscribed(event.Domain) {
			continue
		}
		select {
		case client.Channel <- event:
		default:
			log.Printf("[WARN] SSE client %s channel full, dropping event", client.ID)
		}
	}
}

// SendRegistryUpdated announces a registry reload
func (h *EventHub) SendRegistryUpdated(entities int, path string) {
	h.Broadcast(&Event{
		Type:      EventRegistryUpdated,
		Timestamp: time.Now(),
		Data: map[string]any{
			"entities": entities,
			"path":     path,
		},
	})
}

// SendSearchExecuted announces a completed search pass
func (h *EventHub) SendSearchExecuted(query string, results int, took time.Duration) {
	h.Broadcast(&Event{
		Type:      EventSearchExecuted,
		Timestamp: time.Now(),
		Data: map[string]any{
			"query":       query,
			"results":     results,
			"took_micros": took.Microseconds(),
		},
	})
}

// SendSystemStatus sends a system status event
func (h *EventHub) SendSystemStatus(data map[string]any) {
	h.Broadcast(&Event{
		Type:      EventSystemStatus,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// GetClientCount returns the number of connected clients
func (h *EventHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleSSE handles a Server-Sent Events connection
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("X-Accel-Buffering", "no")

	client := NewClient("client-" + ulid.Make().String())
	if domain := c.Query("domain"); domain != "" {
		client.Subscribe(domain)
	}

	h.RegisterClient(client)
	defer h.UnregisterClient(client.ID)

	initial := &Event{
		Type:      "connection.established",
		Timestamp: time.Now(),
		Data:      map[string]any{"client_id": client.ID},
	}
	if data, err := json.Marshal(initial); err == nil {
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		c.Writer.Flush()
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-client.Channel:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("[WARN] Error marshaling event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
				return
			}
			c.Writer.Flush()
		case <-ticker.C:
			heartbeat := map[string]any{"type": "heartbeat", "timestamp": time.Now()}
			if data, err := json.Marshal(heartbeat); err == nil {
				fmt.Fprintf(c.Writer, "data: %s\n\n", data)
				c.Writer.Flush()
			}
		}
	}
}
