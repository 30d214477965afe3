// file: internal/realtime/events_test.go
// version: 1.0.0
// guid: 9a5d3e71-0c8f-4b26-a4d9-7e1b6f2c8a50

package realtime

import (
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-client-1")
	if client == nil {
		t.Fatal("NewClient returned nil")
	}
	if client.ID != "test-client-1" {
		t.Errorf("Expected ID 'test-client-1', got '%s'", client.ID)
	}
	if client.Channel == nil {
		t.Error("Client channel is nil")
	}
}

func TestClient_SubscribeUnsubscribe(t *testing.T) {
	client := NewClient("test-client-2")
	client.Subscribe("light")
	if !client.IsSubscribed("light") {
		t.Error("Client did not subscribe to light")
	}
	client.Unsubscribe("light")
	if client.IsSubscribed("light") {
		t.Error("Client is still subscribed to light")
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewEventHub()
	client := NewClient("test-client-3")
	hub.RegisterClient(client)
	if hub.GetClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.GetClientCount())
	}
	hub.UnregisterClient(client.ID)
	if hub.GetClientCount() != 0 {
		t.Errorf("client count = %d, want 0", hub.GetClientCount())
	}
	if _, open := <-client.Channel; open {
		t.Error("channel should be closed after unregister")
	}
}

func TestHub_BroadcastToAll(t *testing.T) {
	hub := NewEventHub()
	client := NewClient("test-client-4")
	hub.RegisterClient(client)
	defer hub.UnregisterClient(client.ID)

	hub.SendRegistryUpdated(12, "/tmp/entities.yaml")

	select {
	case event := <-client.Channel:
		if event.Type != EventRegistryUpdated {
			t.Errorf("event type = %s, want %s", event.Type, EventRegistryUpdated)
		}
		if event.Data["entities"] != 12 {
			t.Errorf("entities = %v, want 12", event.Data["entities"])
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestHub_DomainFiltering(t *testing.T) {
	hub := NewEventHub()
	lights := NewClient("lights-only")
	lights.Subscribe("light")
	everything := NewClient("everything")
	hub.RegisterClient(lights)
	hub.RegisterClient(everything)
	defer hub.UnregisterClient(lights.ID)
	defer hub.UnregisterClient(everything.ID)

	hub.Broadcast(&Event{Type: EventSearchExecuted, Domain: "sensor", Timestamp: time.Now()})

	select {
	case <-lights.Channel:
		t.Error("light-only client received a sensor event")
	default:
	}
	select {
	case <-everything.Channel:
	case <-time.After(time.Second):
		t.Fatal("unfiltered client missed the event")
	}
}

func TestHub_SendSearchExecuted(t *testing.T) {
	hub := NewEventHub()
	client := NewClient("test-client-5")
	hub.RegisterClient(client)
	defer hub.UnregisterClient(client.ID)

	hub.SendSearchExecuted("kitchen", 2, 150*time.Microsecond)

	select {
	case event := <-client.Channel:
		if event.Type != EventSearchExecuted {
			t.Errorf("event type = %s, want %s", event.Type, EventSearchExecuted)
		}
		if event.Data["query"] != "kitchen" {
			t.Errorf("query = %v, want kitchen", event.Data["query"])
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}
