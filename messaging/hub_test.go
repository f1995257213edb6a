package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tournaments/models"
)

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- client
	assert.Eventually(t, func() bool { return hub.clientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Unregister <- client
	assert.Eventually(t, func() bool { return hub.clientCount() == 0 },
		time.Second, 10*time.Millisecond)

	// Канал клиента закрыт хабом
	_, open := <-client.Send
	assert.False(t, open)
}

func TestBroadcastEventDeliversToClients(t *testing.T) {
	hub := NewHub()
	client := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.clients[client] = true

	event := models.OutboxEvent{
		ID:        "e1",
		SubjectID: "trn-1",
		Topic:     "tournament.created",
		CreatedAt: time.Now(),
	}
	hub.BroadcastEvent(event)

	select {
	case raw := <-client.Send:
		var got models.OutboxEvent
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "trn-1", got.SubjectID)
		assert.Equal(t, "tournament.created", got.Topic)
	default:
		t.Fatal("expected a broadcast message")
	}
}

func TestBroadcastEventSkipsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{Hub: hub, Send: make(chan []byte)} // небуферизованный, никто не читает
	hub.clients[slow] = true

	done := make(chan struct{})
	go func() {
		hub.BroadcastEvent(models.OutboxEvent{ID: "e1", SubjectID: "trn-1", Topic: "tournament.created"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast must not block on a slow client")
	}
}

func TestBroadcastEventNoClients(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.BroadcastEvent(models.OutboxEvent{ID: "e1", SubjectID: "trn-1", Topic: "tournament.created"})
	})
}
