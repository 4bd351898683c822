package api

import (
	"encoding/json"
	"log"
	"sync"
)

const (
	EventConversationUpdated = "conversation_updated"
	EventConversationDeleted = "conversation_deleted"
	EventMessage             = "message"
)

// Event is a single Server-Sent Event
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventBroadcaster fans conversation events out to SSE clients
type EventBroadcaster struct {
	mu      sync.RWMutex
	clients map[string]map[chan Event]struct{} // conversationID -> clients
}

// NewEventBroadcaster creates an empty broadcaster
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		clients: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a client for events on a conversation
func (b *EventBroadcaster) Subscribe(conversationID string) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 10)

	if b.clients[conversationID] == nil {
		b.clients[conversationID] = make(map[chan Event]struct{})
	}
	b.clients[conversationID][ch] = struct{}{}

	log.Printf("[SSE] Client subscribed conversation_id=%s total_clients=%d",
		conversationID, len(b.clients[conversationID]))

	return ch
}

// Unsubscribe removes a client and closes its channel
func (b *EventBroadcaster) Unsubscribe(conversationID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if clients, ok := b.clients[conversationID]; ok {
		if _, subscribed := clients[ch]; subscribed {
			delete(clients, ch)
			close(ch)
		}
		if len(clients) == 0 {
			delete(b.clients, conversationID)
		}
	}

	log.Printf("[SSE] Client unsubscribed conversation_id=%s", conversationID)
}

// Broadcast sends event to every client of a conversation.
// Clients whose buffer is full miss the event.
func (b *EventBroadcaster) Broadcast(conversationID string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	clients := b.clients[conversationID]
	if len(clients) == 0 {
		return
	}

	log.Printf("[SSE] Broadcasting event type=%s conversation_id=%s clients=%d",
		event.Type, conversationID, len(clients))

	for ch := range clients {
		select {
		case ch <- event:
		default:
			log.Printf("[SSE] Client channel full, skipping event")
		}
	}
}

// BroadcastMessage announces a new message
func (b *EventBroadcaster) BroadcastMessage(conversationID string, message any) {
	b.Broadcast(conversationID, Event{
		Type: EventMessage,
		Data: message,
	})
}

// BroadcastConversationUpdated announces the new normalized state of a conversation
func (b *EventBroadcaster) BroadcastConversationUpdated(conversationID string, conversation any) {
	b.Broadcast(conversationID, Event{
		Type: EventConversationUpdated,
		Data: conversation,
	})
}

// BroadcastConversationDeleted announces that a conversation is gone
func (b *EventBroadcaster) BroadcastConversationDeleted(conversationID string) {
	b.Broadcast(conversationID, Event{
		Type: EventConversationDeleted,
		Data: map[string]any{
			"id": conversationID,
		},
	})
}

// ClientCount returns the number of clients subscribed to a conversation
func (b *EventBroadcaster) ClientCount(conversationID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[conversationID])
}

// TotalClientCount returns the number of clients across all conversations
func (b *EventBroadcaster) TotalClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := 0
	for _, clients := range b.clients {
		total += len(clients)
	}
	return total
}

// FormatSSE encodes an event in the text/event-stream wire format
func FormatSSE(event Event) ([]byte, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return []byte("event: " + event.Type + "\ndata: " + string(data) + "\n\n"), nil
}
