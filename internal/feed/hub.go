package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names a session lifecycle event on the operator feed.
type EventType string

const (
	EventSessionOpened    EventType = "session_opened"
	EventScamDetected     EventType = "scam_detected"
	EventAgentReply       EventType = "agent_reply"
	EventSessionClosed    EventType = "session_closed"
	EventReportDispatched EventType = "report_dispatched"
)

// Event is one entry on the live feed.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	At        time.Time      `json:"at"`
	Data      map[string]any `json:"data,omitempty"`
}

// Hub fans session events out to feed subscribers. Publish never blocks;
// events are dropped for subscribers whose buffers are full.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a buffered event channel. The caller must Unsubscribe
// when done; the hub never closes subscriber channels itself.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *Hub) Publish(eventType EventType, sessionID string, data map[string]any) {
	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		At:        time.Now().UTC(),
		Data:      data,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// Slow subscriber; drop rather than stall message processing.
		}
	}
}

// SubscriberCount reports the number of attached feed clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
