// Package sse fans domain events out to the employees they concern over
// server-sent event streams.
package sse

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
)

// subscriberBuffer is how many undelivered events a slow stream may hold.
const subscriberBuffer = 10

// Event is one message on an employee's stream.
type Event struct {
	Type       events.EventType `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Data       interface{}      `json:"data"`
}

// Hub manages the open streams, keyed by employee id.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	now         func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		now:         time.Now,
	}
}

// Subscribe opens a stream for employeeID. The returned cleanup closes the channel.
func (h *Hub) Subscribe(employeeID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.subscribers[employeeID] == nil {
		h.subscribers[employeeID] = make(map[chan Event]struct{})
	}
	h.subscribers[employeeID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[employeeID], ch)
			close(ch)
			if len(h.subscribers[employeeID]) == 0 {
				delete(h.subscribers, employeeID)
			}
		})
	}
	return ch, cleanup
}

// Send delivers event to every stream of employeeID. Full streams drop the event.
func (h *Hub) Send(employeeID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[employeeID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Publish implements events.Publisher. Events whose payload names an
// employee_id go to that employee; the rest are not streamed.
func (h *Hub) Publish(eventType events.EventType, _ string, payload interface{}) {
	fields, ok := payload.(map[string]interface{})
	if !ok {
		return
	}
	employeeID, _ := fields["employee_id"].(string)
	if employeeID == "" {
		return
	}
	h.Send(employeeID, Event{Type: eventType, OccurredAt: h.now(), Data: payload})
}

// Close implements events.Publisher. Open streams end when their requests do.
func (h *Hub) Close() {}

func (h *Hub) SubscriberCount(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[employeeID])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
