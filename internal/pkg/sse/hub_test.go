package sse

import (
	"testing"

	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishRoutesByEmployee(t *testing.T) {
	hub := NewHub()
	mine, closeMine := hub.Subscribe("e-1")
	defer closeMine()
	other, closeOther := hub.Subscribe("e-2")
	defer closeOther()

	var publisher events.Publisher = events.Multi{events.NopPublisher{}, hub}
	publisher.Publish(events.LeaveReviewed, "l-1", map[string]interface{}{"employee_id": "e-1", "status": "approved"})
	publisher.Publish(events.AttendanceAbsentMarked, "2024-03-11", map[string]interface{}{"marked_absent": 3})

	require.Len(t, mine, 1)
	got := <-mine
	assert.Equal(t, events.LeaveReviewed, got.Type)
	assert.Empty(t, other)
}

func TestHub_FullStreamDropsEvents(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("e-1")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Send("e-1", Event{Type: events.PayrollPaid})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	_, first := hub.Subscribe("e-1")
	_, second := hub.Subscribe("e-1")
	assert.Equal(t, 2, hub.SubscriberCount("e-1"))

	first()
	first()
	assert.Equal(t, 1, hub.SubscriberCount("e-1"))
	second()
	assert.Zero(t, hub.TotalSubscribers())
}
