// Package events publishes domain events to Kafka.
package events

import "time"

type EventType string

const (
	EmployeeOnboarded      EventType = "employee.onboarded"
	EmployeeDeactivated    EventType = "employee.deactivated"
	LeaveApplied           EventType = "leave.applied"
	LeaveReviewed          EventType = "leave.reviewed"
	PayrollCreated         EventType = "payroll.created"
	PayrollPaid            EventType = "payroll.paid"
	AttendanceAbsentMarked EventType = "attendance.absent_marked"
)

type Event struct {
	Type       EventType   `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher is fire-and-forget: Publish never blocks and never fails the caller.
type Publisher interface {
	Publish(eventType EventType, key string, payload interface{})
	Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(EventType, string, interface{}) {}
func (NopPublisher) Close() {}

// Multi publishes every event to each of its publishers in order.
type Multi []Publisher

func (m Multi) Publish(eventType EventType, key string, payload interface{}) {
	for _, p := range m {
		p.Publish(eventType, key, payload)
	}
}

func (m Multi) Close() {
	for _, p := range m {
		p.Close()
	}
}
