// Package servicetest holds the collaborators shared by the service package tests.
package servicetest

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/mock"
)

// Transactor runs fn inline and counts the calls.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

// EmailService records every message it is asked to send.
type EmailService struct {
	mock.Mock
}

// NewEmailService accepts any message.
func NewEmailService() *EmailService {
	m := new(EmailService)
	m.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendLeaveStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SendPayrollPaid", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *EmailService) SendVerification(to, name, verifyLink string) error {
	return m.Called(to, name, verifyLink).Error(0)
}

func (m *EmailService) SendPasswordReset(to, name, resetLink, expiresAt string) error {
	return m.Called(to, name, resetLink, expiresAt).Error(0)
}

func (m *EmailService) SendCredentials(to, name, employeeCode, temporaryPassword, loginURL string) error {
	return m.Called(to, name, employeeCode, temporaryPassword, loginURL).Error(0)
}

func (m *EmailService) SendLeaveStatus(to, name string, data email.LeaveStatusData) error {
	return m.Called(to, name, data).Error(0)
}

func (m *EmailService) SendPayrollPaid(to, name string, data email.PayrollPaidData) error {
	return m.Called(to, name, data).Error(0)
}

func (m *EmailService) Close() {}

// Publisher keeps published events in memory.
type Publisher struct {
	mu     sync.Mutex
	Events []events.Event
}

func (p *Publisher) Publish(eventType events.EventType, key string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, events.Event{Type: eventType, Key: key, Payload: payload})
}

func (p *Publisher) Close() {}

// Types returns the published event types in order.
func (p *Publisher) Types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.EventType, 0, len(p.Events))
	for _, e := range p.Events {
		types = append(types, e.Type)
	}
	return types
}

// As returns a context carrying a principal with role and, when set, an employee profile.
func As(role user.Role, employeeID string) context.Context {
	p := user.Principal{UserID: "user-" + string(role), Email: string(role) + "@example.com", Role: role}
	if employeeID != "" {
		p.EmployeeID = &employeeID
		p.UserID = "user-" + employeeID
	}
	return user.NewContext(context.Background(), p)
}
