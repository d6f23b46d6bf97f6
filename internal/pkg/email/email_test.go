package email

import (
	"bytes"
	"errors"
	"io"
	"mime/quotedprintable"
	"strings"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/cmlabs-hris/hrms-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	mu       sync.Mutex
	failures int
	calls    int
	bodies   []string
	to       []string
}

func (f *fakeSender) DialAndSend(msgs ...*gomail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp unavailable")
	}
	for _, m := range msgs {
		var buf bytes.Buffer
		if _, err := m.WriteTo(&buf); err != nil {
			return err
		}
		_, encoded, _ := strings.Cut(buf.String(), "\r\n\r\n")
		body, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(encoded)))
		if err != nil {
			return err
		}
		f.bodies = append(f.bodies, string(body))
		f.to = append(f.to, m.GetHeader("To")...)
	}
	return nil
}

func newTestService(t *testing.T, s sender) *emailServiceImpl {
	t.Helper()
	cfg := config.SMTPConfig{Host: "smtp.test", Port: 587, From: "hr@acme.test", FromName: "Acme HR"}
	svc, err := newEmailService(cfg, s, func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxRetries-1)
	})
	require.NoError(t, err)
	return svc
}

func TestSendCredentials_RendersTemplate(t *testing.T) {
	s := &fakeSender{}
	svc := newTestService(t, s)

	require.NoError(t, svc.SendCredentials("al@acme.test", "Al B", "GZALBX2024001", "Xabcde12@", "http://localhost:3000/login"))
	svc.Close()

	require.Len(t, s.bodies, 1)
	assert.Equal(t, []string{"al@acme.test"}, s.to)
	assert.Contains(t, s.bodies[0], "GZALBX2024001")
	assert.Contains(t, s.bodies[0], "Xabcde12@")
}

func TestSendLeaveStatus_RendersEmbeddedFields(t *testing.T) {
	s := &fakeSender{}
	svc := newTestService(t, s)

	require.NoError(t, svc.SendLeaveStatus("al@acme.test", "Al", LeaveStatusData{
		LeaveType: "sick", StartDate: "2024-03-01", EndDate: "2024-03-03", Days: 3, Status: "approved", Remarks: "Get well",
	}))
	svc.Close()

	require.Len(t, s.bodies, 1)
	assert.Contains(t, s.bodies[0], "2024-03-03")
	assert.Contains(t, s.bodies[0], "Get well")
}

func TestDeliver_RetriesThenSucceeds(t *testing.T) {
	s := &fakeSender{failures: 2}
	svc := newTestService(t, s)

	require.NoError(t, svc.SendPasswordReset("al@acme.test", "Al", "http://reset", "2024-03-01 10:00"))
	svc.Close()

	assert.Equal(t, 3, s.calls)
	assert.Len(t, s.bodies, 1)
}

func TestDeliver_GivesUpAfterMaxRetries(t *testing.T) {
	s := &fakeSender{failures: 10}
	svc := newTestService(t, s)

	require.NoError(t, svc.SendVerification("al@acme.test", "Al", "http://verify"))
	svc.Close()

	assert.Equal(t, maxRetries, s.calls)
	assert.Empty(t, s.bodies)
}

func TestSend_SkipsWithoutSMTPHost(t *testing.T) {
	s := &fakeSender{}
	svc, err := newEmailService(config.SMTPConfig{}, s, func() backoff.BackOff { return &backoff.StopBackOff{} })
	require.NoError(t, err)

	require.NoError(t, svc.SendPayrollPaid("al@acme.test", "Al", PayrollPaidData{Period: "March 2024"}))
	svc.Close()

	assert.Zero(t, s.calls)
}
