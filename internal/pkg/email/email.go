package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cmlabs-hris/hrms-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	maxRetries = 3
	queueSize  = 100
)

// EmailService renders a template and queues it for delivery.
// A returned error means the message could not be rendered or queued;
// delivery failures are logged by the worker and never reach the caller.
type EmailService interface {
	SendVerification(to, name, verifyLink string) error
	SendPasswordReset(to, name, resetLink, expiresAt string) error
	SendCredentials(to, name, employeeCode, temporaryPassword, loginURL string) error
	SendLeaveStatus(to, name string, data LeaveStatusData) error
	SendPayrollPaid(to, name string, data PayrollPaidData) error
	Close()
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	sender    sender
	retry     func() backoff.BackOff

	queue     chan *gomail.Message
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewEmailService creates a new email service instance and starts its delivery worker.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	return newEmailService(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries-1)
	})
}

func newEmailService(cfg config.SMTPConfig, s sender, retry func() backoff.BackOff) (*emailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	svc := &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		sender:    s,
		retry:     retry,
		queue:     make(chan *gomail.Message, queueSize),
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc, nil
}

type verificationEmailData struct {
	Name       string
	VerifyLink string
}

func (s *emailServiceImpl) SendVerification(to, name, verifyLink string) error {
	return s.send(to, "Verify your email address", "verification.html", verificationEmailData{
		Name:       name,
		VerifyLink: verifyLink,
	})
}

type passwordResetEmailData struct {
	Name      string
	ResetLink string
	ExpiresAt string
}

// SendPasswordReset sends a password reset email to the user
func (s *emailServiceImpl) SendPasswordReset(to, name, resetLink, expiresAt string) error {
	return s.send(to, "Reset your password", "password_reset.html", passwordResetEmailData{
		Name:      name,
		ResetLink: resetLink,
		ExpiresAt: expiresAt,
	})
}

type credentialsEmailData struct {
	Name              string
	EmployeeCode      string
	TemporaryPassword string
	LoginURL          string
}

func (s *emailServiceImpl) SendCredentials(to, name, employeeCode, temporaryPassword, loginURL string) error {
	return s.send(to, "Your HRMS account", "credentials.html", credentialsEmailData{
		Name:              name,
		EmployeeCode:      employeeCode,
		TemporaryPassword: temporaryPassword,
		LoginURL:          loginURL,
	})
}

type LeaveStatusData struct {
	LeaveType string
	StartDate string
	EndDate   string
	Days      int
	Status    string
	Remarks   string
}

type leaveStatusEmailData struct {
	Name string
	LeaveStatusData
}

func (s *emailServiceImpl) SendLeaveStatus(to, name string, data LeaveStatusData) error {
	return s.send(to, fmt.Sprintf("Your leave request was %s", data.Status), "leave_status.html", leaveStatusEmailData{
		Name:            name,
		LeaveStatusData: data,
	})
}

type PayrollPaidData struct {
	Period        string
	NetSalary     string
	PaymentMethod string
	PaymentDate   string
}

type payrollPaidEmailData struct {
	Name string
	PayrollPaidData
}

func (s *emailServiceImpl) SendPayrollPaid(to, name string, data PayrollPaidData) error {
	return s.send(to, fmt.Sprintf("Salary credited for %s", data.Period), "payroll_paid.html", payrollPaidEmailData{
		Name:            name,
		PayrollPaidData: data,
	})
}

func (s *emailServiceImpl) send(to, subject, templateName string, data interface{}) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	select {
	case s.queue <- m:
		return nil
	default:
		return fmt.Errorf("email queue full, dropping message to %s", to)
	}
}

func (s *emailServiceImpl) worker() {
	defer s.wg.Done()
	for m := range s.queue {
		s.deliver(m)
	}
}

func (s *emailServiceImpl) deliver(m *gomail.Message) {
	to := m.GetHeader("To")
	subject := m.GetHeader("Subject")

	attempt := 0
	start := time.Now()
	err := backoff.Retry(func() error {
		attempt++
		err := s.sender.DialAndSend(m)
		if err != nil {
			slog.Error("Failed to send email",
				"to", to,
				"subject", subject,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", err,
			)
		}
		return err
	}, s.retry())

	if err != nil {
		slog.Error("Giving up on email", "to", to, "subject", subject, "attempts", attempt, "error", err)
		return
	}
	slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt, "elapsed", time.Since(start))
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (s *emailServiceImpl) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}
