package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	emailService email.EmailService
	publisher    events.Publisher
	now          func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	emailService email.EmailService,
	publisher events.Publisher,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		emailService: emailService,
		publisher:    publisher,
		now:          time.Now,
	}
}

func authorize(ctx context.Context, action user.Action, owner string) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return user.Authorize(p, user.ResourcePayroll, action, owner)
}

// Create implements payroll.PayrollService.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := authorize(ctx, user.ActionCreate, ""); err != nil {
		return payroll.PayrollResponse{}, err
	}
	created, err := s.create(ctx, req)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(created), nil
}

func (s *PayrollServiceImpl) create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.Payroll, error) {
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.Payroll{}, err
	}

	basic := emp.Salary.BasicSalary
	if req.BasicSalary != nil {
		basic = *req.BasicSalary
	}

	created, err := s.payrollRepo.Create(ctx, req.ToPayroll(basic))
	if err != nil {
		return payroll.Payroll{}, err
	}

	s.publisher.Publish(events.PayrollCreated, created.ID, map[string]interface{}{
		"payroll_id":  created.ID,
		"employee_id": created.EmployeeID,
		"month":       created.Month,
		"year":        created.Year,
		"net_salary":  created.NetSalary,
	})
	slog.Info("payroll created", "payroll_id", created.ID, "employee_id", created.EmployeeID, "period", created.Period())
	return created, nil
}

// BulkCreate implements payroll.PayrollService. Each entry is created on its own,
// so one failure leaves the others in place.
func (s *PayrollServiceImpl) BulkCreate(ctx context.Context, req payroll.BulkCreatePayrollRequest) (payroll.BulkCreateResponse, error) {
	if err := authorize(ctx, user.ActionCreate, ""); err != nil {
		return payroll.BulkCreateResponse{}, err
	}

	resp := payroll.BulkCreateResponse{ErrorDetails: []payroll.BulkError{}}
	for _, r := range req.Requests() {
		if _, err := s.create(ctx, r); err != nil {
			resp.Errors++
			resp.ErrorDetails = append(resp.ErrorDetails, payroll.BulkError{EmployeeID: r.EmployeeID, Error: bulkErrorMessage(r.EmployeeID, err)})
			continue
		}
		resp.Created++
	}

	slog.Info("bulk payroll processed", "month", req.Month, "year", req.Year, "created", resp.Created, "errors", resp.Errors)
	return resp, nil
}

// bulkErrorMessages are the per-entry failures reported to the caller verbatim.
var bulkErrorMessages = []error{
	employee.ErrEmployeeNotFound,
	payroll.ErrPayrollExists,
}

const bulkInternalError = "failed to create payroll"

func bulkErrorMessage(employeeID string, err error) string {
	for _, known := range bulkErrorMessages {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	slog.Error("bulk payroll entry failed", "employee_id", employeeID, "error", err)
	return bulkInternalError
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := authorize(ctx, user.ActionRead, ""); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	return s.list(ctx, filter)
}

func (s *PayrollServiceImpl) list(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	rows, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	return payroll.NewListPayrollResponse(rows, filter.Pagination, total), nil
}

// GetByID implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	found, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := authorize(ctx, user.ActionRead, found.EmployeeID); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(found), nil
}

// MyPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) MyPayroll(ctx context.Context, filter payroll.PayrollFilter) (payroll.MyPayrollResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return payroll.MyPayrollResponse{}, err
	}
	employeeID := p.OwnEmployeeID()
	if employeeID == "" {
		return payroll.MyPayrollResponse{}, user.ErrEmployeeProfileRequired
	}

	filter.EmployeeID = &employeeID
	filter.Department = nil
	list, err := s.list(ctx, filter)
	if err != nil {
		return payroll.MyPayrollResponse{}, err
	}
	summary, err := s.payrollRepo.Summary(ctx, employeeID)
	if err != nil {
		return payroll.MyPayrollResponse{}, err
	}
	return payroll.MyPayrollResponse{
		ListPayrollResponse: list,
		Summary: payroll.SummaryResponse{
			TotalEarned:  summary.TotalEarned.Round(2),
			TotalPending: summary.TotalPending.Round(2),
		},
	}, nil
}

// ListByEmployee implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListByEmployee(ctx context.Context, employeeID string, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := authorize(ctx, user.ActionRead, ""); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	filter.EmployeeID = &employeeID
	return s.list(ctx, filter)
}

// Update implements payroll.PayrollService.
func (s *PayrollServiceImpl) Update(ctx context.Context, id string, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := authorize(ctx, user.ActionUpdate, ""); err != nil {
		return payroll.PayrollResponse{}, err
	}

	existing, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if existing.IsPaid() {
		return payroll.PayrollResponse{}, payroll.ErrPayrollPaid
	}
	from := existing.PaymentStatus
	req.Apply(&existing)

	updated, err := s.payrollRepo.Update(ctx, existing, from)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(updated), nil
}

// UpdatePaymentStatus implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePaymentStatus(ctx context.Context, id string, req payroll.UpdatePaymentStatusRequest) (payroll.PayrollResponse, error) {
	if err := authorize(ctx, user.ActionUpdate, ""); err != nil {
		return payroll.PayrollResponse{}, err
	}

	existing, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	from := existing.PaymentStatus
	if err := existing.TransitionTo(payroll.PaymentStatus(req.PaymentStatus), req.Date(), s.now()); err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("%w: %s to %s", err, from, req.PaymentStatus)
	}

	updated, err := s.payrollRepo.Update(ctx, existing, from)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	if updated.IsPaid() {
		s.notifyPaid(updated)
	}
	slog.Info("payroll status changed", "payroll_id", id, "from", from, "to", updated.PaymentStatus)
	return payroll.NewPayrollResponse(updated), nil
}

func (s *PayrollServiceImpl) notifyPaid(p payroll.Payroll) {
	paidOn := ""
	if p.PaymentDate != nil {
		paidOn = p.PaymentDate.Format("2006-01-02")
	}
	err := s.emailService.SendPayrollPaid(p.EmployeeEmail, p.EmployeeName, email.PayrollPaidData{
		Period:        p.Period(),
		NetSalary:     p.NetSalary.StringFixed(2),
		PaymentMethod: string(p.PaymentMethod),
		PaymentDate:   paidOn,
	})
	if err != nil {
		slog.Warn("failed to queue payroll paid email", "payroll_id", p.ID, "error", err)
	}
	s.publisher.Publish(events.PayrollPaid, p.ID, map[string]interface{}{
		"payroll_id":  p.ID,
		"employee_id": p.EmployeeID,
		"net_salary":  p.NetSalary,
		"period":      p.Period(),
	})
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	if err := authorize(ctx, user.ActionDelete, ""); err != nil {
		return err
	}

	existing, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsPaid() {
		return payroll.ErrPayrollPaid
	}
	if err := s.payrollRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("payroll deleted", "payroll_id", id)
	return nil
}

// Payslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, id string) (payroll.Payslip, error) {
	found, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if err := authorize(ctx, user.ActionRead, found.EmployeeID); err != nil {
		return payroll.Payslip{}, err
	}
	return payroll.NewPayslip(found, s.now()), nil
}

// Stats implements payroll.PayrollService.
func (s *PayrollServiceImpl) Stats(ctx context.Context, filter payroll.StatsFilter) (payroll.StatsResponse, error) {
	if err := authorize(ctx, user.ActionStats, ""); err != nil {
		return payroll.StatsResponse{}, err
	}

	stats, err := s.payrollRepo.Stats(ctx, filter)
	if err != nil {
		return payroll.StatsResponse{}, fmt.Errorf("failed to get payroll stats: %w", err)
	}
	return payroll.NewStatsResponse(stats), nil
}
