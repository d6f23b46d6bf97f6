package payroll

import "context"

type PayrollService interface {
	Create(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)

	// BulkCreate creates one row per entry. Failing entries are reported and never block the others.
	BulkCreate(ctx context.Context, req BulkCreatePayrollRequest) (BulkCreateResponse, error)

	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	MyPayroll(ctx context.Context, filter PayrollFilter) (MyPayrollResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, filter PayrollFilter) (ListPayrollResponse, error)

	// Update changes components of an unpaid row and recomputes its totals.
	Update(ctx context.Context, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	UpdatePaymentStatus(ctx context.Context, id string, req UpdatePaymentStatusRequest) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error

	Payslip(ctx context.Context, id string) (Payslip, error)
	Stats(ctx context.Context, filter StatsFilter) (StatsResponse, error)
}
