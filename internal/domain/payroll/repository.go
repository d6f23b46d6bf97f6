package payroll

import "context"

type PayrollRepository interface {
	// Create inserts a payroll row. A second row for the same employee and period yields ErrPayrollExists.
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)

	// Update writes p only while the stored status still equals from. A row that
	// moved on meanwhile yields ErrPayrollPaid or ErrInvalidStatusTransition.
	Update(ctx context.Context, p Payroll, from PaymentStatus) (Payroll, error)

	// Delete removes an unpaid row. A paid row yields ErrPayrollPaid.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
	Summary(ctx context.Context, employeeID string) (Summary, error)
	Stats(ctx context.Context, filter StatsFilter) (Stats, error)
}
