package payroll

import "errors"

var (
	ErrPayrollNotFound         = errors.New("payroll record not found")
	ErrPayrollExists           = errors.New("payroll already exists for this employee in this month/year")
	ErrPayrollPaid             = errors.New("paid payroll records cannot be changed or deleted")
	ErrInvalidStatusTransition = errors.New("invalid payment status transition")
)
