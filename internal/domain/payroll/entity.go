package payroll

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusFailed     PaymentStatus = "failed"
)

var PaymentStatuses = []string{string(PaymentStatusPending), string(PaymentStatusProcessing), string(PaymentStatusPaid), string(PaymentStatusFailed)}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheque       PaymentMethod = "cheque"
)

var PaymentMethods = []string{string(PaymentMethodBankTransfer), string(PaymentMethodCash), string(PaymentMethodCheque)}

// Payroll is one employee's pay for one month.
type Payroll struct {
	ID             string
	EmployeeID     string
	Month          int
	Year           int
	BasicSalary    decimal.Decimal
	Allowances     Allowances
	Deductions     Deductions
	OvertimeAmount decimal.Decimal
	Bonus          decimal.Decimal
	GrossSalary    decimal.Decimal
	NetSalary      decimal.Decimal
	PaymentStatus  PaymentStatus
	PaymentMethod  PaymentMethod
	PaymentDate    *time.Time
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	EmployeeCode  string
	EmployeeName  string
	EmployeeEmail string
	Department    string
	Designation   string
	DateOfJoining *time.Time
}

func (p Payroll) IsPaid() bool {
	return p.PaymentStatus == PaymentStatusPaid
}

// Period formats the payroll month, e.g. "March 2024".
func (p Payroll) Period() string {
	return time.Month(p.Month).String() + " " + strconv.Itoa(p.Year)
}

type Summary struct {
	TotalEarned  decimal.Decimal
	TotalPending decimal.Decimal
}

type StatusTotal struct {
	PaymentStatus string          `json:"payment_status"`
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type DepartmentTotal struct {
	Department  string          `json:"department"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AvgSalary   decimal.Decimal `json:"avg_salary"`
}

type Stats struct {
	TotalRecords  int64
	AverageSalary decimal.Decimal
	ByStatus      []StatusTotal
	ByDepartment  []DepartmentTotal
}

// Total returns the summed net salary of one payment status.
func (s Stats) Total(status PaymentStatus) decimal.Decimal {
	for _, st := range s.ByStatus {
		if st.PaymentStatus == string(status) {
			return st.TotalAmount
		}
	}
	return decimal.Zero
}
