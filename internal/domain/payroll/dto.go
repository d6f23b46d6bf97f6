package payroll

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePayrollRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`

	// BasicSalary defaults to the employee's current basic salary.
	BasicSalary    *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowances     Allowances       `json:"allowances"`
	Deductions     Deductions       `json:"deductions"`
	OvertimeAmount decimal.Decimal  `json:"overtime_amount"`
	Bonus          decimal.Decimal  `json:"bonus"`
	PaymentMethod  string           `json:"payment_method,omitempty" validate:"omitempty,oneof=bank_transfer cash cheque"`
	Notes          *string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r *CreatePayrollRequest) Validate() error {
	if r.PaymentMethod == "" {
		r.PaymentMethod = string(PaymentMethodBankTransfer)
	}
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if r.BasicSalary != nil && r.BasicSalary.IsNegative() {
		errs.Add("basic_salary", "basic_salary must not be negative")
	}
	return errs.Err()
}

// ToPayroll builds a pending row with totals computed from its components.
func (r CreatePayrollRequest) ToPayroll(basicSalary decimal.Decimal) Payroll {
	p := Payroll{
		EmployeeID:     r.EmployeeID,
		Month:          r.Month,
		Year:           r.Year,
		BasicSalary:    basicSalary,
		Allowances:     r.Allowances,
		Deductions:     r.Deductions,
		OvertimeAmount: r.OvertimeAmount,
		Bonus:          r.Bonus,
		PaymentStatus:  PaymentStatusPending,
		PaymentMethod:  PaymentMethod(r.PaymentMethod),
		Notes:          r.Notes,
	}
	p.Recalculate()
	return p
}

// BulkEntry is one employee of a bulk create. Month and year come from the request.
type BulkEntry struct {
	EmployeeID     string           `json:"employee_id" validate:"required,uuid"`
	BasicSalary    *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowances     Allowances       `json:"allowances"`
	Deductions     Deductions       `json:"deductions"`
	OvertimeAmount decimal.Decimal  `json:"overtime_amount"`
	Bonus          decimal.Decimal  `json:"bonus"`
	PaymentMethod  string           `json:"payment_method,omitempty" validate:"omitempty,oneof=bank_transfer cash cheque"`
}

type BulkCreatePayrollRequest struct {
	Month     int         `json:"month" validate:"required,min=1,max=12"`
	Year      int         `json:"year" validate:"required,min=2000,max=2100"`
	Employees []BulkEntry `json:"employees" validate:"required,min=1,dive"`
}

func (r *BulkCreatePayrollRequest) Validate() error {
	return validator.Struct(r)
}

// Requests splits the bulk request into single create requests.
func (r BulkCreatePayrollRequest) Requests() []CreatePayrollRequest {
	out := make([]CreatePayrollRequest, 0, len(r.Employees))
	for _, e := range r.Employees {
		method := e.PaymentMethod
		if method == "" {
			method = string(PaymentMethodBankTransfer)
		}
		out = append(out, CreatePayrollRequest{
			EmployeeID:     e.EmployeeID,
			Month:          r.Month,
			Year:           r.Year,
			BasicSalary:    e.BasicSalary,
			Allowances:     e.Allowances,
			Deductions:     e.Deductions,
			OvertimeAmount: e.OvertimeAmount,
			Bonus:          e.Bonus,
			PaymentMethod:  method,
		})
	}
	return out
}

type BulkError struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type BulkCreateResponse struct {
	Created      int         `json:"created"`
	Errors       int         `json:"errors"`
	ErrorDetails []BulkError `json:"error_details"`
}

type UpdatePayrollRequest struct {
	BasicSalary    *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowances     *Allowances      `json:"allowances,omitempty"`
	Deductions     *Deductions      `json:"deductions,omitempty"`
	OvertimeAmount *decimal.Decimal `json:"overtime_amount,omitempty"`
	Bonus          *decimal.Decimal `json:"bonus,omitempty"`
	PaymentMethod  *string          `json:"payment_method,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.BasicSalary != nil && r.BasicSalary.IsNegative() {
		errs.Add("basic_salary", "basic_salary must not be negative")
	}
	if r.PaymentMethod != nil && !validator.IsInSlice(*r.PaymentMethod, PaymentMethods) {
		errs.Add("payment_method", "payment_method must be one of: "+strings.Join(PaymentMethods, ", "))
	}
	if r.BasicSalary == nil && r.Allowances == nil && r.Deductions == nil && r.OvertimeAmount == nil &&
		r.Bonus == nil && r.PaymentMethod == nil && r.Notes == nil {
		errs.Add("body", "at least one field must be provided")
	}
	return errs.Err()
}

// Apply copies the changes onto p and recomputes its totals.
func (r UpdatePayrollRequest) Apply(p *Payroll) {
	if r.BasicSalary != nil {
		p.BasicSalary = *r.BasicSalary
	}
	if r.Allowances != nil {
		p.Allowances = *r.Allowances
	}
	if r.Deductions != nil {
		p.Deductions = *r.Deductions
	}
	if r.OvertimeAmount != nil {
		p.OvertimeAmount = *r.OvertimeAmount
	}
	if r.Bonus != nil {
		p.Bonus = *r.Bonus
	}
	if r.PaymentMethod != nil {
		p.PaymentMethod = PaymentMethod(*r.PaymentMethod)
	}
	if r.Notes != nil {
		p.Notes = r.Notes
	}
	p.Recalculate()
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string  `json:"payment_status" validate:"required,oneof=pending processing paid failed"`
	PaymentDate   *string `json:"payment_date,omitempty" validate:"omitempty,date"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	return validator.Struct(r)
}

func (r UpdatePaymentStatusRequest) Date() *time.Time {
	if r.PaymentDate == nil {
		return nil
	}
	t, ok := validator.IsValidDate(*r.PaymentDate)
	if !ok {
		return nil
	}
	return &t
}

type PayrollResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeCode    string          `json:"employee_code,omitempty"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	Department      string          `json:"department,omitempty"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	Allowances      Allowances      `json:"allowances"`
	Deductions      Deductions      `json:"deductions"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	OvertimeAmount  decimal.Decimal `json:"overtime_amount"`
	Bonus           decimal.Decimal `json:"bonus"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		EmployeeCode:    p.EmployeeCode,
		EmployeeName:    p.EmployeeName,
		Department:      p.Department,
		Month:           p.Month,
		Year:            p.Year,
		BasicSalary:     p.BasicSalary,
		Allowances:      p.Allowances,
		Deductions:      p.Deductions,
		TotalAllowances: p.Allowances.Total(),
		TotalDeductions: p.Deductions.Total(),
		OvertimeAmount:  p.OvertimeAmount,
		Bonus:           p.Bonus,
		GrossSalary:     p.GrossSalary,
		NetSalary:       p.NetSalary,
		PaymentStatus:   string(p.PaymentStatus),
		PaymentMethod:   string(p.PaymentMethod),
		PaymentDate:     p.PaymentDate,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type PayrollFilter struct {
	EmployeeID    *string `json:"employee_id,omitempty"`
	Department    *string `json:"department,omitempty"`
	Month         *int    `json:"month,omitempty"`
	Year          *int    `json:"year,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	common.Pagination
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if f.PaymentStatus != nil && !validator.IsInSlice(*f.PaymentStatus, PaymentStatuses) {
		errs.Add("payment_status", "payment_status must be one of: "+strings.Join(PaymentStatuses, ", "))
	}
	f.Pagination.Normalize(&errs)
	return errs.Err()
}

type ListPayrollResponse struct {
	common.PageInfo
	Payrolls []PayrollResponse `json:"payrolls"`
}

func NewListPayrollResponse(rows []Payroll, p common.Pagination, total int64) ListPayrollResponse {
	payrolls := make([]PayrollResponse, 0, len(rows))
	for _, r := range rows {
		payrolls = append(payrolls, NewPayrollResponse(r))
	}
	return ListPayrollResponse{PageInfo: common.NewPageInfo(p, total), Payrolls: payrolls}
}

type SummaryResponse struct {
	TotalEarned  decimal.Decimal `json:"total_earned"`
	TotalPending decimal.Decimal `json:"total_pending"`
}

type MyPayrollResponse struct {
	ListPayrollResponse
	Summary SummaryResponse `json:"summary"`
}

type PayslipEmployee struct {
	Name          string  `json:"name"`
	EmployeeCode  string  `json:"employee_code"`
	Department    string  `json:"department"`
	Designation   string  `json:"designation"`
	DateOfJoining *string `json:"date_of_joining,omitempty"`
}

type PayslipPeriod struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
}

type PayslipEarnings struct {
	BasicSalary    decimal.Decimal `json:"basic_salary"`
	Allowances     Allowances      `json:"allowances"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	Bonus          decimal.Decimal `json:"bonus"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`
}

type PayslipDeductions struct {
	Deductions
	Total decimal.Decimal `json:"total"`
}

type PaymentDetails struct {
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

// Payslip is the formatted read view of one payroll row.
type Payslip struct {
	Employee       PayslipEmployee   `json:"employee"`
	Period         PayslipPeriod     `json:"period"`
	Earnings       PayslipEarnings   `json:"earnings"`
	Deductions     PayslipDeductions `json:"deductions"`
	NetSalary      decimal.Decimal   `json:"net_salary"`
	PaymentDetails PaymentDetails    `json:"payment_details"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

func NewPayslip(p Payroll, generatedAt time.Time) Payslip {
	slip := Payslip{
		Employee: PayslipEmployee{
			Name:         p.EmployeeName,
			EmployeeCode: p.EmployeeCode,
			Department:   p.Department,
			Designation:  p.Designation,
		},
		Period: PayslipPeriod{Month: p.Month, Year: p.Year, Label: p.Period()},
		Earnings: PayslipEarnings{
			BasicSalary:    p.BasicSalary,
			Allowances:     p.Allowances,
			OvertimeAmount: p.OvertimeAmount,
			Bonus:          p.Bonus,
			GrossSalary:    p.GrossSalary,
		},
		Deductions: PayslipDeductions{Deductions: p.Deductions, Total: p.Deductions.Total()},
		NetSalary:  p.NetSalary,
		PaymentDetails: PaymentDetails{
			PaymentMethod: string(p.PaymentMethod),
			PaymentStatus: string(p.PaymentStatus),
			PaymentDate:   p.PaymentDate,
		},
		GeneratedAt: generatedAt,
	}
	if p.DateOfJoining != nil {
		doj := p.DateOfJoining.Format("2006-01-02")
		slip.Employee.DateOfJoining = &doj
	}
	return slip
}

type StatsFilter struct {
	Department *string `json:"department,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	return errs.Err()
}

type StatsResponse struct {
	TotalRecords    int64             `json:"total_records"`
	TotalPaid       decimal.Decimal   `json:"total_paid"`
	TotalPending    decimal.Decimal   `json:"total_pending"`
	TotalProcessing decimal.Decimal   `json:"total_processing"`
	TotalFailed     decimal.Decimal   `json:"total_failed"`
	AverageSalary   decimal.Decimal   `json:"average_salary"`
	ByStatus        []StatusTotal     `json:"by_status"`
	ByDepartment    []DepartmentTotal `json:"by_department"`
}

func NewStatsResponse(s Stats) StatsResponse {
	resp := StatsResponse{
		TotalRecords:    s.TotalRecords,
		TotalPaid:       s.Total(PaymentStatusPaid),
		TotalPending:    s.Total(PaymentStatusPending),
		TotalProcessing: s.Total(PaymentStatusProcessing),
		TotalFailed:     s.Total(PaymentStatusFailed),
		AverageSalary:   s.AverageSalary.Round(2),
		ByStatus:        s.ByStatus,
		ByDepartment:    s.ByDepartment,
	}
	if resp.ByStatus == nil {
		resp.ByStatus = []StatusTotal{}
	}
	if resp.ByDepartment == nil {
		resp.ByDepartment = []DepartmentTotal{}
	}
	return resp
}
