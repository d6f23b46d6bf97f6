package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type" validate:"required,oneof=paid sick casual unpaid maternity paternity"`
	StartDate string `json:"start_date" validate:"required,date"`
	EndDate   string `json:"end_date" validate:"required,date"`
	Reason    string `json:"reason" validate:"required,max=1000"`
}

func (r *ApplyLeaveRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if r.EndDate < r.StartDate {
		errs.Add("end_date", ErrEndBeforeStart.Error())
	}
	return errs.Err()
}

func (r ApplyLeaveRequest) Dates() (time.Time, time.Time) {
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	return start, end
}

type UpdateLeaveRequest struct {
	LeaveType *string `json:"leave_type,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.LeaveType != nil && !validator.IsInSlice(*r.LeaveType, TypeNames()) {
		errs.Add("leave_type", "leave_type must be one of: "+strings.Join(TypeNames(), ", "))
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if r.Reason != nil {
		reason := strings.TrimSpace(*r.Reason)
		r.Reason = &reason
		if reason == "" {
			errs.Add("reason", "reason must not be empty")
		}
	}
	if r.LeaveType == nil && r.StartDate == nil && r.EndDate == nil && r.Reason == nil {
		errs.Add("body", "at least one field must be provided")
	}
	return errs.Err()
}

type ReviewLeaveRequest struct {
	Status          string  `json:"status" validate:"required,oneof=approved rejected"`
	ApprovalRemarks *string `json:"approval_remarks,omitempty" validate:"omitempty,max=1000"`
}

func (r *ReviewLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeCode    string     `json:"employee_code,omitempty"`
	EmployeeName    string     `json:"employee_name,omitempty"`
	Department      string     `json:"department,omitempty"`
	LeaveType       string     `json:"leave_type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	NumberOfDays    int        `json:"number_of_days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApproverEmail   *string    `json:"approver_email,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	ApprovalRemarks *string    `json:"approval_remarks,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewLeaveResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		EmployeeCode:    l.EmployeeCode,
		EmployeeName:    l.EmployeeName,
		Department:      l.Department,
		LeaveType:       string(l.LeaveType),
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		NumberOfDays:    l.NumberOfDays,
		Reason:          l.Reason,
		Status:          string(l.Status),
		ApprovedBy:      l.ApprovedBy,
		ApproverEmail:   l.ApproverEmail,
		ApprovalDate:    l.ApprovalDate,
		ApprovalRemarks: l.ApprovalRemarks,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

type LeaveFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
	LeaveType  *string `json:"leave_type,omitempty"`
	Status     *string `json:"status,omitempty"`
	common.DateRange
	common.Pagination
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.LeaveType != nil && !validator.IsInSlice(*f.LeaveType, TypeNames()) {
		errs.Add("leave_type", "leave_type must be one of: "+strings.Join(TypeNames(), ", "))
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	f.DateRange.Validate(&errs)
	f.Pagination.Normalize(&errs)
	return errs.Err()
}

type ListLeaveResponse struct {
	common.PageInfo
	Leaves []LeaveResponse `json:"leaves"`
}

func NewListLeaveResponse(rows []Leave, p common.Pagination, total int64) ListLeaveResponse {
	leaves := make([]LeaveResponse, 0, len(rows))
	for _, l := range rows {
		leaves = append(leaves, NewLeaveResponse(l))
	}
	return ListLeaveResponse{PageInfo: common.NewPageInfo(p, total), Leaves: leaves}
}

type SummaryResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
	DaysTaken int64 `json:"total_days_taken"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Approved:  s.Approved,
		Rejected:  s.Rejected,
		Cancelled: s.Cancelled,
		DaysTaken: s.DaysTaken,
	}
}

type MyLeavesResponse struct {
	ListLeaveResponse
	Summary SummaryResponse `json:"summary"`
}

type StatsFilter struct {
	Department *string `json:"department,omitempty"`
	common.DateRange
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors
	f.DateRange.Validate(&errs)
	return errs.Err()
}

type StatsResponse struct {
	SummaryResponse
	ByType []TypeCount `json:"by_type"`
}

type BalanceResponse struct {
	EmployeeID   string    `json:"employee_id"`
	Year         int       `json:"year"`
	LeaveBalance []Balance `json:"leave_balance"`
}
