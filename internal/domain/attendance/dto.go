package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CheckInRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *CheckInRequest) Validate() error {
	return validator.Struct(r)
}

type CheckOutRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r)
}

type AttendanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeCode  string          `json:"employee_code,omitempty"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	Department    string          `json:"department,omitempty"`
	Designation   string          `json:"designation,omitempty"`
	Date          string          `json:"date"`
	CheckIn       *time.Time      `json:"check_in,omitempty"`
	CheckOut      *time.Time      `json:"check_out,omitempty"`
	Status        string          `json:"status"`
	WorkingHours  decimal.Decimal `json:"working_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeCode:  a.EmployeeCode,
		EmployeeName:  a.EmployeeName,
		Department:    a.Department,
		Designation:   a.Designation,
		Date:          a.Date.Format("2006-01-02"),
		CheckIn:       a.CheckIn,
		CheckOut:      a.CheckOut,
		Status:        string(a.Status),
		WorkingHours:  a.WorkingHours,
		OvertimeHours: a.OvertimeHours,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func newAttendanceResponses(rows []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, NewAttendanceResponse(a))
	}
	return out
}

func validateStatus(status *string, errs *validator.ValidationErrors) {
	if status != nil && !validator.IsInSlice(*status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
}

// MyAttendanceFilter scopes one employee's history.
type MyAttendanceFilter struct {
	Status *string `json:"status,omitempty"`
	common.DateRange
	common.Pagination
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	validateStatus(f.Status, &errs)
	f.DateRange.Validate(&errs)
	f.Pagination.Normalize(&errs)
	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
	Status     *string `json:"status,omitempty"`
	common.DateRange
	common.Pagination
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	validateStatus(f.Status, &errs)
	f.DateRange.Validate(&errs)
	f.Pagination.Normalize(&errs)
	return errs.Err()
}

type SummaryResponse struct {
	Present            int64           `json:"present"`
	Absent             int64           `json:"absent"`
	HalfDay            int64           `json:"half_day"`
	Leave              int64           `json:"leave"`
	TotalWorkingHours  decimal.Decimal `json:"total_working_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		Present:            s.Present,
		Absent:             s.Absent,
		HalfDay:            s.HalfDay,
		Leave:              s.Leave,
		TotalWorkingHours:  s.TotalWorkingHours.Round(2),
		TotalOvertimeHours: s.TotalOvertimeHours.Round(2),
	}
}

type ListAttendanceResponse struct {
	common.PageInfo
	Attendance []AttendanceResponse `json:"attendance"`
}

func NewListAttendanceResponse(rows []Attendance, p common.Pagination, total int64) ListAttendanceResponse {
	return ListAttendanceResponse{
		PageInfo:   common.NewPageInfo(p, total),
		Attendance: newAttendanceResponses(rows),
	}
}

type MyAttendanceResponse struct {
	ListAttendanceResponse
	Summary SummaryResponse `json:"summary"`
}

type MarkAbsentRequest struct {
	EmployeeIDs []string `json:"employee_ids" validate:"required,min=1,dive,uuid"`
	Date        *string  `json:"date,omitempty" validate:"omitempty,date"`
}

func (r *MarkAbsentRequest) Validate() error {
	return validator.Struct(r)
}

type MarkAbsentResponse struct {
	MarkedAbsent    int `json:"marked_absent"`
	AlreadyRecorded int `json:"already_recorded"`
}

// UpdateAttendanceRequest corrects a record. Times are RFC 3339.
type UpdateAttendanceRequest struct {
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors
	validateStatus(r.Status, &errs)
	if r.CheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckIn); !ok {
			errs.Add("check_in", "check_in must be an RFC 3339 timestamp")
		}
	}
	if r.CheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckOut); !ok {
			errs.Add("check_out", "check_out must be an RFC 3339 timestamp")
		}
	}
	if r.Status == nil && r.Notes == nil && r.CheckIn == nil && r.CheckOut == nil {
		errs.Add("body", "at least one field must be provided")
	}
	return errs.Err()
}

// Apply copies the requested changes onto a and recomputes hours when a time changed.
func (r UpdateAttendanceRequest) Apply(a *Attendance, policy Policy) error {
	if r.CheckIn != nil {
		t, _ := validator.IsValidDateTime(*r.CheckIn)
		a.CheckIn = &t
	}
	if r.CheckOut != nil {
		t, _ := validator.IsValidDateTime(*r.CheckOut)
		a.CheckOut = &t
	}
	if a.CheckIn != nil && a.CheckOut != nil && !a.CheckOut.After(*a.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}
	if r.CheckIn != nil || r.CheckOut != nil {
		a.Recompute(policy)
	}
	if r.Status != nil {
		a.Status = Status(*r.Status)
	}
	if r.Notes != nil {
		a.Notes = r.Notes
	}
	return nil
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
	TotalPresent        int64           `json:"total_present"`
	TotalAbsent         int64           `json:"total_absent"`
	TotalHalfDay        int64           `json:"total_half_day"`
	TotalLeave          int64           `json:"total_leave"`
	AverageWorkingHours decimal.Decimal `json:"average_working_hours"`
	TotalOvertimeHours  decimal.Decimal `json:"total_overtime_hours"`
}

func NewStatsResponse(s Stats) StatsResponse {
	return StatsResponse{
		TotalPresent:        s.Present,
		TotalAbsent:         s.Absent,
		TotalHalfDay:        s.HalfDay,
		TotalLeave:          s.Leave,
		AverageWorkingHours: s.AverageWorkingHours.Round(2),
		TotalOvertimeHours:  s.TotalOvertimeHours.Round(2),
	}
}
