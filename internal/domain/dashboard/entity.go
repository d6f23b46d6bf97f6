package dashboard

import (
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Headcount describes the active workforce.
type Headcount struct {
	TotalActive    int64
	RecentJoinings int64
	ByDepartment   []employee.DepartmentCount
}

// DayAttendance counts one calendar day. Present includes half days.
type DayAttendance struct {
	Present int64
	HalfDay int64
	OnLeave int64
}

type OvertimeEntry struct {
	EmployeeID    string          `json:"employee_id"`
	EmployeeCode  string          `json:"employee_code"`
	EmployeeName  string          `json:"employee_name"`
	Department    string          `json:"department"`
	OvertimeHours decimal.Decimal `json:"total_overtime"`
}

type DayTrend struct {
	Date    time.Time
	Present int64
	Absent  int64
	HalfDay int64
	Leave   int64
}

// LeaveTrendRow is the approved leave of one type starting in one month.
type LeaveTrendRow struct {
	Month     int
	LeaveType string
	Count     int64
	TotalDays int64
}

// EmployeeMetric is the raw activity of one active employee.
type EmployeeMetric struct {
	EmployeeID   string
	EmployeeCode string
	FirstName    string
	LastName     string
	Department   string
	Designation  string
	AvatarURL    *string
	TotalHours   decimal.Decimal
	PresentDays  int64
	LeavesTaken  int64
}

func (m EmployeeMetric) Name() string {
	return m.FirstName + " " + m.LastName
}
