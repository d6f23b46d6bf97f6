package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusLeave   Status = "leave"
)

var Statuses = []string{string(StatusPresent), string(StatusAbsent), string(StatusHalfDay), string(StatusLeave)}

// Attendance is one employee's record for one calendar date.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	Status        Status
	WorkingHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	EmployeeCode string
	EmployeeName string
	Department   string
	Designation  string
}

type Summary struct {
	Present            int64
	Absent             int64
	HalfDay            int64
	Leave              int64
	TotalWorkingHours  decimal.Decimal
	TotalOvertimeHours decimal.Decimal
}

type Stats struct {
	Present             int64
	Absent              int64
	HalfDay             int64
	Leave               int64
	AverageWorkingHours decimal.Decimal
	TotalOvertimeHours  decimal.Decimal
}
