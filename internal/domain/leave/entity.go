package leave

import "time"

type Type string

const (
	TypePaid      Type = "paid"
	TypeSick      Type = "sick"
	TypeCasual    Type = "casual"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
)

// Types is ordered for stable balance output.
var Types = []Type{TypePaid, TypeSick, TypeCasual, TypeUnpaid, TypeMaternity, TypePaternity}

func TypeNames() []string {
	out := make([]string, len(Types))
	for i, t := range Types {
		out[i] = string(t)
	}
	return out
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var Statuses = []string{string(StatusPending), string(StatusApproved), string(StatusRejected), string(StatusCancelled)}

type Leave struct {
	ID              string
	EmployeeID      string
	LeaveType       Type
	StartDate       time.Time
	EndDate         time.Time
	NumberOfDays    int
	Reason          string
	Status          Status
	ApprovedBy      *string
	ApprovalDate    *time.Time
	ApprovalRemarks *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	EmployeeCode  string
	EmployeeName  string
	EmployeeEmail string
	Department    string
	ApproverEmail *string
}

type Summary struct {
	Total     int64
	Pending   int64
	Approved  int64
	Rejected  int64
	Cancelled int64
	DaysTaken int64
}

type TypeCount struct {
	LeaveType string `json:"leave_type"`
	Count     int64  `json:"count"`
	TotalDays int64  `json:"total_days"`
}

type Stats struct {
	Summary
	ByType []TypeCount
}
