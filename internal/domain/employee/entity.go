package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/salary"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type EmploymentType string

const (
	EmploymentTypePermanent EmploymentType = "permanent"
	EmploymentTypeContract  EmploymentType = "contract"
	EmploymentTypeIntern    EmploymentType = "intern"
	EmploymentTypeTemporary EmploymentType = "temporary"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)

// TodayStatus is the presence label shown next to each employee in listings.
type TodayStatus string

const (
	TodayPresent TodayStatus = "Present"
	TodayHalfDay TodayStatus = "Half Day"
	TodayOnLeave TodayStatus = "On Leave"
	TodayAbsent  TodayStatus = "Absent"
)

var (
	Genders         = []string{string(GenderMale), string(GenderFemale), string(GenderOther)}
	EmploymentTypes = []string{string(EmploymentTypePermanent), string(EmploymentTypeContract), string(EmploymentTypeIntern), string(EmploymentTypeTemporary)}
	Statuses        = []string{string(StatusActive), string(StatusInactive), string(StatusTerminated)}
)

type Employee struct {
	ID                       string
	UserID                   string
	CompanyID                string
	EmployeeCode             string
	FirstName                string
	LastName                 string
	Email                    string
	Phone                    *string
	DateOfBirth              *time.Time
	Gender                   *Gender
	Address                  *string
	City                     *string
	State                    *string
	Country                  *string
	PostalCode               *string
	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
	Department               string
	Designation              string
	EmploymentType           EmploymentType
	DateOfJoining            time.Time
	Status                   Status
	AvatarURL                *string
	Salary                   salary.Breakdown
	SalaryEffectiveFrom      time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time

	// Join
	CompanyName      string
	CompanyShortName string
	Role             user.Role
	TodayStatus      TodayStatus
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

// SalaryRevision replaces the stored salary snapshot.
type SalaryRevision struct {
	Breakdown     salary.Breakdown
	EffectiveFrom time.Time
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

type EmploymentTypeCount struct {
	EmploymentType string `json:"employment_type"`
	Count          int64  `json:"count"`
}

type Stats struct {
	Total            int64
	Active           int64
	Inactive         int64
	Terminated       int64
	ByDepartment     []DepartmentCount
	ByEmploymentType []EmploymentTypeCount
}
