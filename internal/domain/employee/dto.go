package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/salary"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type EmployeeResponse struct {
	ID                       string           `json:"id"`
	UserID                   string           `json:"user_id"`
	CompanyID                string           `json:"company_id"`
	CompanyName              string           `json:"company_name,omitempty"`
	EmployeeCode             string           `json:"employee_code"`
	FirstName                string           `json:"first_name"`
	LastName                 string           `json:"last_name"`
	FullName                 string           `json:"full_name"`
	Email                    string           `json:"email"`
	Phone                    *string          `json:"phone,omitempty"`
	DateOfBirth              *string          `json:"date_of_birth,omitempty"`
	Gender                   *string          `json:"gender,omitempty"`
	Address                  *string          `json:"address,omitempty"`
	City                     *string          `json:"city,omitempty"`
	State                    *string          `json:"state,omitempty"`
	Country                  *string          `json:"country,omitempty"`
	PostalCode               *string          `json:"postal_code,omitempty"`
	EmergencyContactName     *string          `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    *string          `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation *string          `json:"emergency_contact_relation,omitempty"`
	Department               string           `json:"department"`
	Designation              string           `json:"designation"`
	EmploymentType           string           `json:"employment_type"`
	DateOfJoining            string           `json:"date_of_joining"`
	Status                   string           `json:"status"`
	Role                     string           `json:"role,omitempty"`
	AvatarURL                *string          `json:"avatar_url,omitempty"`
	Salary                   salary.Breakdown `json:"salary"`
	SalaryEffectiveFrom      string           `json:"salary_effective_from"`
	TodayStatus              string           `json:"today_status,omitempty"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                       e.ID,
		UserID:                   e.UserID,
		CompanyID:                e.CompanyID,
		CompanyName:              e.CompanyName,
		EmployeeCode:             e.EmployeeCode,
		FirstName:                e.FirstName,
		LastName:                 e.LastName,
		FullName:                 e.FullName(),
		Email:                    e.Email,
		Phone:                    e.Phone,
		Address:                  e.Address,
		City:                     e.City,
		State:                    e.State,
		Country:                  e.Country,
		PostalCode:               e.PostalCode,
		EmergencyContactName:     e.EmergencyContactName,
		EmergencyContactPhone:    e.EmergencyContactPhone,
		EmergencyContactRelation: e.EmergencyContactRelation,
		Department:               e.Department,
		Designation:              e.Designation,
		EmploymentType:           string(e.EmploymentType),
		DateOfJoining:            e.DateOfJoining.Format(dateLayout),
		Status:                   string(e.Status),
		Role:                     string(e.Role),
		AvatarURL:                e.AvatarURL,
		Salary:                   e.Salary,
		SalaryEffectiveFrom:      e.SalaryEffectiveFrom.Format(dateLayout),
		TodayStatus:              string(e.TodayStatus),
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}
	if e.DateOfBirth != nil {
		dob := e.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &dob
	}
	if e.Gender != nil {
		g := string(*e.Gender)
		resp.Gender = &g
	}
	return resp
}

type OnboardEmployeeRequest struct {
	CompanyID                string          `json:"company_id" validate:"required,uuid"`
	FirstName                string          `json:"first_name" validate:"required,max=100"`
	LastName                 string          `json:"last_name" validate:"required,max=100"`
	Email                    string          `json:"email" validate:"required,email"`
	Phone                    *string         `json:"phone,omitempty"`
	DateOfBirth              *string         `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	Gender                   *string         `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address                  *string         `json:"address,omitempty"`
	City                     *string         `json:"city,omitempty" validate:"omitempty,max=100"`
	State                    *string         `json:"state,omitempty" validate:"omitempty,max=100"`
	Country                  *string         `json:"country,omitempty" validate:"omitempty,max=100"`
	PostalCode               *string         `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	EmergencyContactName     *string         `json:"emergency_contact_name,omitempty" validate:"omitempty,max=200"`
	EmergencyContactPhone    *string         `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation *string         `json:"emergency_contact_relation,omitempty" validate:"omitempty,max=50"`
	Department               string          `json:"department" validate:"required,max=100"`
	Designation              string          `json:"designation" validate:"required,max=100"`
	EmploymentType           string          `json:"employment_type" validate:"required,oneof=permanent contract intern temporary"`
	DateOfJoining            string          `json:"date_of_joining" validate:"required,date"`
	BasicSalary              decimal.Decimal `json:"basic_salary"`
	Role                     string          `json:"role,omitempty" validate:"omitempty,oneof=admin hr employee"`
}

// Validate normalises names and email, defaults the role and rejects a non-positive basic salary.
func (r *OnboardEmployeeRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Department = strings.TrimSpace(r.Department)
	r.Designation = strings.TrimSpace(r.Designation)
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = verrs
	}

	if !r.BasicSalary.IsPositive() {
		errs.Add("basic_salary", "basic_salary must be greater than 0")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "invalid phone number")
	}
	if r.EmergencyContactPhone != nil && *r.EmergencyContactPhone != "" && !validator.IsValidPhoneNumber(*r.EmergencyContactPhone) {
		errs.Add("emergency_contact_phone", "invalid phone number")
	}
	return errs.Err()
}

func (r OnboardEmployeeRequest) JoiningDate() time.Time {
	t, _ := time.Parse(dateLayout, r.DateOfJoining)
	return t
}

// ToEmployee maps the request onto a new active employee. Code, user and salary are filled by the caller.
func (r OnboardEmployeeRequest) ToEmployee() Employee {
	e := Employee{
		CompanyID:                r.CompanyID,
		FirstName:                r.FirstName,
		LastName:                 r.LastName,
		Email:                    r.Email,
		Phone:                    r.Phone,
		Address:                  r.Address,
		City:                     r.City,
		State:                    r.State,
		Country:                  r.Country,
		PostalCode:               r.PostalCode,
		EmergencyContactName:     r.EmergencyContactName,
		EmergencyContactPhone:    r.EmergencyContactPhone,
		EmergencyContactRelation: r.EmergencyContactRelation,
		Department:               r.Department,
		Designation:              r.Designation,
		EmploymentType:           EmploymentType(r.EmploymentType),
		DateOfJoining:            r.JoiningDate(),
		Status:                   StatusActive,
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if dob, err := time.Parse(dateLayout, *r.DateOfBirth); err == nil {
			e.DateOfBirth = &dob
		}
	}
	if r.Gender != nil && *r.Gender != "" {
		g := Gender(*r.Gender)
		e.Gender = &g
	}
	return e
}

type OnboardEmployeeResponse struct {
	Employee          EmployeeResponse  `json:"employee"`
	User              user.UserResponse `json:"user"`
	TemporaryPassword string            `json:"temporary_password"`
}

type UpdateEmployeeRequest struct {
	FirstName                *string          `json:"first_name,omitempty"`
	LastName                 *string          `json:"last_name,omitempty"`
	Email                    *string          `json:"email,omitempty"`
	Phone                    *string          `json:"phone,omitempty"`
	DateOfBirth              *string          `json:"date_of_birth,omitempty"`
	Gender                   *string          `json:"gender,omitempty"`
	Address                  *string          `json:"address,omitempty"`
	City                     *string          `json:"city,omitempty"`
	State                    *string          `json:"state,omitempty"`
	Country                  *string          `json:"country,omitempty"`
	PostalCode               *string          `json:"postal_code,omitempty"`
	EmergencyContactName     *string          `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    *string          `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation *string          `json:"emergency_contact_relation,omitempty"`
	Department               *string          `json:"department,omitempty"`
	Designation              *string          `json:"designation,omitempty"`
	EmploymentType           *string          `json:"employment_type,omitempty"`
	DateOfJoining            *string          `json:"date_of_joining,omitempty"`
	Status                   *string          `json:"status,omitempty"`
	BasicSalary              *decimal.Decimal `json:"basic_salary,omitempty"`
	Role                     *string          `json:"role,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	trimRequired := func(field string, v *string) *string {
		if v == nil {
			return nil
		}
		s := strings.TrimSpace(*v)
		if s == "" {
			errs.Add(field, field+" must not be empty")
		}
		return &s
	}
	r.FirstName = trimRequired("first_name", r.FirstName)
	r.LastName = trimRequired("last_name", r.LastName)
	r.Department = trimRequired("department", r.Department)
	r.Designation = trimRequired("designation", r.Designation)

	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs.Add("email", "invalid email format")
		}
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "invalid phone number")
	}
	if r.EmergencyContactPhone != nil && *r.EmergencyContactPhone != "" && !validator.IsValidPhoneNumber(*r.EmergencyContactPhone) {
		errs.Add("emergency_contact_phone", "invalid phone number")
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		}
	}
	if r.DateOfJoining != nil {
		if _, ok := validator.IsValidDate(*r.DateOfJoining); !ok {
			errs.Add("date_of_joining", "date_of_joining must be in YYYY-MM-DD format")
		}
	}
	if r.Gender != nil && *r.Gender != "" && !validator.IsInSlice(*r.Gender, Genders) {
		errs.Add("gender", "gender must be one of: "+strings.Join(Genders, ", "))
	}
	if r.EmploymentType != nil && !validator.IsInSlice(*r.EmploymentType, EmploymentTypes) {
		errs.Add("employment_type", "employment_type must be one of: "+strings.Join(EmploymentTypes, ", "))
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	if r.BasicSalary != nil && !r.BasicSalary.IsPositive() {
		errs.Add("basic_salary", "basic_salary must be greater than 0")
	}
	if r.Role != nil && !user.Role(*r.Role).Valid() {
		errs.Add("role", "role must be one of: admin, hr, employee")
	}
	if r.IsEmpty() {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.OnlySelfService() && r.Phone == nil && r.Address == nil && r.City == nil &&
		r.State == nil && r.Country == nil && r.PostalCode == nil && r.EmergencyContactName == nil &&
		r.EmergencyContactPhone == nil && r.EmergencyContactRelation == nil
}

// OnlySelfService reports whether the request touches nothing but the fields an
// employee may edit on their own profile.
func (r *UpdateEmployeeRequest) OnlySelfService() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil && r.DateOfBirth == nil &&
		r.Gender == nil && r.Department == nil && r.Designation == nil && r.EmploymentType == nil &&
		r.DateOfJoining == nil && r.Status == nil && r.BasicSalary == nil && r.Role == nil
}

type EmployeeFilter struct {
	CompanyID      *string `json:"company_id,omitempty"`
	Search         *string `json:"search,omitempty"`
	Department     *string `json:"department,omitempty"`
	Designation    *string `json:"designation,omitempty"`
	EmploymentType *string `json:"employment_type,omitempty"`

	// Status narrows to one status. Without it inactive and terminated employees are hidden.
	Status *string `json:"status,omitempty"`
	common.Pagination
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.CompanyID != nil && !validator.IsValidUUID(*f.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	if f.EmploymentType != nil && !validator.IsInSlice(*f.EmploymentType, EmploymentTypes) {
		errs.Add("employment_type", "employment_type must be one of: "+strings.Join(EmploymentTypes, ", "))
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	f.Pagination.Normalize(&errs)
	return errs.Err()
}

type ListEmployeeResponse struct {
	common.PageInfo
	Employees []EmployeeResponse `json:"employees"`
}

type StatsResponse struct {
	Total            int64                 `json:"total"`
	Active           int64                 `json:"active"`
	Inactive         int64                 `json:"inactive"`
	Terminated       int64                 `json:"terminated"`
	ByDepartment     []DepartmentCount     `json:"by_department"`
	ByEmploymentType []EmploymentTypeCount `json:"by_employment_type"`
}

func NewStatsResponse(s Stats) StatsResponse {
	resp := StatsResponse{
		Total:            s.Total,
		Active:           s.Active,
		Inactive:         s.Inactive,
		Terminated:       s.Terminated,
		ByDepartment:     s.ByDepartment,
		ByEmploymentType: s.ByEmploymentType,
	}
	if resp.ByDepartment == nil {
		resp.ByDepartment = []DepartmentCount{}
	}
	if resp.ByEmploymentType == nil {
		resp.ByEmploymentType = []EmploymentTypeCount{}
	}
	return resp
}
