package company

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ShortName     string    `json:"short_name"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	City          *string   `json:"city,omitempty"`
	State         *string   `json:"state,omitempty"`
	Country       *string   `json:"country,omitempty"`
	PostalCode    *string   `json:"postal_code,omitempty"`
	Website       *string   `json:"website,omitempty"`
	LogoURL       *string   `json:"logo_url,omitempty"`
	IsActive      bool      `json:"is_active"`
	EmployeeCount int       `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:            c.ID,
		Name:          c.Name,
		ShortName:     c.ShortName,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		Country:       c.Country,
		PostalCode:    c.PostalCode,
		Website:       c.Website,
		LogoURL:       c.LogoURL,
		IsActive:      c.IsActive,
		EmployeeCount: c.EmployeeCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type CreateCompanyRequest struct {
	Name       string  `json:"name" validate:"required,max=255"`
	ShortName  string  `json:"short_name" validate:"required"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Website    *string `json:"website,omitempty" validate:"omitempty,url"`
}

// Validate trims and uppercases the short name before checking it.
func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ShortName = strings.ToUpper(strings.TrimSpace(r.ShortName))

	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if !validator.IsValidShortName(r.ShortName) {
		errs.Add("short_name", "short_name must be 2-6 letters")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "invalid phone number")
	}
	return errs.Err()
}

type UpdateCompanyRequest struct {
	Name       *string `json:"name,omitempty"`
	ShortName  *string `json:"short_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Website    *string `json:"website,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" {
			errs.Add("name", "name must not be empty")
		} else if len(name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	if r.ShortName != nil {
		short := strings.ToUpper(strings.TrimSpace(*r.ShortName))
		r.ShortName = &short
		if !validator.IsValidShortName(short) {
			errs.Add("short_name", "short_name must be 2-6 letters")
		}
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "invalid phone number")
	}
	if r.IsEmpty() {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

func (r *UpdateCompanyRequest) IsEmpty() bool {
	return r.Name == nil && r.ShortName == nil && r.Email == nil && r.Phone == nil &&
		r.Address == nil && r.City == nil && r.State == nil && r.Country == nil &&
		r.PostalCode == nil && r.Website == nil && r.IsActive == nil
}

type CompanyFilter struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	common.Pagination
}

func (f *CompanyFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Pagination.Normalize(&errs)
	return errs.Err()
}

type ListCompanyResponse struct {
	common.PageInfo
	Companies []CompanyResponse `json:"companies"`
}
