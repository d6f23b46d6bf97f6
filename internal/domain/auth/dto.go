package auth

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	CompanyName      string `json:"company_name" validate:"required,max=255"`
	CompanyShortName string `json:"company_short_name" validate:"required"`
	Email            string `json:"email" validate:"required,email,max=254"`
	Password         string `json:"password" validate:"required,max=255,password"`
	ConfirmPassword  string `json:"confirm_password" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.CompanyShortName = strings.ToUpper(strings.TrimSpace(r.CompanyShortName))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = verrs
	}
	if r.CompanyShortName != "" && !validator.IsValidShortName(r.CompanyShortName) {
		errs.Add("company_short_name", "company_short_name must be 2-6 letters")
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}
	return errs.Err()
}

func (r RegisterRequest) CompanyRequest() company.CreateCompanyRequest {
	email := r.Email
	return company.CreateCompanyRequest{
		Name:      r.CompanyName,
		ShortName: r.CompanyShortName,
		Email:     &email,
	}
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,max=255"`
}

func (r *LoginRequest) Validate() error {
	r.Identifier = strings.TrimSpace(r.Identifier)
	return validator.Struct(r)
}

// IsEmail reports whether the identifier is an email rather than an employee code.
func (r LoginRequest) IsEmail() bool {
	return strings.Contains(r.Identifier, "@")
}

// Normalized lowercases emails and uppercases employee codes.
func (r LoginRequest) Normalized() string {
	if r.IsEmail() {
		return strings.ToLower(r.Identifier)
	}
	return strings.ToUpper(r.Identifier)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r *RefreshTokenRequest) Validate() error {
	return validator.Struct(r)
}

// LogoutRequest carries both tokens of the session being closed.
type LogoutRequest struct {
	RefreshToken   string
	AccessToken    string
	AccessExpireAt time.Time
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r)
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required,max=255"`
	Password        string `json:"password" validate:"required,max=255,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (r *ResetPasswordRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}
	return errs.Err()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=255,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (r *ChangePasswordRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if r.ConfirmPassword != r.NewPassword {
		errs.Add("confirm_password", "new_password and confirm_password do not match")
	}
	if r.NewPassword == r.CurrentPassword {
		errs.Add("new_password", "new_password must differ from current_password")
	}
	return errs.Err()
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required,max=255"`
}

func (r *VerifyEmailRequest) Validate() error {
	return validator.Struct(r)
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type RegisterResponse struct {
	User    user.UserResponse       `json:"user"`
	Company company.CompanyResponse `json:"company"`
	TokenResponse
}

type MeResponse struct {
	User     user.UserResponse          `json:"user"`
	Employee *employee.EmployeeResponse `json:"employee,omitempty"`
}
