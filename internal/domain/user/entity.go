package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, bootstrapped at registration
	RoleHR       Role = "hr"       // Manages employees, attendance, leave and payroll
	RoleEmployee Role = "employee" // Self service only
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// IsStaff reports whether the role manages other employees' records.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleHR
}

type User struct {
	ID                     string
	Email                  string
	PasswordHash           string
	Role                   Role
	IsActive               bool
	EmailVerified          bool
	EmailVerificationToken *string
	ResetTokenHash         *string
	ResetTokenExpiresAt    *time.Time
	GoogleID               *string
	LastLoginAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Join
	EmployeeID   *string
	EmployeeCode *string
}

// ResetTokenValid reports whether a stored reset token is still usable at now.
func (u *User) ResetTokenValid(now time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpiresAt != nil && now.Before(*u.ResetTokenExpiresAt)
}
