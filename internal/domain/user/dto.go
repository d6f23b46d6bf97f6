package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"is_active"`
	EmailVerified bool    `json:"email_verified"`
	EmployeeID    *string `json:"employee_id,omitempty"`
	EmployeeCode  *string `json:"employee_code,omitempty"`
	LastLoginAt   *string `json:"last_login_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		EmployeeID:    u.EmployeeID,
		EmployeeCode:  u.EmployeeCode,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}
	return resp
}
