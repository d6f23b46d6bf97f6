package employee

import (
	"context"
	"io"
)

type EmployeeService interface {
	// Onboard creates the login and the employee profile together and emails the credentials.
	Onboard(ctx context.Context, req OnboardEmployeeRequest) (OnboardEmployeeResponse, error)

	List(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// GetByID is allowed to staff and to the employee themselves.
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetMe(ctx context.Context) (EmployeeResponse, error)

	// Update applies a partial update. Non-staff callers are limited to self-service fields.
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// Delete deactivates the employee and their login.
	Delete(ctx context.Context, id string) error

	UploadAvatar(ctx context.Context, id string, file io.Reader, contentType string) (EmployeeResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}
