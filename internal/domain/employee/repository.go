package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)

	// List returns one page of employees; today decides each row's TodayStatus.
	List(ctx context.Context, filter EmployeeFilter, today time.Time) ([]Employee, int64, error)

	Update(ctx context.Context, id string, req UpdateEmployeeRequest, revision *SalaryRevision) (Employee, error)
	SetStatus(ctx context.Context, id string, status Status) error
	UpdateAvatar(ctx context.Context, id string, avatarURL string) error

	// MaxEmployeeCode returns the highest code starting with prefix, or "" when none exists.
	MaxEmployeeCode(ctx context.Context, prefix string) (string, error)

	ListActiveIDs(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (Stats, error)
}
