package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)

	// Update writes l only while the stored status still equals from. A row that
	// moved on meanwhile yields ErrLeaveNotPending.
	Update(ctx context.Context, l Leave, from Status) (Leave, error)

	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)

	// HasOverlap reports a pending or approved leave of employeeID sharing a day with [start, end].
	// excludeID skips the leave being rescheduled.
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error)

	Summary(ctx context.Context, employeeID string) (Summary, error)
	Stats(ctx context.Context, filter StatsFilter) (Stats, error)

	// DaysTaken sums approved days per type for leaves starting within year.
	DaysTaken(ctx context.Context, employeeID string, year int) (map[Type]int, error)
}
