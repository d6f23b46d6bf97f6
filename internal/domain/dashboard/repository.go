package dashboard

import (
	"context"
	"time"
)

// DashboardRepository holds the cross-aggregate rollups. Department filters are optional.
type DashboardRepository interface {
	// Headcount counts active employees and those who joined on or after since.
	Headcount(ctx context.Context, department *string, since time.Time) (Headcount, error)

	// DayAttendance counts attendance and approved leave covering date.
	DayAttendance(ctx context.Context, date time.Time, department *string) (DayAttendance, error)

	// TopOvertime ranks employees by overtime recorded between from and to.
	TopOvertime(ctx context.Context, from, to time.Time, department *string, limit int) ([]OvertimeEntry, error)

	// AttendanceTrend returns only the days that have rows.
	AttendanceTrend(ctx context.Context, from, to time.Time, department *string) ([]DayTrend, error)

	LeaveTrend(ctx context.Context, year int, department *string) ([]LeaveTrendRow, error)

	// EmployeeMetrics sums hours and present days between from and to, and
	// approved leave days starting on or after yearStart, per active employee.
	EmployeeMetrics(ctx context.Context, from, to, yearStart time.Time, department *string) ([]EmployeeMetric, error)
}
