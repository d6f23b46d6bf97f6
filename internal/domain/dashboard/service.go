package dashboard

import "context"

type DashboardService interface {
	// Employee returns the caller's own dashboard.
	Employee(ctx context.Context) (EmployeeDashboardResponse, error)
	Admin(ctx context.Context, filter AdminFilter) (AdminDashboardResponse, error)
	AttendanceTrends(ctx context.Context, filter TrendFilter) (AttendanceTrendResponse, error)
	LeaveTrends(ctx context.Context, filter LeaveTrendFilter) (LeaveTrendResponse, error)

	// QuickStats adapts to the caller's role.
	QuickStats(ctx context.Context) (QuickStatsResponse, error)
	Analytics(ctx context.Context, filter AnalyticsFilter) (AnalyticsResponse, error)
}
