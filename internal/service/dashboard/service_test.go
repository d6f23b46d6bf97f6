package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepository struct {
	dashboard.DashboardRepository
	headcount dashboard.Headcount
	day       dashboard.DayAttendance
	trend     []dashboard.DayTrend
	metrics   []dashboard.EmployeeMetric

	trendFrom, trendTo time.Time
	metricsFrom        time.Time
	metricsYearStart   time.Time
	joinedSince        time.Time
}

func (f *fakeDashboardRepository) Headcount(_ context.Context, _ *string, since time.Time) (dashboard.Headcount, error) {
	f.joinedSince = since
	return f.headcount, nil
}

func (f *fakeDashboardRepository) DayAttendance(context.Context, time.Time, *string) (dashboard.DayAttendance, error) {
	return f.day, nil
}

func (f *fakeDashboardRepository) TopOvertime(context.Context, time.Time, time.Time, *string, int) ([]dashboard.OvertimeEntry, error) {
	return nil, nil
}

func (f *fakeDashboardRepository) AttendanceTrend(_ context.Context, from, to time.Time, _ *string) ([]dashboard.DayTrend, error) {
	f.trendFrom, f.trendTo = from, to
	return f.trend, nil
}

func (f *fakeDashboardRepository) EmployeeMetrics(_ context.Context, from, _, yearStart time.Time, _ *string) ([]dashboard.EmployeeMetric, error) {
	f.metricsFrom, f.metricsYearStart = from, yearStart
	return f.metrics, nil
}

func (f *fakeDashboardRepository) LeaveTrend(context.Context, int, *string) ([]dashboard.LeaveTrendRow, error) {
	return nil, nil
}

type fakeEmployeeRepository struct {
	employee.EmployeeRepository
}

func (fakeEmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	return employee.Employee{
		ID:            id,
		EmployeeCode:  "ACMJODO2024001",
		FirstName:     "John",
		LastName:      "Doe",
		Department:    "Engineering",
		DateOfJoining: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeAttendanceRepository struct {
	attendance.AttendanceRepository
	today   *attendance.Attendance
	summary attendance.Summary
	stats   attendance.Stats
}

func (f *fakeAttendanceRepository) GetByEmployeeAndDate(context.Context, string, time.Time) (attendance.Attendance, error) {
	if f.today == nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return *f.today, nil
}

func (f *fakeAttendanceRepository) Summary(context.Context, string, attendance.MyAttendanceFilter) (attendance.Summary, error) {
	return f.summary, nil
}

func (f *fakeAttendanceRepository) Stats(context.Context, attendance.StatsFilter) (attendance.Stats, error) {
	return f.stats, nil
}

func (f *fakeAttendanceRepository) List(context.Context, attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

type fakeLeaveRepository struct {
	leave.LeaveRepository
	rows    []leave.Leave
	summary leave.Summary
	taken   map[leave.Type]int
}

func (f *fakeLeaveRepository) List(context.Context, leave.LeaveFilter) ([]leave.Leave, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeLeaveRepository) Summary(context.Context, string) (leave.Summary, error) {
	return f.summary, nil
}

func (f *fakeLeaveRepository) DaysTaken(context.Context, string, int) (map[leave.Type]int, error) {
	return f.taken, nil
}

type fakePayrollRepository struct {
	payroll.PayrollRepository
	rows  []payroll.Payroll
	stats payroll.Stats
}

func (f *fakePayrollRepository) List(context.Context, payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakePayrollRepository) Stats(context.Context, payroll.StatsFilter) (payroll.Stats, error) {
	return f.stats, nil
}

type dashboardFixture struct {
	svc        *DashboardServiceImpl
	repo       *fakeDashboardRepository
	attendance *fakeAttendanceRepository
	leaves     *fakeLeaveRepository
	payrolls   *fakePayrollRepository
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		repo:       &fakeDashboardRepository{},
		attendance: &fakeAttendanceRepository{},
		leaves:     &fakeLeaveRepository{taken: map[leave.Type]int{}},
		payrolls:   &fakePayrollRepository{},
	}
	entitlements := map[string]int{"paid": 12, "sick": 10, "unpaid": -1}
	f.svc = NewDashboardService(f.repo, fakeEmployeeRepository{}, f.attendance, f.leaves, f.payrolls,
		dashboard.DefaultThresholds(), entitlements, time.UTC).(*DashboardServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestAdmin(t *testing.T) {
	f := newDashboardFixture()
	f.repo.headcount = dashboard.Headcount{TotalActive: 10, RecentJoinings: 2}
	f.repo.day = dashboard.DayAttendance{Present: 7, HalfDay: 1, OnLeave: 2}
	f.attendance.stats = attendance.Stats{Present: 120, Absent: 8, HalfDay: 3, Leave: 5}
	f.leaves.rows = []leave.Leave{{ID: "l-1", Status: leave.StatusPending}}
	f.payrolls.stats = payroll.Stats{ByStatus: []payroll.StatusTotal{
		{PaymentStatus: "paid", Count: 2, TotalAmount: decimal.NewFromInt(1000)},
		{PaymentStatus: "pending", Count: 1, TotalAmount: decimal.NewFromInt(500)},
	}}

	resp, err := f.svc.Admin(servicetest.As(user.RoleHR, ""), dashboard.AdminFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.Overview.TotalEmployees)
	assert.Equal(t, "2024-02-13", f.repo.joinedSince.Format(dateLayout))
	assert.Equal(t, int64(1), resp.TodayAttendance.Absent)
	assert.Equal(t, "70", resp.TodayAttendance.AttendancePercentage.String())
	assert.Equal(t, "2024-03", resp.MonthlyAttendance.Month)
	assert.Equal(t, int64(120), resp.MonthlyAttendance.Present)
	assert.Equal(t, int64(1), resp.LeaveManagement.PendingApprovals)
	require.Len(t, resp.LeaveManagement.PendingLeaves, 1)
	assert.True(t, resp.PayrollSummary.TotalPayroll.Equal(decimal.NewFromInt(1500)))
	assert.True(t, resp.PayrollSummary.PaidPayroll.Equal(decimal.NewFromInt(1000)))
	assert.True(t, resp.PayrollSummary.Pending.Equal(decimal.NewFromInt(500)))
	assert.NotNil(t, resp.EmployeesByDepartment)
	assert.NotNil(t, resp.TopOvertimeEmployees)

	_, err = f.svc.Admin(servicetest.As(user.RoleEmployee, "e-1"), dashboard.AdminFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestEmployee(t *testing.T) {
	f := newDashboardFixture()
	f.attendance.summary = attendance.Summary{Present: 9, HalfDay: 1, TotalWorkingHours: decimal.RequireFromString("80.456")}
	f.leaves.summary = leave.Summary{Total: 4, Pending: 1, DaysTaken: 6}
	f.payrolls.rows = []payroll.Payroll{{ID: "p-1", Month: 2, Year: 2024}}

	resp, err := f.svc.Employee(servicetest.As(user.RoleEmployee, "e-1"))
	require.NoError(t, err)
	assert.Equal(t, "John Doe", resp.Profile.Name)
	assert.Equal(t, "2024-01-15", resp.Profile.DateOfJoining)
	assert.Nil(t, resp.TodayAttendance)
	assert.Equal(t, int64(9), resp.AttendanceStats.PresentDays)
	assert.Equal(t, "80.46", resp.AttendanceStats.TotalWorkingHours.String())
	assert.Equal(t, int64(6), resp.LeaveStats.ApprovedDays)
	require.NotNil(t, resp.LatestPayroll)
	assert.Equal(t, "p-1", resp.LatestPayroll.ID)
	assert.NotNil(t, resp.RecentAttendance)

	_, err = f.svc.Employee(servicetest.As(user.RoleAdmin, ""))
	assert.ErrorIs(t, err, user.ErrEmployeeProfileRequired)
}

func TestAttendanceTrends(t *testing.T) {
	f := newDashboardFixture()
	ctx := servicetest.As(user.RoleAdmin, "")

	resp, err := f.svc.AttendanceTrends(ctx, dashboard.TrendFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", resp.StartDate)
	assert.Equal(t, "2024-03-14", resp.EndDate)
	assert.Len(t, resp.Days, 7)

	days := 1
	resp, err = f.svc.AttendanceTrends(ctx, dashboard.TrendFilter{Days: &days})
	require.NoError(t, err)
	assert.Equal(t, resp.StartDate, resp.EndDate)
	assert.Equal(t, f.repo.trendFrom, f.repo.trendTo)
}

func TestLeaveTrends_DefaultsToCurrentYear(t *testing.T) {
	f := newDashboardFixture()
	resp, err := f.svc.LeaveTrends(servicetest.As(user.RoleHR, ""), dashboard.LeaveTrendFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2024, resp.Year)
	assert.Len(t, resp.Months, 12)
}

func TestQuickStats(t *testing.T) {
	t.Run("staff", func(t *testing.T) {
		f := newDashboardFixture()
		f.repo.headcount = dashboard.Headcount{TotalActive: 25}
		f.repo.day = dashboard.DayAttendance{Present: 20}
		f.leaves.rows = []leave.Leave{{ID: "l-1"}, {ID: "l-2"}}
		f.payrolls.stats = payroll.Stats{ByStatus: []payroll.StatusTotal{{PaymentStatus: "pending", Count: 4}}}

		resp, err := f.svc.QuickStats(servicetest.As(user.RoleAdmin, ""))
		require.NoError(t, err)
		require.NotNil(t, resp.TotalEmployees)
		assert.Equal(t, int64(25), *resp.TotalEmployees)
		assert.Equal(t, int64(20), *resp.PresentToday)
		assert.Equal(t, int64(4), *resp.PendingPayroll)
		assert.Equal(t, int64(2), resp.PendingLeaves)
		assert.Nil(t, resp.CheckedIn)
	})

	t.Run("employee", func(t *testing.T) {
		f := newDashboardFixture()
		now := time.Date(2024, 3, 14, 2, 0, 0, 0, time.UTC)
		f.attendance.today = &attendance.Attendance{CheckIn: &now}
		f.attendance.summary = attendance.Summary{Present: 9}
		f.leaves.summary = leave.Summary{Pending: 1}
		f.leaves.taken = map[leave.Type]int{leave.TypePaid: 3}

		resp, err := f.svc.QuickStats(servicetest.As(user.RoleEmployee, "e-1"))
		require.NoError(t, err)
		assert.Nil(t, resp.TotalEmployees)
		assert.True(t, *resp.CheckedIn)
		assert.False(t, *resp.CheckedOut)
		assert.Equal(t, int64(9), *resp.MonthlyPresentDays)
		assert.Equal(t, 19, *resp.LeaveBalanceTotal)
		assert.Equal(t, int64(1), resp.PendingLeaves)
	})
}

func TestAnalytics(t *testing.T) {
	f := newDashboardFixture()
	f.repo.metrics = []dashboard.EmployeeMetric{
		{EmployeeID: "e1", Department: "Engineering", TotalHours: decimal.NewFromInt(189), PresentDays: 21},
	}

	resp, err := f.svc.Analytics(servicetest.As(user.RoleHR, ""), dashboard.AnalyticsFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", resp.Month)
	assert.Equal(t, "2024-03-01", f.repo.metricsFrom.Format(dateLayout))
	assert.Equal(t, "2024-01-01", f.repo.metricsYearStart.Format(dateLayout))
	require.Len(t, resp.Insights.TopPerformers, 1)

	_, err = f.svc.Analytics(servicetest.As(user.RoleEmployee, "e-1"), dashboard.AnalyticsFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}
