package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout     = "2006-01-02"
	recentLimit    = 5
	topOvertime    = 5
	joiningsWindow = 30
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRepository
	payrollRepo    payroll.PayrollRepository
	thresholds     dashboard.Thresholds
	entitlements   map[string]int
	location       *time.Location
	now            func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	payrollRepo payroll.PayrollRepository,
	thresholds dashboard.Thresholds,
	entitlements map[string]int,
	location *time.Location,
) dashboard.DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		employeeRepo:        employeeRepo,
		attendanceRepo:      attendanceRepo,
		leaveRepo:           leaveRepo,
		payrollRepo:         payrollRepo,
		thresholds:          thresholds,
		entitlements:        entitlements,
		location:            location,
		now:                 time.Now,
	}
}

// today is the current calendar date in the configured location, at UTC midnight.
func (s *DashboardServiceImpl) today() time.Time {
	y, m, d := s.now().In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthToDate is the inclusive range from the first of day's month to day.
func monthToDate(day time.Time) common.DateRange {
	start := monthStart(day).Format(dateLayout)
	end := day.Format(dateLayout)
	return common.DateRange{StartDate: &start, EndDate: &end}
}

func staff(ctx context.Context) (user.Principal, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	if err := user.Authorize(p, user.ResourceDashboard, user.ActionAdminView, ""); err != nil {
		return user.Principal{}, err
	}
	return p, nil
}

func self(ctx context.Context) (string, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	if err := user.Authorize(p, user.ResourceDashboard, user.ActionOwnView, p.OwnEmployeeID()); err != nil {
		return "", err
	}
	return p.OwnEmployeeID(), nil
}

// Employee implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Employee(ctx context.Context) (dashboard.EmployeeDashboardResponse, error) {
	employeeID, err := self(ctx)
	if err != nil {
		return dashboard.EmployeeDashboardResponse{}, err
	}

	today := s.today()
	recent := common.Pagination{Page: 1, Limit: recentLimit}

	var (
		profile      employee.Employee
		todayRow     *attendance.AttendanceResponse
		monthSummary attendance.Summary
		leaveSummary leave.Summary
		leaves       []leave.Leave
		payrolls     []payroll.Payroll
		attendances  []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		profile, err = s.employeeRepo.GetByID(gCtx, employeeID)
		return err
	})

	g.Go(func() error {
		a, err := s.attendanceRepo.GetByEmployeeAndDate(gCtx, employeeID, today)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		resp := attendance.NewAttendanceResponse(a)
		todayRow = &resp
		return nil
	})

	g.Go(func() error {
		var err error
		monthSummary, err = s.attendanceRepo.Summary(gCtx, employeeID, attendance.MyAttendanceFilter{DateRange: monthToDate(today)})
		return err
	})

	g.Go(func() error {
		var err error
		leaveSummary, err = s.leaveRepo.Summary(gCtx, employeeID)
		return err
	})

	g.Go(func() error {
		var err error
		leaves, _, err = s.leaveRepo.List(gCtx, leave.LeaveFilter{EmployeeID: &employeeID, Pagination: recent})
		return err
	})

	g.Go(func() error {
		var err error
		payrolls, _, err = s.payrollRepo.List(gCtx, payroll.PayrollFilter{EmployeeID: &employeeID, Pagination: common.Pagination{Page: 1, Limit: 1}})
		return err
	})

	g.Go(func() error {
		var err error
		attendances, _, err = s.attendanceRepo.List(gCtx, attendance.AttendanceFilter{EmployeeID: &employeeID, Pagination: recent})
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.EmployeeDashboardResponse{}, err
	}

	resp := dashboard.EmployeeDashboardResponse{
		Profile: dashboard.ProfileSummary{
			ID:            profile.ID,
			EmployeeCode:  profile.EmployeeCode,
			Name:          profile.FirstName + " " + profile.LastName,
			Department:    profile.Department,
			Designation:   profile.Designation,
			DateOfJoining: profile.DateOfJoining.Format(dateLayout),
		},
		TodayAttendance: todayRow,
		AttendanceStats: dashboard.AttendanceStats{
			Month:              today.Format("2006-01"),
			PresentDays:        monthSummary.Present,
			HalfDays:           monthSummary.HalfDay,
			TotalWorkingHours:  monthSummary.TotalWorkingHours.Round(2),
			TotalOvertimeHours: monthSummary.TotalOvertimeHours.Round(2),
		},
		LeaveStats: dashboard.LeaveStats{
			TotalApplications:   leaveSummary.Total,
			PendingApplications: leaveSummary.Pending,
			ApprovedDays:        leaveSummary.DaysTaken,
		},
		RecentLeaves:     make([]leave.LeaveResponse, 0, len(leaves)),
		RecentAttendance: make([]attendance.AttendanceResponse, 0, len(attendances)),
	}
	for _, l := range leaves {
		resp.RecentLeaves = append(resp.RecentLeaves, leave.NewLeaveResponse(l))
	}
	for _, a := range attendances {
		resp.RecentAttendance = append(resp.RecentAttendance, attendance.NewAttendanceResponse(a))
	}
	if len(payrolls) > 0 {
		latest := payroll.NewPayrollResponse(payrolls[0])
		resp.LatestPayroll = &latest
	}
	return resp, nil
}

// Admin implements dashboard.DashboardService. The rollups run concurrently.
func (s *DashboardServiceImpl) Admin(ctx context.Context, filter dashboard.AdminFilter) (dashboard.AdminDashboardResponse, error) {
	if _, err := staff(ctx); err != nil {
		return dashboard.AdminDashboardResponse{}, err
	}

	today := s.today()
	month, year := int(today.Month()), today.Year()
	pendingStatus := string(leave.StatusPending)

	var (
		headcount    dashboard.Headcount
		day          dashboard.DayAttendance
		monthStats   attendance.Stats
		pending      []leave.Leave
		pendingTotal int64
		payStats     payroll.Stats
		overtime     []dashboard.OvertimeEntry
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		headcount, err = s.Headcount(gCtx, filter.Department, today.AddDate(0, 0, -joiningsWindow))
		return err
	})

	g.Go(func() error {
		var err error
		day, err = s.DayAttendance(gCtx, today, filter.Department)
		return err
	})

	g.Go(func() error {
		var err error
		monthStats, err = s.attendanceRepo.Stats(gCtx, attendance.StatsFilter{Department: filter.Department, DateRange: monthToDate(today)})
		return err
	})

	g.Go(func() error {
		var err error
		pending, pendingTotal, err = s.leaveRepo.List(gCtx, leave.LeaveFilter{
			Department: filter.Department,
			Status:     &pendingStatus,
			Pagination: common.Pagination{Page: 1, Limit: recentLimit},
		})
		return err
	})

	g.Go(func() error {
		var err error
		payStats, err = s.payrollRepo.Stats(gCtx, payroll.StatsFilter{Department: filter.Department, Month: &month, Year: &year})
		return err
	})

	g.Go(func() error {
		var err error
		overtime, err = s.TopOvertime(gCtx, monthStart(today), today, filter.Department, topOvertime)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.AdminDashboardResponse{}, err
	}

	resp := dashboard.AdminDashboardResponse{
		Overview: dashboard.Overview{
			TotalEmployees: headcount.TotalActive,
			RecentJoinings: headcount.RecentJoinings,
		},
		TodayAttendance: dashboard.NewTodayAttendance(today, headcount.TotalActive, day),
		MonthlyAttendance: dashboard.MonthlyAttendance{
			Month:   today.Format("2006-01"),
			Present: monthStats.Present,
			Absent:  monthStats.Absent,
			HalfDay: monthStats.HalfDay,
			Leave:   monthStats.Leave,
		},
		LeaveManagement: dashboard.LeaveManagement{
			PendingApprovals: pendingTotal,
			PendingLeaves:    make([]leave.LeaveResponse, 0, len(pending)),
		},
		PayrollSummary:        newPayrollSummary(month, year, payStats),
		EmployeesByDepartment: headcount.ByDepartment,
		TopOvertimeEmployees:  overtime,
	}
	for _, l := range pending {
		resp.LeaveManagement.PendingLeaves = append(resp.LeaveManagement.PendingLeaves, leave.NewLeaveResponse(l))
	}
	if resp.EmployeesByDepartment == nil {
		resp.EmployeesByDepartment = []employee.DepartmentCount{}
	}
	if resp.TopOvertimeEmployees == nil {
		resp.TopOvertimeEmployees = []dashboard.OvertimeEntry{}
	}
	return resp, nil
}

func newPayrollSummary(month, year int, stats payroll.Stats) dashboard.PayrollSummary {
	sum := dashboard.PayrollSummary{
		Month:       month,
		Year:        year,
		PaidPayroll: stats.Total(payroll.PaymentStatusPaid).Round(2),
		Pending:     stats.Total(payroll.PaymentStatusPending).Round(2),
	}
	for _, st := range stats.ByStatus {
		sum.TotalPayroll = sum.TotalPayroll.Add(st.TotalAmount)
	}
	sum.TotalPayroll = sum.TotalPayroll.Round(2)
	return sum
}

// AttendanceTrends implements dashboard.DashboardService.
func (s *DashboardServiceImpl) AttendanceTrends(ctx context.Context, filter dashboard.TrendFilter) (dashboard.AttendanceTrendResponse, error) {
	if _, err := staff(ctx); err != nil {
		return dashboard.AttendanceTrendResponse{}, err
	}

	days := dashboard.DefaultTrendDays
	if filter.Days != nil {
		days = *filter.Days
	}
	end := s.today()
	start := end.AddDate(0, 0, -(days - 1))

	rows, err := s.AttendanceTrend(ctx, start, end, filter.Department)
	if err != nil {
		return dashboard.AttendanceTrendResponse{}, err
	}
	return dashboard.NewAttendanceTrendResponse(start, end, rows), nil
}

// LeaveTrends implements dashboard.DashboardService.
func (s *DashboardServiceImpl) LeaveTrends(ctx context.Context, filter dashboard.LeaveTrendFilter) (dashboard.LeaveTrendResponse, error) {
	if _, err := staff(ctx); err != nil {
		return dashboard.LeaveTrendResponse{}, err
	}

	year := s.today().Year()
	if filter.Year != nil {
		year = *filter.Year
	}

	rows, err := s.LeaveTrend(ctx, year, filter.Department)
	if err != nil {
		return dashboard.LeaveTrendResponse{}, err
	}
	return dashboard.NewLeaveTrendResponse(year, rows), nil
}

// QuickStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) QuickStats(ctx context.Context) (dashboard.QuickStatsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return dashboard.QuickStatsResponse{}, err
	}
	if user.CanAttempt(p, user.ResourceDashboard, user.ActionAdminView) {
		return s.staffQuickStats(ctx)
	}
	return s.employeeQuickStats(ctx)
}

func (s *DashboardServiceImpl) staffQuickStats(ctx context.Context) (dashboard.QuickStatsResponse, error) {
	today := s.today()
	month, year := int(today.Month()), today.Year()
	pendingStatus := string(leave.StatusPending)

	var (
		headcount     dashboard.Headcount
		day           dashboard.DayAttendance
		pendingLeaves int64
		payStats      payroll.Stats
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		headcount, err = s.Headcount(gCtx, nil, today.AddDate(0, 0, -joiningsWindow))
		return err
	})
	g.Go(func() error {
		var err error
		day, err = s.DayAttendance(gCtx, today, nil)
		return err
	})
	g.Go(func() error {
		var err error
		_, pendingLeaves, err = s.leaveRepo.List(gCtx, leave.LeaveFilter{
			Status:     &pendingStatus,
			Pagination: common.Pagination{Page: 1, Limit: 1},
		})
		return err
	})
	g.Go(func() error {
		var err error
		payStats, err = s.payrollRepo.Stats(gCtx, payroll.StatsFilter{Month: &month, Year: &year})
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.QuickStatsResponse{}, err
	}

	var pendingPayroll int64
	for _, st := range payStats.ByStatus {
		if st.PaymentStatus == string(payroll.PaymentStatusPending) {
			pendingPayroll = st.Count
		}
	}
	return dashboard.QuickStatsResponse{
		TotalEmployees: &headcount.TotalActive,
		PresentToday:   &day.Present,
		PendingPayroll: &pendingPayroll,
		PendingLeaves:  pendingLeaves,
	}, nil
}

func (s *DashboardServiceImpl) employeeQuickStats(ctx context.Context) (dashboard.QuickStatsResponse, error) {
	employeeID, err := self(ctx)
	if err != nil {
		return dashboard.QuickStatsResponse{}, err
	}
	today := s.today()

	var (
		checkedIn    bool
		checkedOut   bool
		monthSummary attendance.Summary
		leaveSummary leave.Summary
		taken        map[leave.Type]int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.attendanceRepo.GetByEmployeeAndDate(gCtx, employeeID, today)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		checkedIn = a.CheckIn != nil
		checkedOut = a.CheckOut != nil
		return nil
	})
	g.Go(func() error {
		var err error
		monthSummary, err = s.attendanceRepo.Summary(gCtx, employeeID, attendance.MyAttendanceFilter{DateRange: monthToDate(today)})
		return err
	})
	g.Go(func() error {
		var err error
		leaveSummary, err = s.leaveRepo.Summary(gCtx, employeeID)
		return err
	})
	g.Go(func() error {
		var err error
		taken, err = s.leaveRepo.DaysTaken(gCtx, employeeID, today.Year())
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.QuickStatsResponse{}, err
	}

	// Unlimited types have no remaining count and are left out of the total.
	balance := 0
	for _, b := range leave.Balances(s.entitlements, taken) {
		if b.Remaining != nil {
			balance += *b.Remaining
		}
	}
	return dashboard.QuickStatsResponse{
		CheckedIn:          &checkedIn,
		CheckedOut:         &checkedOut,
		MonthlyPresentDays: &monthSummary.Present,
		LeaveBalanceTotal:  &balance,
		PendingLeaves:      leaveSummary.Pending,
	}, nil
}

// Analytics implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Analytics(ctx context.Context, filter dashboard.AnalyticsFilter) (dashboard.AnalyticsResponse, error) {
	if _, err := staff(ctx); err != nil {
		return dashboard.AnalyticsResponse{}, err
	}

	today := s.today()
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	metrics, err := s.EmployeeMetrics(ctx, monthStart(today), today, yearStart, filter.Department)
	if err != nil {
		return dashboard.AnalyticsResponse{}, err
	}
	return dashboard.NewAnalyticsResponse(today.Format("2006-01"), metrics, s.thresholds), nil
}
