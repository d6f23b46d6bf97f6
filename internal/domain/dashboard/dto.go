package dashboard

import (
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	DefaultTrendDays = 7
	MaxTrendDays     = 90
)

// ========== EMPLOYEE DASHBOARD ==========

type ProfileSummary struct {
	ID            string `json:"id"`
	EmployeeCode  string `json:"employee_code"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	DateOfJoining string `json:"date_of_joining"`
}

type AttendanceStats struct {
	Month              string          `json:"month"`
	PresentDays        int64           `json:"monthly_present_days"`
	HalfDays           int64           `json:"monthly_half_days"`
	TotalWorkingHours  decimal.Decimal `json:"total_working_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
}

type LeaveStats struct {
	TotalApplications   int64 `json:"total_applications"`
	PendingApplications int64 `json:"pending_applications"`
	ApprovedDays        int64 `json:"approved_days"`
}

type EmployeeDashboardResponse struct {
	Profile          ProfileSummary                  `json:"profile"`
	TodayAttendance  *attendance.AttendanceResponse  `json:"today_attendance"`
	AttendanceStats  AttendanceStats                 `json:"attendance_stats"`
	LeaveStats       LeaveStats                      `json:"leave_stats"`
	RecentLeaves     []leave.LeaveResponse           `json:"recent_leaves"`
	LatestPayroll    *payroll.PayrollResponse        `json:"latest_payroll"`
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"`
}

// ========== ADMIN DASHBOARD ==========

type AdminFilter struct {
	Department *string `json:"department,omitempty"`
}

type Overview struct {
	TotalEmployees int64 `json:"total_employees"`
	RecentJoinings int64 `json:"recent_joinings"`
}

type TodayAttendance struct {
	Date                 string          `json:"date"`
	Present              int64           `json:"present"`
	HalfDay              int64           `json:"half_day"`
	OnLeave              int64           `json:"on_leave"`
	Absent               int64           `json:"absent"`
	AttendancePercentage decimal.Decimal `json:"attendance_percentage"`
}

// NewTodayAttendance derives absent as whatever is left of the headcount.
func NewTodayAttendance(date time.Time, total int64, day DayAttendance) TodayAttendance {
	t := TodayAttendance{
		Date:    date.Format("2006-01-02"),
		Present: day.Present,
		HalfDay: day.HalfDay,
		OnLeave: day.OnLeave,
		Absent:  total - day.Present - day.OnLeave,
	}
	if t.Absent < 0 {
		t.Absent = 0
	}
	if total > 0 {
		t.AttendancePercentage = decimal.NewFromInt(day.Present).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(total)).
			Round(2)
	}
	return t
}

type MonthlyAttendance struct {
	Month   string `json:"month"`
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
	HalfDay int64  `json:"half_day"`
	Leave   int64  `json:"leave"`
}

type LeaveManagement struct {
	PendingApprovals int64                 `json:"pending_approvals"`
	PendingLeaves    []leave.LeaveResponse `json:"pending_leaves_list"`
}

type PayrollSummary struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	TotalPayroll decimal.Decimal `json:"total_payroll"`
	PaidPayroll  decimal.Decimal `json:"paid_payroll"`
	Pending      decimal.Decimal `json:"pending_payroll"`
}

type AdminDashboardResponse struct {
	Overview              Overview                   `json:"overview"`
	TodayAttendance       TodayAttendance            `json:"today_attendance"`
	MonthlyAttendance     MonthlyAttendance          `json:"monthly_attendance"`
	LeaveManagement       LeaveManagement            `json:"leave_management"`
	PayrollSummary        PayrollSummary             `json:"payroll_summary"`
	EmployeesByDepartment []employee.DepartmentCount `json:"employees_by_department"`
	TopOvertimeEmployees  []OvertimeEntry            `json:"top_overtime_employees"`
}

// ========== TRENDS ==========

type TrendFilter struct {
	Days       *int    `json:"days,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (f *TrendFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Days == nil {
		days := DefaultTrendDays
		f.Days = &days
	}
	if *f.Days < 1 || *f.Days > MaxTrendDays {
		errs.Add("days", "days must be between 1 and 90")
	}
	return errs.Err()
}

type DayTrendResponse struct {
	Date    string `json:"date"`
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
	HalfDay int64  `json:"half_day"`
	Leave   int64  `json:"leave"`
}

type AttendanceTrendResponse struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Days      []DayTrendResponse `json:"days"`
}

// NewAttendanceTrendResponse emits one entry per day from start to end, zero-filled.
func NewAttendanceTrendResponse(start, end time.Time, rows []DayTrend) AttendanceTrendResponse {
	byDate := make(map[string]DayTrend, len(rows))
	for _, r := range rows {
		byDate[r.Date.Format("2006-01-02")] = r
	}

	resp := AttendanceTrendResponse{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Days:      []DayTrendResponse{},
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		r := byDate[key]
		resp.Days = append(resp.Days, DayTrendResponse{
			Date:    key,
			Present: r.Present,
			Absent:  r.Absent,
			HalfDay: r.HalfDay,
			Leave:   r.Leave,
		})
	}
	return resp
}

type LeaveTrendFilter struct {
	Year       *int    `json:"year,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (f *LeaveTrendFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	return errs.Err()
}

type MonthTrend struct {
	Month     string            `json:"month"`
	Count     int64             `json:"count"`
	TotalDays int64             `json:"total_days"`
	ByType    []leave.TypeCount `json:"by_type"`
}

type LeaveTrendResponse struct {
	Year   int          `json:"year"`
	Months []MonthTrend `json:"months"`
}

// NewLeaveTrendResponse emits all twelve months of year, zero-filled.
func NewLeaveTrendResponse(year int, rows []LeaveTrendRow) LeaveTrendResponse {
	resp := LeaveTrendResponse{Year: year, Months: make([]MonthTrend, 12)}
	for i := range resp.Months {
		resp.Months[i] = MonthTrend{
			Month:  time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			ByType: []leave.TypeCount{},
		}
	}
	for _, r := range rows {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		m := &resp.Months[r.Month-1]
		m.Count += r.Count
		m.TotalDays += r.TotalDays
		m.ByType = append(m.ByType, leave.TypeCount{LeaveType: r.LeaveType, Count: r.Count, TotalDays: r.TotalDays})
	}
	return resp
}

// ========== QUICK STATS ==========

// QuickStatsResponse carries the staff fields or the employee fields, never both.
type QuickStatsResponse struct {
	TotalEmployees     *int64 `json:"total_employees,omitempty"`
	PresentToday       *int64 `json:"present_today,omitempty"`
	PendingPayroll     *int64 `json:"pending_payroll,omitempty"`
	CheckedIn          *bool  `json:"checked_in,omitempty"`
	CheckedOut         *bool  `json:"checked_out,omitempty"`
	MonthlyPresentDays *int64 `json:"monthly_present_days,omitempty"`
	LeaveBalanceTotal  *int   `json:"leave_balance_total,omitempty"`
	PendingLeaves      int64  `json:"pending_leaves"`
}

// ========== ANALYTICS ==========

type AnalyticsFilter struct {
	Department *string `json:"department,omitempty"`
}

type EmployeePerformance struct {
	ID                   string          `json:"id"`
	EmployeeCode         string          `json:"employee_code"`
	Name                 string          `json:"name"`
	Department           string          `json:"department"`
	Designation          string          `json:"designation"`
	Avatar               *string         `json:"avatar,omitempty"`
	TotalWorkingHours    decimal.Decimal `json:"total_working_hours"`
	AverageDailyHours    decimal.Decimal `json:"avg_daily_hours"`
	PresentDays          int64           `json:"present_days"`
	AttendancePercentage decimal.Decimal `json:"attendance_percentage"`
	LeavesTaken          int64           `json:"leaves_taken"`
	PerformanceStatus    Classification  `json:"performance_status"`
	Recommendation       string          `json:"recommendation"`
}

func NewEmployeePerformance(m EmployeeMetric, t Thresholds) EmployeePerformance {
	score := t.Evaluate(m.TotalHours, m.PresentDays)
	return EmployeePerformance{
		ID:                   m.EmployeeID,
		EmployeeCode:         m.EmployeeCode,
		Name:                 m.Name(),
		Department:           m.Department,
		Designation:          m.Designation,
		Avatar:               m.AvatarURL,
		TotalWorkingHours:    m.TotalHours.Round(2),
		AverageDailyHours:    score.AverageDailyHours,
		PresentDays:          m.PresentDays,
		AttendancePercentage: score.AttendancePercentage,
		LeavesTaken:          m.LeavesTaken,
		PerformanceStatus:    score.Classification,
		Recommendation:       score.Classification.Recommendation(),
	}
}

type DepartmentChart struct {
	Name      string          `json:"name"`
	Employees int64           `json:"employees"`
	AvgHours  decimal.Decimal `json:"avg_hours"`
	AvgLeaves decimal.Decimal `json:"avg_leaves"`
}

type Insights struct {
	TopPerformers []EmployeePerformance `json:"top_performers"`
	AtRisk        []EmployeePerformance `json:"at_risk"`
}

type AnalyticsResponse struct {
	Month     string                `json:"month"`
	Employees []EmployeePerformance `json:"employees"`
	ChartData []DepartmentChart     `json:"chart_data"`
	Insights  Insights              `json:"insights"`
}

// NewAnalyticsResponse classifies every metric and rolls them up per department
// in first-seen order.
func NewAnalyticsResponse(month string, metrics []EmployeeMetric, t Thresholds) AnalyticsResponse {
	resp := AnalyticsResponse{
		Month:     month,
		Employees: make([]EmployeePerformance, 0, len(metrics)),
		ChartData: []DepartmentChart{},
		Insights:  Insights{TopPerformers: []EmployeePerformance{}, AtRisk: []EmployeePerformance{}},
	}

	type deptTotals struct {
		hours  decimal.Decimal
		leaves int64
		count  int64
	}
	totals := map[string]*deptTotals{}
	var order []string

	for _, m := range metrics {
		p := NewEmployeePerformance(m, t)
		resp.Employees = append(resp.Employees, p)
		switch p.PerformanceStatus {
		case HighPerformer:
			resp.Insights.TopPerformers = append(resp.Insights.TopPerformers, p)
		case AtRisk:
			resp.Insights.AtRisk = append(resp.Insights.AtRisk, p)
		}

		d, ok := totals[m.Department]
		if !ok {
			d = &deptTotals{}
			totals[m.Department] = d
			order = append(order, m.Department)
		}
		d.hours = d.hours.Add(p.TotalWorkingHours)
		d.leaves += m.LeavesTaken
		d.count++
	}

	for _, name := range order {
		d := totals[name]
		count := decimal.NewFromInt(d.count)
		resp.ChartData = append(resp.ChartData, DepartmentChart{
			Name:      name,
			Employees: d.count,
			AvgHours:  d.hours.Div(count).Round(1),
			AvgLeaves: decimal.NewFromInt(d.leaves).Div(count).Round(1),
		})
	}
	return resp
}
