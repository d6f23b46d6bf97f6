package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// Headcount returns active totals and the department breakdown in two queries.
func (r *dashboardRepositoryImpl) Headcount(ctx context.Context, department *string, since time.Time) (dashboard.Headcount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE date_of_joining >= $2)
		FROM employees
		WHERE status = 'active' AND ($1::text IS NULL OR department = $1)
	`

	var h dashboard.Headcount
	if err := q.QueryRow(ctx, query, department, since).Scan(&h.TotalActive, &h.RecentJoinings); err != nil {
		return dashboard.Headcount{}, fmt.Errorf("failed to get headcount: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT department, COUNT(*)
		FROM employees
		WHERE status = 'active' AND ($1::text IS NULL OR department = $1)
		GROUP BY department
		ORDER BY COUNT(*) DESC, department ASC
	`, department)
	if err != nil {
		return dashboard.Headcount{}, fmt.Errorf("failed to get headcount by department: %w", err)
	}
	h.ByDepartment, err = pgx.CollectRows(rows, pgx.RowToStructByPos[employee.DepartmentCount])
	if err != nil {
		return dashboard.Headcount{}, fmt.Errorf("failed to scan headcount by department: %w", err)
	}
	return h, nil
}

// DayAttendance counts active employees by their state on date.
func (r *dashboardRepositoryImpl) DayAttendance(ctx context.Context, date time.Time, department *string) (dashboard.DayAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE a.status IN ('present', 'half_day')),
			COUNT(*) FILTER (WHERE a.status = 'half_day'),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM leaves l
				WHERE l.employee_id = e.id AND l.status = 'approved'
				  AND l.start_date <= $1 AND l.end_date >= $1
			))
		FROM employees e
		LEFT JOIN attendance a ON a.employee_id = e.id AND a.date = $1
		WHERE e.status = 'active' AND ($2::text IS NULL OR e.department = $2)
	`

	var d dashboard.DayAttendance
	if err := q.QueryRow(ctx, query, date, department).Scan(&d.Present, &d.HalfDay, &d.OnLeave); err != nil {
		return dashboard.DayAttendance{}, fmt.Errorf("failed to get day attendance: %w", err)
	}
	return d, nil
}

// TopOvertime implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) TopOvertime(ctx context.Context, from, to time.Time, department *string, limit int) ([]dashboard.OvertimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.employee_code, e.first_name || ' ' || e.last_name, e.department, SUM(a.overtime_hours)
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1 AND $2
		  AND a.overtime_hours > 0
		  AND ($3::text IS NULL OR e.department = $3)
		GROUP BY e.id, e.employee_code, e.first_name, e.last_name, e.department
		ORDER BY SUM(a.overtime_hours) DESC
		LIMIT $4
	`
	rows, err := q.Query(ctx, query, from, to, department, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top overtime: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[dashboard.OvertimeEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan top overtime: %w", err)
	}
	return entries, nil
}

// AttendanceTrend implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) AttendanceTrend(ctx context.Context, from, to time.Time, department *string) ([]dashboard.DayTrend, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			a.date,
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'half_day'),
			COUNT(*) FILTER (WHERE a.status = 'leave')
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1 AND $2
		  AND ($3::text IS NULL OR e.department = $3)
		GROUP BY a.date
		ORDER BY a.date ASC
	`
	rows, err := q.Query(ctx, query, from, to, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance trend: %w", err)
	}
	days, err := pgx.CollectRows(rows, pgx.RowToStructByPos[dashboard.DayTrend])
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance trend: %w", err)
	}
	return days, nil
}

// LeaveTrend implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) LeaveTrend(ctx context.Context, year int, department *string) ([]dashboard.LeaveTrendRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			EXTRACT(MONTH FROM l.start_date)::int,
			l.leave_type,
			COUNT(*),
			COALESCE(SUM(l.number_of_days), 0)
		FROM leaves l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.status = 'approved'
		  AND EXTRACT(YEAR FROM l.start_date) = $1
		  AND ($2::text IS NULL OR e.department = $2)
		GROUP BY 1, 2
		ORDER BY 1, 2
	`
	rows, err := q.Query(ctx, query, year, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave trend: %w", err)
	}
	trend, err := pgx.CollectRows(rows, pgx.RowToStructByPos[dashboard.LeaveTrendRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave trend: %w", err)
	}
	return trend, nil
}

// EmployeeMetrics implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) EmployeeMetrics(ctx context.Context, from, to, yearStart time.Time, department *string) ([]dashboard.EmployeeMetric, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id, e.employee_code, e.first_name, e.last_name, e.department, e.designation, e.avatar_url,
			COALESCE(att.total_hours, 0),
			COALESCE(att.present_days, 0),
			COALESCE(lv.days, 0)
		FROM employees e
		LEFT JOIN LATERAL (
			SELECT SUM(a.working_hours) AS total_hours,
			       COUNT(*) FILTER (WHERE a.status = 'present') AS present_days
			FROM attendance a
			WHERE a.employee_id = e.id AND a.date BETWEEN $1 AND $2
		) att ON TRUE
		LEFT JOIN LATERAL (
			SELECT SUM(l.number_of_days) AS days
			FROM leaves l
			WHERE l.employee_id = e.id AND l.status = 'approved' AND l.start_date >= $3
		) lv ON TRUE
		WHERE e.status = 'active' AND ($4::text IS NULL OR e.department = $4)
		ORDER BY e.first_name ASC, e.last_name ASC
	`
	rows, err := q.Query(ctx, query, from, to, yearStart, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee metrics: %w", err)
	}
	metrics, err := pgx.CollectRows(rows, pgx.RowToStructByPos[dashboard.EmployeeMetric])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee metrics: %w", err)
	}
	return metrics, nil
}
