package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.status,
	a.working_hours, a.overtime_hours, a.notes, a.created_at, a.updated_at,
	e.employee_code, e.first_name || ' ' || e.last_name, e.department, e.designation
`

const attendanceFrom = `
	FROM attendance a
	JOIN employees e ON e.id = a.employee_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.WorkingHours,
		&a.OvertimeHours,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeCode,
		&a.EmployeeName,
		&a.Department,
		&a.Designation,
	)
	return a, err
}

func (r *attendanceRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + attendanceColumns + attendanceFrom + " WHERE " + where
	a, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (employee_id, date, check_in, check_out, status, working_hours, overtime_hours, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		a.EmployeeID,
		a.Date,
		a.CheckIn,
		a.CheckOut,
		a.Status,
		a.WorkingHours,
		a.OvertimeHours,
		a.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "attendance_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return r.getOne(ctx, "a.employee_id = $1 AND a.date = $2", employeeID, date)
}

// RecordCheckIn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) RecordCheckIn(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET check_in = $1, status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $4 AND check_in IS NULL
	`
	tag, err := q.Exec(ctx, query, a.CheckIn, a.Status, a.Notes, a.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	return r.GetByID(ctx, a.ID)
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) RecordCheckOut(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET check_out = $1, status = $2, working_hours = $3, overtime_hours = $4,
			notes = COALESCE($5, notes), updated_at = NOW()
		WHERE id = $6 AND check_in IS NOT NULL AND check_out IS NULL
	`
	tag, err := q.Exec(ctx, query, a.CheckOut, a.Status, a.WorkingHours, a.OvertimeHours, a.Notes, a.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	return r.GetByID(ctx, a.ID)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET check_in = $1, check_out = $2, status = $3, working_hours = $4, overtime_hours = $5,
			notes = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := q.Exec(ctx, query, a.CheckIn, a.CheckOut, a.Status, a.WorkingHours, a.OvertimeHours, a.Notes, a.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance with id %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.GetByID(ctx, a.ID)
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// attendanceWhere accumulates the filter clauses shared by list, summary and stats queries.
type attendanceWhere struct {
	conditions []string
	args       []interface{}
}

func (w *attendanceWhere) add(cond string, val interface{}) {
	w.args = append(w.args, val)
	w.conditions = append(w.conditions, fmt.Sprintf(cond, len(w.args)))
}

func (w *attendanceWhere) dateRange(d common.DateRange) {
	if d.StartDate != nil && *d.StartDate != "" {
		w.add("a.date >= $%d::date", *d.StartDate)
	}
	if d.EndDate != nil && *d.EndDate != "" {
		w.add("a.date <= $%d::date", *d.EndDate)
	}
}

func (w *attendanceWhere) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, w *attendanceWhere, p common.Pagination) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+attendanceFrom+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	n := len(w.args)
	query := "SELECT " + attendanceColumns + attendanceFrom + w.String() +
		fmt.Sprintf(" ORDER BY a.date DESC, e.first_name ASC LIMIT $%d OFFSET $%d", n+1, n+2)
	args := append(w.args, p.Limit, p.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, total, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	w := &attendanceWhere{}
	if filter.EmployeeID != nil {
		w.add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Department != nil {
		w.add("e.department = $%d", *filter.Department)
	}
	if filter.Status != nil {
		w.add("a.status = $%d", *filter.Status)
	}
	w.dateRange(filter.DateRange)
	return r.list(ctx, w, filter.Pagination)
}

// Summary implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Summary(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.Summary, error) {
	q := GetQuerier(ctx, r.db)

	w := &attendanceWhere{}
	w.add("a.employee_id = $%d", employeeID)
	w.dateRange(filter.DateRange)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'half_day'),
			COUNT(*) FILTER (WHERE a.status = 'leave'),
			COALESCE(SUM(a.working_hours), 0),
			COALESCE(SUM(a.overtime_hours), 0)
		FROM attendance a` + w.String()

	var s attendance.Summary
	err := q.QueryRow(ctx, query, w.args...).Scan(
		&s.Present,
		&s.Absent,
		&s.HalfDay,
		&s.Leave,
		&s.TotalWorkingHours,
		&s.TotalOvertimeHours,
	)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	return s, nil
}

// Stats implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Stats(ctx context.Context, filter attendance.StatsFilter) (attendance.Stats, error) {
	q := GetQuerier(ctx, r.db)

	w := &attendanceWhere{}
	if filter.Department != nil {
		w.add("e.department = $%d", *filter.Department)
	}
	w.dateRange(filter.DateRange)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'half_day'),
			COUNT(*) FILTER (WHERE a.status = 'leave'),
			COALESCE(AVG(a.working_hours) FILTER (WHERE a.check_out IS NOT NULL), 0),
			COALESCE(SUM(a.overtime_hours), 0)
		` + attendanceFrom + w.String()

	var s attendance.Stats
	err := q.QueryRow(ctx, query, w.args...).Scan(
		&s.Present,
		&s.Absent,
		&s.HalfDay,
		&s.Leave,
		&s.AverageWorkingHours,
		&s.TotalOvertimeHours,
	)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to compute attendance stats: %w", err)
	}
	s.AverageWorkingHours = s.AverageWorkingHours.Round(2)
	return s, nil
}

// MarkAbsent implements attendance.AttendanceRepository. Ids that match no
// employee are ignored and counted in neither total.
func (r *attendanceRepositoryImpl) MarkAbsent(ctx context.Context, employeeIDs []string, date time.Time) (int, int, error) {
	if len(employeeIDs) == 0 {
		return 0, 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		WITH targets AS (
			SELECT id FROM employees WHERE id = ANY($1::uuid[])
		), inserted AS (
			INSERT INTO attendance (employee_id, date, status)
			SELECT id, $2, 'absent' FROM targets
			ON CONFLICT (employee_id, date) DO NOTHING
			RETURNING employee_id
		)
		SELECT (SELECT COUNT(*) FROM inserted), (SELECT COUNT(*) FROM targets)
	`

	var marked, targets int
	if err := q.QueryRow(ctx, query, employeeIDs, date).Scan(&marked, &targets); err != nil {
		return 0, 0, fmt.Errorf("failed to mark absent: %w", err)
	}
	return marked, targets - marked, nil
}
