package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveColumns = `
	l.id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.number_of_days, l.reason,
	l.status, l.approved_by, l.approval_date, l.approval_remarks, l.created_at, l.updated_at,
	e.employee_code, e.first_name || ' ' || e.last_name, e.email, e.department, au.email
`

const leaveFrom = `
	FROM leaves l
	JOIN employees e ON e.id = l.employee_id
	LEFT JOIN users au ON au.id = l.approved_by
`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.LeaveType,
		&l.StartDate,
		&l.EndDate,
		&l.NumberOfDays,
		&l.Reason,
		&l.Status,
		&l.ApprovedBy,
		&l.ApprovalDate,
		&l.ApprovalRemarks,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.EmployeeCode,
		&l.EmployeeName,
		&l.EmployeeEmail,
		&l.Department,
		&l.ApproverEmail,
	)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (employee_id, leave_type, start_date, end_date, number_of_days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		l.EmployeeID,
		l.LeaveType,
		l.StartDate,
		l.EndDate,
		l.NumberOfDays,
		l.Reason,
		l.Status,
	).Scan(&id)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, "SELECT "+leaveColumns+leaveFrom+" WHERE l.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave by id %s: %w", id, err)
	}
	return l, nil
}

// Update implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Update(ctx context.Context, l leave.Leave, from leave.Status) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET leave_type = $1, start_date = $2, end_date = $3, number_of_days = $4, reason = $5,
			status = $6, approved_by = $7, approval_date = $8, approval_remarks = $9, updated_at = NOW()
		WHERE id = $10 AND status = $11
	`
	tag, err := q.Exec(ctx, query,
		l.LeaveType,
		l.StartDate,
		l.EndDate,
		l.NumberOfDays,
		l.Reason,
		l.Status,
		l.ApprovedBy,
		l.ApprovalDate,
		l.ApprovalRemarks,
		l.ID,
		from,
	)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to update leave with id %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leaves WHERE id = $1)`, l.ID).Scan(&exists); err != nil {
			return leave.Leave{}, fmt.Errorf("failed to check leave: %w", err)
		}
		if exists {
			return leave.Leave{}, leave.ErrLeaveNotPending
		}
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return r.GetByID(ctx, l.ID)
}

// Delete implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leaves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

func leaveDateRange(d common.DateRange, conditions []string, args []interface{}) ([]string, []interface{}) {
	if d.StartDate != nil && *d.StartDate != "" {
		args = append(args, *d.StartDate)
		conditions = append(conditions, fmt.Sprintf("l.start_date >= $%d::date", len(args)))
	}
	if d.EndDate != nil && *d.EndDate != "" {
		args = append(args, *d.EndDate)
		conditions = append(conditions, fmt.Sprintf("l.start_date <= $%d::date", len(args)))
	}
	return conditions, args
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil {
		add("l.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Department != nil {
		add("e.department = $%d", *filter.Department)
	}
	if filter.LeaveType != nil {
		add("l.leave_type = $%d", *filter.LeaveType)
	}
	if filter.Status != nil {
		add("l.status = $%d", *filter.Status)
	}
	conditions, args = leaveDateRange(filter.DateRange, conditions, args)

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+leaveFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leaves: %w", err)
	}

	query := "SELECT " + leaveColumns + leaveFrom + where +
		fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	leaves := make([]leave.Leave, 0)
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leaves: %w", err)
	}
	return leaves, total, nil
}

// HasOverlap implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leaves
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3 AND end_date >= $2
			  AND ($4 = '' OR id::text <> $4)
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	return exists, nil
}

const leaveSummaryColumns = `
	COUNT(*),
	COUNT(*) FILTER (WHERE l.status = 'pending'),
	COUNT(*) FILTER (WHERE l.status = 'approved'),
	COUNT(*) FILTER (WHERE l.status = 'rejected'),
	COUNT(*) FILTER (WHERE l.status = 'cancelled'),
	COALESCE(SUM(l.number_of_days) FILTER (WHERE l.status = 'approved'), 0)
`

// Summary implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Summary(ctx context.Context, employeeID string) (leave.Summary, error) {
	q := GetQuerier(ctx, r.db)

	var s leave.Summary
	err := q.QueryRow(ctx, "SELECT "+leaveSummaryColumns+" FROM leaves l WHERE l.employee_id = $1", employeeID).Scan(
		&s.Total,
		&s.Pending,
		&s.Approved,
		&s.Rejected,
		&s.Cancelled,
		&s.DaysTaken,
	)
	if err != nil {
		return leave.Summary{}, fmt.Errorf("failed to summarize leaves: %w", err)
	}
	return s, nil
}

// Stats implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Stats(ctx context.Context, filter leave.StatsFilter) (leave.Stats, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		conditions = append(conditions, fmt.Sprintf("e.department = $%d", len(args)))
	}
	conditions, args = leaveDateRange(filter.DateRange, conditions, args)

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	from := " FROM leaves l JOIN employees e ON e.id = l.employee_id" + where

	var s leave.Stats
	err := q.QueryRow(ctx, "SELECT "+leaveSummaryColumns+from, args...).Scan(
		&s.Total,
		&s.Pending,
		&s.Approved,
		&s.Rejected,
		&s.Cancelled,
		&s.DaysTaken,
	)
	if err != nil {
		return leave.Stats{}, fmt.Errorf("failed to compute leave stats: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT l.leave_type, COUNT(*), COALESCE(SUM(l.number_of_days), 0)`+from+`
		GROUP BY l.leave_type
		ORDER BY l.leave_type
	`, args...)
	if err != nil {
		return leave.Stats{}, fmt.Errorf("failed to compute leave stats by type: %w", err)
	}
	s.ByType, err = pgx.CollectRows(rows, pgx.RowToStructByPos[leave.TypeCount])
	if err != nil {
		return leave.Stats{}, fmt.Errorf("failed to scan leave stats by type: %w", err)
	}
	return s, nil
}

// DaysTaken implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) DaysTaken(ctx context.Context, employeeID string, year int) (map[leave.Type]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT leave_type, COALESCE(SUM(number_of_days), 0)
		FROM leaves
		WHERE employee_id = $1 AND status = 'approved' AND EXTRACT(YEAR FROM start_date) = $2
		GROUP BY leave_type
	`
	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to sum leave days taken: %w", err)
	}
	defer rows.Close()

	taken := make(map[leave.Type]int)
	for rows.Next() {
		var t leave.Type
		var days int
		if err := rows.Scan(&t, &days); err != nil {
			return nil, fmt.Errorf("failed to scan leave days taken: %w", err)
		}
		taken[t] = days
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave days taken: %w", err)
	}
	return taken, nil
}
