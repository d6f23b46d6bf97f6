package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.month, p.year, p.basic_salary, p.allowances, p.deductions,
	p.overtime_amount, p.bonus, p.gross_salary, p.net_salary, p.payment_status, p.payment_method,
	p.payment_date, p.notes, p.created_at, p.updated_at,
	e.employee_code, e.first_name || ' ' || e.last_name, e.email, e.department, e.designation, e.date_of_joining
`

const payrollFrom = `
	FROM payrolls p
	JOIN employees e ON e.id = p.employee_id
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var allowancesJSON, deductionsJSON []byte
	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.Month,
		&p.Year,
		&p.BasicSalary,
		&allowancesJSON,
		&deductionsJSON,
		&p.OvertimeAmount,
		&p.Bonus,
		&p.GrossSalary,
		&p.NetSalary,
		&p.PaymentStatus,
		&p.PaymentMethod,
		&p.PaymentDate,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.EmployeeCode,
		&p.EmployeeName,
		&p.EmployeeEmail,
		&p.Department,
		&p.Designation,
		&p.DateOfJoining,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if err := json.Unmarshal(allowancesJSON, &p.Allowances); err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to decode allowances: %w", err)
	}
	if err := json.Unmarshal(deductionsJSON, &p.Deductions); err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to decode deductions: %w", err)
	}
	return p, nil
}

func marshalComponents(p payroll.Payroll) ([]byte, []byte, error) {
	allowances, err := json.Marshal(p.Allowances)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode allowances: %w", err)
	}
	deductions, err := json.Marshal(p.Deductions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode deductions: %w", err)
	}
	return allowances, deductions, nil
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	allowances, deductions, err := marshalComponents(p)
	if err != nil {
		return payroll.Payroll{}, err
	}

	query := `
		INSERT INTO payrolls (
			employee_id, month, year, basic_salary, allowances, deductions, overtime_amount, bonus,
			gross_salary, net_salary, payment_status, payment_method, payment_date, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err = q.QueryRow(ctx, query,
		p.EmployeeID,
		p.Month,
		p.Year,
		p.BasicSalary,
		allowances,
		deductions,
		p.OvertimeAmount,
		p.Bonus,
		p.GrossSalary,
		p.NetSalary,
		p.PaymentStatus,
		p.PaymentMethod,
		p.PaymentDate,
		p.Notes,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "payrolls_employee_period_key") {
			return payroll.Payroll{}, payroll.ErrPayrollExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, "SELECT "+payrollColumns+payrollFrom+" WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll by id %s: %w", id, err)
	}
	return p, nil
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Update(ctx context.Context, p payroll.Payroll, from payroll.PaymentStatus) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	allowances, deductions, err := marshalComponents(p)
	if err != nil {
		return payroll.Payroll{}, err
	}

	query := `
		UPDATE payrolls
		SET basic_salary = $1, allowances = $2, deductions = $3, overtime_amount = $4, bonus = $5,
			gross_salary = $6, net_salary = $7, payment_status = $8, payment_method = $9,
			payment_date = $10, notes = $11, updated_at = NOW()
		WHERE id = $12 AND payment_status = $13
	`
	tag, err := q.Exec(ctx, query,
		p.BasicSalary,
		allowances,
		deductions,
		p.OvertimeAmount,
		p.Bonus,
		p.GrossSalary,
		p.NetSalary,
		p.PaymentStatus,
		p.PaymentMethod,
		p.PaymentDate,
		p.Notes,
		p.ID,
		from,
	)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll with id %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.Payroll{}, r.staleUpdate(ctx, p.ID)
	}
	return r.GetByID(ctx, p.ID)
}

// staleUpdate explains why a guarded UPDATE touched no row.
func (r *payrollRepositoryImpl) staleUpdate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var current string
	err := q.QueryRow(ctx, `SELECT payment_status FROM payrolls WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrPayrollNotFound
		}
		return fmt.Errorf("failed to check payroll status: %w", err)
	}
	if payroll.PaymentStatus(current) == payroll.PaymentStatusPaid {
		return payroll.ErrPayrollPaid
	}
	return fmt.Errorf("%w: payroll is now %s", payroll.ErrInvalidStatusTransition, current)
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payrolls WHERE id = $1 AND payment_status <> 'paid'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payrolls WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check payroll: %w", err)
	}
	if exists {
		return payroll.ErrPayrollPaid
	}
	return payroll.ErrPayrollNotFound
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil {
		add("p.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Department != nil {
		add("e.department = $%d", *filter.Department)
	}
	if filter.Month != nil {
		add("p.month = $%d", *filter.Month)
	}
	if filter.Year != nil {
		add("p.year = $%d", *filter.Year)
	}
	if filter.PaymentStatus != nil {
		add("p.payment_status = $%d", *filter.PaymentStatus)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+payrollFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	query := "SELECT " + payrollColumns + payrollFrom + where +
		fmt.Sprintf(" ORDER BY p.year DESC, p.month DESC, e.first_name ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	payrolls := make([]payroll.Payroll, 0)
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payrolls: %w", err)
	}
	return payrolls, total, nil
}

// Summary implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Summary(ctx context.Context, employeeID string) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(net_salary) FILTER (WHERE payment_status = 'paid'), 0),
			COALESCE(SUM(net_salary) FILTER (WHERE payment_status IN ('pending', 'processing')), 0)
		FROM payrolls
		WHERE employee_id = $1
	`
	var s payroll.Summary
	if err := q.QueryRow(ctx, query, employeeID).Scan(&s.TotalEarned, &s.TotalPending); err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to summarize payrolls: %w", err)
	}
	return s, nil
}

// Stats implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Stats(ctx context.Context, filter payroll.StatsFilter) (payroll.Stats, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.Department != nil {
		add("e.department = $%d", *filter.Department)
	}
	if filter.Month != nil {
		add("p.month = $%d", *filter.Month)
	}
	if filter.Year != nil {
		add("p.year = $%d", *filter.Year)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var s payroll.Stats
	err := q.QueryRow(ctx, "SELECT COUNT(*), COALESCE(AVG(p.net_salary), 0)"+payrollFrom+where, args...).
		Scan(&s.TotalRecords, &s.AverageSalary)
	if err != nil {
		return payroll.Stats{}, fmt.Errorf("failed to compute payroll stats: %w", err)
	}
	s.AverageSalary = s.AverageSalary.Round(2)

	rows, err := q.Query(ctx, `
		SELECT p.payment_status, COUNT(*), COALESCE(SUM(p.net_salary), 0)`+payrollFrom+where+`
		GROUP BY p.payment_status
		ORDER BY p.payment_status
	`, args...)
	if err != nil {
		return payroll.Stats{}, fmt.Errorf("failed to compute payroll stats by status: %w", err)
	}
	s.ByStatus, err = pgx.CollectRows(rows, pgx.RowToStructByPos[payroll.StatusTotal])
	if err != nil {
		return payroll.Stats{}, fmt.Errorf("failed to scan payroll stats by status: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT e.department, COUNT(*), COALESCE(SUM(p.net_salary), 0), ROUND(COALESCE(AVG(p.net_salary), 0), 2)`+payrollFrom+where+`
		GROUP BY e.department
		ORDER BY e.department
	`, args...)
	if err != nil {
		return payroll.Stats{}, fmt.Errorf("failed to compute payroll stats by department: %w", err)
	}
	s.ByDepartment, err = pgx.CollectRows(rows, pgx.RowToStructByPos[payroll.DepartmentTotal])
	if err != nil {
		return payroll.Stats{}, fmt.Errorf("failed to scan payroll stats by department: %w", err)
	}
	return s, nil
}
