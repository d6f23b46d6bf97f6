package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.user_id, e.company_id, e.employee_code, e.first_name, e.last_name, e.email, e.phone,
	e.date_of_birth, e.gender, e.address, e.city, e.state, e.country, e.postal_code,
	e.emergency_contact_name, e.emergency_contact_phone, e.emergency_contact_relation,
	e.department, e.designation, e.employment_type, e.date_of_joining, e.status, e.avatar_url,
	e.basic_salary, e.hra, e.da, e.ta, e.medical_allowance, e.other_allowances, e.gross_salary,
	e.pf, e.esi, e.professional_tax, e.tds, e.total_deductions, e.net_salary, e.salary_effective_from,
	e.created_at, e.updated_at,
	c.name, c.short_name, u.role
`

const employeeFrom = `
	FROM employees e
	JOIN companies c ON c.id = e.company_id
	JOIN users u ON u.id = e.user_id
`

// todayStatusColumn labels each row from today's attendance, falling back to
// approved leave. idx is the placeholder holding today's date.
func todayStatusColumn(idx int) string {
	return fmt.Sprintf(`
	CASE
		WHEN a.status = 'present' THEN 'Present'
		WHEN a.status = 'half_day' THEN 'Half Day'
		WHEN a.status = 'leave' OR EXISTS (
			SELECT 1 FROM leaves l
			WHERE l.employee_id = e.id AND l.status = 'approved'
			  AND l.start_date <= $%[1]d AND l.end_date >= $%[1]d
		) THEN 'On Leave'
		ELSE 'Absent'
	END`, idx)
}

func employeeDest(e *employee.Employee) []interface{} {
	return []interface{}{
		&e.ID,
		&e.UserID,
		&e.CompanyID,
		&e.EmployeeCode,
		&e.FirstName,
		&e.LastName,
		&e.Email,
		&e.Phone,
		&e.DateOfBirth,
		&e.Gender,
		&e.Address,
		&e.City,
		&e.State,
		&e.Country,
		&e.PostalCode,
		&e.EmergencyContactName,
		&e.EmergencyContactPhone,
		&e.EmergencyContactRelation,
		&e.Department,
		&e.Designation,
		&e.EmploymentType,
		&e.DateOfJoining,
		&e.Status,
		&e.AvatarURL,
		&e.Salary.BasicSalary,
		&e.Salary.HRA,
		&e.Salary.DA,
		&e.Salary.TA,
		&e.Salary.MedicalAllowance,
		&e.Salary.OtherAllowances,
		&e.Salary.GrossSalary,
		&e.Salary.PF,
		&e.Salary.ESI,
		&e.Salary.ProfessionalTax,
		&e.Salary.TDS,
		&e.Salary.TotalDeductions,
		&e.Salary.NetSalary,
		&e.SalaryEffectiveFrom,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.CompanyName,
		&e.CompanyShortName,
		&e.Role,
	}
}

func employeeConflict(err error) error {
	switch {
	case database.IsUniqueViolation(err, "employees_email_key", "employees_user_id_key"):
		return employee.ErrEmployeeEmailExists
	case database.IsUniqueViolation(err, "employees_employee_code_key"):
		return employee.ErrEmployeeCodeUnavailable
	}
	return nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			user_id, company_id, employee_code, first_name, last_name, email, phone,
			date_of_birth, gender, address, city, state, country, postal_code,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relation,
			department, designation, employment_type, date_of_joining, status,
			basic_salary, hra, da, ta, medical_allowance, other_allowances, gross_salary,
			pf, esi, professional_tax, tds, total_deductions, net_salary, salary_effective_from
		)
		VALUES (
			$1, $2, $3, $4, $5, LOWER($6), $7,
			$8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17,
			$18, $19, $20, $21, $22,
			$23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34, $35, $36
		)
		RETURNING id
	`

	s := e.Salary
	var id string
	err := q.QueryRow(ctx, query,
		e.UserID, e.CompanyID, e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone,
		e.DateOfBirth, e.Gender, e.Address, e.City, e.State, e.Country, e.PostalCode,
		e.EmergencyContactName, e.EmergencyContactPhone, e.EmergencyContactRelation,
		e.Department, e.Designation, e.EmploymentType, e.DateOfJoining, e.Status,
		s.BasicSalary, s.HRA, s.DA, s.TA, s.MedicalAllowance, s.OtherAllowances, s.GrossSalary,
		s.PF, s.ESI, s.ProfessionalTax, s.TDS, s.TotalDeductions, s.NetSalary, e.SalaryEffectiveFrom,
	).Scan(&id)
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Employee{}, conflict
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var e employee.Employee
	query := "SELECT " + employeeColumns + employeeFrom + " WHERE " + where
	if err := q.QueryRow(ctx, query, arg).Scan(employeeDest(&e)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = $1", id)
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.getOne(ctx, "e.user_id = $1", userID)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter, today time.Time) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	add := func(cond string, val interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, val)
		argIdx++
	}

	if filter.CompanyID != nil {
		add("e.company_id = $%d", *filter.CompanyID)
	}
	if filter.Search != nil && *filter.Search != "" {
		add("(e.first_name ILIKE $%[1]d OR e.last_name ILIKE $%[1]d OR e.email ILIKE $%[1]d OR e.employee_code ILIKE $%[1]d)",
			"%"+*filter.Search+"%")
	}
	if filter.Department != nil {
		add("e.department = $%d", *filter.Department)
	}
	if filter.Designation != nil {
		add("e.designation = $%d", *filter.Designation)
	}
	if filter.EmploymentType != nil {
		add("e.employment_type = $%d", *filter.EmploymentType)
	}
	if filter.Status != nil {
		add("e.status = $%d", *filter.Status)
	} else {
		conditions = append(conditions, "e.status = 'active'")
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := "SELECT " + employeeColumns + ", " + todayStatusColumn(argIdx) + employeeFrom +
		fmt.Sprintf(" LEFT JOIN attendance a ON a.employee_id = e.id AND a.date = $%d", argIdx) +
		where +
		fmt.Sprintf(" ORDER BY e.first_name ASC, e.last_name ASC LIMIT $%d OFFSET $%d", argIdx+1, argIdx+2)
	args = append(args, today, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(append(employeeDest(&e), &e.TodayStatus)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, total, nil
}

// Update implements employee.EmployeeRepository. A non-nil revision replaces the salary snapshot.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest, revision *employee.SalaryRevision) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var setClauses []string
	var args []interface{}
	argIdx := 1

	set := func(col string, val interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if req.FirstName != nil {
		set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		set("last_name", *req.LastName)
	}
	if req.Email != nil {
		set("email", strings.ToLower(*req.Email))
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.DateOfBirth != nil {
		set("date_of_birth", *req.DateOfBirth)
	}
	if req.Gender != nil {
		set("gender", *req.Gender)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.City != nil {
		set("city", *req.City)
	}
	if req.State != nil {
		set("state", *req.State)
	}
	if req.Country != nil {
		set("country", *req.Country)
	}
	if req.PostalCode != nil {
		set("postal_code", *req.PostalCode)
	}
	if req.EmergencyContactName != nil {
		set("emergency_contact_name", *req.EmergencyContactName)
	}
	if req.EmergencyContactPhone != nil {
		set("emergency_contact_phone", *req.EmergencyContactPhone)
	}
	if req.EmergencyContactRelation != nil {
		set("emergency_contact_relation", *req.EmergencyContactRelation)
	}
	if req.Department != nil {
		set("department", *req.Department)
	}
	if req.Designation != nil {
		set("designation", *req.Designation)
	}
	if req.EmploymentType != nil {
		set("employment_type", *req.EmploymentType)
	}
	if req.DateOfJoining != nil {
		set("date_of_joining", *req.DateOfJoining)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if revision != nil {
		s := revision.Breakdown
		set("basic_salary", s.BasicSalary)
		set("hra", s.HRA)
		set("da", s.DA)
		set("ta", s.TA)
		set("medical_allowance", s.MedicalAllowance)
		set("other_allowances", s.OtherAllowances)
		set("gross_salary", s.GrossSalary)
		set("pf", s.PF)
		set("esi", s.ESI)
		set("professional_tax", s.ProfessionalTax)
		set("tds", s.TDS)
		set("total_deductions", s.TotalDeductions)
		set("net_salary", s.NetSalary)
		set("salary_effective_from", revision.EffectiveFrom)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := "UPDATE employees SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Employee{}, conflict
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.GetByID(ctx, id)
}

// SetStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetStatus(ctx context.Context, id string, status employee.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateAvatar implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateAvatar(ctx context.Context, id string, avatarURL string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET avatar_url = $1, updated_at = NOW() WHERE id = $2`, avatarURL, id)
	if err != nil {
		return fmt.Errorf("failed to update employee avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// MaxEmployeeCode implements identifier.CodeLookup.
func (r *employeeRepositoryImpl) MaxEmployeeCode(ctx context.Context, prefix string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(MAX(employee_code), '')
		FROM employees
		WHERE employee_code LIKE $1 AND LENGTH(employee_code) = $2
	`
	var code string
	if err := q.QueryRow(ctx, query, prefix+"%", len(prefix)+3).Scan(&code); err != nil {
		return "", fmt.Errorf("failed to look up employee code: %w", err)
	}
	return code, nil
}

// ListActiveIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActiveIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM employees WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect active employees: %w", err)
	}
	return ids, nil
}

// Stats implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Stats(ctx context.Context) (employee.Stats, error) {
	q := GetQuerier(ctx, r.db)

	var s employee.Stats
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'inactive'),
			COUNT(*) FILTER (WHERE status = 'terminated')
		FROM employees
	`).Scan(&s.Total, &s.Active, &s.Inactive, &s.Terminated)
	if err != nil {
		return employee.Stats{}, fmt.Errorf("failed to count employees: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT department, COUNT(*)
		FROM employees
		WHERE status = 'active'
		GROUP BY department
		ORDER BY COUNT(*) DESC, department ASC
	`)
	if err != nil {
		return employee.Stats{}, fmt.Errorf("failed to count employees by department: %w", err)
	}
	s.ByDepartment, err = pgx.CollectRows(rows, pgx.RowToStructByPos[employee.DepartmentCount])
	if err != nil {
		return employee.Stats{}, fmt.Errorf("failed to collect department counts: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT employment_type, COUNT(*)
		FROM employees
		WHERE status = 'active'
		GROUP BY employment_type
		ORDER BY employment_type ASC
	`)
	if err != nil {
		return employee.Stats{}, fmt.Errorf("failed to count employees by employment type: %w", err)
	}
	s.ByEmploymentType, err = pgx.CollectRows(rows, pgx.RowToStructByPos[employee.EmploymentTypeCount])
	if err != nil {
		return employee.Stats{}, fmt.Errorf("failed to collect employment type counts: %w", err)
	}
	return s, nil
}
