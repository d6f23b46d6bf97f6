package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `
	c.id, c.name, c.short_name, c.email, c.phone, c.address, c.city, c.state,
	c.country, c.postal_code, c.website, c.logo_url, c.is_active, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM employees e WHERE e.company_id = c.id)
`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.ShortName,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.City,
		&c.State,
		&c.Country,
		&c.PostalCode,
		&c.Website,
		&c.LogoURL,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.EmployeeCount,
	)
	return c, err
}

// companyConflict maps unique violations onto the matching domain error.
func companyConflict(err error) error {
	switch {
	case database.IsUniqueViolation(err, "companies_name_key"):
		return company.ErrCompanyNameExists
	case database.IsUniqueViolation(err, "companies_short_name_key"):
		return company.ErrCompanyShortNameExists
	}
	return nil
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (name, short_name, email, phone, address, city, state, country, postal_code, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newCompany.Name,
		newCompany.ShortName,
		newCompany.Email,
		newCompany.Phone,
		newCompany.Address,
		newCompany.City,
		newCompany.State,
		newCompany.Country,
		newCompany.PostalCode,
		newCompany.Website,
	).Scan(&id)
	if err != nil {
		if conflict := companyConflict(err); conflict != nil {
			return company.Company{}, conflict
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return c.GetByID(ctx, id)
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := "SELECT " + companyColumns + " FROM companies c WHERE c.id = $1"
	found, err := scanCompany(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by id %s: %w", id, err)
	}
	return found, nil
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	q := GetQuerier(ctx, c.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.short_name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("c.is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM companies c"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	query := "SELECT " + companyColumns + " FROM companies c" + where +
		fmt.Sprintf(" ORDER BY c.name ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]company.Company, 0)
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, found)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate companies: %w", err)
	}
	return companies, total, nil
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	var setClauses []string
	var args []interface{}
	argIdx := 1

	set := func(col string, val interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.ShortName != nil {
		set("short_name", *req.ShortName)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
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
	if req.Website != nil {
		set("website", *req.Website)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	if len(setClauses) == 0 {
		return c.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := "UPDATE companies SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if conflict := companyConflict(err); conflict != nil {
			return company.Company{}, conflict
		}
		return company.Company{}, fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c.GetByID(ctx, id)
}

// UpdateLogo implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateLogo(ctx context.Context, id string, logoURL string) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `UPDATE companies SET logo_url = $1, updated_at = NOW() WHERE id = $2`, logoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update company logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// Delete implements company.CompanyRepository.
func (c *companyRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// CountEmployees implements company.CompanyRepository.
func (c *companyRepositoryImpl) CountEmployees(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, c.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE company_id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count company employees: %w", err)
	}
	return count, nil
}
