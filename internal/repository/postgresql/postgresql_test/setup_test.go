package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/salary"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const schemaPath = "../../../../db/schema.sql"

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// The calling test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)

	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables empties every table.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payrolls",
		"leaves",
		"attendance",
		"employees",
		"refresh_tokens",
		"companies",
		"users",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

func (s *TestDatabaseSetup) seedCompany(t *testing.T, name, shortName string) company.Company {
	t.Helper()
	c, err := postgresql.NewCompanyRepository(s.DB).Create(context.Background(), company.Company{
		Name:      name,
		ShortName: shortName,
	})
	require.NoError(t, err)
	return c
}

// seedEmployee creates a user and an active employee with the given code.
func (s *TestDatabaseSetup) seedEmployee(t *testing.T, companyID, code, department string) employee.Employee {
	t.Helper()
	ctx := context.Background()

	u, err := postgresql.NewUserRepository(s.DB).Create(ctx, user.User{
		Email:        code + "@example.com",
		PasswordHash: "hash",
		Role:         user.RoleEmployee,
		IsActive:     true,
	})
	require.NoError(t, err)

	breakdown, err := salary.Calculate(decimal.NewFromInt(50000))
	require.NoError(t, err)

	e, err := postgresql.NewEmployeeRepository(s.DB).Create(ctx, employee.Employee{
		UserID:              u.ID,
		CompanyID:           companyID,
		EmployeeCode:        code,
		FirstName:           "Test",
		LastName:            code,
		Email:               code + "@example.com",
		Department:          department,
		Designation:         "Engineer",
		EmploymentType:      employee.EmploymentTypePermanent,
		DateOfJoining:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:              employee.StatusActive,
		Salary:              breakdown,
		SalaryEffectiveFrom: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return e
}

func paginate() common.Pagination {
	return common.Pagination{Page: 1, Limit: common.DefaultLimit}
}
