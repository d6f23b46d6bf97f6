package employee

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/salary"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/file"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoryEmployeeRepository struct {
	employee.EmployeeRepository
	employees map[string]*employee.Employee

	// stolenCodes simulates a concurrent onboarding taking the next code first.
	stolenCodes int
	revisions   []*employee.SalaryRevision
}

func newMemoryEmployeeRepository() *memoryEmployeeRepository {
	return &memoryEmployeeRepository{employees: make(map[string]*employee.Employee)}
}

func (m *memoryEmployeeRepository) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	for _, existing := range m.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeUnavailable
		}
	}
	if m.stolenCodes > 0 {
		m.stolenCodes--
		m.employees["thief"+e.EmployeeCode] = &employee.Employee{ID: "thief", EmployeeCode: e.EmployeeCode}
		return employee.Employee{}, employee.ErrEmployeeCodeUnavailable
	}
	e.ID = fmt.Sprintf("e-%d", len(m.employees)+1)
	m.employees[e.ID] = &e
	return e, nil
}

func (m *memoryEmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return *e, nil
}

func (m *memoryEmployeeRepository) MaxEmployeeCode(_ context.Context, prefix string) (string, error) {
	max := ""
	for _, e := range m.employees {
		if strings.HasPrefix(e.EmployeeCode, prefix) && e.EmployeeCode > max {
			max = e.EmployeeCode
		}
	}
	return max, nil
}

func (m *memoryEmployeeRepository) Update(_ context.Context, id string, req employee.UpdateEmployeeRequest, revision *employee.SalaryRevision) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if req.Phone != nil {
		e.Phone = req.Phone
	}
	if req.Department != nil {
		e.Department = *req.Department
	}
	if revision != nil {
		e.Salary = revision.Breakdown
		e.SalaryEffectiveFrom = revision.EffectiveFrom
	}
	m.revisions = append(m.revisions, revision)
	return *e, nil
}

func (m *memoryEmployeeRepository) SetStatus(_ context.Context, id string, status employee.Status) error {
	m.employees[id].Status = status
	return nil
}

type mockUserRepository struct {
	user.UserRepository
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *mockUserRepository) SetActive(ctx context.Context, userID string, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}

type mockCompanyRepository struct {
	company.CompanyRepository
	mock.Mock
}

func (m *mockCompanyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(company.Company), args.Error(1)
}

type employeeFixture struct {
	svc       employee.EmployeeService
	employees *memoryEmployeeRepository
	users     *mockUserRepository
	emails    *servicetest.EmailService
	publisher *servicetest.Publisher
}

func newEmployeeFixture() *employeeFixture {
	f := &employeeFixture{
		employees: newMemoryEmployeeRepository(),
		users:     new(mockUserRepository),
		emails:    servicetest.NewEmailService(),
		publisher: &servicetest.Publisher{},
	}
	companies := new(mockCompanyRepository)
	companies.On("GetByID", mock.Anything, "c-1").Return(company.Company{ID: "c-1", ShortName: "ACM"}, nil)

	f.svc = NewEmployeeService(
		f.employees,
		f.users,
		companies,
		&servicetest.Transactor{},
		file.NewFileService(nil),
		f.emails,
		f.publisher,
		"http://app.test",
		time.UTC,
	)
	return f
}

func onboardRequest(email string) employee.OnboardEmployeeRequest {
	return employee.OnboardEmployeeRequest{
		CompanyID:      "c-1",
		FirstName:      "John",
		LastName:       "Doe",
		Email:          email,
		Department:     "Engineering",
		Designation:    "Engineer",
		EmploymentType: "permanent",
		DateOfJoining:  "2024-03-01",
		BasicSalary:    decimal.NewFromInt(50000),
		Role:           "employee",
	}
}

func (f *employeeFixture) acceptUsers() {
	f.users.On("Create", mock.Anything, mock.Anything).Return(user.User{ID: "u-1", Email: "john@acme.test", Role: user.RoleEmployee, IsActive: true}, nil)
}

func TestOnboard(t *testing.T) {
	f := newEmployeeFixture()
	f.acceptUsers()

	resp, err := f.svc.Onboard(servicetest.As(user.RoleHR, ""), onboardRequest("john@acme.test"))
	require.NoError(t, err)

	assert.Equal(t, "ACMJODO2024001", resp.Employee.EmployeeCode)
	assert.NotEmpty(t, resp.TemporaryPassword)
	assert.Equal(t, "u-1", resp.Employee.UserID)
	assert.Equal(t, "2024-03-01", resp.Employee.SalaryEffectiveFrom)

	expected, err := salary.Calculate(decimal.NewFromInt(50000))
	require.NoError(t, err)
	assert.True(t, expected.NetSalary.Equal(resp.Employee.Salary.NetSalary))

	f.users.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(u user.User) bool {
		return u.Email == "john@acme.test" && u.Role == user.RoleEmployee && u.IsActive && u.EmailVerified && u.PasswordHash != ""
	}))
	f.emails.AssertCalled(t, "SendCredentials", "john@acme.test", "John Doe", "ACMJODO2024001", resp.TemporaryPassword, "http://app.test/login")
	assert.Equal(t, []events.EventType{events.EmployeeOnboarded}, f.publisher.Types())

	t.Run("next serial", func(t *testing.T) {
		second, err := f.svc.Onboard(servicetest.As(user.RoleHR, ""), onboardRequest("john2@acme.test"))
		require.NoError(t, err)
		assert.Equal(t, "ACMJODO2024002", second.Employee.EmployeeCode)
	})
}

func TestOnboard_RetriesTakenCode(t *testing.T) {
	f := newEmployeeFixture()
	f.acceptUsers()
	f.employees.stolenCodes = 1

	resp, err := f.svc.Onboard(servicetest.As(user.RoleAdmin, ""), onboardRequest("john@acme.test"))
	require.NoError(t, err)
	assert.Equal(t, "ACMJODO2024002", resp.Employee.EmployeeCode)

	f.employees.stolenCodes = maxCodeAttempts
	_, err = f.svc.Onboard(servicetest.As(user.RoleAdmin, ""), onboardRequest("jane@acme.test"))
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeUnavailable)
}

func TestOnboard_Rejections(t *testing.T) {
	t.Run("hr cannot create hr", func(t *testing.T) {
		f := newEmployeeFixture()
		req := onboardRequest("john@acme.test")
		req.Role = "hr"
		_, err := f.svc.Onboard(servicetest.As(user.RoleHR, ""), req)
		assert.ErrorIs(t, err, employee.ErrRoleAssignmentForbidden)
	})

	t.Run("employee cannot onboard", func(t *testing.T) {
		f := newEmployeeFixture()
		_, err := f.svc.Onboard(servicetest.As(user.RoleEmployee, "e-9"), onboardRequest("john@acme.test"))
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newEmployeeFixture()
		f.users.On("Create", mock.Anything, mock.Anything).Return(user.User{}, user.ErrUserEmailExists)
		_, err := f.svc.Onboard(servicetest.As(user.RoleAdmin, ""), onboardRequest("john@acme.test"))
		assert.ErrorIs(t, err, employee.ErrEmployeeEmailExists)
		assert.Empty(t, f.employees.employees)
		assert.Empty(t, f.publisher.Types())
	})
}

func TestUpdate(t *testing.T) {
	f := newEmployeeFixture()
	basic, err := salary.Calculate(decimal.NewFromInt(40000))
	require.NoError(t, err)
	f.employees.employees["e-1"] = &employee.Employee{
		ID:         "e-1",
		UserID:     "u-1",
		Email:      "john@acme.test",
		Department: "Engineering",
		Status:     employee.StatusActive,
		Role:       user.RoleEmployee,
		Salary:     basic,
	}

	phone := "+628123456789"
	dept := "Sales"

	t.Run("self service fields", func(t *testing.T) {
		resp, err := f.svc.Update(servicetest.As(user.RoleEmployee, "e-1"), "e-1", employee.UpdateEmployeeRequest{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, phone, *resp.Phone)
	})

	t.Run("employee cannot change department", func(t *testing.T) {
		_, err := f.svc.Update(servicetest.As(user.RoleEmployee, "e-1"), "e-1", employee.UpdateEmployeeRequest{Department: &dept})
		assert.ErrorIs(t, err, employee.ErrSelfServiceOnly)
	})

	t.Run("employee cannot edit someone else", func(t *testing.T) {
		_, err := f.svc.Update(servicetest.As(user.RoleEmployee, "e-2"), "e-1", employee.UpdateEmployeeRequest{Phone: &phone})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})

	t.Run("salary change recomputes snapshot", func(t *testing.T) {
		raised := decimal.NewFromInt(60000)
		resp, err := f.svc.Update(servicetest.As(user.RoleHR, ""), "e-1", employee.UpdateEmployeeRequest{BasicSalary: &raised})
		require.NoError(t, err)

		expected, err := salary.Calculate(raised)
		require.NoError(t, err)
		assert.True(t, expected.GrossSalary.Equal(resp.Salary.GrossSalary))
		assert.True(t, expected.NetSalary.Equal(resp.Salary.NetSalary))
		assert.NotNil(t, f.employees.revisions[len(f.employees.revisions)-1])
	})

	t.Run("unchanged salary keeps snapshot", func(t *testing.T) {
		same := decimal.NewFromInt(60000)
		_, err := f.svc.Update(servicetest.As(user.RoleHR, ""), "e-1", employee.UpdateEmployeeRequest{BasicSalary: &same})
		require.NoError(t, err)
		assert.Nil(t, f.employees.revisions[len(f.employees.revisions)-1])
	})
}

func TestDelete(t *testing.T) {
	f := newEmployeeFixture()
	f.employees.employees["e-1"] = &employee.Employee{ID: "e-1", UserID: "u-1", Status: employee.StatusActive}
	f.users.On("SetActive", mock.Anything, "u-1", false).Return(nil).Once()

	assert.ErrorIs(t, f.svc.Delete(servicetest.As(user.RoleHR, ""), "e-1"), user.ErrInsufficientPermissions)

	require.NoError(t, f.svc.Delete(servicetest.As(user.RoleAdmin, ""), "e-1"))
	assert.Equal(t, employee.StatusInactive, f.employees.employees["e-1"].Status)
	f.users.AssertExpectations(t)
	assert.Equal(t, []events.EventType{events.EmployeeDeactivated}, f.publisher.Types())

	assert.ErrorIs(t, f.svc.Delete(servicetest.As(user.RoleAdmin, ""), "e-1"), employee.ErrEmployeeAlreadyInactive)
	assert.ErrorIs(t, f.svc.Delete(servicetest.As(user.RoleAdmin, ""), "missing"), employee.ErrEmployeeNotFound)
}

func TestGetMe_RequiresProfile(t *testing.T) {
	f := newEmployeeFixture()
	_, err := f.svc.GetMe(servicetest.As(user.RoleAdmin, ""))
	assert.ErrorIs(t, err, user.ErrEmployeeProfileRequired)
}
