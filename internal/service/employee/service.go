package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/identifier"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/salary"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

// maxCodeAttempts bounds how often onboarding regenerates a code that lost a race.
const maxCodeAttempts = 3

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	companyRepo  company.CompanyRepository
	transactor   postgresql.Transactor
	fileService  file.FileService
	emailService email.EmailService
	publisher    events.Publisher
	frontendURL  string
	location     *time.Location
	now          func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	companyRepo company.CompanyRepository,
	transactor postgresql.Transactor,
	fileService file.FileService,
	emailService email.EmailService,
	publisher events.Publisher,
	frontendURL string,
	location *time.Location,
) employee.EmployeeService {
	if location == nil {
		location = time.UTC
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		companyRepo:  companyRepo,
		transactor:   transactor,
		fileService:  fileService,
		emailService: emailService,
		publisher:    publisher,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		location:     location,
		now:          time.Now,
	}
}

// today is the current calendar date in the configured timezone, at UTC midnight.
func (s *EmployeeServiceImpl) today() time.Time {
	y, m, d := s.now().In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *EmployeeServiceImpl) principal(ctx context.Context, action user.Action, owner string) (user.Principal, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	if err := user.Authorize(p, user.ResourceEmployee, action, owner); err != nil {
		return user.Principal{}, err
	}
	return p, nil
}

// canAssignRole reports whether p may give role to an employee. Only admins hand out staff roles.
func canAssignRole(p user.Principal, role user.Role) bool {
	if role == user.RoleEmployee {
		return true
	}
	return p.Role == user.RoleAdmin
}

// Onboard implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Onboard(ctx context.Context, req employee.OnboardEmployeeRequest) (employee.OnboardEmployeeResponse, error) {
	p, err := s.principal(ctx, user.ActionCreate, "")
	if err != nil {
		return employee.OnboardEmployeeResponse{}, err
	}
	role := user.Role(req.Role)
	if role == "" {
		role = user.RoleEmployee
	}
	if !canAssignRole(p, role) {
		return employee.OnboardEmployeeResponse{}, employee.ErrRoleAssignmentForbidden
	}

	employer, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		return employee.OnboardEmployeeResponse{}, err
	}

	breakdown, err := salary.Calculate(req.BasicSalary)
	if err != nil {
		return employee.OnboardEmployeeResponse{}, err
	}

	tempPassword, err := identifier.TemporaryPassword()
	if err != nil {
		return employee.OnboardEmployeeResponse{}, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return employee.OnboardEmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	joining := req.JoiningDate()
	var (
		created     employee.Employee
		createdUser user.User
	)
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := identifier.EmployeeCode(ctx, s.employeeRepo, employer.ShortName, req.FirstName, req.LastName, joining.Year())
		if err != nil {
			if errors.Is(err, identifier.ErrSerialExhausted) {
				return employee.OnboardEmployeeResponse{}, fmt.Errorf("%w: %v", employee.ErrEmployeeCodeUnavailable, err)
			}
			return employee.OnboardEmployeeResponse{}, err
		}

		err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			createdUser, err = s.userRepo.Create(txCtx, user.User{
				Email:         req.Email,
				PasswordHash:  string(hash),
				Role:          role,
				IsActive:      true,
				EmailVerified: true,
			})
			if err != nil {
				if errors.Is(err, user.ErrUserEmailExists) {
					return employee.ErrEmployeeEmailExists
				}
				return err
			}

			newEmployee := req.ToEmployee()
			newEmployee.UserID = createdUser.ID
			newEmployee.EmployeeCode = code
			newEmployee.Salary = breakdown
			newEmployee.SalaryEffectiveFrom = joining

			created, err = s.employeeRepo.Create(txCtx, newEmployee)
			return err
		})
		if errors.Is(err, employee.ErrEmployeeCodeUnavailable) {
			slog.Warn("employee code taken, regenerating", "code", code, "attempt", attempt)
			continue
		}
		if err != nil {
			return employee.OnboardEmployeeResponse{}, err
		}
		break
	}
	if created.ID == "" {
		return employee.OnboardEmployeeResponse{}, employee.ErrEmployeeCodeUnavailable
	}

	loginURL := s.frontendURL + "/login"
	if err := s.emailService.SendCredentials(created.Email, created.FullName(), created.EmployeeCode, tempPassword, loginURL); err != nil {
		slog.Warn("failed to queue credentials email", "employee_id", created.ID, "error", err)
	}
	s.publisher.Publish(events.EmployeeOnboarded, created.ID, map[string]interface{}{
		"employee_id":   created.ID,
		"employee_code": created.EmployeeCode,
		"company_id":    created.CompanyID,
		"department":    created.Department,
		"role":          role,
	})

	slog.Info("employee onboarded", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	createdUser.EmployeeID = &created.ID
	createdUser.EmployeeCode = &created.EmployeeCode
	return employee.OnboardEmployeeResponse{
		Employee:          employee.NewEmployeeResponse(created),
		User:              user.NewUserResponse(createdUser),
		TemporaryPassword: tempPassword,
	}, nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if _, err := s.principal(ctx, user.ActionRead, ""); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter, s.today())
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	resp := employee.ListEmployeeResponse{
		PageInfo:  common.NewPageInfo(filter.Pagination, total),
		Employees: make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if _, err := s.principal(ctx, user.ActionRead, id); err != nil {
		return employee.EmployeeResponse{}, err
	}

	found, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(found), nil
}

// GetMe implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMe(ctx context.Context) (employee.EmployeeResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if p.OwnEmployeeID() == "" {
		return employee.EmployeeResponse{}, user.ErrEmployeeProfileRequired
	}

	found, err := s.employeeRepo.GetByID(ctx, p.OwnEmployeeID())
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(found), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	p, err := s.principal(ctx, user.ActionUpdate, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !p.Role.IsStaff() && !req.OnlySelfService() {
		return employee.EmployeeResponse{}, employee.ErrSelfServiceOnly
	}
	if req.Role != nil && !canAssignRole(p, user.Role(*req.Role)) {
		return employee.EmployeeResponse{}, employee.ErrRoleAssignmentForbidden
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if existing.Role == user.RoleAdmin && p.Role != user.RoleAdmin && !p.Owns(id) {
		return employee.EmployeeResponse{}, user.ErrInsufficientPermissions
	}

	var revision *employee.SalaryRevision
	if req.BasicSalary != nil && !req.BasicSalary.Equal(existing.Salary.BasicSalary) {
		breakdown, err := salary.Calculate(*req.BasicSalary)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		revision = &employee.SalaryRevision{Breakdown: breakdown, EffectiveFrom: s.today()}
	}

	var updated employee.Employee
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		updated, err = s.employeeRepo.Update(txCtx, id, req, revision)
		if err != nil {
			return err
		}

		if req.Email != nil && *req.Email != existing.Email {
			if err := s.userRepo.UpdateEmail(txCtx, existing.UserID, *req.Email); err != nil {
				if errors.Is(err, user.ErrUserEmailExists) {
					return employee.ErrEmployeeEmailExists
				}
				return err
			}
		}
		if req.Role != nil && user.Role(*req.Role) != existing.Role {
			if err := s.userRepo.UpdateRole(txCtx, existing.UserID, user.Role(*req.Role)); err != nil {
				return err
			}
			updated.Role = user.Role(*req.Role)
		}
		if req.Status != nil && employee.Status(*req.Status) != existing.Status {
			active := employee.Status(*req.Status) == employee.StatusActive
			if err := s.userRepo.SetActive(txCtx, existing.UserID, active); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if revision != nil {
		slog.Info("salary revised", "employee_id", id, "basic_salary", revision.Breakdown.BasicSalary.String())
	}
	return employee.NewEmployeeResponse(updated), nil
}

// Delete implements employee.EmployeeService. Employees are deactivated, never removed.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.principal(ctx, user.ActionDelete, ""); err != nil {
		return err
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.IsActive() {
		return employee.ErrEmployeeAlreadyInactive
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.SetStatus(txCtx, id, employee.StatusInactive); err != nil {
			return err
		}
		return s.userRepo.SetActive(txCtx, existing.UserID, false)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(events.EmployeeDeactivated, id, map[string]interface{}{
		"employee_id":   id,
		"employee_code": existing.EmployeeCode,
	})
	slog.Info("employee deactivated", "employee_id", id)
	return nil
}

// UploadAvatar implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadAvatar(ctx context.Context, id string, avatar io.Reader, contentType string) (employee.EmployeeResponse, error) {
	if _, err := s.principal(ctx, user.ActionUpdate, id); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	obj, err := s.fileService.UploadAvatar(ctx, existing.ID, avatar, contentType)
	if err != nil {
		if errors.Is(err, file.ErrInvalidImage) {
			return employee.EmployeeResponse{}, employee.ErrInvalidAvatar
		}
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.UpdateAvatar(ctx, id, obj.URL); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing.AvatarURL = &obj.URL
	return employee.NewEmployeeResponse(existing), nil
}

// Stats implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Stats(ctx context.Context) (employee.StatsResponse, error) {
	if _, err := s.principal(ctx, user.ActionStats, ""); err != nil {
		return employee.StatsResponse{}, err
	}

	stats, err := s.employeeRepo.Stats(ctx)
	if err != nil {
		return employee.StatsResponse{}, fmt.Errorf("failed to get employee stats: %w", err)
	}
	return employee.NewStatsResponse(stats), nil
}
