package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	publisher      events.Publisher
	policy         attendance.Policy
	location       *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	publisher events.Publisher,
	policy attendance.Policy,
	location *time.Location,
) attendance.AttendanceService {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		publisher:      publisher,
		policy:         policy,
		location:       location,
		now:            time.Now,
	}
}

// dateOf is the calendar date of t in the configured timezone, at UTC midnight.
func (s *AttendanceServiceImpl) dateOf(t time.Time) time.Time {
	y, m, d := t.In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func authorize(ctx context.Context, action user.Action, owner string) (user.Principal, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	if err := user.Authorize(p, user.ResourceAttendance, action, owner); err != nil {
		return user.Principal{}, err
	}
	return p, nil
}

// self resolves the caller's own employee id for check-in and check-out.
func self(ctx context.Context) (string, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	if err := user.Authorize(p, user.ResourceAttendance, user.ActionRecord, p.OwnEmployeeID()); err != nil {
		return "", err
	}
	return p.OwnEmployeeID(), nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	employeeID, err := self(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	today := s.dateOf(now)

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, err
	}

	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		record := attendance.Attendance{EmployeeID: employeeID, Date: today, Notes: req.Notes}
		if err := record.RecordCheckIn(now); err != nil {
			return attendance.AttendanceResponse{}, err
		}
		created, err := s.attendanceRepo.Create(ctx, record)
		if err != nil {
			// A concurrent check-in won the (employee_id, date) constraint.
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.AttendanceResponse{}, err
		}
		slog.Info("checked in", "employee_id", employeeID, "date", today.Format("2006-01-02"))
		return attendance.NewAttendanceResponse(created), nil
	}

	if err := existing.RecordCheckIn(now); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}
	updated, err := s.attendanceRepo.RecordCheckIn(ctx, existing)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	slog.Info("checked in", "employee_id", employeeID, "date", today.Format("2006-01-02"))
	return attendance.NewAttendanceResponse(updated), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	employeeID, err := self(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, s.dateOf(now))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, err
	}

	if err := existing.RecordCheckOut(now, s.policy); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}

	updated, err := s.attendanceRepo.RecordCheckOut(ctx, existing)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	slog.Info("checked out", "employee_id", employeeID, "working_hours", updated.WorkingHours.String())
	return attendance.NewAttendanceResponse(updated), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context) (*attendance.AttendanceResponse, error) {
	employeeID, err := self(ctx)
	if err != nil {
		return nil, err
	}

	found, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, s.dateOf(s.now()))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := attendance.NewAttendanceResponse(found)
	return &resp, nil
}

func (s *AttendanceServiceImpl) history(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	rows, total, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		Status:     filter.Status,
		DateRange:  filter.DateRange,
		Pagination: filter.Pagination,
	})
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return attendance.NewListAttendanceResponse(rows, filter.Pagination, total), nil
}

// MyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MyHistory(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.MyAttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.MyAttendanceResponse{}, err
	}
	employeeID := p.OwnEmployeeID()
	if err := user.Authorize(p, user.ResourceAttendance, user.ActionRead, employeeID); err != nil {
		return attendance.MyAttendanceResponse{}, err
	}
	if employeeID == "" {
		return attendance.MyAttendanceResponse{}, user.ErrEmployeeProfileRequired
	}

	list, err := s.history(ctx, employeeID, filter)
	if err != nil {
		return attendance.MyAttendanceResponse{}, err
	}
	summary, err := s.attendanceRepo.Summary(ctx, employeeID, filter)
	if err != nil {
		return attendance.MyAttendanceResponse{}, err
	}
	return attendance.MyAttendanceResponse{
		ListAttendanceResponse: list,
		Summary:                attendance.NewSummaryResponse(summary),
	}, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if _, err := authorize(ctx, user.ActionRead, ""); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	rows, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return attendance.NewListAttendanceResponse(rows, filter.Pagination, total), nil
}

// ListByEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if _, err := authorize(ctx, user.ActionRead, employeeID); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.history(ctx, employeeID, filter)
}

// GetByID implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	found, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := authorize(ctx, user.ActionRead, found.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(found), nil
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, req attendance.MarkAbsentRequest) (attendance.MarkAbsentResponse, error) {
	if _, err := authorize(ctx, user.ActionMarkAbsent, ""); err != nil {
		return attendance.MarkAbsentResponse{}, err
	}

	date := s.dateOf(s.now())
	if req.Date != nil && *req.Date != "" {
		parsed, ok := validator.IsValidDate(*req.Date)
		if !ok {
			var errs validator.ValidationErrors
			errs.Add("date", "date must be in YYYY-MM-DD format")
			return attendance.MarkAbsentResponse{}, errs
		}
		date = parsed
	}

	marked, already, err := s.markAbsent(ctx, req.EmployeeIDs, date)
	if err != nil {
		return attendance.MarkAbsentResponse{}, err
	}
	return attendance.MarkAbsentResponse{MarkedAbsent: marked, AlreadyRecorded: already}, nil
}

// MarkAbsentForAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsentForAll(ctx context.Context, date time.Time) (int, int, error) {
	ids, err := s.employeeRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		return 0, 0, nil
	}
	return s.markAbsent(ctx, ids, s.dateOf(date))
}

func (s *AttendanceServiceImpl) markAbsent(ctx context.Context, employeeIDs []string, date time.Time) (int, int, error) {
	marked, already, err := s.attendanceRepo.MarkAbsent(ctx, employeeIDs, date)
	if err != nil {
		return 0, 0, err
	}

	day := date.Format("2006-01-02")
	if marked > 0 {
		s.publisher.Publish(events.AttendanceAbsentMarked, day, map[string]interface{}{
			"date":             day,
			"marked_absent":    marked,
			"already_recorded": already,
		})
	}
	slog.Info("marked absent", "date", day, "marked_absent", marked, "already_recorded", already)
	return marked, already, nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Update(ctx context.Context, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if _, err := authorize(ctx, user.ActionUpdate, ""); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Apply(&existing, s.policy); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.Update(ctx, existing)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(updated), nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := authorize(ctx, user.ActionDelete, ""); err != nil {
		return err
	}
	return s.attendanceRepo.Delete(ctx, id)
}

// Stats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Stats(ctx context.Context, filter attendance.StatsFilter) (attendance.StatsResponse, error) {
	if _, err := authorize(ctx, user.ActionStats, ""); err != nil {
		return attendance.StatsResponse{}, err
	}

	stats, err := s.attendanceRepo.Stats(ctx, filter)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}
	return attendance.NewStatsResponse(stats), nil
}
