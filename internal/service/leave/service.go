package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type LeaveServiceImpl struct {
	leaveRepo    leave.LeaveRepository
	emailService email.EmailService
	publisher    events.Publisher
	entitlements map[string]int
	location     *time.Location
	now          func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRepository,
	emailService email.EmailService,
	publisher events.Publisher,
	entitlements map[string]int,
	location *time.Location,
) leave.LeaveService {
	if location == nil {
		location = time.UTC
	}
	return &LeaveServiceImpl{
		leaveRepo:    leaveRepo,
		emailService: emailService,
		publisher:    publisher,
		entitlements: entitlements,
		location:     location,
		now:          time.Now,
	}
}

func (s *LeaveServiceImpl) today() time.Time {
	y, m, d := s.now().In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func authorize(ctx context.Context, action user.Action, owner string) (user.Principal, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	if err := user.Authorize(p, user.ResourceLeave, action, owner); err != nil {
		return user.Principal{}, err
	}
	return p, nil
}

// own resolves the caller's employee id for self-service actions.
func own(ctx context.Context, action user.Action) (string, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	if p.OwnEmployeeID() == "" {
		return "", user.ErrEmployeeProfileRequired
	}
	if err := user.Authorize(p, user.ResourceLeave, action, p.OwnEmployeeID()); err != nil {
		return "", err
	}
	return p.OwnEmployeeID(), nil
}

// Apply implements leave.LeaveService.
func (s *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	employeeID, err := own(ctx, user.ActionCreate)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	start, end := req.Dates()
	if start.Before(s.today()) {
		return leave.LeaveResponse{}, leave.ErrStartInPast
	}
	days, err := leave.CountDays(start, end)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	overlap, err := s.leaveRepo.HasOverlap(ctx, employeeID, start, end, "")
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if overlap {
		return leave.LeaveResponse{}, leave.ErrOverlappingLeave
	}

	created, err := s.leaveRepo.Create(ctx, leave.Leave{
		EmployeeID:   employeeID,
		LeaveType:    leave.Type(req.LeaveType),
		StartDate:    start,
		EndDate:      end,
		NumberOfDays: days,
		Reason:       req.Reason,
		Status:       leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.publisher.Publish(events.LeaveApplied, created.ID, map[string]interface{}{
		"leave_id":       created.ID,
		"employee_id":    employeeID,
		"leave_type":     created.LeaveType,
		"number_of_days": created.NumberOfDays,
	})
	slog.Info("leave applied", "leave_id", created.ID, "employee_id", employeeID, "days", days)
	return leave.NewLeaveResponse(created), nil
}

// MyLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) MyLeaves(ctx context.Context, filter leave.LeaveFilter) (leave.MyLeavesResponse, error) {
	employeeID, err := own(ctx, user.ActionRead)
	if err != nil {
		return leave.MyLeavesResponse{}, err
	}
	filter.EmployeeID = &employeeID
	filter.Department = nil

	rows, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.MyLeavesResponse{}, err
	}
	summary, err := s.leaveRepo.Summary(ctx, employeeID)
	if err != nil {
		return leave.MyLeavesResponse{}, err
	}
	return leave.MyLeavesResponse{
		ListLeaveResponse: leave.NewListLeaveResponse(rows, filter.Pagination, total),
		Summary:           leave.NewSummaryResponse(summary),
	}, nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if _, err := authorize(ctx, user.ActionRead, ""); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	rows, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}
	return leave.NewListLeaveResponse(rows, filter.Pagination, total), nil
}

// GetByID implements leave.LeaveService.
func (s *LeaveServiceImpl) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	found, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := authorize(ctx, user.ActionRead, found.EmployeeID); err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(found), nil
}

// Review implements leave.LeaveService.
func (s *LeaveServiceImpl) Review(ctx context.Context, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	p, err := authorize(ctx, user.ActionApprove, "")
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	existing, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	from := existing.Status
	if err := existing.Review(leave.Status(req.Status), p.UserID, req.ApprovalRemarks, s.now()); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.leaveRepo.Update(ctx, existing, from)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	remarks := ""
	if updated.ApprovalRemarks != nil {
		remarks = *updated.ApprovalRemarks
	}
	err = s.emailService.SendLeaveStatus(updated.EmployeeEmail, updated.EmployeeName, email.LeaveStatusData{
		LeaveType: string(updated.LeaveType),
		StartDate: updated.StartDate.Format(dateLayout),
		EndDate:   updated.EndDate.Format(dateLayout),
		Days:      updated.NumberOfDays,
		Status:    string(updated.Status),
		Remarks:   remarks,
	})
	if err != nil {
		slog.Warn("failed to queue leave status email", "leave_id", id, "error", err)
	}
	s.publisher.Publish(events.LeaveReviewed, updated.ID, map[string]interface{}{
		"leave_id":    updated.ID,
		"employee_id": updated.EmployeeID,
		"status":      updated.Status,
		"reviewed_by": p.UserID,
	})

	slog.Info("leave reviewed", "leave_id", id, "status", updated.Status, "reviewed_by", p.UserID)
	return leave.NewLeaveResponse(updated), nil
}

// Update implements leave.LeaveService. Only the owner may change a pending leave.
func (s *LeaveServiceImpl) Update(ctx context.Context, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	existing, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := authorize(ctx, user.ActionUpdate, existing.EmployeeID); err != nil {
		return leave.LeaveResponse{}, err
	}
	if existing.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrLeaveNotPending
	}
	from := existing.Status

	if req.LeaveType != nil {
		existing.LeaveType = leave.Type(*req.LeaveType)
	}
	if req.Reason != nil {
		existing.Reason = *req.Reason
	}

	if req.StartDate != nil || req.EndDate != nil {
		start, end := existing.StartDate, existing.EndDate
		if req.StartDate != nil {
			start, _ = validator.IsValidDate(*req.StartDate)
		}
		if req.EndDate != nil {
			end, _ = validator.IsValidDate(*req.EndDate)
		}
		if start.Before(s.today()) {
			return leave.LeaveResponse{}, leave.ErrStartInPast
		}
		if err := existing.Reschedule(start, end); err != nil {
			return leave.LeaveResponse{}, err
		}

		overlap, err := s.leaveRepo.HasOverlap(ctx, existing.EmployeeID, start, end, existing.ID)
		if err != nil {
			return leave.LeaveResponse{}, err
		}
		if overlap {
			return leave.LeaveResponse{}, leave.ErrOverlappingLeave
		}
	}

	updated, err := s.leaveRepo.Update(ctx, existing, from)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(updated), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveResponse, error) {
	existing, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := authorize(ctx, user.ActionCancel, existing.EmployeeID); err != nil {
		return leave.LeaveResponse{}, err
	}
	from := existing.Status
	if err := existing.Cancel(s.today()); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.leaveRepo.Update(ctx, existing, from)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	slog.Info("leave cancelled", "leave_id", id)
	return leave.NewLeaveResponse(updated), nil
}

// Delete implements leave.LeaveService.
func (s *LeaveServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := authorize(ctx, user.ActionDelete, ""); err != nil {
		return err
	}
	return s.leaveRepo.Delete(ctx, id)
}

// Stats implements leave.LeaveService.
func (s *LeaveServiceImpl) Stats(ctx context.Context, filter leave.StatsFilter) (leave.StatsResponse, error) {
	if _, err := authorize(ctx, user.ActionStats, ""); err != nil {
		return leave.StatsResponse{}, err
	}

	stats, err := s.leaveRepo.Stats(ctx, filter)
	if err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to get leave stats: %w", err)
	}
	resp := leave.StatsResponse{
		SummaryResponse: leave.NewSummaryResponse(stats.Summary),
		ByType:          stats.ByType,
	}
	if resp.ByType == nil {
		resp.ByType = []leave.TypeCount{}
	}
	return resp, nil
}

// Balance implements leave.LeaveService. An empty employeeID means the caller.
func (s *LeaveServiceImpl) Balance(ctx context.Context, employeeID string) (leave.BalanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if employeeID == "" {
		employeeID = p.OwnEmployeeID()
		if employeeID == "" {
			return leave.BalanceResponse{}, user.ErrEmployeeProfileRequired
		}
	}
	if err := user.Authorize(p, user.ResourceLeave, user.ActionRead, employeeID); err != nil {
		return leave.BalanceResponse{}, err
	}

	year := s.today().Year()
	taken, err := s.leaveRepo.DaysTaken(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.BalanceResponse{
		EmployeeID:   employeeID,
		Year:         year,
		LeaveBalance: leave.Balances(s.entitlements, taken),
	}, nil
}
