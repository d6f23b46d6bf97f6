package leave

import "context"

type LeaveService interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error)
	MyLeaves(ctx context.Context, filter LeaveFilter) (MyLeavesResponse, error)
	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)

	// Review approves or rejects a pending leave and notifies the employee.
	Review(ctx context.Context, id string, req ReviewLeaveRequest) (LeaveResponse, error)

	Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id string) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, filter StatsFilter) (StatsResponse, error)
	Balance(ctx context.Context, employeeID string) (BalanceResponse, error)
}
