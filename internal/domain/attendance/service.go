package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// Today returns nil when the caller has no row for today.
	Today(ctx context.Context) (*AttendanceResponse, error)
	MyHistory(ctx context.Context, filter MyAttendanceFilter) (MyAttendanceResponse, error)

	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)
	GetByID(ctx context.Context, id string) (AttendanceResponse, error)

	MarkAbsent(ctx context.Context, req MarkAbsentRequest) (MarkAbsentResponse, error)

	// MarkAbsentForAll marks every active employee without a row on date. Used by the scheduler.
	MarkAbsentForAll(ctx context.Context, date time.Time) (marked int, alreadyRecorded int, err error)

	Update(ctx context.Context, id string, req UpdateAttendanceRequest) (AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, filter StatsFilter) (StatsResponse, error)
}
