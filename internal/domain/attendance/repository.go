package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create inserts a new row. A second row for the same employee and date yields ErrAttendanceExists.
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// RecordCheckIn sets check_in on a row that has none; otherwise ErrAlreadyCheckedIn.
	RecordCheckIn(ctx context.Context, a Attendance) (Attendance, error)

	// RecordCheckOut sets check_out and derived hours on a row that has none; otherwise ErrAlreadyCheckedOut.
	RecordCheckOut(ctx context.Context, a Attendance) (Attendance, error)

	Update(ctx context.Context, a Attendance) (Attendance, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	Summary(ctx context.Context, employeeID string, filter MyAttendanceFilter) (Summary, error)
	Stats(ctx context.Context, filter StatsFilter) (Stats, error)

	// MarkAbsent inserts absent rows for the given employees on date, skipping existing rows.
	// It returns how many rows were inserted and how many employees already had one.
	MarkAbsent(ctx context.Context, employeeIDs []string, date time.Time) (marked int, alreadyRecorded int, err error)
}
