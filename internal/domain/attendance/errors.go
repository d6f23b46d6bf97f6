package attendance

import "errors"

var (
	ErrAttendanceNotFound    = errors.New("attendance record not found")
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrNotCheckedIn          = errors.New("cannot check out without checking in")
	ErrAlreadyCheckedOut     = errors.New("already checked out today")
	ErrCheckOutBeforeCheckIn = errors.New("check_out must be after check_in")
	ErrAttendanceExists      = errors.New("attendance already recorded for this date")
)
