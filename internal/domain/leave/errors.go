package leave

import "errors"

var (
	ErrLeaveNotFound       = errors.New("leave application not found")
	ErrEndBeforeStart      = errors.New("end_date must not be before start_date")
	ErrStartInPast         = errors.New("cannot apply for leave in the past")
	ErrOverlappingLeave    = errors.New("you already have a leave application for these dates")
	ErrLeaveNotPending     = errors.New("only pending leave applications can be changed")
	ErrLeaveNotCancellable = errors.New("only pending or approved leaves can be cancelled")
	ErrLeaveAlreadyStarted = errors.New("cannot cancel leave that has already started")
	ErrInvalidReviewStatus = errors.New("status must be either approved or rejected")
)
