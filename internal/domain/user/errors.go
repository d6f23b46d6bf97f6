package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeProfileRequired = errors.New("an employee profile is required for this action")
)
