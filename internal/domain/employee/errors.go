package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeEmailExists     = errors.New("employee email already exists")
	ErrEmployeeCodeUnavailable = errors.New("could not allocate a unique employee code")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrEmployeeInactive        = errors.New("employee is not active")
	ErrSelfServiceOnly         = errors.New("employees may only update their contact and emergency details")
	ErrRoleAssignmentForbidden = errors.New("only an admin may assign the hr or admin role")
	ErrInvalidAvatar           = errors.New("avatar must be a JPEG or PNG image")
)
