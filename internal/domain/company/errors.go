package company

import "errors"

var (
	ErrCompanyNotFound        = errors.New("company not found")
	ErrCompanyNameExists      = errors.New("company name already exists")
	ErrCompanyShortNameExists = errors.New("company short name already exists")
	ErrCompanyHasEmployees    = errors.New("company still has employees")
	ErrInvalidLogo            = errors.New("logo must be a JPEG or PNG image")
)
