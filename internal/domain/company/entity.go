package company

import "time"

type Company struct {
	ID         string
	Name       string
	ShortName  string
	Email      *string
	Phone      *string
	Address    *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
	Website    *string
	LogoURL    *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Join
	EmployeeCount int
}
