package user

import "context"

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID     string
	Email      string
	Role       Role
	EmployeeID *string
}

// OwnEmployeeID returns the caller's employee profile id, or "" when there is none.
func (p Principal) OwnEmployeeID() string {
	if p.EmployeeID == nil {
		return ""
	}
	return *p.EmployeeID
}

// Owns reports whether the caller's employee profile is employeeID.
func (p Principal) Owns(employeeID string) bool {
	return employeeID != "" && p.OwnEmployeeID() == employeeID
}

type principalKey struct{}

func NewContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}
