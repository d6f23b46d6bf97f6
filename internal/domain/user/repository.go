package user

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmployeeCode(ctx context.Context, code string) (User, error)
	GetByEmailVerificationToken(ctx context.Context, token string) (User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (User, error)
	ExistsByRole(ctx context.Context, role Role) (bool, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	VerifyEmail(ctx context.Context, userID string) error
	SetActive(ctx context.Context, userID string, active bool) error
	UpdateRole(ctx context.Context, userID string, role Role) error
	UpdateEmail(ctx context.Context, userID, email string) error
	LinkGoogleAccount(ctx context.Context, userID, googleID string) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}
