package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.role, u.is_active, u.email_verified,
	u.email_verification_token, u.reset_token_hash, u.reset_token_expires_at,
	u.google_id, u.last_login_at, u.created_at, u.updated_at,
	e.id, e.employee_code
`

const userFrom = `
	FROM users u
	LEFT JOIN employees e ON e.user_id = u.id
`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.EmailVerified,
		&u.EmailVerificationToken,
		&u.ResetTokenHash,
		&u.ResetTokenExpiresAt,
		&u.GoogleID,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.EmployeeID,
		&u.EmployeeCode,
	)
	return u, err
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + userColumns + userFrom + " WHERE " + where
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (email, password_hash, role, is_active, email_verified, email_verification_token, google_id)
		VALUES (LOWER($1), $2, $3, $4, $5, $6, $7)
		RETURNING id, email, role, is_active, email_verified, created_at, updated_at
	`

	created := newUser
	err := q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.IsActive,
		newUser.EmailVerified,
		newUser.EmailVerificationToken,
		newUser.GoogleID,
	).Scan(
		&created.ID,
		&created.Email,
		&created.Role,
		&created.IsActive,
		&created.EmailVerified,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(u.email) = LOWER($1)", email)
}

// GetByEmployeeCode implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmployeeCode(ctx context.Context, code string) (user.User, error) {
	return r.getOne(ctx, "e.employee_code = UPPER($1)", code)
}

// GetByEmailVerificationToken implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmailVerificationToken(ctx context.Context, token string) (user.User, error) {
	return r.getOne(ctx, "u.email_verification_token = $1", token)
}

// GetByResetTokenHash implements user.UserRepository.
func (r *userRepositoryImpl) GetByResetTokenHash(ctx context.Context, tokenHash string) (user.User, error) {
	return r.getOne(ctx, "u.reset_token_hash = $1", tokenHash)
}

// ExistsByRole implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByRole(ctx context.Context, role user.Role) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`, role).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check users by role: %w", err)
	}
	return exists, nil
}

func (r *userRepositoryImpl) exec(ctx context.Context, op, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdatePassword implements user.UserRepository. It also clears any pending reset token.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.exec(ctx, "update password", `
		UPDATE users
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = NOW()
		WHERE id = $2
	`, passwordHash, userID)
}

// SetResetToken implements user.UserRepository.
func (r *userRepositoryImpl) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return r.exec(ctx, "set reset token", `
		UPDATE users
		SET reset_token_hash = $1, reset_token_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`, tokenHash, expiresAt, userID)
}

// VerifyEmail implements user.UserRepository.
func (r *userRepositoryImpl) VerifyEmail(ctx context.Context, userID string) error {
	return r.exec(ctx, "verify email", `
		UPDATE users
		SET email_verified = TRUE, email_verification_token = NULL, updated_at = NOW()
		WHERE id = $1
	`, userID)
}

// SetActive implements user.UserRepository.
func (r *userRepositoryImpl) SetActive(ctx context.Context, userID string, active bool) error {
	return r.exec(ctx, "set user active flag", `
		UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, userID)
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, userID string, role user.Role) error {
	return r.exec(ctx, "update role", `
		UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2
	`, role, userID)
}

// UpdateEmail implements user.UserRepository.
func (r *userRepositoryImpl) UpdateEmail(ctx context.Context, userID, email string) error {
	err := r.exec(ctx, "update email", `
		UPDATE users SET email = LOWER($1), updated_at = NOW() WHERE id = $2
	`, email, userID)
	if database.IsUniqueViolation(err, "users_email_key") {
		return user.ErrUserEmailExists
	}
	return err
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, userID, googleID string) error {
	return r.exec(ctx, "link google account", `
		UPDATE users SET google_id = $1, email_verified = TRUE, updated_at = NOW() WHERE id = $2
	`, googleID, userID)
}

// TouchLastLogin implements user.UserRepository.
func (r *userRepositoryImpl) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.exec(ctx, "record last login", `
		UPDATE users SET last_login_at = $1 WHERE id = $2
	`, at, userID)
}
