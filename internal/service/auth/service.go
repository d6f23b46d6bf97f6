package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

type AuthServiceImpl struct {
	user.UserRepository
	company.CompanyRepository
	employee.EmployeeRepository
	jwt.Service
	postgresql.JWTRepository
	postgresql.Transactor

	emailService  email.EmailService
	googleService oauth.GoogleService
	frontendURL   string
	now           func() time.Time
}

// NewAuthService wires the auth use cases. googleService may be nil when Google sign-in is not configured.
func NewAuthService(
	userRepository user.UserRepository,
	companyRepository company.CompanyRepository,
	employeeRepository employee.EmployeeRepository,
	jwtService jwt.Service,
	jwtRepository postgresql.JWTRepository,
	transactor postgresql.Transactor,
	emailService email.EmailService,
	googleService oauth.GoogleService,
	frontendURL string,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:     userRepository,
		CompanyRepository:  companyRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		JWTRepository:      jwtRepository,
		Transactor:         transactor,
		emailService:       emailService,
		googleService:      googleService,
		frontendURL:        strings.TrimRight(frontendURL, "/"),
		now:                time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// issueTokens signs a token pair for u and stores the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.CreateRefreshToken(ctx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokenResponse, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, registerReq auth.RegisterRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.RegisterResponse, error) {
	adminExists, err := a.UserRepository.ExistsByRole(ctx, user.RoleAdmin)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to check for an existing admin: %w", err)
	}
	if adminExists {
		return auth.RegisterResponse{}, auth.ErrRegistrationClosed
	}

	hashedPassword, err := a.hashPassword(registerReq.Password)
	if err != nil {
		return auth.RegisterResponse{}, err
	}
	verificationToken := uuid.NewString()

	var resp auth.RegisterResponse
	err = a.WithinTransaction(ctx, func(txCtx context.Context) error {
		req := registerReq.CompanyRequest()
		newCompany, err := a.CompanyRepository.Create(txCtx, company.Company{
			Name:      req.Name,
			ShortName: req.ShortName,
			Email:     req.Email,
		})
		if err != nil {
			return err
		}

		newUser, err := a.UserRepository.Create(txCtx, user.User{
			Email:                  registerReq.Email,
			PasswordHash:           hashedPassword,
			Role:                   user.RoleAdmin,
			IsActive:               true,
			EmailVerificationToken: &verificationToken,
		})
		if err != nil {
			return err
		}

		tokens, err := a.issueTokens(txCtx, newUser, sessionTrackReq)
		if err != nil {
			return err
		}

		resp = auth.RegisterResponse{
			User:          user.NewUserResponse(newUser),
			Company:       company.NewCompanyResponse(newCompany),
			TokenResponse: tokens,
		}
		return nil
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", a.frontendURL, verificationToken)
	if err := a.emailService.SendVerification(registerReq.Email, registerReq.CompanyName, link); err != nil {
		slog.Warn("failed to queue verification email", "user_id", resp.User.ID, "error", err)
	}

	slog.Info("admin registered", "user_id", resp.User.ID, "company_id", resp.Company.ID)
	return resp, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var (
		userData user.User
		err      error
	)
	if loginReq.IsEmail() {
		userData, err = a.UserRepository.GetByEmail(ctx, loginReq.Normalized())
	} else {
		userData, err = a.UserRepository.GetByEmployeeCode(ctx, loginReq.Normalized())
	}
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	if userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	return a.completeLogin(ctx, userData, sessionTrackReq)
}

func (a *AuthServiceImpl) completeLogin(ctx context.Context, userData user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	err := a.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		tokenResponse, err = a.issueTokens(txCtx, userData, session)
		if err != nil {
			return err
		}
		return a.UserRepository.TouchLastLogin(txCtx, userData.ID, a.now())
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("user logged in", "user_id", userData.ID, "role", userData.Role)
	return tokenResponse, nil
}

// GoogleRedirectURL implements auth.AuthService.
func (a *AuthServiceImpl) GoogleRedirectURL(state string) (string, error) {
	if a.googleService == nil {
		return "", auth.ErrOAuthDisabled
	}
	if state == "" {
		return "", auth.ErrInvalidOAuthState
	}
	return a.googleService.RedirectURL(state), nil
}

// LoginWithGoogle implements auth.AuthService. Only accounts that already exist may sign in.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if a.googleService == nil {
		return auth.TokenResponse{}, auth.ErrOAuthDisabled
	}

	info, err := a.googleService.Exchange(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("%w: %v", auth.ErrInvalidCredentials, err)
	}

	userData, err := a.UserRepository.GetByEmail(ctx, strings.ToLower(info.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrOAuthAccountNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	if userData.GoogleID == nil || *userData.GoogleID != info.GoogleID {
		if err := a.UserRepository.LinkGoogleAccount(ctx, userData.ID, info.GoogleID); err != nil {
			return auth.TokenResponse{}, err
		}
	}

	return a.completeLogin(ctx, userData, sessionTrackReq)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	token, err := jwtauth.VerifyToken(a.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != jwt.TokenTypeRefresh {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userID, isRevoked, err := a.JWTRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if req.RefreshToken != "" {
		_, isRevoked, err := a.JWTRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !isRevoked {
			if err := a.JWTRepository.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
				return err
			}
		}
	}

	if req.AccessToken != "" {
		a.Service.RevokeToken(ctx, req.AccessToken, req.AccessExpireAt)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (auth.MeResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, err
	}

	userData, err := a.UserRepository.GetByID(ctx, p.UserID)
	if err != nil {
		return auth.MeResponse{}, err
	}

	resp := auth.MeResponse{User: user.NewUserResponse(userData)}
	if userData.EmployeeID != nil {
		profile, err := a.EmployeeRepository.GetByUserID(ctx, userData.ID)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.MeResponse{}, err
		}
		if err == nil {
			employeeResp := employee.NewEmployeeResponse(profile)
			resp.Employee = &employeeResp
		}
	}
	return resp, nil
}

// ForgotPassword implements auth.AuthService.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if !userData.IsActive {
		return nil
	}

	token := uuid.NewString()
	expiresAt := a.now().Add(ResetTokenTTL)
	if err := a.UserRepository.SetResetToken(ctx, userData.ID, postgresql.HashToken(token), expiresAt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", a.frontendURL, token)
	if err := a.emailService.SendPasswordReset(userData.Email, userData.Email, link, expiresAt.Format(time.RFC1123)); err != nil {
		slog.Warn("failed to queue password reset email", "user_id", userData.ID, "error", err)
	}
	return nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	userData, err := a.UserRepository.GetByResetTokenHash(ctx, postgresql.HashToken(req.Token))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrInvalidToken
		}
		return err
	}
	if !userData.ResetTokenValid(a.now()) {
		return auth.ErrInvalidToken
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return err
	}

	return a.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.UpdatePassword(txCtx, userData.ID, hashedPassword); err != nil {
			return err
		}
		return a.JWTRepository.RevokeAllForUser(txCtx, userData.ID)
	})
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrIncorrectPassword
	}

	hashedPassword, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return a.UserRepository.UpdatePassword(ctx, userData.ID, hashedPassword)
}

// VerifyEmail implements auth.AuthService.
func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, req auth.VerifyEmailRequest) error {
	userData, err := a.UserRepository.GetByEmailVerificationToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrInvalidToken
		}
		return err
	}
	return a.UserRepository.VerifyEmail(ctx, userData.ID)
}
