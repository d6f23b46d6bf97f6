package auth

import "context"

type AuthService interface {
	// Register bootstraps the first admin together with its company.
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (RegisterResponse, error)

	// Login accepts an email or an employee code as the identifier.
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, code string, session SessionTrackingRequest) (TokenResponse, error)
	GoogleRedirectURL(state string) (string, error)

	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	Me(ctx context.Context) (MeResponse, error)

	// ForgotPassword never reveals whether the email is registered.
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) error
}
