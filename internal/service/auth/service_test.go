package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPassword   = "Passw0rd!"
)

type memoryUserRepository struct {
	user.UserRepository
	users map[string]*user.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*user.User)}
}

func (m *memoryUserRepository) find(match func(u *user.User) bool) (user.User, error) {
	for _, u := range m.users {
		if match(u) {
			return *u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memoryUserRepository) Create(_ context.Context, newUser user.User) (user.User, error) {
	if _, err := m.find(func(u *user.User) bool { return u.Email == newUser.Email }); err == nil {
		return user.User{}, user.ErrUserEmailExists
	}
	newUser.ID = fmt.Sprintf("u-%d", len(m.users)+1)
	newUser.CreatedAt = time.Now()
	m.users[newUser.ID] = &newUser
	return newUser, nil
}

func (m *memoryUserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	return m.find(func(u *user.User) bool { return u.ID == id })
}

func (m *memoryUserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	return m.find(func(u *user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *memoryUserRepository) GetByEmployeeCode(_ context.Context, code string) (user.User, error) {
	return m.find(func(u *user.User) bool { return u.EmployeeCode != nil && *u.EmployeeCode == code })
}

func (m *memoryUserRepository) GetByEmailVerificationToken(_ context.Context, token string) (user.User, error) {
	return m.find(func(u *user.User) bool {
		return u.EmailVerificationToken != nil && *u.EmailVerificationToken == token
	})
}

func (m *memoryUserRepository) GetByResetTokenHash(_ context.Context, tokenHash string) (user.User, error) {
	return m.find(func(u *user.User) bool { return u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash })
}

func (m *memoryUserRepository) ExistsByRole(_ context.Context, role user.Role) (bool, error) {
	_, err := m.find(func(u *user.User) bool { return u.Role == role })
	return err == nil, nil
}

func (m *memoryUserRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u := m.users[userID]
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiresAt = nil
	return nil
}

func (m *memoryUserRepository) SetResetToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	u := m.users[userID]
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (m *memoryUserRepository) VerifyEmail(_ context.Context, userID string) error {
	u := m.users[userID]
	u.EmailVerified = true
	u.EmailVerificationToken = nil
	return nil
}

func (m *memoryUserRepository) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	m.users[userID].LastLoginAt = &at
	return nil
}

type memoryJWTRepository struct {
	owners  map[string]string
	revoked map[string]bool
}

func (m *memoryJWTRepository) CreateRefreshToken(_ context.Context, userID string, token string, _ int64, _ auth.SessionTrackingRequest) error {
	m.owners[postgresql.HashToken(token)] = userID
	return nil
}

func (m *memoryJWTRepository) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	hash := postgresql.HashToken(token)
	userID, ok := m.owners[hash]
	if !ok {
		return "", true, nil
	}
	return userID, m.revoked[hash], nil
}

func (m *memoryJWTRepository) RevokeRefreshToken(_ context.Context, token string) error {
	m.revoked[postgresql.HashToken(token)] = true
	return nil
}

func (m *memoryJWTRepository) RevokeAllForUser(_ context.Context, userID string) error {
	for hash, owner := range m.owners {
		if owner == userID {
			m.revoked[hash] = true
		}
	}
	return nil
}

type mockCompanyRepository struct {
	company.CompanyRepository
	mock.Mock
}

func (m *mockCompanyRepository) Create(ctx context.Context, c company.Company) (company.Company, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(company.Company), args.Error(1)
}

type mockEmployeeRepository struct {
	employee.EmployeeRepository
	mock.Mock
}

func (m *mockEmployeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(employee.Employee), args.Error(1)
}

type authFixture struct {
	svc       *AuthServiceImpl
	users     *memoryUserRepository
	tokens    *memoryJWTRepository
	companies *mockCompanyRepository
	employees *mockEmployeeRepository
	emails    *servicetest.EmailService
	jwt       jwt.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false, nil)
	require.NoError(t, err)

	f := &authFixture{
		users:     newMemoryUserRepository(),
		tokens:    &memoryJWTRepository{owners: map[string]string{}, revoked: map[string]bool{}},
		companies: new(mockCompanyRepository),
		employees: new(mockEmployeeRepository),
		emails:    servicetest.NewEmailService(),
		jwt:       jwtService,
	}
	f.svc = NewAuthService(
		f.users,
		f.companies,
		f.employees,
		jwtService,
		f.tokens,
		&servicetest.Transactor{},
		f.emails,
		nil,
		"http://app.test/",
	).(*AuthServiceImpl)
	return f
}

func (f *authFixture) seedUser(t *testing.T, email string, role user.Role, active bool) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := f.users.Create(context.Background(), user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.companies.On("Create", mock.Anything, mock.MatchedBy(func(c company.Company) bool {
		return c.ShortName == "ACME"
	})).Return(company.Company{ID: "c-1", Name: "Acme Corp", ShortName: "ACME"}, nil).Once()

	req := auth.RegisterRequest{
		CompanyName:      "Acme Corp",
		CompanyShortName: "ACME",
		Email:            "owner@acme.test",
		Password:         testPassword,
		ConfirmPassword:  testPassword,
	}
	resp, err := f.svc.Register(ctx, req, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	assert.Equal(t, "admin", resp.User.Role)
	assert.False(t, resp.User.EmailVerified)
	assert.Equal(t, "c-1", resp.Company.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	f.emails.AssertCalled(t, "SendVerification", "owner@acme.test", "Acme Corp", mock.MatchedBy(func(link string) bool {
		return strings.HasPrefix(link, "http://app.test/verify-email?token=")
	}))

	t.Run("closed once an admin exists", func(t *testing.T) {
		req.Email = "second@acme.test"
		_, err := f.svc.Register(ctx, req, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrRegistrationClosed)
	})

	t.Run("verification token", func(t *testing.T) {
		stored := f.users.users[resp.User.ID]
		require.NotNil(t, stored.EmailVerificationToken)

		assert.ErrorIs(t, f.svc.VerifyEmail(ctx, auth.VerifyEmailRequest{Token: "nope"}), auth.ErrInvalidToken)
		require.NoError(t, f.svc.VerifyEmail(ctx, auth.VerifyEmailRequest{Token: *stored.EmailVerificationToken}))
		assert.True(t, f.users.users[resp.User.ID].EmailVerified)
	})
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	active := f.seedUser(t, "jane@acme.test", user.RoleEmployee, true)
	code := "ACMJANDOE2024001"
	employeeID := "e-1"
	f.users.users[active.ID].EmployeeCode = &code
	f.users.users[active.ID].EmployeeID = &employeeID
	f.seedUser(t, "gone@acme.test", user.RoleEmployee, false)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{name: "email", identifier: "Jane@Acme.test", password: testPassword},
		{name: "employee code", identifier: strings.ToLower(code), password: testPassword},
		{name: "wrong password", identifier: "jane@acme.test", password: "Wrong0ne!", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown", identifier: "nobody@acme.test", password: testPassword, wantErr: auth.ErrInvalidCredentials},
		{name: "inactive", identifier: "gone@acme.test", password: testPassword, wantErr: auth.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := auth.LoginRequest{Identifier: tt.identifier, Password: tt.password}
			require.NoError(t, req.Validate())

			resp, err := f.svc.Login(ctx, req, auth.SessionTrackingRequest{UserAgent: "test"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
			assert.NotNil(t, f.users.users[active.ID].LastLoginAt)

			token, err := f.jwt.JWTAuth().Decode(resp.AccessToken)
			require.NoError(t, err)
			claims, err := token.AsMap(ctx)
			require.NoError(t, err)
			p, err := jwt.PrincipalFromClaims(claims)
			require.NoError(t, err)
			assert.Equal(t, active.ID, p.UserID)
			assert.Equal(t, employeeID, p.OwnEmployeeID())
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "hr@acme.test", user.RoleHR, true)

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Identifier: "hr@acme.test", Password: testPassword}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	err = f.svc.Logout(ctx, auth.LogoutRequest{
		RefreshToken:   tokens.RefreshToken,
		AccessToken:    tokens.AccessToken,
		AccessExpireAt: time.Unix(tokens.AccessTokenExpiresIn, 0),
	})
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
	assert.True(t, f.jwt.IsTokenRevoked(ctx, tokens.AccessToken))
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "jane@acme.test", user.RoleEmployee, true)

	emails := new(servicetest.EmailService)
	f.svc.emailService = emails
	var link string
	emails.On("SendPasswordReset", "jane@acme.test", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { link = args.String(2) }).
		Return(nil).Once()

	require.NoError(t, f.svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: "nobody@acme.test"}))
	require.NoError(t, f.svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: "jane@acme.test"}))
	emails.AssertExpectations(t)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)
	assert.Equal(t, postgresql.HashToken(token), *f.users.users[u.ID].ResetTokenHash)

	t.Run("expired", func(t *testing.T) {
		f.svc.now = func() time.Time { return time.Now().Add(ResetTokenTTL + time.Minute) }
		defer func() { f.svc.now = time.Now }()

		err := f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: token, Password: "N3wPassw0rd!", ConfirmPassword: "N3wPassw0rd!"})
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	require.NoError(t, f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: token, Password: "N3wPassw0rd!", ConfirmPassword: "N3wPassw0rd!"}))
	assert.Nil(t, f.users.users[u.ID].ResetTokenHash)

	err = f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: token, Password: "N3wPassw0rd!", ConfirmPassword: "N3wPassw0rd!"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Identifier: "jane@acme.test", Password: "N3wPassw0rd!"}, auth.SessionTrackingRequest{})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "jane@acme.test", user.RoleEmployee, true)
	ctx := user.NewContext(context.Background(), user.Principal{UserID: u.ID, Role: user.RoleEmployee})

	err := f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{CurrentPassword: "Wrong0ne!", NewPassword: "N3wPassw0rd!", ConfirmPassword: "N3wPassw0rd!"})
	assert.ErrorIs(t, err, auth.ErrIncorrectPassword)

	err = f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "N3wPassw0rd!", ConfirmPassword: "N3wPassw0rd!"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(f.users.users[u.ID].PasswordHash), []byte("N3wPassw0rd!")))

	assert.ErrorIs(t, f.svc.ChangePassword(context.Background(), auth.ChangePasswordRequest{}), user.ErrUnauthenticated)
}

func TestMe(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "jane@acme.test", user.RoleEmployee, true)
	employeeID := "e-1"
	f.users.users[u.ID].EmployeeID = &employeeID
	f.employees.On("GetByUserID", mock.Anything, u.ID).Return(employee.Employee{ID: employeeID, FirstName: "Jane"}, nil)

	ctx := user.NewContext(context.Background(), user.Principal{UserID: u.ID, Role: user.RoleEmployee, EmployeeID: &employeeID})
	resp, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.test", resp.User.Email)
	require.NotNil(t, resp.Employee)
	assert.Equal(t, employeeID, resp.Employee.ID)
}

func TestGoogleDisabled(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.GoogleRedirectURL("state")
	assert.ErrorIs(t, err, auth.ErrOAuthDisabled)

	_, err = f.svc.LoginWithGoogle(context.Background(), "code", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrOAuthDisabled)
}
