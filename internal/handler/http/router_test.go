package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req auth.RegisterRequest, s auth.SessionTrackingRequest) (auth.RegisterResponse, error) {
	args := m.Called(ctx, req, s)
	return args.Get(0).(auth.RegisterResponse), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req auth.LoginRequest, s auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	args := m.Called(ctx, req, s)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

func (m *mockAuthService) LoginWithGoogle(ctx context.Context, code string, s auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	args := m.Called(ctx, code, s)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

func (m *mockAuthService) GoogleRedirectURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.AccessTokenResponse), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, req auth.LogoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context) (auth.MeResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(auth.MeResponse), args.Error(1)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, req auth.VerifyEmailRequest) error {
	return m.Called(ctx, req).Error(0)
}

type mockLeaveService struct{ mock.Mock }

func (m *mockLeaveService) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(leave.LeaveResponse), args.Error(1)
}

func (m *mockLeaveService) MyLeaves(ctx context.Context, f leave.LeaveFilter) (leave.MyLeavesResponse, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(leave.MyLeavesResponse), args.Error(1)
}

func (m *mockLeaveService) List(ctx context.Context, f leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(leave.ListLeaveResponse), args.Error(1)
}

func (m *mockLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(leave.LeaveResponse), args.Error(1)
}

func (m *mockLeaveService) Review(ctx context.Context, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(leave.LeaveResponse), args.Error(1)
}

func (m *mockLeaveService) Update(ctx context.Context, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(leave.LeaveResponse), args.Error(1)
}

func (m *mockLeaveService) Cancel(ctx context.Context, id string) (leave.LeaveResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(leave.LeaveResponse), args.Error(1)
}

func (m *mockLeaveService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLeaveService) Stats(ctx context.Context, f leave.StatsFilter) (leave.StatsResponse, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(leave.StatsResponse), args.Error(1)
}

func (m *mockLeaveService) Balance(ctx context.Context, employeeID string) (leave.BalanceResponse, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(leave.BalanceResponse), args.Error(1)
}

type mockPayrollService struct{ mock.Mock }

func (m *mockPayrollService) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(payroll.PayrollResponse), args.Error(1)
}

func (m *mockPayrollService) BulkCreate(ctx context.Context, req payroll.BulkCreatePayrollRequest) (payroll.BulkCreateResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(payroll.BulkCreateResponse), args.Error(1)
}

func (m *mockPayrollService) List(ctx context.Context, f payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(payroll.ListPayrollResponse), args.Error(1)
}

func (m *mockPayrollService) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(payroll.PayrollResponse), args.Error(1)
}

func (m *mockPayrollService) MyPayroll(ctx context.Context, f payroll.PayrollFilter) (payroll.MyPayrollResponse, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(payroll.MyPayrollResponse), args.Error(1)
}

func (m *mockPayrollService) ListByEmployee(ctx context.Context, employeeID string, f payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	args := m.Called(ctx, employeeID, f)
	return args.Get(0).(payroll.ListPayrollResponse), args.Error(1)
}

func (m *mockPayrollService) Update(ctx context.Context, id string, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(payroll.PayrollResponse), args.Error(1)
}

func (m *mockPayrollService) UpdatePaymentStatus(ctx context.Context, id string, req payroll.UpdatePaymentStatusRequest) (payroll.PayrollResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(payroll.PayrollResponse), args.Error(1)
}

func (m *mockPayrollService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPayrollService) Payslip(ctx context.Context, id string) (payroll.Payslip, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(payroll.Payslip), args.Error(1)
}

func (m *mockPayrollService) Stats(ctx context.Context, f payroll.StatsFilter) (payroll.StatsResponse, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(payroll.StatsResponse), args.Error(1)
}

type routerFixture struct {
	router  *chi.Mux
	jwt     jwt.Service
	auth    *mockAuthService
	leave   *mockLeaveService
	payroll *mockPayrollService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	jwtService, err := jwt.NewJWTService("router-secret", "15m", "24h", false, nil)
	require.NoError(t, err)

	f := &routerFixture{
		jwt:     jwtService,
		auth:    new(mockAuthService),
		leave:   new(mockLeaveService),
		payroll: new(mockPayrollService),
	}
	f.router = NewRouter(RouterOptions{CORSOrigins: []string{"http://localhost:3000"}}, jwtService, Handlers{
		Auth:       NewAuthHandler(jwtService, f.auth, nil, "http://localhost:3000", false),
		Company:    NewCompanyHandler(nil),
		Employee:   NewEmployeeHandler(nil),
		Attendance: NewAttendanceHandler(nil),
		Leave:      NewLeaveHandler(f.leave),
		Payroll:    NewPayrollHandler(f.payroll),
		Dashboard:  NewDashboardHandler(nil),
		Events:     NewEventHandler(sse.NewHub(), jwtService),
	})
	return f
}

func (f *routerFixture) token(t *testing.T, role user.Role, employeeID string) string {
	t.Helper()
	var empID *string
	if employeeID != "" {
		empID = &employeeID
	}
	token, _, err := f.jwt.GenerateAccessToken("user-"+string(role), string(role)+"@example.com", empID, role)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/leaves/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, envelope(t, rec).Success)
}

func TestRouter_EmployeeCannotCreatePayroll(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleEmployee, "0193a3b0-0000-7000-8000-000000000001")

	rec := f.do(http.MethodPost, "/api/v1/payroll", token, map[string]interface{}{"employee_id": "x"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.payroll.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeaveHandler_ApplyValidation(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleEmployee, "0193a3b0-0000-7000-8000-000000000001")

	rec := f.do(http.MethodPost, "/api/v1/leaves", token, map[string]string{
		"leave_type": "holiday",
		"start_date": "2024-03-12",
		"end_date":   "2024-03-11",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Details, "leave_type")
	assert.Contains(t, body.Details, "reason")
	f.leave.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestLeaveHandler_Apply(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleEmployee, "0193a3b0-0000-7000-8000-000000000001")

	req := leave.ApplyLeaveRequest{LeaveType: "sick", StartDate: "2030-01-07", EndDate: "2030-01-08", Reason: "Flu"}
	f.leave.On("Apply", mock.Anything, req).Return(leave.LeaveResponse{ID: "leave-1", Status: "pending", NumberOfDays: 2}, nil)

	rec := f.do(http.MethodPost, "/api/v1/leaves", token, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := envelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Leave application submitted successfully", body.Message)
	f.leave.AssertExpectations(t)
}

func TestLeaveHandler_ReviewConflict(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleHR, "")

	req := leave.ReviewLeaveRequest{Status: "approved"}
	f.leave.On("Review", mock.Anything, "leave-1", req).Return(leave.LeaveResponse{}, leave.ErrLeaveNotPending)

	rec := f.do(http.MethodPut, "/api/v1/leaves/leave-1/status", token, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, leave.ErrLeaveNotPending.Error(), envelope(t, rec).Error)
}

func TestPayrollHandler_BulkCreateMessage(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleAdmin, "")

	f.payroll.On("BulkCreate", mock.Anything, mock.AnythingOfType("payroll.BulkCreatePayrollRequest")).
		Return(payroll.BulkCreateResponse{
			Created:      2,
			Errors:       1,
			ErrorDetails: []payroll.BulkError{{EmployeeID: "0193a3b0-0000-7000-8000-000000000003", Error: payroll.ErrPayrollExists.Error()}},
		}, nil)

	rec := f.do(http.MethodPost, "/api/v1/payroll/bulk", token, map[string]interface{}{
		"month": 3,
		"year":  2024,
		"employees": []map[string]string{
			{"employee_id": "0193a3b0-0000-7000-8000-000000000001"},
			{"employee_id": "0193a3b0-0000-7000-8000-000000000002"},
			{"employee_id": "0193a3b0-0000-7000-8000-000000000003"},
		},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Created 2 payroll records", envelope(t, rec).Message)
}

func TestPayrollHandler_ListRejectsMalformedMonth(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleHR, "")

	rec := f.do(http.MethodGet, "/api/v1/payroll?month=march", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope(t, rec).Details, "month")
}

func TestAuthHandler_LoginSetsRefreshCookie(t *testing.T) {
	f := newRouterFixture(t)

	f.auth.On("Login", mock.Anything, auth.LoginRequest{Identifier: "ACME-JD-2024-001", Password: "Secret1!"}, mock.Anything).
		Return(auth.TokenResponse{AccessToken: "access", AccessTokenExpiresIn: 1, RefreshToken: "refresh", RefreshTokenExpiresIn: 2}, nil)

	rec := f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": " ACME-JD-2024-001 ",
		"password":   "Secret1!",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Equal(t, "refresh", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandler_GoogleDisabled(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/auth/login/oauth/google", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthHandler_LogoutRevokesAccessToken(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleEmployee, "0193a3b0-0000-7000-8000-000000000001")

	f.auth.On("Logout", mock.Anything, mock.MatchedBy(func(req auth.LogoutRequest) bool {
		return req.AccessToken == token && !req.AccessExpireAt.IsZero()
	})).Return(nil)

	rec := f.do(http.MethodPost, "/api/v1/auth/logout", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.auth.AssertExpectations(t)
}

func TestEventHandler_StreamToken(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("employee", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/v1/events/token", f.token(t, user.RoleEmployee, "emp-9"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data StreamTokenResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		employeeID, err := f.jwt.ValidateStreamToken(body.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, "emp-9", employeeID)
	})

	t.Run("admin without profile", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/v1/events/token", f.token(t, user.RoleAdmin, ""), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("stream rejects access token", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/v1/events/stream?token="+f.token(t, user.RoleEmployee, "emp-9"), "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
