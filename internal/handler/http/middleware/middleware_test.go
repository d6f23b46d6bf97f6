package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService(t *testing.T) jwt.Service {
	t.Helper()
	svc, err := jwt.NewJWTService("middleware-secret", "15m", "24h", false, nil)
	require.NoError(t, err)
	return svc
}

// protected mounts next behind the verifier and AuthRequired.
func protected(svc jwt.Service, next http.Handler) http.Handler {
	return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc)(next))
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthRequired(t *testing.T) {
	svc := newJWTService(t)
	empID := "emp-1"
	access, exp, err := svc.GenerateAccessToken("user-1", "e@x.io", &empID, user.RoleEmployee)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	var got user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = user.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := protected(svc, next)

	t.Run("access token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(access))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "emp-1", got.OwnEmployeeID())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(refresh))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		svc.RevokeToken(context.Background(), access, time.Unix(exp, 0))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(access))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	empID := "emp-1"
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name      string
		principal *user.Principal
		resource  user.Resource
		action    user.Action
		status    int
	}{
		{"hr approves leave", &user.Principal{UserID: "u1", Role: user.RoleHR}, user.ResourceLeave, user.ActionApprove, http.StatusNoContent},
		{"employee approves leave", &user.Principal{UserID: "u2", Role: user.RoleEmployee, EmployeeID: &empID}, user.ResourceLeave, user.ActionApprove, http.StatusForbidden},
		{"employee applies for leave", &user.Principal{UserID: "u2", Role: user.RoleEmployee, EmployeeID: &empID}, user.ResourceLeave, user.ActionCreate, http.StatusNoContent},
		{"admin without profile checks in", &user.Principal{UserID: "u3", Role: user.RoleAdmin}, user.ResourceAttendance, user.ActionRecord, http.StatusForbidden},
		{"no principal", nil, user.ResourcePayroll, user.ActionRead, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(user.NewContext(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()
			RequirePermission(tt.resource, tt.action)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequirePermission_ProfileRequiredMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(user.NewContext(req.Context(), user.Principal{UserID: "u3", Role: user.RoleAdmin}))
	rec := httptest.NewRecorder()

	RequirePermission(user.ResourceLeave, user.ActionCreate)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ErrEmployeeProfileRequired.Error())
}
