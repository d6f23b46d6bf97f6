package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("test-secret", "15m", "168h", false, nil)
	require.NoError(t, err)
	return svc.(*JWTService)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	empID := "emp-1"

	token, exp, err := svc.GenerateAccessToken("user-1", "a@b.co", &empID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "a@b.co", p.Email)
	assert.Equal(t, user.RoleEmployee, p.Role)
	assert.Equal(t, "emp-1", p.OwnEmployeeID())
}

func TestPrincipalFromClaims_RejectsRefreshToken(t *testing.T) {
	svc := newTestService(t)
	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	_, err = PrincipalFromClaims(claims)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestPrincipalFromClaims_AdminWithoutProfile(t *testing.T) {
	p, err := PrincipalFromClaims(map[string]interface{}{
		"user_id":     "user-1",
		"role":        "admin",
		"type":        "access",
		"employee_id": nil,
	})
	require.NoError(t, err)
	assert.Nil(t, p.EmployeeID)
}

func TestPrincipalFromClaims_UnknownRole(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{"user_id": "u", "role": "owner", "type": "access"})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.False(t, svc.IsTokenRevoked(ctx, "tok"))
	svc.RevokeToken(ctx, "tok", time.Now().Add(time.Minute))
	assert.True(t, svc.IsTokenRevoked(ctx, "tok"))

	svc.RevokeToken(ctx, "expired", time.Now().Add(-time.Minute))
	assert.False(t, svc.IsTokenRevoked(ctx, "expired"))
}

func TestMemoryRevocationStore_Expires(t *testing.T) {
	store := NewMemoryRevocationStore().(*memoryRevocationStore)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(context.Background(), "tok", time.Minute))
	revoked, err := store.IsRevoked(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsRevoked(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "168h", false, nil)
	assert.Error(t, err)
}

func TestStreamToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateStreamToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(300), expiresIn)

	employeeID, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", employeeID)

	access, _, err := svc.GenerateAccessToken("user-1", "a@b.co", &employeeID, user.RoleEmployee)
	require.NoError(t, err)
	_, err = svc.ValidateStreamToken(access)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = svc.ValidateStreamToken("not-a-token")
	assert.Error(t, err)
}
