package jwt

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeStream  = "stream"

	// StreamTokenTTL bounds how long a stream token can open a connection.
	StreamTokenTTL = 5 * time.Minute
)

var ErrInvalidClaims = errors.New("invalid token claims")

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	GenerateStreamToken(employeeID string) (token string, expiresIn int64, err error)
	ValidateStreamToken(token string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
	RevokeToken(ctx context.Context, token string, expiresAt time.Time)
	IsTokenRevoked(ctx context.Context, token string) bool
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	secureCookie           bool
	tokenAuth              *jwtauth.JWTAuth
	revoked                RevocationStore
	now                    func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 token service. Expirations are Go duration strings.
func NewJWTService(secretKey, accessTokenExpiration, refreshTokenExpiration string, secureCookie bool, revoked RevocationStore) (Service, error) {
	access, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, err
	}
	refresh, err := time.ParseDuration(refreshTokenExpiration)
	if err != nil {
		return nil, err
	}
	if revoked == nil {
		revoked = NewMemoryRevocationStore()
	}
	return &JWTService{
		accessTokenExpiration:  access,
		refreshTokenExpiration: refresh,
		secureCookie:           secureCookie,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revoked:                revoked,
		now:                    time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"email":       email,
		"employee_id": valueOrNil(employeeID),
		"role":        string(role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"jti":     uuid.NewString(),
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

// GenerateStreamToken issues a short-lived token for the event stream, which is
// opened with a query parameter instead of an Authorization header.
func (j *JWTService) GenerateStreamToken(employeeID string) (token string, expiresIn int64, err error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"exp":         j.now().Add(StreamTokenTTL).Unix(),
		"type":        TokenTypeStream,
	})
	return tokenString, int64(StreamTokenTTL.Seconds()), err
}

func (j *JWTService) ValidateStreamToken(token string) (string, error) {
	parsed, err := jwtauth.VerifyToken(j.tokenAuth, token)
	if err != nil {
		return "", err
	}
	claims := parsed.PrivateClaims()
	if t, _ := claims["type"].(string); t != TokenTypeStream {
		return "", ErrInvalidClaims
	}
	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		return "", ErrInvalidClaims
	}
	return employeeID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// RevokeToken blocks an access token until it would have expired anyway.
func (j *JWTService) RevokeToken(ctx context.Context, token string, expiresAt time.Time) {
	ttl := expiresAt.Sub(j.now())
	if ttl <= 0 {
		return
	}
	if err := j.revoked.Revoke(ctx, token, ttl); err != nil {
		slog.Error("failed to revoke access token", "error", err)
	}
}

// IsTokenRevoked fails open when the store is unreachable.
func (j *JWTService) IsTokenRevoked(ctx context.Context, token string) bool {
	revoked, err := j.revoked.IsRevoked(ctx, token)
	if err != nil {
		slog.Error("failed to check token revocation", "error", err)
		return false
	}
	return revoked
}

// PrincipalFromClaims maps verified access-token claims onto a principal.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	if t, _ := claims["type"].(string); t != TokenTypeAccess {
		return user.Principal{}, ErrInvalidClaims
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !user.Role(role).Valid() {
		return user.Principal{}, ErrInvalidClaims
	}
	email, _ := claims["email"].(string)

	p := user.Principal{UserID: userID, Email: email, Role: user.Role(role)}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		p.EmployeeID = &employeeID
	}
	return p, nil
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
