package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	appErrors "github.com/noah-isme/hafalan-progress-api/pkg/errors"
)

func newTestAuthService() *AuthService {
	return NewAuthService(zap.NewNop(), AuthConfig{
		Enabled:           true,
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Minute,
		Issuer:            "hafalan-test",
	})
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newTestAuthService()

	token, expiresAt, err := svc.IssueToken("teacher-1", models.RoleTeacher, "Ustadz Hasan")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "Ustadz Hasan", claims.FullName)
}

func TestAuthServiceRejectsForeignSecret(t *testing.T) {
	svc := newTestAuthService()
	other := NewAuthService(nil, AuthConfig{AccessTokenSecret: "other", Issuer: "hafalan-test"})

	token, _, err := other.IssueToken("parent-1", models.RoleParent, "Parent")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsWrongIssuer(t *testing.T) {
	svc := newTestAuthService()
	other := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "someone-else"})

	token, _, err := other.IssueToken("teacher-1", models.RoleTeacher, "Teacher")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService()
	claims := &models.JWTClaims{
		UserID: "admin-1",
		Role:   models.UserRole("ADMIN"),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "hafalan-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := newTestAuthService()
	claims := &models.JWTClaims{
		UserID: "teacher-1",
		Role:   models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "hafalan-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceStubClaimsIsTeacher(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{})
	assert.False(t, svc.Enabled())
	assert.Equal(t, models.RoleTeacher, svc.StubClaims().Role)
}
