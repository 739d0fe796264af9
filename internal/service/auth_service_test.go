package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/models"
	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
)

func newAuthForTest(now time.Time) *AuthService {
	svc := NewAuthService(nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "issue-insights-api",
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newAuthForTest(time.Now())

	token, expiresAt, err := svc.IssueToken(TokenSubject{UserID: "u-1", Email: "ana@example.com", Name: "Ana", Role: models.RoleCore})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleCore, claims.Role)
	assert.Equal(t, "Ana", claims.Name)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthServiceRejectsInvalidSubject(t *testing.T) {
	svc := newAuthForTest(time.Now())

	_, _, err := svc.IssueToken(TokenSubject{UserID: "u-1", Role: "guest"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-3 * time.Hour)
	token, _, err := newAuthForTest(issuedAt).IssueToken(TokenSubject{UserID: "u-1", Role: models.RoleMember})
	require.NoError(t, err)

	_, err = newAuthForTest(time.Now()).ValidateToken(token)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Status, appErr.Status)
}

func TestAuthServiceRejectsWrongSecretAndIssuer(t *testing.T) {
	svc := newAuthForTest(time.Now())

	other := NewAuthService(nil, zap.NewNop(), AuthConfig{AccessTokenSecret: "other", Issuer: "issue-insights-api"})
	token, _, err := other.IssueToken(TokenSubject{UserID: "u-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	foreign := NewAuthService(nil, zap.NewNop(), AuthConfig{AccessTokenSecret: "test-secret", Issuer: "someone-else"})
	token, _, err = foreign.IssueToken(TokenSubject{UserID: "u-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsNoneAlgorithm(t *testing.T) {
	svc := newAuthForTest(time.Now())
	claims := &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: "issue-insights-api"}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(unsigned)
	assert.Error(t, err)
}
