package service

import (
	"testing"
	"time"

	apperrors "employee-system/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop())

	token, err := svc.GenerateToken(7, 42, "Manager")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.AccountID)
	assert.Equal(t, uint64(42), claims.EmployeeID)
	assert.Equal(t, "Manager", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, time.Hour, svc.GetAccessTokenTTL())
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop())

	expired, err := NewJWTService("secret", -time.Minute, zap.NewNop()).GenerateToken(1, 1, "Admin")
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	foreign, err := NewJWTService("other-secret", time.Hour, zap.NewNop()).GenerateToken(1, 1, "Admin")
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	noAccount, err := svc.GenerateToken(0, 1, "Admin")
	require.NoError(t, err)
	_, err = svc.ValidateToken(noAccount)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &JwtCustomClaim{AccountID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSigningMethod)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
