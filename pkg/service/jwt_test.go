package service

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tarsier/pkg/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, time.Hour, svc.GetTokenTTL())
}

func TestJWTService_Expired(t *testing.T) {
	svc := &jwtService{secretKey: "secret", tokenTTL: time.Minute, now: func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}}
	token, err := svc.GenerateToken(1)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &JwtCustomClaim{UserID: 1})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).ValidateToken(raw)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
