package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "tarsier/pkg/errors"
)

type JwtCustomClaim struct {
	UserID uint64 `json:"_id"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(userID uint64) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetTokenTTL() time.Duration
}

type jwtService struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewJWTService(secretKey string, tokenTTL time.Duration) JWTService {
	return &jwtService{secretKey: secretKey, tokenTTL: tokenTTL, now: time.Now}
}

func (s *jwtService) GenerateToken(userID uint64) (string, error) {
	issuedAt := s.now()
	claims := &JwtCustomClaim{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *jwtService) GetTokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(s.secretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
