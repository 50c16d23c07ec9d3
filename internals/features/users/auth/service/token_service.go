package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"evalku_backend/internals/configs"
	"evalku_backend/internals/constants"
	userModel "evalku_backend/internals/features/users/user/model"
	apperror "evalku_backend/internals/helpers/errors"
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID uint           `json:"user_id"`
	Email  string         `json:"email"`
	Role   constants.Role `json:"role"`
	jwt.RegisteredClaims
}

func buildClaims(u *userModel.UserModel, ttl time.Duration) Claims {
	now := time.Now().UTC()
	return Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func sign(claims Claims, secret string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", apperror.Internal("JWT secret not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperror.Internal("Error generating token")
	}
	return signed, nil
}

func GenerateAccessToken(u *userModel.UserModel) (string, error) {
	return sign(buildClaims(u, configs.AccessTokenTTL), configs.JWTSecret)
}

func GenerateRefreshToken(u *userModel.UserModel) (string, error) {
	return sign(buildClaims(u, configs.RefreshTokenTTL), configs.JWTRefreshSecret)
}

func parse(raw, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	if _, err := constants.ParseRole(string(claims.Role)); err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

func ParseAccessToken(raw string) (*Claims, error) {
	return parse(raw, configs.JWTSecret)
}

func ParseRefreshToken(raw string) (*Claims, error) {
	return parse(raw, configs.JWTRefreshSecret)
}
