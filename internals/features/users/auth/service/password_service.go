package service

import (
	"golang.org/x/crypto/bcrypt"

	apperror "evalku_backend/internals/helpers/errors"
)

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal("Error hashing password")
	}
	return string(hash), nil
}

func VerifyPassword(hash, plain string) bool {
	if plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
