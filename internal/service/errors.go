package service

import (
	"errors"

	"lms_backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role specified")
	ErrInvalidPassword    = errors.New("password must be between 1 and 72 bytes")
	ErrForbidden          = errors.New("forbidden: you do not have permission for this action")
	ErrPortfolioNotFound  = errors.New("portfolio not found")

	// Store-level errors are re-exported so handlers only depend on this package.
	ErrDuplicateEmail    = repository.ErrDuplicateEmail
	ErrDuplicateUsername = repository.ErrDuplicateUsername
	ErrUserNotFound      = repository.ErrUserNotFound
	ErrComplaintNotFound = repository.ErrComplaintNotFound
)

// bcrypt only considers the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

func validatePassword(password string) error {
	if len(password) == 0 || len(password) > maxPasswordBytes {
		return ErrInvalidPassword
	}
	return nil
}
