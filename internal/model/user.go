package model

import (
	"fmt"
	"time"
)

// User represents an account in the system
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     *string   `json:"username,omitempty"`
	PasswordHash string    `json:"-"` // Never exposed in JSON responses
	Role         Role      `json:"role"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	passwordChanged bool
}

// SetPassword hashes plaintext and stores the result. It is the only way the
// hash changes, so plaintext never outlives this call.
func (u *User) SetPassword(plaintext string) error {
	hash, err := HashPassword(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash
	u.passwordChanged = true
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return CheckPasswordHash(plaintext, u.PasswordHash)
}

// PasswordChanged reports whether SetPassword was called since the record
// was loaded or last persisted.
func (u *User) PasswordChanged() bool {
	return u.passwordChanged
}

// MarkPersisted clears the pending password change flag.
func (u *User) MarkPersisted() {
	u.passwordChanged = false
}

// PublicUser is the view of a user returned to clients
type PublicUser struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Username    *string `json:"username,omitempty"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Role        Role    `json:"role"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// Public returns the client-facing view of the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
	}
}

// RegisterRequest is the body accepted by the registration endpoint
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required"`
	Username    *string `json:"username"`
	FirstName   string  `json:"firstName" binding:"required"`
	LastName    string  `json:"lastName" binding:"required"`
	Role        string  `json:"role" binding:"required"`
	PhoneNumber *string `json:"phoneNumber"`

	// Optional; a portfolio is created alongside the account when present
	PortfolioDetails
}

// LoginRequest is the body accepted by the login endpoint
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest allows partial updates; nil fields are left untouched
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName,omitempty" binding:"omitempty,min=1"`
	LastName    *string `json:"lastName,omitempty" binding:"omitempty,min=1"`
	Username    *string `json:"username,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// ForgotPasswordRequest starts the reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest redeems a reset token
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}
