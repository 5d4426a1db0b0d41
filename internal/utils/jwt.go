package utils

import (
	"errors"
	"fmt"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A reset token is never accepted as an access token and
// vice versa.
const (
	PurposeAccess        = "access"
	PurposePasswordReset = "password_reset"
)

var (
	// ErrInvalidToken is the single client-facing class for every token
	// verification failure. The underlying cause stays in the error chain.
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingSecret = errors.New("jwt secret is not configured")
	ErrWrongPurpose  = errors.New("token purpose mismatch")
)

// JWTClaims custom claims for JWT
type JWTClaims struct {
	UserID  string     `json:"user_id"`
	Role    model.Role `json:"role,omitempty"`
	Purpose string     `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

// Option customizes a JWTUtil
type Option func(*JWTUtil)

// WithClock overrides the time source used for issuing and validating tokens
func WithClock(now func() time.Time) Option {
	return func(ju *JWTUtil) {
		ju.now = now
	}
}

// NewJWTUtil creates a new JWTUtil. An empty secret is a startup error.
func NewJWTUtil(cfg config.JWTConfig, opts ...Option) (*JWTUtil, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	ju := &JWTUtil{
		secretKey: []byte(cfg.Secret),
		accessTTL: cfg.AccessTTL,
		resetTTL:  cfg.ResetTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(ju)
	}
	return ju, nil
}

// Issue signs claims with an expiry ttl from now
func (ju *JWTUtil) Issue(claims *JWTClaims, ttl time.Duration) (string, error) {
	now := ju.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.Subject = claims.UserID

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ju.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// GenerateToken generates a new access token
func (ju *JWTUtil) GenerateToken(userID string, role model.Role) (string, error) {
	return ju.Issue(&JWTClaims{UserID: userID, Role: role, Purpose: PurposeAccess}, ju.accessTTL)
}

// GenerateResetToken generates a short-lived password reset token
func (ju *JWTUtil) GenerateResetToken(userID string) (string, error) {
	return ju.Issue(&JWTClaims{UserID: userID, Purpose: PurposePasswordReset}, ju.resetTTL)
}

// ValidateToken validates an access token and its role claim
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims, err := ju.parse(tokenString, PurposeAccess)
	if err != nil {
		return nil, err
	}
	if _, err := model.ParseRole(string(claims.Role)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

// ValidateResetToken validates a password reset token
func (ju *JWTUtil) ValidateResetToken(tokenString string) (*JWTClaims, error) {
	return ju.parse(tokenString, PurposePasswordReset)
}

func (ju *JWTUtil) parse(tokenString, purpose string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ju.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ju.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: %w: got %q", ErrInvalidToken, ErrWrongPurpose, claims.Purpose)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// Reason returns a short label for why token validation failed, for logs and
// metrics only.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	case errors.Is(err, ErrWrongPurpose):
		return "wrong_purpose"
	case errors.Is(err, model.ErrUnknownRole):
		return "unknown_role"
	default:
		return "invalid"
	}
}
