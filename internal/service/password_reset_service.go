package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"

	"lms_backend/internal/mailer"
	"lms_backend/internal/metrics"
	"lms_backend/internal/repository"
	"lms_backend/internal/utils"
)

const resetEmailSubject = "Password Reset Request"

// PasswordResetService runs the request -> email -> redeem exchange.
//
// Reset tokens are stateless: there is no redemption ledger, so a token can
// be redeemed again until it expires.
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) (string, error)
	RedeemReset(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	jwtUtil     *utils.JWTUtil
	mailer      mailer.Mailer
	frontendURL string
	logger      *slog.Logger
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, m mailer.Mailer, frontendURL string, logger *slog.Logger) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		jwtUtil:     jwtUtil,
		mailer:      m,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// RequestReset mints a reset token for the account and emails a link to it.
// Exactly one email is sent per successful call.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "error").Inc()
		return "", fmt.Errorf("failed to find user for reset: %w", err)
	}
	if user == nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "not_found").Inc()
		return "", ErrUserNotFound
	}

	token, err := s.jwtUtil.GenerateResetToken(user.ID)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "error").Inc()
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.mailer.Send(ctx, resetEmail(user.Email, s.ResetLink(token))); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "error").Inc()
		return "", fmt.Errorf("failed to send reset email: %w", err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("request", "success").Inc()
	s.logger.InfoContext(ctx, "Password reset email sent", "user_id", user.ID)
	return token, nil
}

// RedeemReset verifies the token and replaces the subject's password.
func (s *passwordResetService) RedeemReset(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	claims, err := s.jwtUtil.ValidateResetToken(token)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("redeem", "invalid_token").Inc()
		s.logger.InfoContext(ctx, "Reset token rejected", "reason", utils.Reason(err))
		return err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("redeem", "error").Inc()
		return fmt.Errorf("failed to find user for reset: %w", err)
	}
	if user == nil {
		metrics.PasswordResetsTotal.WithLabelValues("redeem", "not_found").Inc()
		return ErrUserNotFound
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("redeem", "error").Inc()
		return fmt.Errorf("failed to save new password: %w", err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("redeem", "success").Inc()
	s.logger.InfoContext(ctx, "Password reset completed", "user_id", user.ID)
	return nil
}

// ResetLink is the frontend page that collects the new password.
func (s *passwordResetService) ResetLink(token string) string {
	return s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

func resetEmail(to, link string) mailer.Message {
	escaped := html.EscapeString(link)
	return mailer.Message{
		To:      []string{to},
		Subject: resetEmailSubject,
		Text:    "You requested a password reset. Click the link to reset your password: " + link,
		HTML: `<p>You requested a password reset. Click the link to reset your password:</p>` +
			`<p><a href="` + escaped + `">` + escaped + `</a></p>`,
	}
}
