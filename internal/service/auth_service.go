package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lms_backend/internal/metrics"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/utils"

	"github.com/google/uuid"
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	tx       repository.Transactor
	jwtUtil  *utils.JWTUtil
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService. tx is used when a registration
// writes more than the user row.
func NewAuthService(userRepo repository.UserRepository, tx repository.Transactor, jwtUtil *utils.JWTUtil, logger *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tx:       tx,
		jwtUtil:  jwtUtil,
		logger:   logger,
	}
}

// Register creates a new user account and returns an access token for it.
// The existence checks only give friendly errors; the store's unique
// constraints decide when two registrations race.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidRole, err)
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, "", err
	}

	email := strings.TrimSpace(req.Email)
	username := normalizeUsername(req.Username)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrDuplicateEmail
	}

	if username != nil {
		existingUser, err = s.userRepo.FindByUsername(ctx, *username)
		if err != nil {
			return nil, "", fmt.Errorf("failed to check existing username: %w", err)
		}
		if existingUser != nil {
			return nil, "", ErrDuplicateUsername
		}
	}

	user := &model.User{
		ID:          uuid.NewString(),
		Email:       email,
		Username:    username,
		Role:        role,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, "", err
	}

	if err := s.create(ctx, user, req.PortfolioDetails); err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		s.logger.ErrorContext(ctx, "User created, but failed to generate token", "user_id", user.ID, "error", err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// create stores the user, together with an unpublished portfolio when the
// request carried portfolio details. Both rows commit or neither does.
func (s *authService) create(ctx context.Context, user *model.User, details model.PortfolioDetails) error {
	if !details.Provided() {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user in repository: %w", err)
		}
		return nil
	}

	portfolio := &model.Portfolio{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		PortfolioURL: details.PortfolioURL,
		Bio:          details.Bio,
		Skills:       details.Skills,
		Published:    false,
	}
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user in repository: %w", err)
		}
		if err := repos.Portfolios.Create(ctx, portfolio); err != nil {
			return fmt.Errorf("failed to create portfolio: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Portfolio created", "user_id", user.ID, "portfolio_id", portfolio.ID)
	return nil
}

// Login authenticates a user and returns a JWT token. Unknown email and
// wrong password are indistinguishable to the caller and in the logs.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}

	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		model.CheckPasswordHash(password, dummyHash)
	}
	if user == nil || !user.CheckPassword(password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.logger.InfoContext(ctx, "Login rejected: invalid credentials")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, token, nil
}

// dummyHash is a valid bcrypt hash that matches no password a client can send.
var dummyHash = func() string {
	h, err := model.HashPassword(uuid.NewString())
	if err != nil {
		panic(err)
	}
	return h
}()

// normalizeUsername treats a blank username as absent, since only present
// usernames are subject to the uniqueness constraint.
func normalizeUsername(username *string) *string {
	if username == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*username)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
