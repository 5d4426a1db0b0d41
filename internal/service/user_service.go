package service

import (
	"context"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
)

// UserService manages profiles of existing accounts
type UserService interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetPortfolio(ctx context.Context, userID string) (*model.Portfolio, error)
}

type userService struct {
	userRepo      repository.UserRepository
	portfolioRepo repository.PortfolioRepository
	tx            repository.Transactor
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, portfolioRepo repository.PortfolioRepository, tx repository.Transactor) UserService {
	return &userService{userRepo: userRepo, portfolioRepo: portfolioRepo, tx: tx}
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial update. The password hash is only
// recomputed when the request carries a new password.
func (s *userService) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Username != nil {
		username := normalizeUsername(req.Username)
		if username != nil && (user.Username == nil || *user.Username != *username) {
			existing, err := s.userRepo.FindByUsername(ctx, *username)
			if err != nil {
				return nil, fmt.Errorf("failed to check existing username: %w", err)
			}
			if existing != nil && existing.ID != user.ID {
				return nil, ErrDuplicateUsername
			}
		}
		user.Username = username
	}

	if req.Password == nil {
		if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		return user, nil
	}

	if err := user.SetPassword(*req.Password); err != nil {
		return nil, err
	}
	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Users.UpdateProfile(ctx, user); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		if err := repos.Users.UpdatePassword(ctx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetPortfolio(ctx context.Context, userID string) (*model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find portfolio: %w", err)
	}
	if portfolio == nil {
		return nil, ErrPortfolioNotFound
	}
	return portfolio, nil
}
