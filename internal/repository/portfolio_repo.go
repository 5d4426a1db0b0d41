package repository

import (
	"context"
	"errors"
	"fmt"

	"lms_backend/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrPortfolioExists = errors.New("portfolio already exists for user")

// PortfolioRepository defines operations for portfolio data
type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *model.Portfolio) error
	FindByUserID(ctx context.Context, userID string) (*model.Portfolio, error)
}

type portfolioRepository struct {
	db DBTX
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(db DBTX) PortfolioRepository {
	return &portfolioRepository{db: db}
}

// Create inserts a portfolio. Each user owns at most one.
func (r *portfolioRepository) Create(ctx context.Context, p *model.Portfolio) error {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	sql := `INSERT INTO portfolios (id, user_id, portfolio_url, bio, skills, published)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, p.ID, p.UserID, p.PortfolioURL, p.Bio, p.Skills, p.Published).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return fmt.Errorf("%w: %w", ErrPortfolioExists, err)
		}
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	return nil
}

// FindByUserID retrieves a user's portfolio, returning nil when none exists
func (r *portfolioRepository) FindByUserID(ctx context.Context, userID string) (*model.Portfolio, error) {
	sql := `SELECT id, user_id, portfolio_url, bio, skills, published, created_at, updated_at
            FROM portfolios WHERE user_id = $1`
	p := &model.Portfolio{}
	err := r.db.QueryRow(ctx, sql, userID).
		Scan(&p.ID, &p.UserID, &p.PortfolioURL, &p.Bio, &p.Skills, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || malformedID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find portfolio: %w", err)
	}
	return p, nil
}
