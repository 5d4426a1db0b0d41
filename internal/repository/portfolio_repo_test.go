package repository

import (
	"context"
	"testing"
	"time"

	"lms_backend/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var portfolioCols = []string{"id", "user_id", "portfolio_url", "bio", "skills", "published", "created_at", "updated_at"}

func TestPortfolioRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPortfolioRepository(mock)
	now := time.Now()
	url := "https://alice.dev"
	p := &model.Portfolio{ID: "p-1", UserID: "u-1", PortfolioURL: &url}

	mock.ExpectQuery(`INSERT INTO portfolios`).
		WithArgs("p-1", "u-1", &url, (*string)(nil), []string{}, false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, []string{}, p.Skills)
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortfolioRepository_Create_OnePerUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPortfolioRepository(mock)

	mock.ExpectQuery(`INSERT INTO portfolios`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "portfolios_user_id_key"})

	err := repo.Create(context.Background(), &model.Portfolio{ID: "p-2", UserID: "u-1"})

	assert.ErrorIs(t, err, ErrPortfolioExists)
}

func TestPortfolioRepository_FindByUserID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPortfolioRepository(mock)
	now := time.Now()
	bio := "Backend engineer"

	mock.ExpectQuery(`SELECT (.+) FROM portfolios WHERE user_id = \$1`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows(portfolioCols).
			AddRow("p-1", "u-1", (*string)(nil), &bio, []string{"go"}, false, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM portfolios WHERE user_id = \$1`).
		WithArgs("u-2").
		WillReturnRows(pgxmock.NewRows(portfolioCols))

	p, err := repo.FindByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Backend engineer", *p.Bio)
	assert.Equal(t, []string{"go"}, p.Skills)

	p, err = repo.FindByUserID(context.Background(), "u-2")
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}
