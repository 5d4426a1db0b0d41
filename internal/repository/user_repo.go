package repository

import (
	"context"
	"errors"
	"fmt"

	"lms_backend/internal/model"

	"github.com/jackc/pgx/v5"
)

var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")
)

// UserRepository defines operations for user data. It is the credential
// store: uniqueness of email and username is enforced by the table's
// constraints, surfaced as ErrDuplicateEmail and ErrDuplicateUsername.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, username, password_hash, role, first_name, last_name, phone_number, created_at, updated_at`

// Create inserts a new user. The password must already be set through
// User.SetPassword.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.PasswordHash == "" {
		return errors.New("refusing to create user without a password hash")
	}
	sql := `INSERT INTO users (id, email, username, password_hash, role, first_name, last_name, phone_number)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		user.ID, user.Email, user.Username, user.PasswordHash, string(user.Role),
		user.FirstName, user.LastName, user.PhoneNumber,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.MarkPersisted()
	return nil
}

// FindByEmail retrieves a user by email, returning nil when none exists
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByUsername retrieves a user by username, returning nil when none exists
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, username))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by ID, returning nil when none exists
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if malformedID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindAll lists every user, newest first
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateProfile saves the non-credential fields. It never writes
// password_hash, so an unchanged password keeps its exact hash.
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	sql := `UPDATE users
            SET username = $1, first_name = $2, last_name = $3, phone_number = $4, updated_at = NOW()
            WHERE id = $5 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, user.Username, user.FirstName, user.LastName, user.PhoneNumber, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		if dupErr := duplicateError(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdatePassword persists a hash produced by User.SetPassword. Calling it
// without a pending password change is a no-op.
func (r *userRepository) UpdatePassword(ctx context.Context, user *model.User) error {
	if !user.PasswordChanged() {
		return nil
	}
	sql := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, user.PasswordHash, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	user.MarkPersisted()
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	var role string
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &role,
		&user.FirstName, &user.LastName, &user.PhoneNumber, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here, the service layer decides
		}
		return nil, err
	}
	user.Role, err = model.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("stored user %s: %w", user.ID, err)
	}
	return user, nil
}

func duplicateError(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "users_username_key":
		return fmt.Errorf("%w: %w", ErrDuplicateUsername, err)
	default:
		return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
}
