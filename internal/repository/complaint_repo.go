package repository

import (
	"context"
	"errors"
	"fmt"

	"lms_backend/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrComplaintNotFound = errors.New("complaint not found")

// ComplaintRepository defines operations for complaint data
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	FindByID(ctx context.Context, id string) (*model.Complaint, error)
	FindByStudent(ctx context.Context, studentID string) ([]model.Complaint, error)
	FindAll(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error)
	Update(ctx context.Context, complaint *model.Complaint) error
	Delete(ctx context.Context, id string) error
}

type complaintRepository struct {
	db DBTX
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db DBTX) ComplaintRepository {
	return &complaintRepository{db: db}
}

const complaintColumns = `id, student_id, title, description, status, response, created_at, updated_at`

// Create inserts a new complaint into the database
func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) error {
	sql := `INSERT INTO complaints (id, student_id, title, description, status, response)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.ID, c.StudentID, c.Title, c.Description, string(c.Status), c.Response).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// FindByID retrieves a complaint by its ID, returning nil when none exists
func (r *complaintRepository) FindByID(ctx context.Context, id string) (*model.Complaint, error) {
	sql := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`
	c, err := scanComplaint(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || malformedID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find complaint by ID: %w", err)
	}
	return c, nil
}

// FindByStudent retrieves complaints filed by one student
func (r *complaintRepository) FindByStudent(ctx context.Context, studentID string) ([]model.Complaint, error) {
	sql := `SELECT ` + complaintColumns + ` FROM complaints WHERE student_id = $1 ORDER BY created_at DESC`
	return r.query(ctx, sql, studentID)
}

// FindAll retrieves every complaint, optionally filtered by status
func (r *complaintRepository) FindAll(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error) {
	if status != nil {
		sql := `SELECT ` + complaintColumns + ` FROM complaints WHERE status = $1 ORDER BY created_at DESC`
		return r.query(ctx, sql, string(*status))
	}
	sql := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at DESC`
	return r.query(ctx, sql)
}

// Update modifies the status and response of a complaint
func (r *complaintRepository) Update(ctx context.Context, c *model.Complaint) error {
	sql := `UPDATE complaints SET status = $1, response = $2, updated_at = NOW()
            WHERE id = $3 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, string(c.Status), c.Response, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || malformedID(err) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("failed to update complaint: %w", err)
	}
	return nil
}

// Delete removes a complaint from the database
func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	sql := `DELETE FROM complaints WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		if malformedID(err) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrComplaintNotFound
	}
	return nil
}

func (r *complaintRepository) query(ctx context.Context, sql string, args ...any) ([]model.Complaint, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	complaints := []model.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint row: %w", err)
		}
		complaints = append(complaints, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaint rows: %w", err)
	}
	return complaints, nil
}

func scanComplaint(row pgx.Row) (*model.Complaint, error) {
	c := &model.Complaint{}
	var status string
	if err := row.Scan(&c.ID, &c.StudentID, &c.Title, &c.Description, &status, &c.Response, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = model.ComplaintStatus(status)
	return c, nil
}
