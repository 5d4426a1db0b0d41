package service

import (
	"context"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"github.com/google/uuid"
)

// ComplaintService defines operations for complaints. Route-level role gates
// decide who may call each method; ownership is checked here.
type ComplaintService interface {
	Create(ctx context.Context, studentID string, req model.CreateComplaintRequest) (*model.Complaint, error)
	ListForStudent(ctx context.Context, studentID string) ([]model.Complaint, error)
	ListAll(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error)
	Update(ctx context.Context, id string, req model.UpdateComplaintRequest) (*model.Complaint, error)
	Delete(ctx context.Context, id string) error
	DeleteOwn(ctx context.Context, id, studentID string) error
}

type complaintService struct {
	repo repository.ComplaintRepository
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(repo repository.ComplaintRepository) ComplaintService {
	return &complaintService{repo: repo}
}

func (s *complaintService) Create(ctx context.Context, studentID string, req model.CreateComplaintRequest) (*model.Complaint, error) {
	complaint := &model.Complaint{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.ComplaintPending,
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint in repo: %w", err)
	}
	return complaint, nil
}

func (s *complaintService) ListForStudent(ctx context.Context, studentID string) ([]model.Complaint, error) {
	complaints, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student complaints from repo: %w", err)
	}
	return complaints, nil
}

func (s *complaintService) ListAll(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error) {
	complaints, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaints from repo: %w", err)
	}
	return complaints, nil
}

func (s *complaintService) Update(ctx context.Context, id string, req model.UpdateComplaintRequest) (*model.Complaint, error) {
	complaint, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		complaint.Status = *req.Status
	}
	if req.Response != nil {
		complaint.Response = req.Response
	}

	if err := s.repo.Update(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to update complaint in repo: %w", err)
	}
	return complaint, nil
}

func (s *complaintService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	return nil
}

// DeleteOwn removes a complaint only if studentID filed it.
func (s *complaintService) DeleteOwn(ctx context.Context, id, studentID string) error {
	complaint, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if complaint.StudentID != studentID {
		return ErrForbidden
	}
	return s.Delete(ctx, id)
}

func (s *complaintService) find(ctx context.Context, id string) (*model.Complaint, error) {
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}
	if complaint == nil {
		return nil, ErrComplaintNotFound
	}
	return complaint, nil
}
