package service

import (
	"context"
	"sync"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memComplaintRepo struct {
	mu         sync.Mutex
	complaints map[string]model.Complaint
}

func newMemComplaintRepo() *memComplaintRepo {
	return &memComplaintRepo{complaints: map[string]model.Complaint{}}
}

func (r *memComplaintRepo) Create(_ context.Context, c *model.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complaints[c.ID] = *c
	return nil
}

func (r *memComplaintRepo) FindByID(_ context.Context, id string) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memComplaintRepo) FindByStudent(_ context.Context, studentID string) ([]model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Complaint{}
	for _, c := range r.complaints {
		if c.StudentID == studentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memComplaintRepo) FindAll(_ context.Context, status *model.ComplaintStatus) ([]model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Complaint{}
	for _, c := range r.complaints {
		if status == nil || c.Status == *status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memComplaintRepo) Update(_ context.Context, c *model.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[c.ID]; !ok {
		return repository.ErrComplaintNotFound
	}
	r.complaints[c.ID] = *c
	return nil
}

func (r *memComplaintRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[id]; !ok {
		return repository.ErrComplaintNotFound
	}
	delete(r.complaints, id)
	return nil
}

func TestComplaintService_CreateAndList(t *testing.T) {
	svc := NewComplaintService(newMemComplaintRepo())

	c, err := svc.Create(context.Background(), "s-1", model.CreateComplaintRequest{Title: "Grading", Description: "Quiz 2"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, model.ComplaintPending, c.Status)

	_, err = svc.Create(context.Background(), "s-2", model.CreateComplaintRequest{Title: "Other", Description: "x"})
	require.NoError(t, err)

	mine, err := svc.ListForStudent(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestComplaintService_Update(t *testing.T) {
	svc := NewComplaintService(newMemComplaintRepo())
	c, err := svc.Create(context.Background(), "s-1", model.CreateComplaintRequest{Title: "Grading", Description: "Quiz 2"})
	require.NoError(t, err)
	resolved := model.ComplaintResolved

	updated, err := svc.Update(context.Background(), c.ID, model.UpdateComplaintRequest{Status: &resolved, Response: strPtr("Regraded")})

	require.NoError(t, err)
	assert.Equal(t, model.ComplaintResolved, updated.Status)
	assert.Equal(t, "Regraded", *updated.Response)

	_, err = svc.Update(context.Background(), "missing", model.UpdateComplaintRequest{Status: &resolved})
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestComplaintService_DeleteOwn(t *testing.T) {
	svc := NewComplaintService(newMemComplaintRepo())
	c, err := svc.Create(context.Background(), "s-1", model.CreateComplaintRequest{Title: "Grading", Description: "Quiz 2"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOwn(context.Background(), c.ID, "s-2"), ErrForbidden)
	assert.NoError(t, svc.DeleteOwn(context.Background(), c.ID, "s-1"))
	assert.ErrorIs(t, svc.DeleteOwn(context.Background(), c.ID, "s-1"), ErrComplaintNotFound)
}

func TestComplaintService_Delete_NotFound(t *testing.T) {
	svc := NewComplaintService(newMemComplaintRepo())
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrComplaintNotFound)
}
