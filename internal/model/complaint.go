package model

import "time"

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

// Complaint is raised by a user and handled by instructors
type Complaint struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"studentId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      ComplaintStatus `json:"status"`
	Response    *string         `json:"response,omitempty"` // Instructor reply, optional
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateComplaintRequest is used for filing a new complaint
type CreateComplaintRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdateComplaintRequest is used by instructors; nil fields are left untouched
type UpdateComplaintRequest struct {
	Status   *ComplaintStatus `json:"status,omitempty" binding:"omitempty,oneof=pending in-progress resolved"`
	Response *string          `json:"response,omitempty"`
}
