package handler

import (
	"log/slog"
	"net/http"

	"lms_backend/internal/model"
	"lms_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ComplaintHandler handles complaint related requests
type ComplaintHandler struct {
	service service.ComplaintService
	logger  *slog.Logger
}

// NewComplaintHandler creates a new ComplaintHandler
func NewComplaintHandler(s service.ComplaintService, logger *slog.Logger) *ComplaintHandler {
	return &ComplaintHandler{service: s, logger: logger}
}

func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req model.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	complaint, err := h.service.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create complaint")
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *ComplaintHandler) GetStudentComplaints(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	complaints, err := h.service.ListForStudent(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve complaints")
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *ComplaintHandler) GetComplaints(c *gin.Context) {
	var status *model.ComplaintStatus
	if statusParam := c.Query("status"); statusParam != "" {
		s := model.ComplaintStatus(statusParam)
		switch s {
		case model.ComplaintPending, model.ComplaintInProgress, model.ComplaintResolved:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	complaints, err := h.service.ListAll(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve complaints")
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	var req model.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	complaint, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update complaint")
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete complaint")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}

func (h *ComplaintHandler) DeleteStudentComplaint(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOwn(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		respondError(c, h.logger, err, "Failed to delete complaint")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}

// RegisterComplaintRoutes registers complaint routes. Every route requires
// authentication; instructor and admin routes add their role gate.
func (h *ComplaintHandler) RegisterComplaintRoutes(rg *gin.RouterGroup, authMW, instructorMW, adminMW gin.HandlerFunc) {
	complaintGroup := rg.Group("/complaints")
	complaintGroup.Use(authMW)
	{
		complaintGroup.POST("/create", h.CreateComplaint)
		complaintGroup.GET("/student", h.GetStudentComplaints)
		complaintGroup.DELETE("/student/:id", h.DeleteStudentComplaint)

		complaintGroup.GET("/instructor/complaints", instructorMW, h.GetComplaints)
		complaintGroup.PATCH("/instructor/update-complaint/:id", instructorMW, h.UpdateComplaint)

		complaintGroup.DELETE("/:id", adminMW, h.DeleteComplaint)
	}
}
