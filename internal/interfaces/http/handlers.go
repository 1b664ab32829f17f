package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jackela/catams/internal/application/service"
	"github.com/Jackela/catams/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	approvalService  service.ApprovalService
	timesheetService service.TimesheetService
	logger           Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	approvalService service.ApprovalService,
	timesheetService service.TimesheetService,
	logger Logger,
) *Handlers {
	return &Handlers{
		approvalService:  approvalService,
		timesheetService: timesheetService,
		logger:           logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ActionRequest is the JSON body for performing an approval action
type ActionRequest struct {
	TimesheetID int64  `json:"timesheet_id" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Comment     string `json:"comment"`
}

// CreateTimesheetRequest is the JSON body for creating a draft timesheet
type CreateTimesheetRequest struct {
	TutorID     int64   `json:"tutor_id" binding:"required"`
	CourseID    int64   `json:"course_id" binding:"required"`
	WeekStart   string  `json:"week_start" binding:"required"`
	Hours       float64 `json:"hours" binding:"required"`
	HourlyRate  float64 `json:"hourly_rate" binding:"required"`
	Description string  `json:"description"`
}

// UpdateTimesheetRequest is the JSON body for editing a timesheet
type UpdateTimesheetRequest struct {
	Hours       float64 `json:"hours" binding:"required"`
	HourlyRate  float64 `json:"hourly_rate" binding:"required"`
	Description string  `json:"description"`
}

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// PerformAction executes one approval action on a timesheet
func (h *Handlers) PerformAction(c *gin.Context) {
	requesterID, ok := h.requesterID(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.approvalService.PerformAction(c.Request.Context(), service.ActionRequest{
		TimesheetID: req.TimesheetID,
		Action:      workflow.ApprovalAction(req.Action),
		Comment:     req.Comment,
		RequesterID: requesterID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// GetPending returns the requester's pending approval queue
func (h *Handlers) GetPending(c *gin.Context) {
	requesterID, ok := h.requesterID(c)
	if !ok {
		return
	}

	pending, err := h.approvalService.GetPendingForUser(c.Request.Context(), requesterID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: pending})
}

// GetHistory returns the approval trail of a timesheet
func (h *Handlers) GetHistory(c *gin.Context) {
	requesterID, ok := h.requesterID(c)
	if !ok {
		return
	}
	timesheetID, ok := h.pathID(c)
	if !ok {
		return
	}

	history, err := h.approvalService.GetHistory(c.Request.Context(), timesheetID, requesterID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// CreateTimesheet creates a draft timesheet
func (h *Handlers) CreateTimesheet(c *gin.Context) {
	requesterID, ok := h.requesterID(c)
	if !ok {
		return
	}

	var req CreateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "week_start must be YYYY-MM-DD"})
		return
	}

	ts, err := h.timesheetService.Create(c.Request.Context(), service.CreateTimesheetRequest{
		TutorID:     req.TutorID,
		CourseID:    req.CourseID,
		WeekStart:   weekStart,
		Hours:       req.Hours,
		HourlyRate:  req.HourlyRate,
		Description: req.Description,
		RequesterID: requesterID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: ts})
}

// GetTimesheet returns one timesheet
func (h *Handlers) GetTimesheet(c *gin.Context) {
	requesterID, ok := h.requesterID(c)
	if !ok {
		return
	}
	timesheetID, ok := h.pathID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetService.Get(c.Request.Context(), timesheetID, requesterID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: ts})
}

// UpdateTimesheet edits an editable timesheet
func (h *Handlers) UpdateTimesheet(c *gin.Context) {
	requesterID, ok := h.requesterID(c)
	if !ok {
		return
	}
	timesheetID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	ts, err := h.timesheetService.Update(c.Request.Context(), service.UpdateTimesheetRequest{
		TimesheetID: timesheetID,
		Hours:       req.Hours,
		HourlyRate:  req.HourlyRate,
		Description: req.Description,
		RequesterID: requesterID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: ts})
}

// requesterID reads the authenticated user id resolved by the upstream
// security layer. Authentication itself is not this service's concern.
func (h *Handlers) requesterID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "missing X-User-ID header"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid X-User-ID header"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid timesheet id"})
		return 0, false
	}
	return id, true
}

// writeError maps the domain error kinds onto HTTP status codes. The kinds
// are preserved exactly; nothing is reclassified on the way out.
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, workflow.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrVersionConflict):
		status = http.StatusConflict
	default:
		h.logger.Error("Unhandled error", "error", err)
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}
