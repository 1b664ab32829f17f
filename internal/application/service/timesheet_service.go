package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Jackela/catams/internal/application/port"
	"github.com/Jackela/catams/internal/domain/entity"
	"github.com/Jackela/catams/internal/domain/workflow"
)

// CreateTimesheetRequest describes a new draft timesheet.
type CreateTimesheetRequest struct {
	TutorID     int64
	CourseID    int64
	WeekStart   time.Time
	Hours       float64
	HourlyRate  float64
	Description string
	RequesterID int64
}

// UpdateTimesheetRequest describes a content change to an editable timesheet.
type UpdateTimesheetRequest struct {
	TimesheetID int64
	Hours       float64
	HourlyRate  float64
	Description string
	RequesterID int64
}

// TimesheetService manages timesheet content outside the approval flow:
// creating drafts and editing them while the workflow status still permits.
type TimesheetService interface {
	Create(ctx context.Context, req CreateTimesheetRequest) (*entity.Timesheet, error)
	Get(ctx context.Context, timesheetID, requesterID int64) (*entity.Timesheet, error)
	Update(ctx context.Context, req UpdateTimesheetRequest) (*entity.Timesheet, error)
}

type timesheetServiceImpl struct {
	timesheetRepo port.TimesheetRepository
	userRepo      port.UserRepository
	courseRepo    port.CourseRepository
	domain        *workflow.Service
	logger        Logger
}

// NewTimesheetService creates a new TimesheetService
func NewTimesheetService(
	timesheetRepo port.TimesheetRepository,
	userRepo port.UserRepository,
	courseRepo port.CourseRepository,
	domain *workflow.Service,
	logger Logger,
) TimesheetService {
	return &timesheetServiceImpl{
		timesheetRepo: timesheetRepo,
		userRepo:      userRepo,
		courseRepo:    courseRepo,
		domain:        domain,
		logger:        logger,
	}
}

// Create creates a draft timesheet. Only the course's lecturer, the tutor
// being claimed for, or an administrator may create one.
func (s *timesheetServiceImpl) Create(ctx context.Context, req CreateTimesheetRequest) (*entity.Timesheet, error) {
	if req.TutorID <= 0 || req.CourseID <= 0 || req.RequesterID <= 0 {
		return nil, fmt.Errorf("%w: tutor, course and requester ids must be positive", workflow.ErrInvalidArgument)
	}
	if req.Hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", workflow.ErrInvalidArgument)
	}
	if req.HourlyRate <= 0 {
		return nil, fmt.Errorf("%w: hourly rate must be positive", workflow.ErrInvalidArgument)
	}

	requester, err := s.userRepo.GetByID(ctx, req.RequesterID)
	if err != nil || requester == nil {
		return nil, fmt.Errorf("%w: user %d", workflow.ErrNotFound, req.RequesterID)
	}
	tutor, err := s.userRepo.GetByID(ctx, req.TutorID)
	if err != nil || tutor == nil {
		return nil, fmt.Errorf("%w: tutor %d", workflow.ErrNotFound, req.TutorID)
	}
	if tutor.Role != workflow.RoleTutor {
		return nil, fmt.Errorf("%w: user %d is not a tutor", workflow.ErrInvalidArgument, req.TutorID)
	}
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil || course == nil {
		return nil, fmt.Errorf("%w: course %d", workflow.ErrNotFound, req.CourseID)
	}

	switch requester.Role {
	case workflow.RoleAdmin:
	case workflow.RoleLecturer:
		if requester.ID != course.LecturerID {
			return nil, fmt.Errorf("%w: user %d is not the lecturer of course %d", workflow.ErrForbidden, requester.ID, course.ID)
		}
	case workflow.RoleTutor:
		if requester.ID != req.TutorID {
			return nil, fmt.Errorf("%w: tutors may only create their own timesheets", workflow.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: role %s cannot create timesheets", workflow.ErrForbidden, requester.Role)
	}

	now := time.Now()
	ts := &entity.Timesheet{
		TutorID:     req.TutorID,
		CourseID:    req.CourseID,
		WeekStart:   req.WeekStart,
		Hours:       req.Hours,
		HourlyRate:  req.HourlyRate,
		Description: req.Description,
		Status:      workflow.StatusDraft,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.timesheetRepo.Create(ctx, ts); err != nil {
		s.logger.Error("Failed to create timesheet", "error", err, "tutor_id", req.TutorID, "course_id", req.CourseID)
		return nil, err
	}

	s.logger.Info("Timesheet created", "id", ts.ID, "tutor_id", ts.TutorID, "course_id", ts.CourseID)
	return ts, nil
}

// Get returns a timesheet, subject to viewing rights.
func (s *timesheetServiceImpl) Get(ctx context.Context, timesheetID, requesterID int64) (*entity.Timesheet, error) {
	ts, requester, course, err := s.load(ctx, timesheetID, requesterID)
	if err != nil {
		return nil, err
	}

	actor := workflow.Actor{ID: requester.ID, Role: requester.Role}
	wc := workflow.WorkflowContext{
		TimesheetID: ts.ID, TutorID: ts.TutorID, CourseID: ts.CourseID,
		LecturerID: course.LecturerID, Status: ts.Status,
	}
	if !s.domain.CanView(wc, actor) {
		return nil, fmt.Errorf("%w: user %d may not view timesheet %d", workflow.ErrForbidden, requesterID, timesheetID)
	}
	return ts, nil
}

// Update replaces the editable content of a timesheet. The workflow status
// is untouched; resubmission goes through the approval service.
func (s *timesheetServiceImpl) Update(ctx context.Context, req UpdateTimesheetRequest) (*entity.Timesheet, error) {
	if req.Hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", workflow.ErrInvalidArgument)
	}
	if req.HourlyRate <= 0 {
		return nil, fmt.Errorf("%w: hourly rate must be positive", workflow.ErrInvalidArgument)
	}

	ts, requester, course, err := s.load(ctx, req.TimesheetID, req.RequesterID)
	if err != nil {
		return nil, err
	}

	if !ts.Status.IsEditable() {
		return nil, fmt.Errorf("%w: timesheet %d is not editable in status %s", workflow.ErrInvalidTransition, ts.ID, ts.Status)
	}

	allowed := requester.Role == workflow.RoleAdmin ||
		(requester.Role == workflow.RoleTutor && requester.ID == ts.TutorID) ||
		(requester.Role == workflow.RoleLecturer && requester.ID == course.LecturerID)
	if !allowed {
		return nil, fmt.Errorf("%w: user %d may not edit timesheet %d", workflow.ErrForbidden, requester.ID, ts.ID)
	}

	ts.Hours = req.Hours
	ts.HourlyRate = req.HourlyRate
	ts.Description = req.Description
	ts.UpdatedAt = time.Now()

	if err := s.timesheetRepo.Update(ctx, ts); err != nil {
		s.logger.Error("Failed to update timesheet", "error", err, "id", ts.ID)
		return nil, err
	}

	s.logger.Info("Timesheet updated", "id", ts.ID)
	return ts, nil
}

func (s *timesheetServiceImpl) load(ctx context.Context, timesheetID, requesterID int64) (*entity.Timesheet, *entity.User, *entity.Course, error) {
	if timesheetID <= 0 || requesterID <= 0 {
		return nil, nil, nil, fmt.Errorf("%w: ids must be positive", workflow.ErrInvalidArgument)
	}

	ts, err := s.timesheetRepo.GetByID(ctx, timesheetID)
	if err != nil || ts == nil {
		return nil, nil, nil, fmt.Errorf("%w: timesheet %d", workflow.ErrNotFound, timesheetID)
	}
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil || requester == nil {
		return nil, nil, nil, fmt.Errorf("%w: user %d", workflow.ErrNotFound, requesterID)
	}
	course, err := s.courseRepo.GetByID(ctx, ts.CourseID)
	if err != nil || course == nil {
		return nil, nil, nil, fmt.Errorf("%w: timesheet %d references unknown course %d", workflow.ErrInvalidArgument, timesheetID, ts.CourseID)
	}
	return ts, requester, course, nil
}
