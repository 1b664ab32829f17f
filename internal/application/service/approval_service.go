package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Jackela/catams/internal/application/port"
	"github.com/Jackela/catams/internal/domain/entity"
	"github.com/Jackela/catams/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ActionRequest describes one approval action to perform.
type ActionRequest struct {
	TimesheetID int64
	Action      workflow.ApprovalAction
	Comment     string
	RequesterID int64
}

// ActionResponse is the outcome of a performed action, augmented with
// presentation hints for the transport layer.
type ActionResponse struct {
	TimesheetID  int64                   `json:"timesheet_id"`
	Action       workflow.ApprovalAction `json:"action"`
	NewStatus    workflow.ApprovalStatus `json:"new_status"`
	ApproverID   int64                   `json:"approver_id"`
	ApproverName string                  `json:"approver_name"`
	Comment      string                  `json:"comment,omitempty"`
	Timestamp    time.Time               `json:"timestamp"`
	NextSteps    []string                `json:"next_steps"`
}

// PendingTimesheet is one entry of a user's pending queue: a timesheet the
// user can act on right now, with the actions open to them.
type PendingTimesheet struct {
	Timesheet    *entity.Timesheet         `json:"timesheet"`
	ValidActions []workflow.ApprovalAction `json:"valid_actions"`
}

// ApprovalService orchestrates approval actions over timesheets
type ApprovalService interface {
	PerformAction(ctx context.Context, req ActionRequest) (*ActionResponse, error)
	GetPendingForUser(ctx context.Context, requesterID int64) ([]*PendingTimesheet, error)
	GetHistory(ctx context.Context, timesheetID, requesterID int64) ([]*entity.Approval, error)
}

type approvalServiceImpl struct {
	timesheetRepo port.TimesheetRepository
	userRepo      port.UserRepository
	courseRepo    port.CourseRepository
	approvalRepo  port.ApprovalRepository
	txManager     port.TransactionManager
	domain        *workflow.Service
	logger        Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	timesheetRepo port.TimesheetRepository,
	userRepo port.UserRepository,
	courseRepo port.CourseRepository,
	approvalRepo port.ApprovalRepository,
	txManager port.TransactionManager,
	domain *workflow.Service,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		timesheetRepo: timesheetRepo,
		userRepo:      userRepo,
		courseRepo:    courseRepo,
		approvalRepo:  approvalRepo,
		txManager:     txManager,
		domain:        domain,
		logger:        logger,
	}
}

// PerformAction loads the timesheet and its context, validates the action
// through the workflow domain service, applies the matching aggregate
// mutation and persists timesheet and history atomically. Validation errors
// keep their kind; this layer only adds context. Nothing is retried: the
// mutation is not idempotent, so after a failure the caller must re-fetch
// current state before trying again.
func (s *approvalServiceImpl) PerformAction(ctx context.Context, req ActionRequest) (*ActionResponse, error) {
	if req.TimesheetID <= 0 {
		return nil, fmt.Errorf("%w: timesheet id must be positive", workflow.ErrInvalidArgument)
	}
	if req.RequesterID <= 0 {
		return nil, fmt.Errorf("%w: requester id must be positive", workflow.ErrInvalidArgument)
	}
	if !req.Action.IsValid() {
		return nil, fmt.Errorf("%w: unknown action %q", workflow.ErrInvalidArgument, string(req.Action))
	}

	ts, requester, course, err := s.loadActionContext(ctx, req.TimesheetID, req.RequesterID)
	if err != nil {
		return nil, err
	}

	wc := workflowContext(ts, course)
	actor := workflow.Actor{ID: requester.ID, Role: requester.Role}

	rule, err := s.domain.ValidateAction(wc, req.Action, actor)
	if err != nil {
		s.logger.Info("Action rejected",
			"timesheet_id", ts.ID, "action", req.Action, "requester_id", requester.ID, "reason", err.Error())
		return nil, fmt.Errorf("perform %s on timesheet %d: %w", req.Action, ts.ID, err)
	}

	record := s.applyAction(ts, req.Action, requester.ID, rule.To, req.Comment)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.timesheetRepo.Update(txCtx, ts); err != nil {
			return fmt.Errorf("update timesheet: %w", err)
		}
		if err := s.approvalRepo.Create(txCtx, record); err != nil {
			return fmt.Errorf("create approval record: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to persist action", "error", err, "timesheet_id", ts.ID, "action", req.Action)
		return nil, err
	}

	s.logger.Info("Action performed",
		"timesheet_id", ts.ID, "action", req.Action, "new_status", ts.Status, "requester_id", requester.ID)

	return &ActionResponse{
		TimesheetID:  ts.ID,
		Action:       req.Action,
		NewStatus:    record.NewStatus,
		ApproverID:   requester.ID,
		ApproverName: requester.Name,
		Comment:      record.Comment,
		Timestamp:    record.Timestamp,
		NextSteps:    NextStepsForStatus(record.NewStatus),
	}, nil
}

// GetPendingForUser derives the statuses relevant to the requester's role,
// fetches candidates scoped to their relationships and keeps only the
// timesheets they can actually act on. The queue therefore never contains an
// item whose action would fail authorization.
func (s *approvalServiceImpl) GetPendingForUser(ctx context.Context, requesterID int64) ([]*PendingTimesheet, error) {
	if requesterID <= 0 {
		return nil, fmt.Errorf("%w: requester id must be positive", workflow.ErrInvalidArgument)
	}

	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil || requester == nil {
		return nil, fmt.Errorf("%w: user %d", workflow.ErrNotFound, requesterID)
	}

	statuses := s.domain.RelevantStatusesForRole(requester.Role)
	if len(statuses) == 0 {
		return []*PendingTimesheet{}, nil
	}

	candidates, err := s.fetchCandidates(ctx, requester, statuses)
	if err != nil {
		s.logger.Error("Failed to fetch pending candidates", "error", err, "requester_id", requesterID)
		return nil, err
	}

	actor := workflow.Actor{ID: requester.ID, Role: requester.Role}
	courses := make(map[int64]*entity.Course)
	pending := make([]*PendingTimesheet, 0, len(candidates))
	for _, ts := range candidates {
		course, ok := courses[ts.CourseID]
		if !ok {
			course, err = s.courseRepo.GetByID(ctx, ts.CourseID)
			if err != nil || course == nil {
				s.logger.Error("Skipping timesheet with unresolvable course",
					"timesheet_id", ts.ID, "course_id", ts.CourseID)
				continue
			}
			courses[ts.CourseID] = course
		}

		actions := s.domain.ValidActionsFor(workflowContext(ts, course), actor)
		if len(actions) == 0 {
			continue
		}
		pending = append(pending, &PendingTimesheet{Timesheet: ts, ValidActions: actions})
	}

	return pending, nil
}

// GetHistory returns the append-only approval trail of a timesheet. Access
// is decided by the viewing-rights predicate, which is looser than acting
// rights: an owner may read history long after losing the ability to act.
func (s *approvalServiceImpl) GetHistory(ctx context.Context, timesheetID, requesterID int64) ([]*entity.Approval, error) {
	if timesheetID <= 0 {
		return nil, fmt.Errorf("%w: timesheet id must be positive", workflow.ErrInvalidArgument)
	}
	if requesterID <= 0 {
		return nil, fmt.Errorf("%w: requester id must be positive", workflow.ErrInvalidArgument)
	}

	ts, requester, course, err := s.loadActionContext(ctx, timesheetID, requesterID)
	if err != nil {
		return nil, err
	}

	actor := workflow.Actor{ID: requester.ID, Role: requester.Role}
	if !s.domain.CanView(workflowContext(ts, course), actor) {
		return nil, fmt.Errorf("%w: user %d may not view timesheet %d", workflow.ErrForbidden, requesterID, timesheetID)
	}

	history, err := s.approvalRepo.GetByTimesheetID(ctx, timesheetID)
	if err != nil {
		s.logger.Error("Failed to load approval history", "error", err, "timesheet_id", timesheetID)
		return nil, err
	}
	return history, nil
}

// loadActionContext resolves the timesheet, the requesting user and the
// timesheet's course. Absent collaborator data maps to the error kinds the
// transport layer understands; raw lookup failures never escape as-is.
func (s *approvalServiceImpl) loadActionContext(ctx context.Context, timesheetID, requesterID int64) (*entity.Timesheet, *entity.User, *entity.Course, error) {
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

// fetchCandidates scopes the pending-queue fetch to the requester's
// relationships so the authorization filter works over a small candidate set.
func (s *approvalServiceImpl) fetchCandidates(ctx context.Context, requester *entity.User, statuses []workflow.ApprovalStatus) ([]*entity.Timesheet, error) {
	const pendingFetchLimit = 200

	switch requester.Role {
	case workflow.RoleTutor:
		return s.timesheetRepo.ListByTutorAndStatuses(ctx, requester.ID, statuses, pendingFetchLimit, 0)
	case workflow.RoleLecturer:
		return s.timesheetRepo.ListByLecturerAndStatuses(ctx, requester.ID, statuses, pendingFetchLimit, 0)
	default:
		return s.timesheetRepo.ListByStatuses(ctx, statuses, pendingFetchLimit, 0)
	}
}

// applyAction invokes the aggregate mutation matching the action. Each
// action maps 1:1 to a mutation appending exactly one approval record.
func (s *approvalServiceImpl) applyAction(ts *entity.Timesheet, action workflow.ApprovalAction, approverID int64, to workflow.ApprovalStatus, comment string) *entity.Approval {
	switch action {
	case workflow.ActionSubmitForApproval:
		return ts.Submit(approverID, to, comment)
	case workflow.ActionTutorConfirm:
		return ts.ConfirmByTutor(approverID, to, comment)
	case workflow.ActionLecturerConfirm:
		return ts.ConfirmByLecturer(approverID, to, comment)
	case workflow.ActionHRConfirm:
		return ts.ConfirmByHR(approverID, to, comment)
	case workflow.ActionReject:
		return ts.Reject(approverID, to, comment)
	case workflow.ActionRequestModification:
		return ts.RequestModification(approverID, to, comment)
	}
	panic(fmt.Sprintf("no mutation for action %s", action))
}

// workflowContext projects the loaded aggregate and course onto the snapshot
// the workflow engine evaluates.
func workflowContext(ts *entity.Timesheet, course *entity.Course) workflow.WorkflowContext {
	return workflow.WorkflowContext{
		TimesheetID: ts.ID,
		TutorID:     ts.TutorID,
		CourseID:    ts.CourseID,
		LecturerID:  course.LecturerID,
		Status:      ts.Status,
	}
}
