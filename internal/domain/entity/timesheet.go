package entity

import (
	"time"

	"github.com/Jackela/catams/internal/domain/workflow"
)

// Timesheet is the workflowed aggregate: a casual tutor's claimed hours for
// one week of one course, moving through confirmation stages until payable.
//
// Invariant: Status always equals the NewStatus of the most recent entry in
// Approvals, or StatusDraft when no action has been recorded yet. Every
// mutation appends exactly one approval record; records are never edited or
// removed.
type Timesheet struct {
	ID          int64                   `json:"id"`
	TutorID     int64                   `json:"tutor_id"`
	CourseID    int64                   `json:"course_id"`
	WeekStart   time.Time               `json:"week_start"`
	Hours       float64                 `json:"hours"`
	HourlyRate  float64                 `json:"hourly_rate"`
	Description string                  `json:"description"`
	Status      workflow.ApprovalStatus `json:"status"`
	// Version supports the optimistic concurrency check at save time; the
	// repository refuses to persist a timesheet whose stored version moved on.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Approvals holds records appended during this load-modify cycle. The
	// full trail lives in the approval repository.
	Approvals []*Approval `json:"approvals,omitempty"`
}

// Submit records a submission for tutor confirmation.
func (t *Timesheet) Submit(approverID int64, to workflow.ApprovalStatus, comment string) *Approval {
	return t.transition(workflow.ActionSubmitForApproval, approverID, to, comment)
}

// ConfirmByTutor records the tutor's accuracy confirmation.
func (t *Timesheet) ConfirmByTutor(approverID int64, to workflow.ApprovalStatus, comment string) *Approval {
	return t.transition(workflow.ActionTutorConfirm, approverID, to, comment)
}

// ConfirmByLecturer records the lecturer's confirmation.
func (t *Timesheet) ConfirmByLecturer(approverID int64, to workflow.ApprovalStatus, comment string) *Approval {
	return t.transition(workflow.ActionLecturerConfirm, approverID, to, comment)
}

// ConfirmByHR records HR's final confirmation.
func (t *Timesheet) ConfirmByHR(approverID int64, to workflow.ApprovalStatus, comment string) *Approval {
	return t.transition(workflow.ActionHRConfirm, approverID, to, comment)
}

// Reject records a rejection.
func (t *Timesheet) Reject(approverID int64, to workflow.ApprovalStatus, comment string) *Approval {
	return t.transition(workflow.ActionReject, approverID, to, comment)
}

// RequestModification records a modification request.
func (t *Timesheet) RequestModification(approverID int64, to workflow.ApprovalStatus, comment string) *Approval {
	return t.transition(workflow.ActionRequestModification, approverID, to, comment)
}

// transition appends one immutable approval record and advances the status.
// The target status is decided by the workflow rule table, never here.
func (t *Timesheet) transition(action workflow.ApprovalAction, approverID int64, to workflow.ApprovalStatus, comment string) *Approval {
	record := &Approval{
		TimesheetID:    t.ID,
		ApproverID:     approverID,
		Action:         action,
		PreviousStatus: t.Status,
		NewStatus:      to,
		Comment:        comment,
		Timestamp:      time.Now(),
	}
	t.Status = to
	t.UpdatedAt = record.Timestamp
	t.Approvals = append(t.Approvals, record)
	return record
}
