package entity

import (
	"time"

	"github.com/Jackela/catams/internal/domain/workflow"
)

// Approval is one immutable entry of a timesheet's audit trail: who did
// what, from which status to which, with an optional comment.
type Approval struct {
	ID             int64                   `json:"id"`
	TimesheetID    int64                   `json:"timesheet_id"`
	ApproverID     int64                   `json:"approver_id"`
	Action         workflow.ApprovalAction `json:"action"`
	PreviousStatus workflow.ApprovalStatus `json:"previous_status"`
	NewStatus      workflow.ApprovalStatus `json:"new_status"`
	Comment        string                  `json:"comment,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
}
