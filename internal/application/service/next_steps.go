package service

import "github.com/Jackela/catams/internal/domain/workflow"

// NextStepsForStatus returns workflow guidance for the party whose turn it
// is after a timesheet reaches the given status. Presentation only; nothing
// in the engine consumes these strings.
func NextStepsForStatus(status workflow.ApprovalStatus) []string {
	switch status {
	case workflow.StatusDraft:
		return []string{"Complete the timesheet and submit it for confirmation"}
	case workflow.StatusPendingTutorConfirmation:
		return []string{"Tutor reviews the timesheet and confirms, rejects or requests modifications"}
	case workflow.StatusTutorConfirmed:
		return []string{"Lecturer reviews the tutor-confirmed timesheet and gives final confirmation"}
	case workflow.StatusLecturerConfirmed:
		return []string{"HR performs the final review for payroll processing"}
	case workflow.StatusFinalConfirmed:
		return []string{"Timesheet is confirmed for payroll; no further action required"}
	case workflow.StatusRejected:
		return []string{"Tutor corrects the timesheet and resubmits it"}
	case workflow.StatusModificationRequested:
		return []string{"Tutor applies the requested changes and resubmits the timesheet"}
	default:
		return []string{}
	}
}
