package workflow

// ApprovalStatus represents a timesheet's position in the approval lifecycle
type ApprovalStatus string

const (
	StatusDraft                    ApprovalStatus = "DRAFT"
	StatusPendingTutorConfirmation ApprovalStatus = "PENDING_TUTOR_CONFIRMATION"
	StatusTutorConfirmed           ApprovalStatus = "TUTOR_CONFIRMED"
	StatusLecturerConfirmed        ApprovalStatus = "LECTURER_CONFIRMED"
	StatusFinalConfirmed           ApprovalStatus = "FINAL_CONFIRMED"
	StatusRejected                 ApprovalStatus = "REJECTED"
	StatusModificationRequested    ApprovalStatus = "MODIFICATION_REQUESTED"
)

var validStatuses = map[ApprovalStatus]bool{
	StatusDraft:                    true,
	StatusPendingTutorConfirmation: true,
	StatusTutorConfirmed:           true,
	StatusLecturerConfirmed:        true,
	StatusFinalConfirmed:           true,
	StatusRejected:                 true,
	StatusModificationRequested:    true,
}

// editableStatuses are the statuses in which the timesheet content may still
// be changed by its owner. REJECTED is editable: the tutor corrects and
// resubmits, so it is deliberately not a terminal status.
var editableStatuses = map[ApprovalStatus]bool{
	StatusDraft:                 true,
	StatusModificationRequested: true,
	StatusRejected:              true,
}

// pendingStatuses are the statuses awaiting a decision from another party.
var pendingStatuses = map[ApprovalStatus]bool{
	StatusPendingTutorConfirmation: true,
	StatusTutorConfirmed:           true,
	StatusLecturerConfirmed:        true,
}

// terminalStatuses admit no further transitions, ever. Only the fully
// confirmed (payable) status is terminal.
var terminalStatuses = map[ApprovalStatus]bool{
	StatusFinalConfirmed: true,
}

var statusDisplayNames = map[ApprovalStatus]string{
	StatusDraft:                    "Draft",
	StatusPendingTutorConfirmation: "Pending Tutor Confirmation",
	StatusTutorConfirmed:           "Tutor Confirmed",
	StatusLecturerConfirmed:        "Lecturer Confirmed",
	StatusFinalConfirmed:           "Final Confirmed",
	StatusRejected:                 "Rejected",
	StatusModificationRequested:    "Modification Requested",
}

// AllStatuses returns every valid status. The returned slice is a copy.
func AllStatuses() []ApprovalStatus {
	return []ApprovalStatus{
		StatusDraft,
		StatusPendingTutorConfirmation,
		StatusTutorConfirmed,
		StatusLecturerConfirmed,
		StatusFinalConfirmed,
		StatusRejected,
		StatusModificationRequested,
	}
}

// IsValid returns true if the status is a known lifecycle status
func (s ApprovalStatus) IsValid() bool {
	return validStatuses[s]
}

// IsEditable returns true if the timesheet can be modified in this status
func (s ApprovalStatus) IsEditable() bool {
	return editableStatuses[s]
}

// IsPending returns true if the status is awaiting action from another party
func (s ApprovalStatus) IsPending() bool {
	return pendingStatuses[s]
}

// IsTerminal returns true if no further transitions are possible from this status
func (s ApprovalStatus) IsTerminal() bool {
	return terminalStatuses[s]
}

// DisplayName returns the human-readable status name
func (s ApprovalStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// String returns the string representation of the status
func (s ApprovalStatus) String() string {
	return string(s)
}
