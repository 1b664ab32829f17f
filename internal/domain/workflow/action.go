package workflow

// ApprovalAction represents an actor-initiated intent against a timesheet.
// Actions carry no transition behavior of their own; legality and target
// statuses are answered exclusively by the Rules registry.
type ApprovalAction string

const (
	ActionSubmitForApproval   ApprovalAction = "SUBMIT_FOR_APPROVAL"
	ActionTutorConfirm        ApprovalAction = "TUTOR_CONFIRM"
	ActionLecturerConfirm     ApprovalAction = "LECTURER_CONFIRM"
	ActionHRConfirm           ApprovalAction = "HR_CONFIRM"
	ActionReject              ApprovalAction = "REJECT"
	ActionRequestModification ApprovalAction = "REQUEST_MODIFICATION"
)

var validActions = map[ApprovalAction]bool{
	ActionSubmitForApproval:   true,
	ActionTutorConfirm:        true,
	ActionLecturerConfirm:     true,
	ActionHRConfirm:           true,
	ActionReject:              true,
	ActionRequestModification: true,
}

// AllActions returns every valid action. The returned slice is a copy.
func AllActions() []ApprovalAction {
	return []ApprovalAction{
		ActionSubmitForApproval,
		ActionTutorConfirm,
		ActionLecturerConfirm,
		ActionHRConfirm,
		ActionReject,
		ActionRequestModification,
	}
}

// IsValid returns true if the action is a known approval action
func (a ApprovalAction) IsValid() bool {
	return validActions[a]
}

// String returns the string representation of the action
func (a ApprovalAction) String() string {
	return string(a)
}
