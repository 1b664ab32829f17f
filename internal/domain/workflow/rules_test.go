package workflow

import (
	"errors"
	"testing"
)

// validTransitions is the complete role-agnostic transition table. Every
// (from, action) pair not listed here must be refused.
var validTransitions = []struct {
	from   ApprovalStatus
	action ApprovalAction
	to     ApprovalStatus
}{
	{StatusDraft, ActionSubmitForApproval, StatusPendingTutorConfirmation},
	{StatusPendingTutorConfirmation, ActionTutorConfirm, StatusTutorConfirmed},
	{StatusPendingTutorConfirmation, ActionRequestModification, StatusModificationRequested},
	{StatusPendingTutorConfirmation, ActionReject, StatusRejected},
	{StatusModificationRequested, ActionSubmitForApproval, StatusPendingTutorConfirmation},
	{StatusRejected, ActionSubmitForApproval, StatusPendingTutorConfirmation},
	{StatusTutorConfirmed, ActionLecturerConfirm, StatusLecturerConfirmed},
	{StatusTutorConfirmed, ActionRequestModification, StatusModificationRequested},
	{StatusTutorConfirmed, ActionReject, StatusRejected},
	{StatusLecturerConfirmed, ActionHRConfirm, StatusFinalConfirmed},
	{StatusLecturerConfirmed, ActionRequestModification, StatusModificationRequested},
	{StatusLecturerConfirmed, ActionReject, StatusRejected},
}

func TestRules_NextStatus_ValidTransitions(t *testing.T) {
	rules := NewRules()

	for _, tt := range validTransitions {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			if !rules.CanTransition(tt.from, tt.action) {
				t.Errorf("CanTransition(%s, %s) = false, want true", tt.from, tt.action)
			}
			got, err := rules.NextStatus(tt.from, tt.action)
			if err != nil {
				t.Fatalf("NextStatus(%s, %s) error = %v", tt.from, tt.action, err)
			}
			if got != tt.to {
				t.Errorf("NextStatus(%s, %s) = %s, want %s", tt.from, tt.action, got, tt.to)
			}
		})
	}
}

func TestRules_NextStatus_RefusesEverythingElse(t *testing.T) {
	rules := NewRules()

	valid := make(map[transitionKey]bool)
	for _, tt := range validTransitions {
		valid[transitionKey{from: tt.from, action: tt.action}] = true
	}

	for _, from := range AllStatuses() {
		for _, action := range AllActions() {
			if valid[transitionKey{from: from, action: action}] {
				continue
			}
			if rules.CanTransition(from, action) {
				t.Errorf("CanTransition(%s, %s) = true, want false", from, action)
			}
			if _, err := rules.NextStatus(from, action); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("NextStatus(%s, %s) error = %v, want ErrInvalidTransition", from, action, err)
			}
		}
	}
}

func TestRules_NextStatus_UnknownEnums(t *testing.T) {
	rules := NewRules()

	if _, err := rules.NextStatus(ApprovalStatus("BOGUS"), ActionSubmitForApproval); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NextStatus with unknown status error = %v, want ErrInvalidArgument", err)
	}
	if _, err := rules.NextStatus(StatusDraft, ApprovalAction("BOGUS")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NextStatus with unknown action error = %v, want ErrInvalidArgument", err)
	}
}

func TestRules_ValidActions(t *testing.T) {
	rules := NewRules()

	tests := []struct {
		status   ApprovalStatus
		expected []ApprovalAction
	}{
		{StatusDraft, []ApprovalAction{ActionSubmitForApproval}},
		{StatusPendingTutorConfirmation, []ApprovalAction{ActionTutorConfirm, ActionReject, ActionRequestModification}},
		{StatusTutorConfirmed, []ApprovalAction{ActionLecturerConfirm, ActionReject, ActionRequestModification}},
		{StatusLecturerConfirmed, []ApprovalAction{ActionHRConfirm, ActionReject, ActionRequestModification}},
		{StatusModificationRequested, []ApprovalAction{ActionSubmitForApproval}},
		// A rejected timesheet can only be resubmitted; it is not a dead end.
		{StatusRejected, []ApprovalAction{ActionSubmitForApproval}},
		{StatusFinalConfirmed, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := rules.ValidActions(tt.status)
			if len(got) != len(tt.expected) {
				t.Fatalf("ValidActions(%s) = %v, want %v", tt.status, got, tt.expected)
			}
			for i, action := range tt.expected {
				if got[i] != action {
					t.Errorf("ValidActions(%s)[%d] = %s, want %s", tt.status, i, got[i], action)
				}
			}
		})
	}
}

func TestRules_ValidActions_TerminalAndNonTerminal(t *testing.T) {
	rules := NewRules()

	for _, status := range AllStatuses() {
		actions := rules.ValidActions(status)
		if status.IsTerminal() && len(actions) > 0 {
			t.Errorf("terminal status %s has valid actions %v", status, actions)
		}
		if !status.IsTerminal() && len(actions) == 0 {
			t.Errorf("non-terminal status %s has no valid actions", status)
		}
	}
}

func TestRules_NextPossibleStatuses_MatchesValidActions(t *testing.T) {
	rules := NewRules()

	for _, status := range AllStatuses() {
		expected := make(map[ApprovalStatus]bool)
		for _, action := range rules.ValidActions(status) {
			to, err := rules.NextStatus(status, action)
			if err != nil {
				t.Fatalf("NextStatus(%s, %s) error = %v", status, action, err)
			}
			expected[to] = true
		}

		got := rules.NextPossibleStatuses(status)
		if len(got) != len(expected) {
			t.Errorf("NextPossibleStatuses(%s) = %v, want image of valid actions %v", status, got, expected)
		}
		for _, to := range got {
			if !expected[to] {
				t.Errorf("NextPossibleStatuses(%s) contains %s, not reachable by any valid action", status, to)
			}
		}
	}
}

func TestRules_AdminRulesInvisibleToRoleAgnosticQueries(t *testing.T) {
	rules := NewRules()

	// ADMIN may force TUTOR_CONFIRM from DRAFT, but that is an override, not
	// a legitimate workflow step.
	if _, ok := rules.Find(RoleAdmin, ActionTutorConfirm, StatusDraft); !ok {
		t.Fatal("expected an ADMIN override rule for TUTOR_CONFIRM from DRAFT")
	}
	if rules.CanTransition(StatusDraft, ActionTutorConfirm) {
		t.Error("CanTransition(DRAFT, TUTOR_CONFIRM) = true; ADMIN overrides must not leak into role-agnostic queries")
	}
	if _, err := rules.NextStatus(StatusDraft, ActionHRConfirm); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("NextStatus(DRAFT, HR_CONFIRM) error = %v, want ErrInvalidTransition", err)
	}
}

func TestRules_AdminHasNoRuleFromTerminalStatus(t *testing.T) {
	rules := NewRules()

	for _, action := range AllActions() {
		if _, ok := rules.Find(RoleAdmin, action, StatusFinalConfirmed); ok {
			t.Errorf("ADMIN override exists for %s from FINAL_CONFIRMED; terminal statuses admit no action", action)
		}
	}
}

func TestRules_RoleCanPerform(t *testing.T) {
	rules := NewRules()

	tests := []struct {
		role     Role
		action   ApprovalAction
		expected bool
	}{
		{RoleTutor, ActionTutorConfirm, true},
		{RoleTutor, ActionSubmitForApproval, true},
		{RoleTutor, ActionLecturerConfirm, false},
		{RoleTutor, ActionHRConfirm, false},
		{RoleLecturer, ActionLecturerConfirm, true},
		{RoleLecturer, ActionSubmitForApproval, true},
		{RoleLecturer, ActionTutorConfirm, false},
		{RoleLecturer, ActionHRConfirm, false},
		{RoleHR, ActionHRConfirm, true},
		{RoleHR, ActionReject, true},
		{RoleHR, ActionTutorConfirm, false},
		{RoleHR, ActionSubmitForApproval, false},
		{RoleAdmin, ActionHRConfirm, true},
		{RoleAdmin, ActionTutorConfirm, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			if got := rules.RoleCanPerform(tt.role, tt.action); got != tt.expected {
				t.Errorf("RoleCanPerform(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.expected)
			}
		})
	}
}

func TestRules_RelevantStatuses(t *testing.T) {
	rules := NewRules()

	tests := []struct {
		role     Role
		expected map[ApprovalStatus]bool
	}{
		{RoleTutor, map[ApprovalStatus]bool{
			StatusDraft:                    true,
			StatusPendingTutorConfirmation: true,
			StatusModificationRequested:    true,
			StatusRejected:                 true,
		}},
		{RoleLecturer, map[ApprovalStatus]bool{
			StatusDraft:          true,
			StatusTutorConfirmed: true,
		}},
		{RoleHR, map[ApprovalStatus]bool{
			StatusLecturerConfirmed: true,
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := rules.RelevantStatuses(tt.role)
			if len(got) != len(tt.expected) {
				t.Fatalf("RelevantStatuses(%s) = %v, want %v", tt.role, got, tt.expected)
			}
			for _, status := range got {
				if !tt.expected[status] {
					t.Errorf("RelevantStatuses(%s) contains unexpected %s", tt.role, status)
				}
			}
		})
	}

	// ADMIN has an override rule from every non-terminal status.
	adminStatuses := rules.RelevantStatuses(RoleAdmin)
	if len(adminStatuses) != 6 {
		t.Errorf("RelevantStatuses(ADMIN) = %v, want all 6 non-terminal statuses", adminStatuses)
	}
}

func TestRules_Validate(t *testing.T) {
	rules := NewRules()
	if problems := rules.Validate(); len(problems) > 0 {
		t.Errorf("Validate() reported problems on the built-in table: %v", problems)
	}
}

func TestRules_AddPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate rule registration")
		}
	}()

	rules := NewRules()
	rules.add(RoleTutor, ActionTutorConfirm, StatusPendingTutorConfirmation, StatusTutorConfirmed, "dup", nil)
}

func TestRules_AddPanicsOnAmbiguousTarget(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on conflicting transition target")
		}
	}()

	rules := NewRules()
	// Same (from, action) as an existing rule but a different target.
	rules.add(RoleHR, ActionSubmitForApproval, StatusDraft, StatusTutorConfirmed, "conflict", nil)
}
