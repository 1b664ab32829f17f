package workflow

import "testing"

func TestApprovalAction_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		action   ApprovalAction
		expected bool
	}{
		{"valid action", ActionSubmitForApproval, true},
		{"valid action", ActionHRConfirm, true},
		{"invalid action", ApprovalAction("APPROVE"), false},
		{"empty action", ApprovalAction(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.IsValid(); got != tt.expected {
				t.Errorf("ApprovalAction.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestApprovalAction_String(t *testing.T) {
	if got := ActionRequestModification.String(); got != "REQUEST_MODIFICATION" {
		t.Errorf("ApprovalAction.String() = %v, want %v", got, "REQUEST_MODIFICATION")
	}
}

func TestAllActions(t *testing.T) {
	actions := AllActions()
	if len(actions) != 6 {
		t.Fatalf("AllActions() returned %d actions, want 6", len(actions))
	}
	for _, action := range actions {
		if !action.IsValid() {
			t.Errorf("AllActions() contains invalid action %s", action)
		}
	}
}

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"tutor", RoleTutor, true},
		{"lecturer", RoleLecturer, true},
		{"hr", RoleHR, true},
		{"admin", RoleAdmin, true},
		{"unknown role", Role("STUDENT"), false},
		{"empty role", Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.expected {
				t.Errorf("Role.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRole_DisplayName(t *testing.T) {
	if got := RoleHR.DisplayName(); got != "Human Resources" {
		t.Errorf("Role.DisplayName() = %v, want %v", got, "Human Resources")
	}
	if got := Role("STUDENT").DisplayName(); got != "STUDENT" {
		t.Errorf("Role.DisplayName() = %v, want %v", got, "STUDENT")
	}
}
