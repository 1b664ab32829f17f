package workflow

import "fmt"

// Actor is the identity snapshot a relationship predicate evaluates against.
// The engine never loads users itself; callers pass pre-resolved facts.
type Actor struct {
	ID   int64
	Role Role
}

// WorkflowContext carries the pre-resolved facts about the timesheet under
// decision: its current status, its owner and the supervising lecturer of
// its course. Relationship predicates consult only these fields.
type WorkflowContext struct {
	TimesheetID int64
	TutorID     int64
	CourseID    int64
	LecturerID  int64
	Status      ApprovalStatus
}

// Predicate evaluates whether a specific actor has standing over a specific
// timesheet (ownership, course assignment). A nil predicate means the rule
// applies to every actor of its role.
type Predicate func(actor Actor, wc WorkflowContext) bool

// Rule is a single entry of the workflow rule table: who may do what, from
// which status, landing where.
type Rule struct {
	Role        Role
	Action      ApprovalAction
	From        ApprovalStatus
	To          ApprovalStatus
	Description string
	Condition   Predicate
}

type ruleKey struct {
	role   Role
	action ApprovalAction
	from   ApprovalStatus
}

type transitionKey struct {
	from   ApprovalStatus
	action ApprovalAction
}

// Rules is the single source of truth for the approval workflow: every legal
// (role, action, from-status) combination and its target status lives here
// and nowhere else. The table is built once by NewRules and never mutated;
// inject it via constructors rather than reaching for shared state.
//
// Role-agnostic queries (CanTransition, NextStatus, ValidActions,
// NextPossibleStatuses) deliberately exclude the ADMIN override rules: they
// answer "is this a legitimate normal workflow step", not "could an
// administrator force it".
type Rules struct {
	table map[ruleKey]Rule
	// transitions is the role-agnostic projection of the ordinary (non-ADMIN)
	// rules. Uniqueness of target per (from, action) is enforced at build time.
	transitions map[transitionKey]ApprovalStatus
}

// NewRules builds the immutable workflow rule table.
func NewRules() *Rules {
	r := &Rules{
		table:       make(map[ruleKey]Rule),
		transitions: make(map[transitionKey]ApprovalStatus),
	}

	isTutorOwner := func(actor Actor, wc WorkflowContext) bool {
		return actor.ID == wc.TutorID
	}
	isCourseLecturer := func(actor Actor, wc WorkflowContext) bool {
		return actor.ID == wc.LecturerID
	}

	// Step 1: creation and submission.
	r.add(RoleLecturer, ActionSubmitForApproval, StatusDraft, StatusPendingTutorConfirmation,
		"Lecturer submits a draft timesheet for tutor confirmation", isCourseLecturer)
	r.add(RoleTutor, ActionSubmitForApproval, StatusDraft, StatusPendingTutorConfirmation,
		"Tutor submits their own draft timesheet for confirmation", isTutorOwner)

	// Step 2: tutor review. The tutor confirms accuracy, asks for changes,
	// or rejects outright.
	r.add(RoleTutor, ActionTutorConfirm, StatusPendingTutorConfirmation, StatusTutorConfirmed,
		"Tutor confirms the timesheet is accurate", isTutorOwner)
	r.add(RoleTutor, ActionRequestModification, StatusPendingTutorConfirmation, StatusModificationRequested,
		"Tutor requests modifications to an inaccurate timesheet", isTutorOwner)
	r.add(RoleTutor, ActionReject, StatusPendingTutorConfirmation, StatusRejected,
		"Tutor rejects an inaccurate timesheet", isTutorOwner)

	// Step 3: rework loops. Both negative outcomes return to the tutor for
	// correction and resubmission; neither is terminal.
	r.add(RoleTutor, ActionSubmitForApproval, StatusModificationRequested, StatusPendingTutorConfirmation,
		"Tutor resubmits after applying requested changes", isTutorOwner)
	r.add(RoleTutor, ActionSubmitForApproval, StatusRejected, StatusPendingTutorConfirmation,
		"Tutor resubmits after correcting a rejected timesheet", isTutorOwner)

	// Step 4: lecturer confirmation of the tutor-confirmed timesheet.
	r.add(RoleLecturer, ActionLecturerConfirm, StatusTutorConfirmed, StatusLecturerConfirmed,
		"Lecturer confirms after tutor confirmation", isCourseLecturer)
	r.add(RoleLecturer, ActionRequestModification, StatusTutorConfirmed, StatusModificationRequested,
		"Lecturer requests modifications to a tutor-confirmed timesheet", isCourseLecturer)
	r.add(RoleLecturer, ActionReject, StatusTutorConfirmed, StatusRejected,
		"Lecturer rejects a tutor-confirmed timesheet", isCourseLecturer)

	// Step 5: HR final review. Any HR user may act; no relationship predicate.
	r.add(RoleHR, ActionHRConfirm, StatusLecturerConfirmed, StatusFinalConfirmed,
		"HR gives final confirmation for payroll processing", nil)
	r.add(RoleHR, ActionRequestModification, StatusLecturerConfirmed, StatusModificationRequested,
		"HR returns a lecturer-confirmed timesheet for modification", nil)
	r.add(RoleHR, ActionReject, StatusLecturerConfirmed, StatusRejected,
		"HR rejects a lecturer-confirmed timesheet", nil)

	// ADMIN override: every action from every non-terminal status, without
	// relationship standing. These rules participate in authorization only;
	// they are invisible to the role-agnostic queries.
	for _, action := range AllActions() {
		for _, status := range AllStatuses() {
			if status.IsTerminal() {
				continue
			}
			r.addOverride(RoleAdmin, action, status, adminTargetStatus(action),
				"Administrator override")
		}
	}

	return r
}

// add registers an ordinary rule. A duplicate (role, action, from) key or a
// conflicting role-agnostic target is a defect in the table itself, so both
// panic during construction.
func (r *Rules) add(role Role, action ApprovalAction, from, to ApprovalStatus, description string, cond Predicate) {
	key := ruleKey{role: role, action: action, from: from}
	if _, exists := r.table[key]; exists {
		panic(fmt.Sprintf("workflow: duplicate rule %s/%s/%s", role, action, from))
	}
	r.table[key] = Rule{Role: role, Action: action, From: from, To: to, Description: description, Condition: cond}

	tk := transitionKey{from: from, action: action}
	if existing, ok := r.transitions[tk]; ok && existing != to {
		panic(fmt.Sprintf("workflow: ambiguous transition %s/%s -> %s vs %s", from, action, existing, to))
	}
	r.transitions[tk] = to
}

// addOverride registers an ADMIN rule without touching the role-agnostic
// transition projection.
func (r *Rules) addOverride(role Role, action ApprovalAction, from, to ApprovalStatus, description string) {
	key := ruleKey{role: role, action: action, from: from}
	if _, exists := r.table[key]; exists {
		panic(fmt.Sprintf("workflow: duplicate rule %s/%s/%s", role, action, from))
	}
	r.table[key] = Rule{Role: role, Action: action, From: from, To: to, Description: description, Condition: nil}
}

// adminTargetStatus mirrors the target an ordinary role would reach with the
// same action.
func adminTargetStatus(action ApprovalAction) ApprovalStatus {
	switch action {
	case ActionSubmitForApproval:
		return StatusPendingTutorConfirmation
	case ActionTutorConfirm:
		return StatusTutorConfirmed
	case ActionLecturerConfirm:
		return StatusLecturerConfirmed
	case ActionHRConfirm:
		return StatusFinalConfirmed
	case ActionReject:
		return StatusRejected
	case ActionRequestModification:
		return StatusModificationRequested
	}
	panic(fmt.Sprintf("workflow: no admin target for action %s", action))
}

// CanTransition reports whether the action is a legitimate workflow step from
// the given status for any ordinary role. Unknown statuses or actions are
// simply not in the table, so they report false.
func (r *Rules) CanTransition(from ApprovalStatus, action ApprovalAction) bool {
	_, ok := r.transitions[transitionKey{from: from, action: action}]
	return ok
}

// NextStatus returns the status reached by performing the action from the
// given status. It fails with ErrInvalidArgument on unknown enum values and
// with ErrInvalidTransition when no ordinary rule matches.
func (r *Rules) NextStatus(from ApprovalStatus, action ApprovalAction) (ApprovalStatus, error) {
	if !from.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, string(from))
	}
	if !action.IsValid() {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidArgument, string(action))
	}
	to, ok := r.transitions[transitionKey{from: from, action: action}]
	if !ok {
		return "", fmt.Errorf("%w: cannot perform %s from status %s", ErrInvalidTransition, action, from)
	}
	return to, nil
}

// ValidActions returns the actions any ordinary role could legally perform
// from the given status, in declaration order. Empty for terminal statuses.
func (r *Rules) ValidActions(status ApprovalStatus) []ApprovalAction {
	actions := make([]ApprovalAction, 0, 4)
	for _, action := range AllActions() {
		if r.CanTransition(status, action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// NextPossibleStatuses returns the statuses reachable from the given status.
// It is always the exact image of ValidActions under NextStatus; the set is
// derived on demand and never stored, so it cannot drift from the table.
func (r *Rules) NextPossibleStatuses(status ApprovalStatus) []ApprovalStatus {
	seen := make(map[ApprovalStatus]bool)
	statuses := make([]ApprovalStatus, 0, 4)
	for _, action := range r.ValidActions(status) {
		to := r.transitions[transitionKey{from: status, action: action}]
		if !seen[to] {
			seen[to] = true
			statuses = append(statuses, to)
		}
	}
	return statuses
}

// RoleCanPerform reports whether the role is structurally eligible for the
// action, i.e. at least one rule exists for the pair regardless of status.
func (r *Rules) RoleCanPerform(role Role, action ApprovalAction) bool {
	for key := range r.table {
		if key.role == role && key.action == action {
			return true
		}
	}
	return false
}

// Find returns the rule for the exact (role, action, from) key, if any.
func (r *Rules) Find(role Role, action ApprovalAction, from ApprovalStatus) (Rule, bool) {
	rule, ok := r.table[ruleKey{role: role, action: action, from: from}]
	return rule, ok
}

// RelevantStatuses returns the non-terminal statuses for which at least one
// rule is keyed to the role. This drives "pending work" queries without
// enumerating statuses by hand.
func (r *Rules) RelevantStatuses(role Role) []ApprovalStatus {
	statuses := make([]ApprovalStatus, 0, 4)
	for _, status := range AllStatuses() {
		if status.IsTerminal() {
			continue
		}
		for _, action := range AllActions() {
			if _, ok := r.table[ruleKey{role: role, action: action, from: status}]; ok {
				statuses = append(statuses, status)
				break
			}
		}
	}
	return statuses
}

// Validate performs startup consistency checks on the table and returns any
// findings. An empty result means the table is sound.
func (r *Rules) Validate() []string {
	var problems []string

	reachable := map[ApprovalStatus]bool{StatusDraft: true}
	for _, rule := range r.table {
		reachable[rule.To] = true
	}
	for _, status := range AllStatuses() {
		if !reachable[status] {
			problems = append(problems, fmt.Sprintf("unreachable status: %s", status))
		}
	}

	for _, status := range AllStatuses() {
		valid := r.ValidActions(status)
		if status.IsTerminal() && len(valid) > 0 {
			problems = append(problems, fmt.Sprintf("terminal status %s has valid actions", status))
		}
		if !status.IsTerminal() && len(valid) == 0 {
			problems = append(problems, fmt.Sprintf("non-terminal status %s has no valid actions", status))
		}
	}

	return problems
}
