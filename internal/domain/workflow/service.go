package workflow

import "fmt"

// Service is the stateless workflow domain service. It combines rule-table
// lookups with actor-specific authorization and residual business rules. All
// methods are pure with respect to their inputs; the service holds no mutable
// state and is safe for concurrent use.
type Service struct {
	rules *Rules
}

// NewService creates a workflow domain service backed by the given rule table.
func NewService(rules *Rules) *Service {
	return &Service{rules: rules}
}

// Rules exposes the underlying rule table for role-agnostic queries.
func (s *Service) Rules() *Rules {
	return s.rules
}

// ValidateAction checks, in strict order, whether the actor may perform the
// action on the timesheet described by wc, and returns the matched rule:
//
//  1. input preconditions        -> ErrInvalidArgument
//  2. status-transition legality -> ErrInvalidTransition (role-agnostic:
//     the action is nonsensical for anyone, the caller holds stale state)
//  3. role eligibility           -> ErrForbidden
//  4. relationship standing      -> ErrForbidden
//  5. residual business rules    -> extension slot, currently always nil
//
// The ordering is a contract: a caller who fails both validity and
// authorization must receive the transition error, never a misleading
// permission error.
func (s *Service) ValidateAction(wc WorkflowContext, action ApprovalAction, actor Actor) (Rule, error) {
	if actor.ID <= 0 {
		return Rule{}, fmt.Errorf("%w: actor id must be positive", ErrInvalidArgument)
	}
	if !actor.Role.IsValid() {
		return Rule{}, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, string(actor.Role))
	}
	if !action.IsValid() {
		return Rule{}, fmt.Errorf("%w: unknown action %q", ErrInvalidArgument, string(action))
	}
	if !wc.Status.IsValid() {
		return Rule{}, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, string(wc.Status))
	}

	if !s.rules.CanTransition(wc.Status, action) {
		return Rule{}, fmt.Errorf("%w: cannot perform %s on timesheet with status %s", ErrInvalidTransition, action, wc.Status)
	}

	if !s.rules.RoleCanPerform(actor.Role, action) {
		return Rule{}, fmt.Errorf("%w: role %s cannot perform %s", ErrForbidden, actor.Role, action)
	}

	rule, ok := s.rules.Find(actor.Role, action, wc.Status)
	if !ok {
		return Rule{}, fmt.Errorf("%w: role %s cannot perform %s from status %s", ErrForbidden, actor.Role, action, wc.Status)
	}
	if rule.Condition != nil && !rule.Condition(actor, wc) {
		return Rule{}, fmt.Errorf("%w: user %d lacks standing to perform %s on timesheet %d", ErrForbidden, actor.ID, action, wc.TimesheetID)
	}

	if err := s.validateResidualRules(wc, action, actor); err != nil {
		return Rule{}, err
	}

	return rule, nil
}

// validateResidualRules is the extension slot for business rules beyond the
// rule table: time limits on approvals, mandatory comments on rejection,
// budget checks before final confirmation. Nothing is enforced yet, but the
// validation order reserves this position.
func (s *Service) validateResidualRules(wc WorkflowContext, action ApprovalAction, actor Actor) error {
	return nil
}

// ValidActionsFor returns every action the actor may perform on the
// timesheet right now: the role-agnostic valid actions of the current
// status, filtered by the actor's role eligibility and relationship
// standing. The result is empty when the actor cannot act at all.
func (s *Service) ValidActionsFor(wc WorkflowContext, actor Actor) []ApprovalAction {
	actions := make([]ApprovalAction, 0, 4)
	for _, action := range s.rules.ValidActions(wc.Status) {
		rule, ok := s.rules.Find(actor.Role, action, wc.Status)
		if !ok {
			continue
		}
		if rule.Condition != nil && !rule.Condition(actor, wc) {
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

// CanActOn reports whether the actor has at least one valid action on the
// timesheet. Pending queues use this to never show an item the actor cannot
// actually act on.
func (s *Service) CanActOn(wc WorkflowContext, actor Actor) bool {
	return len(s.ValidActionsFor(wc, actor)) > 0
}

// CanView reports whether the actor may read the timesheet and its approval
// history. Viewing rights are deliberately looser than acting rights: an
// owner keeps visibility long after losing the ability to act.
func (s *Service) CanView(wc WorkflowContext, actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleLecturer:
		return actor.ID == wc.LecturerID
	case RoleTutor:
		return actor.ID == wc.TutorID
	default:
		return false
	}
}

// RelevantStatusesForRole returns the non-terminal statuses in which the
// role has at least one rule defined, for building pending-work queries.
func (s *Service) RelevantStatusesForRole(role Role) []ApprovalStatus {
	return s.rules.RelevantStatuses(role)
}
