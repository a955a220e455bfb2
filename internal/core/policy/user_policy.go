// Package policy holds the authorization decisions for user management.
//
// Every decision is a pure function of the acting user and, where it applies,
// the target record. A denied action is reported as false, never as an error;
// the HTTP layer turns false into a 403.
package policy

import "github.com/msk-clinic/clinic-portal/internal/core/domain"

// Action names a user-management operation guarded by UserPolicy.
type Action string

const (
	ActionViewAny   Action = "view_any"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionViewStats Action = "view_stats"
)

// UserPolicy decides who may manage user accounts. The zero value is ready to use.
type UserPolicy struct{}

// CanViewAny reports whether actor may list every account.
func (UserPolicy) CanViewAny(actor *domain.User) bool {
	return isAdmin(actor)
}

// CanCreate reports whether actor may provision new accounts.
func (UserPolicy) CanCreate(actor *domain.User) bool {
	return isAdmin(actor)
}

// CanUpdate reports whether actor may edit target. Administrators may edit
// anyone; everybody else may only edit their own account.
func (UserPolicy) CanUpdate(actor, target *domain.User) bool {
	if isAdmin(actor) {
		return true
	}
	return isSelf(actor, target)
}

// CanDelete reports whether actor may delete target.
func (UserPolicy) CanDelete(actor, _ *domain.User) bool {
	return isAdmin(actor)
}

// CanViewStats reports whether actor may read the aggregate dashboard.
func (UserPolicy) CanViewStats(actor *domain.User) bool {
	return isAdmin(actor)
}

// Allows dispatches action to the matching decision. Unknown actions are denied.
func (p UserPolicy) Allows(action Action, actor, target *domain.User) bool {
	switch action {
	case ActionViewAny:
		return p.CanViewAny(actor)
	case ActionCreate:
		return p.CanCreate(actor)
	case ActionUpdate:
		return p.CanUpdate(actor, target)
	case ActionDelete:
		return p.CanDelete(actor, target)
	case ActionViewStats:
		return p.CanViewStats(actor)
	default:
		return false
	}
}

// isAdmin lists every role explicitly so that a new role has to be placed on
// one side of the decision.
func isAdmin(actor *domain.User) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSuperviseur, domain.RoleAgent, domain.RoleConfirmateur,
		domain.RolePatient, domain.RoleClinique:
		return false
	default:
		return false
	}
}

func isSelf(actor, target *domain.User) bool {
	if actor == nil || target == nil {
		return false
	}
	return actor.ID != "" && actor.ID == target.ID
}
