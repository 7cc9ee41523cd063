// Package permissions holds the explicit role and ownership rules for every
// gated action. Mutations on plain resources only need an authenticated user;
// the tables below cover the actions with stricter requirements.
package permissions

import (
	"github.com/parliament-dev/parliament/internal/models"
	"github.com/parliament-dev/parliament/internal/types"
)

type Action string

const (
	ActionMarkAttendance Action = "mark_attendance"
	ActionCastVote       Action = "cast_vote"
)

var actionRoles = map[Action][]string{
	ActionMarkAttendance: {types.RoleDeputy, types.RoleAdmin},
	ActionCastVote:       {types.RoleDeputy},
}

// Allowed reports whether the role may perform the action.
func Allowed(action Action, role string) bool {
	for _, allowed := range actionRoles[action] {
		if role == allowed {
			return true
		}
	}
	return false
}

// CanMutateDeputy gates update/delete on a deputy. A deputy linked to a user
// account belongs to that user; admins may always mutate, and deputies with no
// linked account are mutable by any authenticated user.
func CanMutateDeputy(role string, userID uint, deputy models.Deputy) bool {
	if role == types.RoleAdmin {
		return true
	}
	if deputy.UserID != nil {
		return *deputy.UserID == userID
	}
	return true
}

// CanSeeClosedSessions reports whether the requester may see closed sessions.
// Anonymous requesters and guests may not.
func CanSeeClosedSessions(authenticated bool, role string) bool {
	return authenticated && role != types.RoleGuest
}
