package band

import (
	"fmt"
	"strings"
)

// Role is a band-scoped privilege level attached to a membership, not to the
// user globally. The same person can hold different roles in different bands.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleModerator  Role = "MODERATOR"
	RoleBandMember Role = "BAND_MEMBER"
	RoleMember     Role = "MEMBER"
	// RoleNone is what a role lookup resolves to for a non-member. It is
	// never stored; it denies every gated action.
	RoleNone Role = ""
)

// Action is something a member may attempt within a band.
type Action string

const (
	ActionEditBand        Action = "EDIT_BAND"
	ActionViewHistory     Action = "VIEW_HISTORY"
	ActionEditInventory   Action = "EDIT_INVENTORY"
	ActionApproveRequests Action = "APPROVE_REQUESTS"
	ActionManageMembers   Action = "MANAGE_MEMBERS"
	ActionRecordSale      Action = "RECORD_SALE"
	ActionEditSale        Action = "EDIT_SALE"
)

// permitted maps each action to the roles allowed to perform it.
var permitted = map[Action][]Role{
	ActionEditBand:        {RoleAdmin, RoleModerator},
	ActionViewHistory:     {RoleAdmin, RoleModerator, RoleBandMember},
	ActionEditInventory:   {RoleAdmin, RoleModerator},
	ActionApproveRequests: {RoleAdmin},
	ActionManageMembers:   {RoleAdmin},
	ActionRecordSale:      {RoleAdmin, RoleModerator, RoleBandMember, RoleMember},
	ActionEditSale:        {RoleAdmin, RoleModerator, RoleBandMember},
}

// Can reports whether the role may perform the action. RoleNone and unknown
// roles deny everything.
func (r Role) Can(a Action) bool {
	for _, allowed := range permitted[a] {
		if r == allowed {
			return true
		}
	}
	return false
}

// ParseRole validates a role string from a request payload.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleModerator:
		return RoleModerator, nil
	case RoleBandMember:
		return RoleBandMember, nil
	case RoleMember:
		return RoleMember, nil
	default:
		return RoleNone, fmt.Errorf("invalid role: %s (allowed: ADMIN, MODERATOR, BAND_MEMBER, MEMBER)", s)
	}
}
