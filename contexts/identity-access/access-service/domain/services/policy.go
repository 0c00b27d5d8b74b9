package services

import (
	"fmt"

	"keystone/contexts/identity-access/access-service/domain/entities"
	domainerrors "keystone/contexts/identity-access/access-service/domain/errors"
)

// AccessTypeAnonymous is the org classification that restricts mutations to
// staff admins. Other access types (REGULAR, GOVM) carry no extra gate here.
const AccessTypeAnonymous = "ANONYMOUS"

// Policy decides whether caller roles permit an action on an organization.
// Deterministic given inputs; no I/O, no mutation.
type Policy struct {
	permitted map[string]map[string]bool
}

// NewPolicy builds the coarse role/action table. PUBLIC_USER carries the
// full action set because org admins are public users; org-scoped mutations
// are additionally gated by an admin-class membership check in the account
// context. SYSTEM carries manage_affiliations for registry sync callers.
func NewPolicy() Policy {
	all := map[string]bool{
		entities.ActionCreateOrg:          true,
		entities.ActionSearchOrgs:         true,
		entities.ActionViewOrg:            true,
		entities.ActionUpdateOrg:          true,
		entities.ActionChangeOrgType:      true,
		entities.ActionDeactivateOrg:      true,
		entities.ActionManageMembers:      true,
		entities.ActionManageAffiliations: true,
		entities.ActionManageContacts:     true,
	}
	return Policy{
		permitted: map[string]map[string]bool{
			entities.RolePublicUser: all,
			entities.RoleStaffAdmin: all,
			entities.RoleStaff: {
				entities.ActionSearchOrgs:    true,
				entities.ActionViewOrg:       true,
				entities.ActionDeactivateOrg: true,
			},
			entities.RoleSystem: {
				entities.ActionCreateOrg:          true,
				entities.ActionSearchOrgs:         true,
				entities.ActionViewOrg:            true,
				entities.ActionDeactivateOrg:      true,
				entities.ActionManageAffiliations: true,
			},
		},
	}
}

// Decide returns nil when at least one caller role permits the action.
// Rules are evaluated in order: the anonymous-org gate first, then the
// role/action table, then default deny.
func (p Policy) Decide(roles []string, action string, accessType string) error {
	if accessType == AccessTypeAnonymous && entities.IsMutation(action) {
		if !hasRole(roles, entities.RoleStaffAdmin) {
			return fmt.Errorf("%w: anonymous-access org requires %s", domainerrors.ErrActionDenied, entities.RoleStaffAdmin)
		}
		return nil
	}

	for _, role := range roles {
		if p.permitted[role][action] {
			return nil
		}
	}
	return fmt.Errorf("%w: action %s", domainerrors.ErrActionDenied, action)
}

func hasRole(roles []string, wanted string) bool {
	for _, role := range roles {
		if role == wanted {
			return true
		}
	}
	return false
}
