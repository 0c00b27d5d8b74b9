package commands

import (
	"context"
	"errors"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

// requireOrgAdmin lets elevated platform roles through; everyone else must
// hold an active admin-class membership in the same org. Every org-level
// mutation runs this after the coarse role/action policy check.
func requireOrgAdmin(ctx context.Context, memberships ports.MembershipRepository, orgID, actorID string, actorRoles []string) error {
	if ports.HasElevatedRole(actorRoles) {
		return nil
	}
	actor, err := memberships.GetMembershipByOrgAndUser(ctx, orgID, strings.TrimSpace(actorID))
	if err != nil {
		if errors.Is(err, domainerrors.ErrMembershipNotFound) {
			return domainerrors.ErrNotOrgAdmin
		}
		return err
	}
	if actor.Status != entities.MembershipStatusActive || !entities.IsAdminClass(actor.Role) {
		return domainerrors.ErrNotOrgAdmin
	}
	return nil
}
