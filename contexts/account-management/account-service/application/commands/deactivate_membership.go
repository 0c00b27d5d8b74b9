package commands

import (
	"context"
	"log/slog"
	"strings"

	application "keystone/contexts/account-management/account-service/application"
	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

type DeactivateMembershipCommand struct {
	OrgID        string
	MembershipID string
	ActorID      string
	ActorRoles   []string
}

type DeactivateMembershipUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Access      ports.AccessDecider
	Clock       ports.Clock
	Logger      *slog.Logger
}

// Execute removes a member from the org. Members may remove themselves;
// anyone else needs org-admin standing or an elevated platform role.
func (uc DeactivateMembershipUseCase) Execute(ctx context.Context, cmd DeactivateMembershipCommand) (entities.Membership, error) {
	logger := application.ResolveLogger(uc.Logger)
	membership, err := uc.Memberships.GetMembership(ctx, strings.TrimSpace(cmd.MembershipID))
	if err != nil {
		return entities.Membership{}, err
	}
	if membership.OrgID != strings.TrimSpace(cmd.OrgID) {
		return entities.Membership{}, domainerrors.ErrMembershipNotFound
	}
	org, err := uc.Orgs.GetOrg(ctx, membership.OrgID)
	if err != nil {
		return entities.Membership{}, err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionManageMembers, string(org.AccessType)); err != nil {
		return entities.Membership{}, err
	}

	actorID := strings.TrimSpace(cmd.ActorID)
	if actorID != membership.UserID {
		if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, actorID, cmd.ActorRoles); err != nil {
			return entities.Membership{}, err
		}
	}

	if membership.Status == entities.MembershipStatusInactive {
		return entities.Membership{}, domainerrors.ErrMembershipAlreadyInactive
	}
	inactive := entities.MembershipStatusInactive
	if !entities.CanTransitionStatus(membership.Status, inactive) {
		return entities.Membership{}, domainerrors.ErrInvalidTransition
	}

	now := uc.Clock.Now().UTC()
	updated, err := uc.Memberships.UpdateMembership(ctx, membership.MembershipID, ports.MembershipUpdate{Status: &inactive}, now)
	if err != nil {
		return entities.Membership{}, err
	}

	logger.Info("membership deactivated",
		"event", "membership_deactivated",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", updated.OrgID,
		"membership_id", updated.MembershipID,
	)
	return updated, nil
}
