package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

type GetOrgQuery struct {
	OrgID      string
	ActorID    string
	ActorRoles []string
}

type GetOrgUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Access      ports.AccessDecider
	Logger      *slog.Logger
}

func (uc GetOrgUseCase) Execute(ctx context.Context, query GetOrgQuery) (entities.Org, error) {
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(query.OrgID))
	if err != nil {
		return entities.Org{}, err
	}
	if err := uc.Access.Decide(query.ActorRoles, ports.ActionViewOrg, string(org.AccessType)); err != nil {
		return entities.Org{}, err
	}
	if err := requireOrgMember(ctx, uc.Memberships, org.OrgID, query.ActorID, query.ActorRoles); err != nil {
		return entities.Org{}, err
	}
	return org, nil
}

// requireOrgMember lets elevated platform roles through; everyone else must
// hold an active membership in the org to read its data.
func requireOrgMember(ctx context.Context, memberships ports.MembershipRepository, orgID, actorID string, actorRoles []string) error {
	if ports.HasElevatedRole(actorRoles) {
		return nil
	}
	actor, err := memberships.GetMembershipByOrgAndUser(ctx, orgID, strings.TrimSpace(actorID))
	if err != nil {
		if errors.Is(err, domainerrors.ErrMembershipNotFound) {
			return domainerrors.ErrNotOrgMember
		}
		return err
	}
	if actor.Status != entities.MembershipStatusActive {
		return domainerrors.ErrNotOrgMember
	}
	return nil
}
