package queries

import (
	"context"
	"log/slog"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	"keystone/contexts/account-management/account-service/ports"
)

type ListAffiliationsQuery struct {
	OrgID      string
	ActorID    string
	ActorRoles []string
}

type ListAffiliationsUseCase struct {
	Orgs         ports.OrgRepository
	Memberships  ports.MembershipRepository
	Affiliations ports.AffiliationRepository
	Access       ports.AccessDecider
	Logger       *slog.Logger
}

func (uc ListAffiliationsUseCase) Execute(ctx context.Context, query ListAffiliationsQuery) ([]entities.Affiliation, error) {
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(query.OrgID))
	if err != nil {
		return nil, err
	}
	if err := uc.Access.Decide(query.ActorRoles, ports.ActionViewOrg, string(org.AccessType)); err != nil {
		return nil, err
	}
	if err := requireOrgMember(ctx, uc.Memberships, org.OrgID, query.ActorID, query.ActorRoles); err != nil {
		return nil, err
	}
	return uc.Affiliations.ListAffiliations(ctx, org.OrgID)
}
