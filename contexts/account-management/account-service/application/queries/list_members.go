package queries

import (
	"context"
	"log/slog"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

type ListMembersQuery struct {
	OrgID      string
	Status     string
	Roles      []string
	ActorID    string
	ActorRoles []string
}

type ListMembersUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Access      ports.AccessDecider
	Logger      *slog.Logger
}

func (uc ListMembersUseCase) Execute(ctx context.Context, query ListMembersQuery) ([]entities.Membership, error) {
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

	filter := ports.MembershipFilter{}
	if status := entities.MembershipStatus(strings.ToUpper(strings.TrimSpace(query.Status))); status != "" {
		if !entities.IsSupportedMembershipStatus(status) {
			return nil, domainerrors.ErrInvalidMemberFilter
		}
		filter.Status = status
	}
	for _, raw := range query.Roles {
		role := entities.MembershipRole(strings.ToUpper(strings.TrimSpace(raw)))
		if role == "" {
			continue
		}
		if !entities.IsSupportedMembershipRole(role) {
			return nil, domainerrors.ErrInvalidMemberFilter
		}
		filter.Roles = append(filter.Roles, role)
	}
	return uc.Memberships.ListMemberships(ctx, org.OrgID, filter)
}
