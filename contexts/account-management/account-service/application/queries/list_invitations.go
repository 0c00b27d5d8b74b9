package queries

import (
	"context"
	"log/slog"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

type ListInvitationsQuery struct {
	OrgID      string
	Status     string
	ActorID    string
	ActorRoles []string
}

type ListInvitationsUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Invitations ports.InvitationRepository
	Access      ports.AccessDecider
	Logger      *slog.Logger
}

func (uc ListInvitationsUseCase) Execute(ctx context.Context, query ListInvitationsQuery) ([]entities.Invitation, error) {
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

	var status entities.InvitationStatus
	if raw := strings.ToUpper(strings.TrimSpace(query.Status)); raw != "" {
		status = entities.InvitationStatus(raw)
		if !entities.IsSupportedInvitationStatus(status) {
			return nil, domainerrors.ErrInvalidMemberFilter
		}
	}
	return uc.Invitations.ListInvitations(ctx, org.OrgID, status)
}
