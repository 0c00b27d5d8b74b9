package queries

import (
	"context"
	"log/slog"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	"keystone/contexts/account-management/account-service/ports"
)

type GetContactQuery struct {
	OrgID      string
	ActorID    string
	ActorRoles []string
}

type GetContactUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Contacts    ports.ContactRepository
	Access      ports.AccessDecider
	Logger      *slog.Logger
}

func (uc GetContactUseCase) Execute(ctx context.Context, query GetContactQuery) (entities.Contact, error) {
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(query.OrgID))
	if err != nil {
		return entities.Contact{}, err
	}
	if err := uc.Access.Decide(query.ActorRoles, ports.ActionViewOrg, string(org.AccessType)); err != nil {
		return entities.Contact{}, err
	}
	if err := requireOrgMember(ctx, uc.Memberships, org.OrgID, query.ActorID, query.ActorRoles); err != nil {
		return entities.Contact{}, err
	}
	return uc.Contacts.GetContact(ctx, org.OrgID)
}
