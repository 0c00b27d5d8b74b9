package commands

import (
	"context"
	"log/slog"
	"strings"

	application "keystone/contexts/account-management/account-service/application"
	"keystone/contexts/account-management/account-service/domain/entities"
	"keystone/contexts/account-management/account-service/ports"
)

type DeleteContactCommand struct {
	OrgID      string
	ActorID    string
	ActorRoles []string
}

type DeleteContactUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Contacts    ports.ContactRepository
	Access      ports.AccessDecider
	Logger      *slog.Logger
}

// Execute removes the org's contact record and returns the removed row,
// mirroring the API contract of responding with the deleted contact.
func (uc DeleteContactUseCase) Execute(ctx context.Context, cmd DeleteContactCommand) (entities.Contact, error) {
	logger := application.ResolveLogger(uc.Logger)
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(cmd.OrgID))
	if err != nil {
		return entities.Contact{}, err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionManageContacts, string(org.AccessType)); err != nil {
		return entities.Contact{}, err
	}
	if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, cmd.ActorID, cmd.ActorRoles); err != nil {
		return entities.Contact{}, err
	}

	removed, err := uc.Contacts.DeleteContact(ctx, org.OrgID)
	if err != nil {
		return entities.Contact{}, err
	}

	logger.Info("contact removed",
		"event", "contact_removed",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", org.OrgID,
	)
	return removed, nil
}
