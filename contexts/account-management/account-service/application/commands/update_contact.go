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

type UpdateContactCommand struct {
	OrgID          string
	Email          string
	Phone          string
	PhoneExtension string
	ActorID        string
	ActorRoles     []string
}

type UpdateContactUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Contacts    ports.ContactRepository
	Access      ports.AccessDecider
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc UpdateContactUseCase) Execute(ctx context.Context, cmd UpdateContactCommand) (entities.Contact, error) {
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

	contact, err := uc.Contacts.GetContact(ctx, org.OrgID)
	if err != nil {
		return entities.Contact{}, err
	}
	contact.Email = strings.TrimSpace(cmd.Email)
	contact.Phone = strings.TrimSpace(cmd.Phone)
	contact.PhoneExtension = strings.TrimSpace(cmd.PhoneExtension)
	if !contact.ValidateBasics() {
		return entities.Contact{}, domainerrors.ErrInvalidContactInput
	}
	contact.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Contacts.UpdateContact(ctx, contact); err != nil {
		return entities.Contact{}, err
	}

	logger.Info("contact updated",
		"event", "contact_updated",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", org.OrgID,
	)
	return contact, nil
}
