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

type AddContactCommand struct {
	OrgID          string
	Email          string
	Phone          string
	PhoneExtension string
	ActorID        string
	ActorRoles     []string
}

type AddContactUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Contacts    ports.ContactRepository
	Access      ports.AccessDecider
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc AddContactUseCase) Execute(ctx context.Context, cmd AddContactCommand) (entities.Contact, error) {
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

	now := uc.Clock.Now().UTC()
	contact := entities.Contact{
		OrgID:          org.OrgID,
		Email:          strings.TrimSpace(cmd.Email),
		Phone:          strings.TrimSpace(cmd.Phone),
		PhoneExtension: strings.TrimSpace(cmd.PhoneExtension),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !contact.ValidateBasics() {
		return entities.Contact{}, domainerrors.ErrInvalidContactInput
	}

	contactID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Contact{}, err
	}
	contact.ContactID = contactID
	if err := uc.Contacts.CreateContact(ctx, contact); err != nil {
		return entities.Contact{}, err
	}

	logger.Info("contact added",
		"event", "contact_added",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", org.OrgID,
	)
	return contact, nil
}
