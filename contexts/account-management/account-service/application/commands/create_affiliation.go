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

type CreateAffiliationCommand struct {
	OrgID              string
	BusinessIdentifier string
	EntityName         string
	Passcode           string
	ActorID            string
	ActorRoles         []string
}

type CreateAffiliationUseCase struct {
	Orgs         ports.OrgRepository
	Memberships  ports.MembershipRepository
	Affiliations ports.AffiliationRepository
	Registry     ports.EntityRegistry
	Access       ports.AccessDecider
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (uc CreateAffiliationUseCase) Execute(ctx context.Context, cmd CreateAffiliationCommand) (entities.Affiliation, error) {
	logger := application.ResolveLogger(uc.Logger)
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(cmd.OrgID))
	if err != nil {
		return entities.Affiliation{}, err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionManageAffiliations, string(org.AccessType)); err != nil {
		return entities.Affiliation{}, err
	}
	if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, cmd.ActorID, cmd.ActorRoles); err != nil {
		return entities.Affiliation{}, err
	}

	affiliation := entities.Affiliation{
		OrgID:              org.OrgID,
		BusinessIdentifier: strings.TrimSpace(cmd.BusinessIdentifier),
		EntityName:         strings.TrimSpace(cmd.EntityName),
	}
	if !affiliation.ValidateBasics() {
		return entities.Affiliation{}, domainerrors.ErrInvalidAffiliationInput
	}

	// The registry call carries its own deadline inside the adapter; a
	// timeout or mismatch surfaces as ErrPasscodeInvalid.
	if err := uc.Registry.ValidatePasscode(ctx, affiliation.BusinessIdentifier, strings.TrimSpace(cmd.Passcode)); err != nil {
		return entities.Affiliation{}, err
	}

	affiliationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Affiliation{}, err
	}
	affiliation.AffiliationID = affiliationID
	affiliation.CreatedAt = uc.Clock.Now().UTC()
	if err := uc.Affiliations.CreateAffiliation(ctx, affiliation); err != nil {
		return entities.Affiliation{}, err
	}

	logger.Info("affiliation created",
		"event", "affiliation_created",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", affiliation.OrgID,
		"business_identifier", affiliation.BusinessIdentifier,
	)
	return affiliation, nil
}
