package commands

import (
	"context"
	"log/slog"
	"strings"

	application "keystone/contexts/account-management/account-service/application"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

type DeleteAffiliationCommand struct {
	OrgID              string
	BusinessIdentifier string
	ActorID            string
	ActorRoles         []string
}

type DeleteAffiliationUseCase struct {
	Orgs         ports.OrgRepository
	Memberships  ports.MembershipRepository
	Affiliations ports.AffiliationRepository
	Access       ports.AccessDecider
	Logger       *slog.Logger
}

func (uc DeleteAffiliationUseCase) Execute(ctx context.Context, cmd DeleteAffiliationCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(cmd.OrgID))
	if err != nil {
		return err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionManageAffiliations, string(org.AccessType)); err != nil {
		return err
	}
	if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, cmd.ActorID, cmd.ActorRoles); err != nil {
		return err
	}

	identifier := strings.TrimSpace(cmd.BusinessIdentifier)
	if identifier == "" {
		return domainerrors.ErrInvalidAffiliationInput
	}
	if err := uc.Affiliations.DeleteAffiliation(ctx, org.OrgID, identifier); err != nil {
		return err
	}

	logger.Info("affiliation deleted",
		"event", "affiliation_deleted",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", org.OrgID,
		"business_identifier", identifier,
	)
	return nil
}
