package commands

import (
	"context"
	"log/slog"
	"strings"

	application "keystone/contexts/account-management/account-service/application"
	"keystone/contexts/account-management/account-service/domain/entities"
	"keystone/contexts/account-management/account-service/ports"
)

type DeactivateOrgCommand struct {
	OrgID      string
	ActorID    string
	ActorRoles []string
}

type DeactivateOrgUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Access      ports.AccessDecider
	Clock       ports.Clock
	Logger      *slog.Logger
}

// Execute soft-deletes the org. The repository verifies under a row lock
// that no active memberships or affiliations remain before flipping status.
func (uc DeactivateOrgUseCase) Execute(ctx context.Context, cmd DeactivateOrgCommand) (entities.Org, error) {
	logger := application.ResolveLogger(uc.Logger)
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(cmd.OrgID))
	if err != nil {
		return entities.Org{}, err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionDeactivateOrg, string(org.AccessType)); err != nil {
		return entities.Org{}, err
	}
	if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, cmd.ActorID, cmd.ActorRoles); err != nil {
		return entities.Org{}, err
	}

	now := uc.Clock.Now().UTC()
	updated, err := uc.Orgs.DeactivateOrg(ctx, org.OrgID, now)
	if err != nil {
		return entities.Org{}, err
	}

	logger.Info("organization deactivated",
		"event", "org_deactivated",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", updated.OrgID,
	)
	return updated, nil
}
