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

type UpdateOrgCommand struct {
	OrgID      string
	Name       string
	ActorID    string
	ActorRoles []string
}

type UpdateOrgUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Access      ports.AccessDecider
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc UpdateOrgUseCase) Execute(ctx context.Context, cmd UpdateOrgCommand) (entities.Org, error) {
	logger := application.ResolveLogger(uc.Logger)
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(cmd.OrgID))
	if err != nil {
		return entities.Org{}, err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionUpdateOrg, string(org.AccessType)); err != nil {
		return entities.Org{}, err
	}
	if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, cmd.ActorID, cmd.ActorRoles); err != nil {
		return entities.Org{}, err
	}

	// Partial update: a blank name leaves the current one in place.
	if name := strings.TrimSpace(cmd.Name); name != "" {
		org.Name = name
	}
	if !org.ValidateBasics() {
		return entities.Org{}, domainerrors.ErrInvalidOrgInput
	}
	org.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Orgs.UpdateOrg(ctx, org); err != nil {
		return entities.Org{}, err
	}

	logger.Info("organization updated",
		"event", "org_updated",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", org.OrgID,
	)
	return org, nil
}
