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

type ChangeOrgTypeCommand struct {
	OrgID      string
	Direction  string
	ActorID    string
	ActorRoles []string
}

type ChangeOrgTypeUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Access      ports.AccessDecider
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc ChangeOrgTypeUseCase) Execute(ctx context.Context, cmd ChangeOrgTypeCommand) (entities.Org, error) {
	logger := application.ResolveLogger(uc.Logger)
	direction := entities.ChangeDirection(strings.TrimSpace(cmd.Direction))
	if !entities.IsSupportedChangeDirection(direction) {
		return entities.Org{}, domainerrors.ErrInvalidOrgInput
	}

	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(cmd.OrgID))
	if err != nil {
		return entities.Org{}, err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionChangeOrgType, string(org.AccessType)); err != nil {
		return entities.Org{}, err
	}
	if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, cmd.ActorID, cmd.ActorRoles); err != nil {
		return entities.Org{}, err
	}

	from := org.OrgType
	next, ok := entities.NextOrgType(org.OrgType, direction)
	if !ok {
		return entities.Org{}, domainerrors.ErrInvalidTransition
	}
	org.OrgType = next
	org.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Orgs.UpdateOrg(ctx, org); err != nil {
		return entities.Org{}, err
	}

	logger.Info("organization type changed",
		"event", "org_type_changed",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", org.OrgID,
		"from_type", string(from),
		"to_type", string(next),
	)
	return org, nil
}
