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

type CreateOrgCommand struct {
	Name          string
	AccessType    string
	OrgType       string
	ActorID       string
	ActorUsername string
	ActorRoles    []string
}

type CreateOrgUseCase struct {
	Orgs   ports.OrgRepository
	Access ports.AccessDecider
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type CreateOrgResult struct {
	Org             entities.Org
	AdminMembership entities.Membership
	PaymentSettings entities.PaymentSettings
}

func (uc CreateOrgUseCase) Execute(ctx context.Context, cmd CreateOrgCommand) (CreateOrgResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return CreateOrgResult{}, domainerrors.ErrInvalidOrgInput
	}

	now := uc.Clock.Now().UTC()
	org := entities.Org{
		Name:       strings.TrimSpace(cmd.Name),
		AccessType: entities.AccessType(strings.TrimSpace(cmd.AccessType)),
		OrgType:    entities.OrgType(strings.TrimSpace(cmd.OrgType)),
		Status:     entities.OrgStatusActive,
		CreatedBy:  strings.TrimSpace(cmd.ActorID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if org.AccessType == "" {
		org.AccessType = entities.AccessTypeRegular
	}
	if org.OrgType == "" {
		org.OrgType = entities.OrgTypeBasic
	}
	if !org.ValidateBasics() {
		return CreateOrgResult{}, domainerrors.ErrInvalidOrgInput
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionCreateOrg, string(org.AccessType)); err != nil {
		return CreateOrgResult{}, err
	}

	orgID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateOrgResult{}, err
	}
	membershipID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateOrgResult{}, err
	}
	settingsID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateOrgResult{}, err
	}
	org.OrgID = orgID

	admin := entities.Membership{
		MembershipID: membershipID,
		OrgID:        orgID,
		UserID:       org.CreatedBy,
		Username:     strings.TrimSpace(cmd.ActorUsername),
		Role:         entities.MembershipRoleAdmin,
		Status:       entities.MembershipStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	settings := entities.PaymentSettings{
		SettingsID:    settingsID,
		OrgID:         orgID,
		PaymentMethod: entities.DefaultPaymentMethod(org.OrgType),
		CreatedAt:     now,
	}

	if err := uc.Orgs.CreateOrg(ctx, org, admin, settings); err != nil {
		return CreateOrgResult{}, err
	}

	logger.Info("organization created",
		"event", "org_created",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", org.OrgID,
		"access_type", string(org.AccessType),
		"org_type", string(org.OrgType),
	)
	return CreateOrgResult{Org: org, AdminMembership: admin, PaymentSettings: settings}, nil
}
