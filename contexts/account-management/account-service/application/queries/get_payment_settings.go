package queries

import (
	"context"
	"log/slog"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	"keystone/contexts/account-management/account-service/ports"
)

type GetPaymentSettingsQuery struct {
	OrgID      string
	ActorID    string
	ActorRoles []string
}

type GetPaymentSettingsUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Settings    ports.PaymentSettingsRepository
	Access      ports.AccessDecider
	Logger      *slog.Logger
}

func (uc GetPaymentSettingsUseCase) Execute(ctx context.Context, query GetPaymentSettingsQuery) (entities.PaymentSettings, error) {
	org, err := uc.Orgs.GetOrg(ctx, strings.TrimSpace(query.OrgID))
	if err != nil {
		return entities.PaymentSettings{}, err
	}
	if err := uc.Access.Decide(query.ActorRoles, ports.ActionViewOrg, string(org.AccessType)); err != nil {
		return entities.PaymentSettings{}, err
	}
	if err := requireOrgMember(ctx, uc.Memberships, org.OrgID, query.ActorID, query.ActorRoles); err != nil {
		return entities.PaymentSettings{}, err
	}
	return uc.Settings.GetPaymentSettings(ctx, org.OrgID)
}
