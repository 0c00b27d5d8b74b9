package queries

import (
	"context"
	"log/slog"
	"strings"

	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

type SearchOrgsQuery struct {
	BusinessIdentifier string
	Name               string
	OrgType            string
	ActorRoles         []string
}

type SearchOrgsUseCase struct {
	Orgs   ports.OrgRepository
	Access ports.AccessDecider
	Logger *slog.Logger
}

func (uc SearchOrgsUseCase) Execute(ctx context.Context, query SearchOrgsQuery) ([]entities.Org, error) {
	if err := uc.Access.Decide(query.ActorRoles, ports.ActionSearchOrgs, ""); err != nil {
		return nil, err
	}

	filter := ports.OrgFilter{
		BusinessIdentifier: strings.TrimSpace(query.BusinessIdentifier),
		Name:               strings.TrimSpace(query.Name),
	}
	if orgType := entities.OrgType(strings.TrimSpace(query.OrgType)); orgType != "" {
		if !entities.IsSupportedOrgType(orgType) {
			return nil, domainerrors.ErrInvalidOrgInput
		}
		filter.OrgType = orgType
	}
	return uc.Orgs.SearchOrgs(ctx, filter)
}
