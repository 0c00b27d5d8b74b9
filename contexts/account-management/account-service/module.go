package accountservice

import (
	"log/slog"

	eventsadapter "keystone/contexts/account-management/account-service/adapters/events"
	httpadapter "keystone/contexts/account-management/account-service/adapters/http"
	"keystone/contexts/account-management/account-service/adapters/memory"
	"keystone/contexts/account-management/account-service/application/commands"
	"keystone/contexts/account-management/account-service/application/queries"
	"keystone/contexts/account-management/account-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Orgs         ports.OrgRepository
	Memberships  ports.MembershipRepository
	Affiliations ports.AffiliationRepository
	Contacts     ports.ContactRepository
	Settings     ports.PaymentSettingsRepository
	Invitations  ports.InvitationRepository
	Registry     ports.EntityRegistry
	Access       ports.AccessDecider
	Notifier     ports.NotificationDispatcher
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createOrg := commands.CreateOrgUseCase{
		Orgs:   deps.Orgs,
		Access: deps.Access,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	updateOrg := commands.UpdateOrgUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Access:      deps.Access,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	changeOrgType := commands.ChangeOrgTypeUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Access:      deps.Access,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	deactivateOrg := commands.DeactivateOrgUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Access:      deps.Access,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	updateMembership := commands.UpdateMembershipUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Access:      deps.Access,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		Logger:      deps.Logger,
	}
	deactivateMembership := commands.DeactivateMembershipUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Access:      deps.Access,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	createAffiliation := commands.CreateAffiliationUseCase{
		Orgs:         deps.Orgs,
		Memberships:  deps.Memberships,
		Affiliations: deps.Affiliations,
		Registry:     deps.Registry,
		Access:       deps.Access,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	deleteAffiliation := commands.DeleteAffiliationUseCase{
		Orgs:         deps.Orgs,
		Memberships:  deps.Memberships,
		Affiliations: deps.Affiliations,
		Access:       deps.Access,
		Logger:       deps.Logger,
	}
	addContact := commands.AddContactUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Contacts:    deps.Contacts,
		Access:      deps.Access,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		Logger:      deps.Logger,
	}
	updateContact := commands.UpdateContactUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Contacts:    deps.Contacts,
		Access:      deps.Access,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	deleteContact := commands.DeleteContactUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Contacts:    deps.Contacts,
		Access:      deps.Access,
		Logger:      deps.Logger,
	}

	getOrg := queries.GetOrgUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Access:      deps.Access,
		Logger:      deps.Logger,
	}
	searchOrgs := queries.SearchOrgsUseCase{
		Orgs:   deps.Orgs,
		Access: deps.Access,
		Logger: deps.Logger,
	}
	listMembers := queries.ListMembersUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Access:      deps.Access,
		Logger:      deps.Logger,
	}
	listAffiliations := queries.ListAffiliationsUseCase{
		Orgs:         deps.Orgs,
		Memberships:  deps.Memberships,
		Affiliations: deps.Affiliations,
		Access:       deps.Access,
		Logger:       deps.Logger,
	}
	getContact := queries.GetContactUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Contacts:    deps.Contacts,
		Access:      deps.Access,
		Logger:      deps.Logger,
	}
	getPaymentSettings := queries.GetPaymentSettingsUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Settings:    deps.Settings,
		Access:      deps.Access,
		Logger:      deps.Logger,
	}
	listInvitations := queries.ListInvitationsUseCase{
		Orgs:        deps.Orgs,
		Memberships: deps.Memberships,
		Invitations: deps.Invitations,
		Access:      deps.Access,
		Logger:      deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateOrg:            createOrg,
			UpdateOrg:            updateOrg,
			ChangeOrgType:        changeOrgType,
			DeactivateOrg:        deactivateOrg,
			UpdateMembership:     updateMembership,
			DeactivateMembership: deactivateMembership,
			CreateAffiliation:    createAffiliation,
			DeleteAffiliation:    deleteAffiliation,
			AddContact:           addContact,
			UpdateContact:        updateContact,
			DeleteContact:        deleteContact,
			GetOrg:               getOrg,
			SearchOrgs:           searchOrgs,
			ListMembers:          listMembers,
			ListAffiliations:     listAffiliations,
			GetContact:           getContact,
			GetPaymentSettings:   getPaymentSettings,
			ListInvitations:      listInvitations,
			Logger:               deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module over the memory store for tests and
// local development.
func NewInMemoryModule(access ports.AccessDecider, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Orgs:         store,
		Memberships:  store,
		Affiliations: store,
		Contacts:     store,
		Settings:     store,
		Invitations:  store,
		Registry:     store,
		Access:       access,
		Notifier:     eventsadapter.NewDispatcher(store, logger),
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
