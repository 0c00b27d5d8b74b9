package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"keystone/contexts/account-management/account-service/application/commands"
	"keystone/contexts/account-management/account-service/application/queries"
	"keystone/contexts/account-management/account-service/domain/entities"
	httptransport "keystone/contexts/account-management/account-service/transport/http"
)

// Actor is the resolved caller identity passed down from the bearer-token
// middleware.
type Actor struct {
	UserID   string
	Username string
	Roles    []string
}

type Handler struct {
	CreateOrg            commands.CreateOrgUseCase
	UpdateOrg            commands.UpdateOrgUseCase
	ChangeOrgType        commands.ChangeOrgTypeUseCase
	DeactivateOrg        commands.DeactivateOrgUseCase
	UpdateMembership     commands.UpdateMembershipUseCase
	DeactivateMembership commands.DeactivateMembershipUseCase
	CreateAffiliation    commands.CreateAffiliationUseCase
	DeleteAffiliation    commands.DeleteAffiliationUseCase
	AddContact           commands.AddContactUseCase
	UpdateContact        commands.UpdateContactUseCase
	DeleteContact        commands.DeleteContactUseCase
	GetOrg               queries.GetOrgUseCase
	SearchOrgs           queries.SearchOrgsUseCase
	ListMembers          queries.ListMembersUseCase
	ListAffiliations     queries.ListAffiliationsUseCase
	GetContact           queries.GetContactUseCase
	GetPaymentSettings   queries.GetPaymentSettingsUseCase
	ListInvitations      queries.ListInvitationsUseCase
	Logger               *slog.Logger
}

// CreateOrgHandler godoc
// @Summary Create organization
// @Description Creates an org with an ACTIVE ADMIN membership for the caller.
// @Tags account-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateOrgRequest true "Org spec"
// @Success 201 {object} httptransport.CreateOrgResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /orgs [post]
func (h Handler) CreateOrgHandler(ctx context.Context, actor Actor, req httptransport.CreateOrgRequest) (httptransport.CreateOrgResponse, error) {
	result, err := h.CreateOrg.Execute(ctx, commands.CreateOrgCommand{
		Name:          req.Name,
		AccessType:    req.AccessType,
		OrgType:       req.OrgType,
		ActorID:       actor.UserID,
		ActorUsername: actor.Username,
		ActorRoles:    actor.Roles,
	})
	if err != nil {
		return httptransport.CreateOrgResponse{}, err
	}
	return httptransport.CreateOrgResponse{
		Org:             mapOrg(result.Org),
		AdminMembership: mapMembership(result.AdminMembership),
	}, nil
}

// SearchOrgsHandler godoc
// @Summary Search organizations
// @Description Filters active orgs by affiliation, name, and type.
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param affiliation query string false "Business identifier"
// @Param name query string false "Exact org name"
// @Param type query string false "Org type"
// @Success 200 {object} httptransport.SearchOrgsResponse
// @Success 204 "Name filter matched nothing"
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /orgs [get]
func (h Handler) SearchOrgsHandler(ctx context.Context, actor Actor, businessIdentifier, name, orgType string) (httptransport.SearchOrgsResponse, error) {
	items, err := h.SearchOrgs.Execute(ctx, queries.SearchOrgsQuery{
		BusinessIdentifier: businessIdentifier,
		Name:               name,
		OrgType:            orgType,
		ActorRoles:         actor.Roles,
	})
	if err != nil {
		return httptransport.SearchOrgsResponse{}, err
	}
	result := make([]httptransport.OrgDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapOrg(item))
	}
	return httptransport.SearchOrgsResponse{Items: result}, nil
}

// GetOrgHandler godoc
// @Summary Get organization
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Success 200 {object} httptransport.GetOrgResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id} [get]
func (h Handler) GetOrgHandler(ctx context.Context, actor Actor, orgID string) (httptransport.GetOrgResponse, error) {
	org, err := h.GetOrg.Execute(ctx, queries.GetOrgQuery{
		OrgID:      orgID,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	if err != nil {
		return httptransport.GetOrgResponse{}, err
	}
	return httptransport.GetOrgResponse{Org: mapOrg(org)}, nil
}

// UpdateOrgHandler godoc
// @Summary Update organization or change its type
// @Description With action=UPGRADE|DOWNGRADE moves the org along the type ladder; otherwise renames it.
// @Tags account-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param action query string false "UPGRADE or DOWNGRADE"
// @Param request body httptransport.UpdateOrgRequest false "Org update"
// @Success 200 {object} httptransport.GetOrgResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id} [put]
func (h Handler) UpdateOrgHandler(ctx context.Context, actor Actor, orgID, action string, req httptransport.UpdateOrgRequest) (httptransport.GetOrgResponse, error) {
	var (
		org entities.Org
		err error
	)
	if action != "" {
		org, err = h.ChangeOrgType.Execute(ctx, commands.ChangeOrgTypeCommand{
			OrgID:      orgID,
			Direction:  action,
			ActorID:    actor.UserID,
			ActorRoles: actor.Roles,
		})
	} else {
		org, err = h.UpdateOrg.Execute(ctx, commands.UpdateOrgCommand{
			OrgID:      orgID,
			Name:       req.Name,
			ActorID:    actor.UserID,
			ActorRoles: actor.Roles,
		})
	}
	if err != nil {
		return httptransport.GetOrgResponse{}, err
	}
	return httptransport.GetOrgResponse{Org: mapOrg(org)}, nil
}

// DeactivateOrgHandler godoc
// @Summary Deactivate organization
// @Description Soft-deletes the org; fails while active members or affiliations remain.
// @Tags account-service
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Success 204
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id} [delete]
func (h Handler) DeactivateOrgHandler(ctx context.Context, actor Actor, orgID string) error {
	_, err := h.DeactivateOrg.Execute(ctx, commands.DeactivateOrgCommand{
		OrgID:      orgID,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	return err
}

// ListMembersHandler godoc
// @Summary List org members
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param status query string false "Membership status"
// @Param roles query []string false "Membership roles"
// @Success 200 {object} httptransport.ListMembersResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/members [get]
func (h Handler) ListMembersHandler(ctx context.Context, actor Actor, orgID, status string, roles []string) (httptransport.ListMembersResponse, error) {
	items, err := h.ListMembers.Execute(ctx, queries.ListMembersQuery{
		OrgID:      orgID,
		Status:     status,
		Roles:      roles,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	if err != nil {
		return httptransport.ListMembersResponse{}, err
	}
	result := make([]httptransport.MembershipDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapMembership(item))
	}
	return httptransport.ListMembersResponse{Items: result}, nil
}

// UpdateMembershipHandler godoc
// @Summary Update member role or status
// @Description Applies the membership transition table and notifies the member.
// @Tags account-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param membership_id path string true "Membership id"
// @Param request body httptransport.UpdateMembershipRequest true "Role/status patch"
// @Success 200 {object} httptransport.MembershipResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/members/{membership_id} [patch]
func (h Handler) UpdateMembershipHandler(ctx context.Context, actor Actor, orgID, membershipID string, req httptransport.UpdateMembershipRequest) (httptransport.MembershipResponse, error) {
	membership, err := h.UpdateMembership.Execute(ctx, commands.UpdateMembershipCommand{
		OrgID:        orgID,
		MembershipID: membershipID,
		NewRole:      req.Role,
		NewStatus:    req.Status,
		ActorID:      actor.UserID,
		ActorRoles:   actor.Roles,
	})
	if err != nil {
		return httptransport.MembershipResponse{}, err
	}
	return httptransport.MembershipResponse{Membership: mapMembership(membership)}, nil
}

// DeactivateMembershipHandler godoc
// @Summary Remove member from org
// @Tags account-service
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param membership_id path string true "Membership id"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/members/{membership_id} [delete]
func (h Handler) DeactivateMembershipHandler(ctx context.Context, actor Actor, orgID, membershipID string) error {
	_, err := h.DeactivateMembership.Execute(ctx, commands.DeactivateMembershipCommand{
		OrgID:        orgID,
		MembershipID: membershipID,
		ActorID:      actor.UserID,
		ActorRoles:   actor.Roles,
	})
	return err
}

// CreateAffiliationHandler godoc
// @Summary Affiliate org with a business entity
// @Description Validates the passcode against the business registry first.
// @Tags account-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param request body httptransport.CreateAffiliationRequest true "Affiliation spec"
// @Success 201 {object} httptransport.AffiliationResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/affiliations [post]
func (h Handler) CreateAffiliationHandler(ctx context.Context, actor Actor, orgID string, req httptransport.CreateAffiliationRequest) (httptransport.AffiliationResponse, error) {
	affiliation, err := h.CreateAffiliation.Execute(ctx, commands.CreateAffiliationCommand{
		OrgID:              orgID,
		BusinessIdentifier: req.BusinessIdentifier,
		EntityName:         req.EntityName,
		Passcode:           req.Passcode,
		ActorID:            actor.UserID,
		ActorRoles:         actor.Roles,
	})
	if err != nil {
		return httptransport.AffiliationResponse{}, err
	}
	return httptransport.AffiliationResponse{Affiliation: mapAffiliation(affiliation)}, nil
}

// ListAffiliationsHandler godoc
// @Summary List org affiliations
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Success 200 {object} httptransport.ListAffiliationsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/affiliations [get]
func (h Handler) ListAffiliationsHandler(ctx context.Context, actor Actor, orgID string) (httptransport.ListAffiliationsResponse, error) {
	items, err := h.ListAffiliations.Execute(ctx, queries.ListAffiliationsQuery{
		OrgID:      orgID,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	if err != nil {
		return httptransport.ListAffiliationsResponse{}, err
	}
	result := make([]httptransport.AffiliationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapAffiliation(item))
	}
	return httptransport.ListAffiliationsResponse{Items: result}, nil
}

// DeleteAffiliationHandler godoc
// @Summary Remove an affiliation
// @Tags account-service
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param business_identifier path string true "Business identifier"
// @Success 204
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/affiliations/{business_identifier} [delete]
func (h Handler) DeleteAffiliationHandler(ctx context.Context, actor Actor, orgID, businessIdentifier string) error {
	return h.DeleteAffiliation.Execute(ctx, commands.DeleteAffiliationCommand{
		OrgID:              orgID,
		BusinessIdentifier: businessIdentifier,
		ActorID:            actor.UserID,
		ActorRoles:         actor.Roles,
	})
}

// GetContactHandler godoc
// @Summary Get org contact
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Success 200 {object} httptransport.ContactResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/contacts [get]
func (h Handler) GetContactHandler(ctx context.Context, actor Actor, orgID string) (httptransport.ContactResponse, error) {
	contact, err := h.GetContact.Execute(ctx, queries.GetContactQuery{
		OrgID:      orgID,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	if err != nil {
		return httptransport.ContactResponse{}, err
	}
	return httptransport.ContactResponse{Contact: mapContact(contact)}, nil
}

// AddContactHandler godoc
// @Summary Add org contact
// @Tags account-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param request body httptransport.ContactRequest true "Contact"
// @Success 201 {object} httptransport.ContactResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/contacts [post]
func (h Handler) AddContactHandler(ctx context.Context, actor Actor, orgID string, req httptransport.ContactRequest) (httptransport.ContactResponse, error) {
	contact, err := h.AddContact.Execute(ctx, commands.AddContactCommand{
		OrgID:          orgID,
		Email:          req.Email,
		Phone:          req.Phone,
		PhoneExtension: req.PhoneExtension,
		ActorID:        actor.UserID,
		ActorRoles:     actor.Roles,
	})
	if err != nil {
		return httptransport.ContactResponse{}, err
	}
	return httptransport.ContactResponse{Contact: mapContact(contact)}, nil
}

// UpdateContactHandler godoc
// @Summary Update org contact
// @Tags account-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param request body httptransport.ContactRequest true "Contact"
// @Success 200 {object} httptransport.ContactResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/contacts [put]
func (h Handler) UpdateContactHandler(ctx context.Context, actor Actor, orgID string, req httptransport.ContactRequest) (httptransport.ContactResponse, error) {
	contact, err := h.UpdateContact.Execute(ctx, commands.UpdateContactCommand{
		OrgID:          orgID,
		Email:          req.Email,
		Phone:          req.Phone,
		PhoneExtension: req.PhoneExtension,
		ActorID:        actor.UserID,
		ActorRoles:     actor.Roles,
	})
	if err != nil {
		return httptransport.ContactResponse{}, err
	}
	return httptransport.ContactResponse{Contact: mapContact(contact)}, nil
}

// DeleteContactHandler godoc
// @Summary Delete org contact
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Success 200 {object} httptransport.ContactResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/contacts [delete]
func (h Handler) DeleteContactHandler(ctx context.Context, actor Actor, orgID string) (httptransport.ContactResponse, error) {
	removed, err := h.DeleteContact.Execute(ctx, commands.DeleteContactCommand{
		OrgID:      orgID,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	if err != nil {
		return httptransport.ContactResponse{}, err
	}
	return httptransport.ContactResponse{Contact: mapContact(removed)}, nil
}

// GetPaymentSettingsHandler godoc
// @Summary Get org payment settings
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Success 200 {object} httptransport.PaymentSettingsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/payment_settings [get]
func (h Handler) GetPaymentSettingsHandler(ctx context.Context, actor Actor, orgID string) (httptransport.PaymentSettingsResponse, error) {
	settings, err := h.GetPaymentSettings.Execute(ctx, queries.GetPaymentSettingsQuery{
		OrgID:      orgID,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	if err != nil {
		return httptransport.PaymentSettingsResponse{}, err
	}
	return httptransport.PaymentSettingsResponse{
		PaymentSettings: httptransport.PaymentSettingsDTO{
			SettingsID:    settings.SettingsID,
			OrgID:         settings.OrgID,
			PaymentMethod: string(settings.PaymentMethod),
			CreatedAt:     settings.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

// ListInvitationsHandler godoc
// @Summary List org invitations
// @Tags account-service
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Org id"
// @Param status query string false "Invitation status"
// @Success 200 {object} httptransport.ListInvitationsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /orgs/{org_id}/invitations [get]
func (h Handler) ListInvitationsHandler(ctx context.Context, actor Actor, orgID, status string) (httptransport.ListInvitationsResponse, error) {
	items, err := h.ListInvitations.Execute(ctx, queries.ListInvitationsQuery{
		OrgID:      orgID,
		Status:     status,
		ActorID:    actor.UserID,
		ActorRoles: actor.Roles,
	})
	if err != nil {
		return httptransport.ListInvitationsResponse{}, err
	}
	result := make([]httptransport.InvitationDTO, 0, len(items))
	for _, item := range items {
		dto := httptransport.InvitationDTO{
			InvitationID:   item.InvitationID,
			OrgID:          item.OrgID,
			RecipientEmail: item.RecipientEmail,
			SenderID:       item.SenderID,
			Status:         string(item.Status),
			SentAt:         item.SentAt.Format(time.RFC3339),
		}
		if item.ExpiresAt != nil {
			dto.ExpiresAt = item.ExpiresAt.Format(time.RFC3339)
		}
		result = append(result, dto)
	}
	return httptransport.ListInvitationsResponse{Items: result}, nil
}

func mapOrg(item entities.Org) httptransport.OrgDTO {
	return httptransport.OrgDTO{
		OrgID:      item.OrgID,
		Name:       item.Name,
		AccessType: string(item.AccessType),
		OrgType:    string(item.OrgType),
		Status:     string(item.Status),
		CreatedBy:  item.CreatedBy,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapMembership(item entities.Membership) httptransport.MembershipDTO {
	return httptransport.MembershipDTO{
		MembershipID: item.MembershipID,
		OrgID:        item.OrgID,
		UserID:       item.UserID,
		Username:     item.Username,
		Role:         string(item.Role),
		Status:       string(item.Status),
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAffiliation(item entities.Affiliation) httptransport.AffiliationDTO {
	return httptransport.AffiliationDTO{
		AffiliationID:      item.AffiliationID,
		OrgID:              item.OrgID,
		BusinessIdentifier: item.BusinessIdentifier,
		EntityName:         item.EntityName,
		CreatedAt:          item.CreatedAt.Format(time.RFC3339),
	}
}

func mapContact(item entities.Contact) httptransport.ContactDTO {
	return httptransport.ContactDTO{
		ContactID:      item.ContactID,
		OrgID:          item.OrgID,
		Email:          item.Email,
		Phone:          item.Phone,
		PhoneExtension: item.PhoneExtension,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.Format(time.RFC3339),
	}
}
