package ports

import (
	"context"
	"time"

	"keystone/contexts/account-management/account-service/domain/entities"
	"keystone/internal/shared/events"
	"keystone/internal/shared/outbox"
)

// Action vocabulary passed to the access decider. Mirrors the
// identity-access policy vocabulary; both sides treat these as a wire
// contract.
const (
	ActionCreateOrg          = "create_org"
	ActionSearchOrgs         = "search_orgs"
	ActionViewOrg            = "view_org"
	ActionUpdateOrg          = "update_org"
	ActionChangeOrgType      = "change_org_type"
	ActionDeactivateOrg      = "deactivate_org"
	ActionManageMembers      = "manage_members"
	ActionManageAffiliations = "manage_affiliations"
	ActionManageContacts     = "manage_contacts"
)

// Elevated platform roles. Callers holding one of these bypass the
// org-membership requirement on reads and member management.
const (
	RoleStaff      = "STAFF"
	RoleStaffAdmin = "STAFF_ADMIN"
	RoleSystem     = "SYSTEM"
)

// HasElevatedRole reports whether any caller role is a platform staff or
// system role.
func HasElevatedRole(roles []string) bool {
	for _, role := range roles {
		switch role {
		case RoleStaff, RoleStaffAdmin, RoleSystem:
			return true
		}
	}
	return false
}

// AccessDecider answers whether caller roles permit an action on an org of
// the given access type. Returns nil when allowed.
type AccessDecider interface {
	Decide(roles []string, action string, accessType string) error
}

type OrgFilter struct {
	BusinessIdentifier string
	Name               string
	OrgType            entities.OrgType
}

type OrgRepository interface {
	// CreateOrg persists the org, its creator's admin membership, and the
	// initial payment settings in one transaction.
	CreateOrg(ctx context.Context, org entities.Org, admin entities.Membership, settings entities.PaymentSettings) error
	GetOrg(ctx context.Context, orgID string) (entities.Org, error)
	UpdateOrg(ctx context.Context, org entities.Org) error
	SearchOrgs(ctx context.Context, filter OrgFilter) ([]entities.Org, error)
	// DeactivateOrg soft-deletes the org after verifying, under a row lock,
	// that no active memberships or affiliations remain.
	DeactivateOrg(ctx context.Context, orgID string, now time.Time) (entities.Org, error)
}

type MembershipFilter struct {
	Status entities.MembershipStatus
	Roles  []entities.MembershipRole
}

type MembershipUpdate struct {
	Role   *entities.MembershipRole
	Status *entities.MembershipStatus
}

type MembershipRepository interface {
	GetMembership(ctx context.Context, membershipID string) (entities.Membership, error)
	GetMembershipByOrgAndUser(ctx context.Context, orgID, userID string) (entities.Membership, error)
	ListMemberships(ctx context.Context, orgID string, filter MembershipFilter) ([]entities.Membership, error)
	// UpdateMembership applies the role/status change under a row lock and
	// re-checks the status transition table before writing.
	UpdateMembership(ctx context.Context, membershipID string, update MembershipUpdate, now time.Time) (entities.Membership, error)
}

type AffiliationRepository interface {
	CreateAffiliation(ctx context.Context, item entities.Affiliation) error
	ListAffiliations(ctx context.Context, orgID string) ([]entities.Affiliation, error)
	DeleteAffiliation(ctx context.Context, orgID, businessIdentifier string) error
}

type ContactRepository interface {
	GetContact(ctx context.Context, orgID string) (entities.Contact, error)
	CreateContact(ctx context.Context, item entities.Contact) error
	UpdateContact(ctx context.Context, item entities.Contact) error
	DeleteContact(ctx context.Context, orgID string) (entities.Contact, error)
}

type PaymentSettingsRepository interface {
	GetPaymentSettings(ctx context.Context, orgID string) (entities.PaymentSettings, error)
}

type InvitationRepository interface {
	ListInvitations(ctx context.Context, orgID string, status entities.InvitationStatus) ([]entities.Invitation, error)
}

// NotificationEvent describes a membership change worth telling the user
// about. Dispatch is fire-and-forget: failures never roll back the mutation.
type NotificationEvent struct {
	EventID      string
	EventType    string
	OrgID        string
	MembershipID string
	UserID       string
	OccurredAt   time.Time
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event NotificationEvent) error
}

type NotificationOutbox interface {
	AppendNotification(ctx context.Context, envelope events.Envelope) error
	ListPendingNotifications(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkNotificationPublished(ctx context.Context, notificationID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, events.Envelope) error,
	) error
}

// EntityRegistry is the external business registry used to validate
// affiliation passcodes. Calls must respect ctx deadlines.
type EntityRegistry interface {
	ValidatePasscode(ctx context.Context, businessIdentifier, passcode string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
