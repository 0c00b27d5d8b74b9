package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
	"keystone/internal/shared/events"
	"keystone/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the account repository,
// notification outbox, and registry ports. It is intended for tests and
// local development wiring.
type Store struct {
	mu sync.RWMutex

	orgs         map[string]entities.Org
	memberships  map[string]entities.Membership
	affiliations map[string]entities.Affiliation
	contacts     map[string]entities.Contact
	settings     map[string]entities.PaymentSettings
	invitations  map[string]entities.Invitation

	notifications map[string]notificationRow
	passcodes     map[string]string
}

type notificationRow struct {
	outbox.Message
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		orgs:          make(map[string]entities.Org),
		memberships:   make(map[string]entities.Membership),
		affiliations:  make(map[string]entities.Affiliation),
		contacts:      make(map[string]entities.Contact),
		settings:      make(map[string]entities.PaymentSettings),
		invitations:   make(map[string]entities.Invitation),
		notifications: make(map[string]notificationRow),
		passcodes:     make(map[string]string),
	}
}

func (s *Store) CreateOrg(_ context.Context, org entities.Org, admin entities.Membership, settings entities.PaymentSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orgs {
		if existing.Status == entities.OrgStatusActive && strings.EqualFold(existing.Name, org.Name) {
			return domainerrors.ErrOrgNameTaken
		}
	}
	for _, existing := range s.memberships {
		if existing.OrgID == admin.OrgID && existing.UserID == admin.UserID &&
			existing.Status != entities.MembershipStatusInactive && existing.Status != entities.MembershipStatusRejected {
			return domainerrors.ErrDuplicateMembership
		}
	}

	s.orgs[org.OrgID] = org
	s.memberships[admin.MembershipID] = admin
	s.settings[settings.OrgID] = settings
	return nil
}

func (s *Store) GetOrg(_ context.Context, orgID string) (entities.Org, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[strings.TrimSpace(orgID)]
	if !ok {
		return entities.Org{}, domainerrors.ErrOrgNotFound
	}
	return org, nil
}

func (s *Store) UpdateOrg(_ context.Context, org entities.Org) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[org.OrgID]; !ok {
		return domainerrors.ErrOrgNotFound
	}
	for id, existing := range s.orgs {
		if id != org.OrgID && existing.Status == entities.OrgStatusActive && strings.EqualFold(existing.Name, org.Name) {
			return domainerrors.ErrOrgNameTaken
		}
	}
	s.orgs[org.OrgID] = org
	return nil
}

func (s *Store) SearchOrgs(_ context.Context, filter ports.OrgFilter) ([]entities.Org, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	affiliatedOrgs := make(map[string]bool)
	if filter.BusinessIdentifier != "" {
		for _, affiliation := range s.affiliations {
			if affiliation.BusinessIdentifier == filter.BusinessIdentifier {
				affiliatedOrgs[affiliation.OrgID] = true
			}
		}
	}

	items := make([]entities.Org, 0)
	for _, org := range s.orgs {
		if org.Status != entities.OrgStatusActive {
			continue
		}
		if filter.BusinessIdentifier != "" && !affiliatedOrgs[org.OrgID] {
			continue
		}
		if filter.Name != "" && !strings.EqualFold(org.Name, filter.Name) {
			continue
		}
		if filter.OrgType != "" && org.OrgType != filter.OrgType {
			continue
		}
		items = append(items, org)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) DeactivateOrg(_ context.Context, orgID string, now time.Time) (entities.Org, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[strings.TrimSpace(orgID)]
	if !ok {
		return entities.Org{}, domainerrors.ErrOrgNotFound
	}
	for _, membership := range s.memberships {
		if membership.OrgID == org.OrgID && membership.Status == entities.MembershipStatusActive {
			return entities.Org{}, domainerrors.ErrOrgHasActiveMembers
		}
	}
	for _, affiliation := range s.affiliations {
		if affiliation.OrgID == org.OrgID {
			return entities.Org{}, domainerrors.ErrOrgHasAffiliations
		}
	}

	org.Status = entities.OrgStatusInactive
	org.UpdatedAt = now.UTC()
	s.orgs[org.OrgID] = org
	return org, nil
}

func (s *Store) GetMembership(_ context.Context, membershipID string) (entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	membership, ok := s.memberships[strings.TrimSpace(membershipID)]
	if !ok {
		return entities.Membership{}, domainerrors.ErrMembershipNotFound
	}
	return membership, nil
}

func (s *Store) GetMembershipByOrgAndUser(_ context.Context, orgID, userID string) (entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *entities.Membership
	for _, membership := range s.memberships {
		if membership.OrgID != strings.TrimSpace(orgID) || membership.UserID != strings.TrimSpace(userID) {
			continue
		}
		candidate := membership
		if found == nil || candidate.CreatedAt.After(found.CreatedAt) {
			found = &candidate
		}
	}
	if found == nil {
		return entities.Membership{}, domainerrors.ErrMembershipNotFound
	}
	return *found, nil
}

func (s *Store) ListMemberships(_ context.Context, orgID string, filter ports.MembershipFilter) ([]entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Membership, 0)
	for _, membership := range s.memberships {
		if membership.OrgID != strings.TrimSpace(orgID) {
			continue
		}
		if filter.Status != "" && membership.Status != filter.Status {
			continue
		}
		if len(filter.Roles) > 0 && !containsRole(filter.Roles, membership.Role) {
			continue
		}
		items = append(items, membership)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateMembership(_ context.Context, membershipID string, update ports.MembershipUpdate, now time.Time) (entities.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	membership, ok := s.memberships[strings.TrimSpace(membershipID)]
	if !ok {
		return entities.Membership{}, domainerrors.ErrMembershipNotFound
	}
	if update.Role != nil {
		membership.Role = *update.Role
	}
	if update.Status != nil {
		if !entities.CanTransitionStatus(membership.Status, *update.Status) {
			return entities.Membership{}, domainerrors.ErrInvalidTransition
		}
		membership.Status = *update.Status
	}
	membership.UpdatedAt = now.UTC()
	s.memberships[membership.MembershipID] = membership
	return membership, nil
}

func (s *Store) CreateAffiliation(_ context.Context, item entities.Affiliation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.affiliations {
		if existing.OrgID == item.OrgID && existing.BusinessIdentifier == item.BusinessIdentifier {
			return domainerrors.ErrAffiliationExists
		}
	}
	s.affiliations[item.AffiliationID] = item
	return nil
}

func (s *Store) ListAffiliations(_ context.Context, orgID string) ([]entities.Affiliation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Affiliation, 0)
	for _, affiliation := range s.affiliations {
		if affiliation.OrgID == strings.TrimSpace(orgID) {
			items = append(items, affiliation)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) DeleteAffiliation(_ context.Context, orgID, businessIdentifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, affiliation := range s.affiliations {
		if affiliation.OrgID == strings.TrimSpace(orgID) && affiliation.BusinessIdentifier == strings.TrimSpace(businessIdentifier) {
			delete(s.affiliations, id)
			return nil
		}
	}
	return domainerrors.ErrAffiliationNotFound
}

func (s *Store) GetContact(_ context.Context, orgID string) (entities.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[strings.TrimSpace(orgID)]
	if !ok {
		return entities.Contact{}, domainerrors.ErrContactNotFound
	}
	return contact, nil
}

func (s *Store) CreateContact(_ context.Context, item entities.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[item.OrgID]; ok {
		return domainerrors.ErrContactExists
	}
	s.contacts[item.OrgID] = item
	return nil
}

func (s *Store) UpdateContact(_ context.Context, item entities.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[item.OrgID]; !ok {
		return domainerrors.ErrContactNotFound
	}
	s.contacts[item.OrgID] = item
	return nil
}

func (s *Store) DeleteContact(_ context.Context, orgID string) (entities.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[strings.TrimSpace(orgID)]
	if !ok {
		return entities.Contact{}, domainerrors.ErrContactNotFound
	}
	delete(s.contacts, strings.TrimSpace(orgID))
	return contact, nil
}

func (s *Store) GetPaymentSettings(_ context.Context, orgID string) (entities.PaymentSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[strings.TrimSpace(orgID)]
	if !ok {
		return entities.PaymentSettings{}, domainerrors.ErrPaymentSettingsNotFound
	}
	return settings, nil
}

func (s *Store) ListInvitations(_ context.Context, orgID string, status entities.InvitationStatus) ([]entities.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Invitation, 0)
	for _, invitation := range s.invitations {
		if invitation.OrgID != strings.TrimSpace(orgID) {
			continue
		}
		if status != "" && invitation.Status != status {
			continue
		}
		items = append(items, invitation)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SentAt.After(items[j].SentAt)
	})
	return items, nil
}

func (s *Store) AppendNotification(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[envelope.EventID]; ok {
		return nil
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.notifications[envelope.EventID] = notificationRow{
		Message: outbox.Message{
			ID:        envelope.EventID,
			EventType: envelope.EventType,
			Payload:   payload,
			Status:    outbox.StatusPending,
			CreatedAt: envelope.OccurredAtUTC.UTC(),
		},
	}
	return nil
}

func (s *Store) ListPendingNotifications(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]outbox.Message, 0)
	for _, row := range s.notifications {
		if row.Status == outbox.StatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkNotificationPublished(_ context.Context, notificationID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return nil
	}
	published := publishedAt.UTC()
	row.Status = outbox.StatusPublished
	row.PublishedAt = &published
	s.notifications[strings.TrimSpace(notificationID)] = row
	return nil
}

// ValidatePasscode checks against the seeded passcode table; unseeded
// identifiers always fail.
func (s *Store) ValidatePasscode(_ context.Context, businessIdentifier, passcode string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expected, ok := s.passcodes[strings.TrimSpace(businessIdentifier)]
	if !ok || expected != strings.TrimSpace(passcode) {
		return domainerrors.ErrPasscodeInvalid
	}
	return nil
}

// SeedPasscode registers a registry passcode for tests.
func (s *Store) SeedPasscode(businessIdentifier, passcode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passcodes[strings.TrimSpace(businessIdentifier)] = strings.TrimSpace(passcode)
}

// SeedMembership inserts a membership row directly, bypassing invariants.
func (s *Store) SeedMembership(membership entities.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[membership.MembershipID] = membership
}

// SeedInvitation inserts an invitation row directly.
func (s *Store) SeedInvitation(invitation entities.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations[invitation.InvitationID] = invitation
}

// PendingNotificationCount reports outstanding outbox rows for assertions.
func (s *Store) PendingNotificationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, row := range s.notifications {
		if row.Status == outbox.StatusPending {
			count++
		}
	}
	return count
}

// Now satisfies the clock port.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID satisfies the id-generator port.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func containsRole(roles []entities.MembershipRole, role entities.MembershipRole) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
