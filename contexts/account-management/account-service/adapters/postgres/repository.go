package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
	"keystone/internal/shared/events"
	"keystone/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateOrg(ctx context.Context, org entities.Org, admin entities.Membership, settings entities.PaymentSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgRow := orgModelFromEntity(org)
		if err := tx.Create(&orgRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrOrgNameTaken
			}
			return err
		}
		memberRow := membershipModelFromEntity(admin)
		if err := tx.Create(&memberRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateMembership
			}
			return err
		}
		settingsRow := paymentSettingsModelFromEntity(settings)
		return tx.Create(&settingsRow).Error
	})
}

func (r *Repository) GetOrg(ctx context.Context, orgID string) (entities.Org, error) {
	var row orgModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", strings.TrimSpace(orgID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Org{}, domainerrors.ErrOrgNotFound
		}
		return entities.Org{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateOrg(ctx context.Context, org entities.Org) error {
	result := r.db.WithContext(ctx).
		Model(&orgModel{}).
		Where("org_id = ?", strings.TrimSpace(org.OrgID)).
		Updates(map[string]any{
			"name":       strings.TrimSpace(org.Name),
			"org_type":   string(org.OrgType),
			"status":     string(org.Status),
			"updated_at": org.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrOrgNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrgNotFound
	}
	return nil
}

func (r *Repository) SearchOrgs(ctx context.Context, filter ports.OrgFilter) ([]entities.Org, error) {
	tx := r.db.WithContext(ctx).
		Model(&orgModel{}).
		Where("orgs.status = ?", string(entities.OrgStatusActive))
	if filter.BusinessIdentifier != "" {
		tx = tx.Joins("JOIN affiliations ON affiliations.org_id = orgs.org_id").
			Where("affiliations.business_identifier = ?", filter.BusinessIdentifier)
	}
	if filter.Name != "" {
		tx = tx.Where("LOWER(orgs.name) = LOWER(?)", filter.Name)
	}
	if filter.OrgType != "" {
		tx = tx.Where("orgs.org_type = ?", string(filter.OrgType))
	}

	var rows []orgModel
	if err := tx.Order("orgs.created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Org, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeactivateOrg(ctx context.Context, orgID string, now time.Time) (entities.Org, error) {
	var updated entities.Org
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row orgModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("org_id = ?", strings.TrimSpace(orgID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrOrgNotFound
			}
			return err
		}

		var activeMembers int64
		if err := tx.Model(&membershipModel{}).
			Where("org_id = ? AND status = ?", row.OrgID, string(entities.MembershipStatusActive)).
			Count(&activeMembers).
			Error; err != nil {
			return err
		}
		if activeMembers > 0 {
			return domainerrors.ErrOrgHasActiveMembers
		}

		var affiliations int64
		if err := tx.Model(&affiliationModel{}).
			Where("org_id = ?", row.OrgID).
			Count(&affiliations).
			Error; err != nil {
			return err
		}
		if affiliations > 0 {
			return domainerrors.ErrOrgHasAffiliations
		}

		if err := tx.Model(&orgModel{}).
			Where("org_id = ?", row.OrgID).
			Updates(map[string]any{
				"status":     string(entities.OrgStatusInactive),
				"updated_at": now.UTC(),
			}).
			Error; err != nil {
			return err
		}

		updated = row.toEntity()
		updated.Status = entities.OrgStatusInactive
		updated.UpdatedAt = now.UTC()
		return nil
	})
	if err != nil {
		return entities.Org{}, err
	}
	return updated, nil
}

func (r *Repository) GetMembership(ctx context.Context, membershipID string) (entities.Membership, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("membership_id = ?", strings.TrimSpace(membershipID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Membership{}, domainerrors.ErrMembershipNotFound
		}
		return entities.Membership{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetMembershipByOrgAndUser(ctx context.Context, orgID, userID string) (entities.Membership, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", strings.TrimSpace(orgID), strings.TrimSpace(userID)).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Membership{}, domainerrors.ErrMembershipNotFound
		}
		return entities.Membership{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMemberships(ctx context.Context, orgID string, filter ports.MembershipFilter) ([]entities.Membership, error) {
	tx := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("org_id = ?", strings.TrimSpace(orgID))
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			roles = append(roles, string(role))
		}
		tx = tx.Where("role IN ?", roles)
	}

	var rows []membershipModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Membership, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateMembership(ctx context.Context, membershipID string, update ports.MembershipUpdate, now time.Time) (entities.Membership, error) {
	var updated entities.Membership
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row membershipModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("membership_id = ?", strings.TrimSpace(membershipID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrMembershipNotFound
			}
			return err
		}

		membership := row.toEntity()
		changes := map[string]any{"updated_at": now.UTC()}
		if update.Role != nil {
			membership.Role = *update.Role
			changes["role"] = string(*update.Role)
		}
		if update.Status != nil {
			// Re-checked under the lock so concurrent updates cannot slip an
			// illegal edge through.
			if !entities.CanTransitionStatus(membership.Status, *update.Status) {
				return domainerrors.ErrInvalidTransition
			}
			membership.Status = *update.Status
			changes["status"] = string(*update.Status)
		}
		membership.UpdatedAt = now.UTC()

		if err := tx.Model(&membershipModel{}).
			Where("membership_id = ?", row.MembershipID).
			Updates(changes).
			Error; err != nil {
			return err
		}
		updated = membership
		return nil
	})
	if err != nil {
		return entities.Membership{}, err
	}
	return updated, nil
}

func (r *Repository) CreateAffiliation(ctx context.Context, item entities.Affiliation) error {
	row := affiliationModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAffiliationExists
		}
		return err
	}
	return nil
}

func (r *Repository) ListAffiliations(ctx context.Context, orgID string) ([]entities.Affiliation, error) {
	var rows []affiliationModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ?", strings.TrimSpace(orgID)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Affiliation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteAffiliation(ctx context.Context, orgID, businessIdentifier string) error {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND business_identifier = ?", strings.TrimSpace(orgID), strings.TrimSpace(businessIdentifier)).
		Delete(&affiliationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAffiliationNotFound
	}
	return nil
}

func (r *Repository) GetContact(ctx context.Context, orgID string) (entities.Contact, error) {
	var row contactModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", strings.TrimSpace(orgID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Contact{}, domainerrors.ErrContactNotFound
		}
		return entities.Contact{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateContact(ctx context.Context, item entities.Contact) error {
	row := contactModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrContactExists
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateContact(ctx context.Context, item entities.Contact) error {
	result := r.db.WithContext(ctx).
		Model(&contactModel{}).
		Where("org_id = ?", strings.TrimSpace(item.OrgID)).
		Updates(map[string]any{
			"email":           strings.TrimSpace(item.Email),
			"phone":           strings.TrimSpace(item.Phone),
			"phone_extension": strings.TrimSpace(item.PhoneExtension),
			"updated_at":      item.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContactNotFound
	}
	return nil
}

func (r *Repository) DeleteContact(ctx context.Context, orgID string) (entities.Contact, error) {
	var removed entities.Contact
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row contactModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("org_id = ?", strings.TrimSpace(orgID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrContactNotFound
			}
			return err
		}
		if err := tx.Where("contact_id = ?", row.ContactID).
			Delete(&contactModel{}).
			Error; err != nil {
			return err
		}
		removed = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Contact{}, err
	}
	return removed, nil
}

func (r *Repository) GetPaymentSettings(ctx context.Context, orgID string) (entities.PaymentSettings, error) {
	var row paymentSettingsModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", strings.TrimSpace(orgID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PaymentSettings{}, domainerrors.ErrPaymentSettingsNotFound
		}
		return entities.PaymentSettings{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListInvitations(ctx context.Context, orgID string, status entities.InvitationStatus) ([]entities.Invitation, error) {
	tx := r.db.WithContext(ctx).
		Model(&invitationModel{}).
		Where("org_id = ?", strings.TrimSpace(orgID))
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}

	var rows []invitationModel
	if err := tx.Order("sent_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Invitation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendNotification(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := notificationOutboxModel{
		NotificationID: strings.TrimSpace(envelope.EventID),
		EventType:      strings.TrimSpace(envelope.EventType),
		Payload:        payload,
		Status:         outbox.StatusPending,
		CreatedAt:      envelope.OccurredAtUTC.UTC(),
	}
	if row.NotificationID == "" {
		row.NotificationID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "notification_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ListPendingNotifications(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []notificationOutboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.Message{
			ID:        row.NotificationID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			Status:    row.Status,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkNotificationPublished(ctx context.Context, notificationID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&notificationOutboxModel{}).
		Where("notification_id = ?", strings.TrimSpace(notificationID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		}).
		Error
}

type orgModel struct {
	OrgID      string    `gorm:"column:org_id;primaryKey"`
	Name       string    `gorm:"column:name"`
	AccessType string    `gorm:"column:access_type"`
	OrgType    string    `gorm:"column:org_type"`
	Status     string    `gorm:"column:status"`
	CreatedBy  string    `gorm:"column:created_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orgModel) TableName() string {
	return "orgs"
}

func orgModelFromEntity(item entities.Org) orgModel {
	return orgModel{
		OrgID:      strings.TrimSpace(item.OrgID),
		Name:       strings.TrimSpace(item.Name),
		AccessType: string(item.AccessType),
		OrgType:    string(item.OrgType),
		Status:     string(item.Status),
		CreatedBy:  strings.TrimSpace(item.CreatedBy),
		CreatedAt:  item.CreatedAt.UTC(),
		UpdatedAt:  item.UpdatedAt.UTC(),
	}
}

func (m orgModel) toEntity() entities.Org {
	return entities.Org{
		OrgID:      m.OrgID,
		Name:       m.Name,
		AccessType: entities.AccessType(m.AccessType),
		OrgType:    entities.OrgType(m.OrgType),
		Status:     entities.OrgStatus(m.Status),
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type membershipModel struct {
	MembershipID string    `gorm:"column:membership_id;primaryKey"`
	OrgID        string    `gorm:"column:org_id"`
	UserID       string    `gorm:"column:user_id"`
	Username     string    `gorm:"column:username"`
	Role         string    `gorm:"column:role"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (membershipModel) TableName() string {
	return "memberships"
}

func membershipModelFromEntity(item entities.Membership) membershipModel {
	return membershipModel{
		MembershipID: strings.TrimSpace(item.MembershipID),
		OrgID:        strings.TrimSpace(item.OrgID),
		UserID:       strings.TrimSpace(item.UserID),
		Username:     strings.TrimSpace(item.Username),
		Role:         string(item.Role),
		Status:       string(item.Status),
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func (m membershipModel) toEntity() entities.Membership {
	return entities.Membership{
		MembershipID: m.MembershipID,
		OrgID:        m.OrgID,
		UserID:       m.UserID,
		Username:     m.Username,
		Role:         entities.MembershipRole(m.Role),
		Status:       entities.MembershipStatus(m.Status),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type affiliationModel struct {
	AffiliationID      string    `gorm:"column:affiliation_id;primaryKey"`
	OrgID              string    `gorm:"column:org_id"`
	BusinessIdentifier string    `gorm:"column:business_identifier"`
	EntityName         string    `gorm:"column:entity_name"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (affiliationModel) TableName() string {
	return "affiliations"
}

func affiliationModelFromEntity(item entities.Affiliation) affiliationModel {
	return affiliationModel{
		AffiliationID:      strings.TrimSpace(item.AffiliationID),
		OrgID:              strings.TrimSpace(item.OrgID),
		BusinessIdentifier: strings.TrimSpace(item.BusinessIdentifier),
		EntityName:         strings.TrimSpace(item.EntityName),
		CreatedAt:          item.CreatedAt.UTC(),
	}
}

func (m affiliationModel) toEntity() entities.Affiliation {
	return entities.Affiliation{
		AffiliationID:      m.AffiliationID,
		OrgID:              m.OrgID,
		BusinessIdentifier: m.BusinessIdentifier,
		EntityName:         m.EntityName,
		CreatedAt:          m.CreatedAt.UTC(),
	}
}

type contactModel struct {
	ContactID      string    `gorm:"column:contact_id;primaryKey"`
	OrgID          string    `gorm:"column:org_id"`
	Email          string    `gorm:"column:email"`
	Phone          string    `gorm:"column:phone"`
	PhoneExtension string    `gorm:"column:phone_extension"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (contactModel) TableName() string {
	return "contacts"
}

func contactModelFromEntity(item entities.Contact) contactModel {
	return contactModel{
		ContactID:      strings.TrimSpace(item.ContactID),
		OrgID:          strings.TrimSpace(item.OrgID),
		Email:          strings.TrimSpace(item.Email),
		Phone:          strings.TrimSpace(item.Phone),
		PhoneExtension: strings.TrimSpace(item.PhoneExtension),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m contactModel) toEntity() entities.Contact {
	return entities.Contact{
		ContactID:      m.ContactID,
		OrgID:          m.OrgID,
		Email:          m.Email,
		Phone:          m.Phone,
		PhoneExtension: m.PhoneExtension,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type paymentSettingsModel struct {
	SettingsID    string    `gorm:"column:settings_id;primaryKey"`
	OrgID         string    `gorm:"column:org_id"`
	PaymentMethod string    `gorm:"column:payment_method"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (paymentSettingsModel) TableName() string {
	return "payment_settings"
}

func paymentSettingsModelFromEntity(item entities.PaymentSettings) paymentSettingsModel {
	return paymentSettingsModel{
		SettingsID:    strings.TrimSpace(item.SettingsID),
		OrgID:         strings.TrimSpace(item.OrgID),
		PaymentMethod: string(item.PaymentMethod),
		CreatedAt:     item.CreatedAt.UTC(),
	}
}

func (m paymentSettingsModel) toEntity() entities.PaymentSettings {
	return entities.PaymentSettings{
		SettingsID:    m.SettingsID,
		OrgID:         m.OrgID,
		PaymentMethod: entities.PaymentMethod(m.PaymentMethod),
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

type invitationModel struct {
	InvitationID   string     `gorm:"column:invitation_id;primaryKey"`
	OrgID          string     `gorm:"column:org_id"`
	RecipientEmail string     `gorm:"column:recipient_email"`
	SenderID       string     `gorm:"column:sender_id"`
	Status         string     `gorm:"column:status"`
	SentAt         time.Time  `gorm:"column:sent_at"`
	ExpiresAt      *time.Time `gorm:"column:expires_at"`
}

func (invitationModel) TableName() string {
	return "invitations"
}

func (m invitationModel) toEntity() entities.Invitation {
	var expiresAt *time.Time
	if m.ExpiresAt != nil {
		value := m.ExpiresAt.UTC()
		expiresAt = &value
	}
	return entities.Invitation{
		InvitationID:   m.InvitationID,
		OrgID:          m.OrgID,
		RecipientEmail: m.RecipientEmail,
		SenderID:       m.SenderID,
		Status:         entities.InvitationStatus(m.Status),
		SentAt:         m.SentAt.UTC(),
		ExpiresAt:      expiresAt,
	}
}

type notificationOutboxModel struct {
	NotificationID string     `gorm:"column:notification_id;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	Payload        []byte     `gorm:"column:payload"`
	Status         string     `gorm:"column:status"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
}

func (notificationOutboxModel) TableName() string {
	return "notification_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
