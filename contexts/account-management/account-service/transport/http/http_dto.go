package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateOrgRequest struct {
	Name       string `json:"name"`
	AccessType string `json:"access_type"`
	OrgType    string `json:"org_type"`
}

// UpdateOrgRequest carries the caller-mutable org fields. Updates are
// partial: a blank or omitted name keeps the current one.
type UpdateOrgRequest struct {
	Name string `json:"name"`
}

type OrgDTO struct {
	OrgID      string `json:"org_id"`
	Name       string `json:"name"`
	AccessType string `json:"access_type"`
	OrgType    string `json:"org_type"`
	Status     string `json:"status"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type CreateOrgResponse struct {
	Org             OrgDTO        `json:"org"`
	AdminMembership MembershipDTO `json:"admin_membership"`
}

type GetOrgResponse struct {
	Org OrgDTO `json:"org"`
}

type SearchOrgsResponse struct {
	Items []OrgDTO `json:"items"`
}

type MembershipDTO struct {
	MembershipID string `json:"membership_id"`
	OrgID        string `json:"org_id"`
	UserID       string `json:"user_id"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type ListMembersResponse struct {
	Items []MembershipDTO `json:"items"`
}

type UpdateMembershipRequest struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

type MembershipResponse struct {
	Membership MembershipDTO `json:"membership"`
}

type CreateAffiliationRequest struct {
	BusinessIdentifier string `json:"business_identifier"`
	EntityName         string `json:"entity_name"`
	Passcode           string `json:"passcode"`
}

type AffiliationDTO struct {
	AffiliationID      string `json:"affiliation_id"`
	OrgID              string `json:"org_id"`
	BusinessIdentifier string `json:"business_identifier"`
	EntityName         string `json:"entity_name,omitempty"`
	CreatedAt          string `json:"created_at"`
}

type AffiliationResponse struct {
	Affiliation AffiliationDTO `json:"affiliation"`
}

type ListAffiliationsResponse struct {
	Items []AffiliationDTO `json:"items"`
}

type ContactRequest struct {
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PhoneExtension string `json:"phone_extension"`
}

type ContactDTO struct {
	ContactID      string `json:"contact_id"`
	OrgID          string `json:"org_id"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	PhoneExtension string `json:"phone_extension,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type ContactResponse struct {
	Contact ContactDTO `json:"contact"`
}

type PaymentSettingsDTO struct {
	SettingsID    string `json:"settings_id"`
	OrgID         string `json:"org_id"`
	PaymentMethod string `json:"payment_method"`
	CreatedAt     string `json:"created_at"`
}

type PaymentSettingsResponse struct {
	PaymentSettings PaymentSettingsDTO `json:"payment_settings"`
}

type InvitationDTO struct {
	InvitationID   string `json:"invitation_id"`
	OrgID          string `json:"org_id"`
	RecipientEmail string `json:"recipient_email"`
	SenderID       string `json:"sender_id"`
	Status         string `json:"status"`
	SentAt         string `json:"sent_at"`
	ExpiresAt      string `json:"expires_at,omitempty"`
}

type ListInvitationsResponse struct {
	Items []InvitationDTO `json:"items"`
}
