package entities

import "time"

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
	InvitationStatusFailed   InvitationStatus = "FAILED"
)

// Invitation is a read model here: rows are written by the invitation
// sender flow and listed per org through this service.
type Invitation struct {
	InvitationID   string
	OrgID          string
	RecipientEmail string
	SenderID       string
	Status         InvitationStatus
	SentAt         time.Time
	ExpiresAt      *time.Time
}

func IsSupportedInvitationStatus(value InvitationStatus) bool {
	switch value {
	case InvitationStatusPending, InvitationStatusAccepted,
		InvitationStatusExpired, InvitationStatusFailed:
		return true
	default:
		return false
	}
}
