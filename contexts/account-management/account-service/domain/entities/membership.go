package entities

import "time"

type MembershipRole string
type MembershipStatus string

const (
	MembershipRoleMember      MembershipRole = "MEMBER"
	MembershipRoleCoordinator MembershipRole = "COORDINATOR"
	MembershipRoleAdmin       MembershipRole = "ADMIN"

	MembershipStatusPendingApproval MembershipStatus = "PENDING_APPROVAL"
	MembershipStatusActive          MembershipStatus = "ACTIVE"
	MembershipStatusInactive        MembershipStatus = "INACTIVE"
	MembershipStatusRejected        MembershipStatus = "REJECTED"
)

// Notification event types emitted on membership changes.
const (
	NotificationMembershipApproved = "MEMBERSHIP_APPROVED"
	NotificationRoleChanged        = "ROLE_CHANGED"
)

// Membership links a user to an organization with a role and a status.
// At most one active-or-pending membership exists per (org, user).
type Membership struct {
	MembershipID string
	OrgID        string
	UserID       string
	Username     string
	Role         MembershipRole
	Status       MembershipStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func IsSupportedMembershipRole(value MembershipRole) bool {
	switch value {
	case MembershipRoleMember, MembershipRoleCoordinator, MembershipRoleAdmin:
		return true
	default:
		return false
	}
}

func IsSupportedMembershipStatus(value MembershipStatus) bool {
	switch value {
	case MembershipStatusPendingApproval, MembershipStatusActive,
		MembershipStatusInactive, MembershipStatusRejected:
		return true
	default:
		return false
	}
}

// IsAdminClass reports whether the role may manage other memberships.
func IsAdminClass(role MembershipRole) bool {
	return role == MembershipRoleAdmin || role == MembershipRoleCoordinator
}

// CanTransitionStatus encodes the legal status edges:
// PENDING_APPROVAL -> {ACTIVE, REJECTED}; ACTIVE -> {INACTIVE}.
// INACTIVE and REJECTED are terminal.
func CanTransitionStatus(from, to MembershipStatus) bool {
	switch from {
	case MembershipStatusPendingApproval:
		return to == MembershipStatusActive || to == MembershipStatusRejected
	case MembershipStatusActive:
		return to == MembershipStatusInactive
	default:
		return false
	}
}
