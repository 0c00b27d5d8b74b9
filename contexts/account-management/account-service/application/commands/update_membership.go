package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "keystone/contexts/account-management/account-service/application"
	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	"keystone/contexts/account-management/account-service/ports"
)

type UpdateMembershipCommand struct {
	OrgID        string
	MembershipID string
	NewRole      *string
	NewStatus    *string
	ActorID      string
	ActorRoles   []string
}

type UpdateMembershipUseCase struct {
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Access      ports.AccessDecider
	Notifier    ports.NotificationDispatcher
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc UpdateMembershipUseCase) Execute(ctx context.Context, cmd UpdateMembershipCommand) (entities.Membership, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.NewRole == nil && cmd.NewStatus == nil {
		return entities.Membership{}, domainerrors.ErrInvalidMembershipInput
	}

	membership, err := uc.Memberships.GetMembership(ctx, strings.TrimSpace(cmd.MembershipID))
	if err != nil {
		return entities.Membership{}, err
	}
	if membership.OrgID != strings.TrimSpace(cmd.OrgID) {
		return entities.Membership{}, domainerrors.ErrMembershipNotFound
	}
	org, err := uc.Orgs.GetOrg(ctx, membership.OrgID)
	if err != nil {
		return entities.Membership{}, err
	}
	if err := uc.Access.Decide(cmd.ActorRoles, ports.ActionManageMembers, string(org.AccessType)); err != nil {
		return entities.Membership{}, err
	}
	if err := requireOrgAdmin(ctx, uc.Memberships, org.OrgID, cmd.ActorID, cmd.ActorRoles); err != nil {
		return entities.Membership{}, err
	}

	update := ports.MembershipUpdate{}
	if cmd.NewRole != nil {
		role := entities.MembershipRole(strings.TrimSpace(*cmd.NewRole))
		if !entities.IsSupportedMembershipRole(role) {
			return entities.Membership{}, domainerrors.ErrInvalidMembershipInput
		}
		update.Role = &role
	}
	if cmd.NewStatus != nil {
		status := entities.MembershipStatus(strings.TrimSpace(*cmd.NewStatus))
		if !entities.IsSupportedMembershipStatus(status) {
			return entities.Membership{}, domainerrors.ErrInvalidMembershipInput
		}
		if !entities.CanTransitionStatus(membership.Status, status) {
			return entities.Membership{}, domainerrors.ErrInvalidTransition
		}
		update.Status = &status
	}

	now := uc.Clock.Now().UTC()
	updated, err := uc.Memberships.UpdateMembership(ctx, membership.MembershipID, update, now)
	if err != nil {
		return entities.Membership{}, err
	}

	if update.Status != nil && *update.Status == entities.MembershipStatusActive {
		uc.dispatch(ctx, logger, entities.NotificationMembershipApproved, updated, now)
	}
	roleChanged := update.Role != nil && *update.Role != membership.Role
	actorIsOther := strings.TrimSpace(cmd.ActorID) != membership.UserID
	if roleChanged && actorIsOther && *update.Role != entities.MembershipRoleMember {
		uc.dispatch(ctx, logger, entities.NotificationRoleChanged, updated, now)
	}

	logger.Info("membership updated",
		"event", "membership_updated",
		"module", "account-management/account-service",
		"layer", "application",
		"org_id", updated.OrgID,
		"membership_id", updated.MembershipID,
		"role", string(updated.Role),
		"status", string(updated.Status),
	)
	return updated, nil
}

// dispatch is fire-and-forget: a failed notification never rolls back the
// membership change.
func (uc UpdateMembershipUseCase) dispatch(ctx context.Context, logger *slog.Logger, eventType string, membership entities.Membership, now time.Time) {
	if uc.Notifier == nil {
		return
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Warn("notification skipped",
			"event", "notification_dispatch_failed",
			"module", "account-management/account-service",
			"layer", "application",
			"membership_id", membership.MembershipID,
			"error", err.Error(),
		)
		return
	}
	err = uc.Notifier.Dispatch(ctx, ports.NotificationEvent{
		EventID:      eventID,
		EventType:    eventType,
		OrgID:        membership.OrgID,
		MembershipID: membership.MembershipID,
		UserID:       membership.UserID,
		OccurredAt:   now,
	})
	if err != nil {
		logger.Warn("notification dispatch failed",
			"event", "notification_dispatch_failed",
			"module", "account-management/account-service",
			"layer", "application",
			"membership_id", membership.MembershipID,
			"notification_type", eventType,
			"error", err.Error(),
		)
	}
}
