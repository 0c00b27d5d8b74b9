package errors

import "errors"

var (
	ErrInvalidOrgInput     = errors.New("invalid organization input")
	ErrOrgNotFound         = errors.New("organization not found")
	ErrOrgNameTaken        = errors.New("an active organization with this name already exists")
	ErrOrgHasActiveMembers = errors.New("organization still has active memberships")
	ErrOrgHasAffiliations  = errors.New("organization still has affiliations")
	ErrInvalidTransition   = errors.New("state transition is not allowed")

	ErrMembershipNotFound        = errors.New("membership not found")
	ErrMembershipAlreadyInactive = errors.New("membership is already inactive")
	ErrDuplicateMembership       = errors.New("user already has a membership in this organization")
	ErrInvalidMembershipInput    = errors.New("invalid membership input")
	ErrNotOrgAdmin               = errors.New("acting user is not an admin of this organization")
	ErrNotOrgMember              = errors.New("acting user is not a member of this organization")
	ErrInvalidMemberFilter       = errors.New("invalid membership filter")

	ErrInvalidAffiliationInput = errors.New("invalid affiliation input")
	ErrAffiliationNotFound     = errors.New("affiliation not found")
	ErrAffiliationExists       = errors.New("organization is already affiliated with this entity")
	ErrPasscodeInvalid         = errors.New("business passcode could not be validated")

	ErrInvalidContactInput = errors.New("invalid contact input")
	ErrContactNotFound     = errors.New("organization has no contact record")
	ErrContactExists       = errors.New("organization already has a contact record")

	ErrPaymentSettingsNotFound = errors.New("payment settings not found")
)
