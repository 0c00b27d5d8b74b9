package entities

// Org-scoped actions evaluated by the access policy. The account-management
// context passes these as plain strings through its AccessDecider port.
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

// IsMutation reports whether the action changes state on an existing org.
// Anonymous-access orgs only accept mutations from staff admins.
func IsMutation(action string) bool {
	switch action {
	case ActionUpdateOrg, ActionChangeOrgType, ActionDeactivateOrg,
		ActionManageMembers, ActionManageAffiliations, ActionManageContacts:
		return true
	default:
		return false
	}
}
