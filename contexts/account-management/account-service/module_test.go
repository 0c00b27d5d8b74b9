package accountservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	accountservice "keystone/contexts/account-management/account-service"
	httpadapter "keystone/contexts/account-management/account-service/adapters/http"
	"keystone/contexts/account-management/account-service/domain/entities"
	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
	httptransport "keystone/contexts/account-management/account-service/transport/http"
	accesserrors "keystone/contexts/identity-access/access-service/domain/errors"
	accessservices "keystone/contexts/identity-access/access-service/domain/services"
)

func newTestModule() accountservice.Module {
	return accountservice.NewInMemoryModule(accessservices.NewPolicy(), nil)
}

func publicUser(id string) httpadapter.Actor {
	return httpadapter.Actor{UserID: id, Username: id + "@example.test", Roles: []string{"PUBLIC_USER"}}
}

func staffUser(id string) httpadapter.Actor {
	return httpadapter.Actor{UserID: id, Username: id + "@staff.test", Roles: []string{"STAFF"}}
}

func staffAdmin(id string) httpadapter.Actor {
	return httpadapter.Actor{UserID: id, Username: id + "@staff.test", Roles: []string{"STAFF_ADMIN"}}
}

func strPtr(value string) *string {
	return &value
}

func mustCreateOrg(t *testing.T, module accountservice.Module, actor httpadapter.Actor, name string) httptransport.CreateOrgResponse {
	t.Helper()
	resp, err := module.Handler.CreateOrgHandler(context.Background(), actor, httptransport.CreateOrgRequest{
		Name: name,
	})
	if err != nil {
		t.Fatalf("create org %q failed: %v", name, err)
	}
	return resp
}

func TestCreateOrgProvisionsAdminMembershipAndSettings(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")

	resp := mustCreateOrg(t, module, actor, "Sunrise Bakery")
	if resp.Org.Status != "ACTIVE" {
		t.Fatalf("expected ACTIVE org, got %s", resp.Org.Status)
	}
	if resp.Org.AccessType != "REGULAR" || resp.Org.OrgType != "BASIC" {
		t.Fatalf("expected REGULAR/BASIC defaults, got %s/%s", resp.Org.AccessType, resp.Org.OrgType)
	}
	if resp.AdminMembership.UserID != "user-a" || resp.AdminMembership.Role != "ADMIN" || resp.AdminMembership.Status != "ACTIVE" {
		t.Fatalf("expected active admin membership for creator, got %+v", resp.AdminMembership)
	}

	settings, err := module.Handler.GetPaymentSettingsHandler(context.Background(), actor, resp.Org.OrgID)
	if err != nil {
		t.Fatalf("get payment settings failed: %v", err)
	}
	if settings.PaymentSettings.PaymentMethod != "CREDIT_CARD" {
		t.Fatalf("expected CREDIT_CARD default, got %s", settings.PaymentSettings.PaymentMethod)
	}
}

func TestCreateOrgValidatesName(t *testing.T) {
	module := newTestModule()

	_, err := module.Handler.CreateOrgHandler(context.Background(), publicUser("user-a"), httptransport.CreateOrgRequest{
		Name: "x",
	})
	if !errors.Is(err, domainerrors.ErrInvalidOrgInput) {
		t.Fatalf("expected invalid org input, got %v", err)
	}
}

func TestCreateOrgRejectsDuplicateName(t *testing.T) {
	module := newTestModule()
	mustCreateOrg(t, module, publicUser("user-a"), "Sunrise Bakery")

	_, err := module.Handler.CreateOrgHandler(context.Background(), publicUser("user-b"), httptransport.CreateOrgRequest{
		Name: "sunrise bakery",
	})
	if !errors.Is(err, domainerrors.ErrOrgNameTaken) {
		t.Fatalf("expected name taken, got %v", err)
	}
}

func TestSearchOrgsFilters(t *testing.T) {
	module := newTestModule()
	mustCreateOrg(t, module, publicUser("user-a"), "Sunrise Bakery")
	premium, err := module.Handler.CreateOrgHandler(context.Background(), publicUser("user-b"), httptransport.CreateOrgRequest{
		Name:    "Harbor Books",
		OrgType: "PREMIUM",
	})
	if err != nil {
		t.Fatalf("create premium org failed: %v", err)
	}

	byName, err := module.Handler.SearchOrgsHandler(context.Background(), publicUser("user-c"), "", "SUNRISE BAKERY", "")
	if err != nil {
		t.Fatalf("search by name failed: %v", err)
	}
	if len(byName.Items) != 1 || byName.Items[0].Name != "Sunrise Bakery" {
		t.Fatalf("expected exact case-insensitive name match, got %+v", byName.Items)
	}

	byType, err := module.Handler.SearchOrgsHandler(context.Background(), publicUser("user-c"), "", "", "PREMIUM")
	if err != nil {
		t.Fatalf("search by type failed: %v", err)
	}
	if len(byType.Items) != 1 || byType.Items[0].OrgID != premium.Org.OrgID {
		t.Fatalf("expected only the premium org, got %+v", byType.Items)
	}

	_, err = module.Handler.SearchOrgsHandler(context.Background(), publicUser("user-c"), "", "", "BOGUS")
	if !errors.Is(err, domainerrors.ErrInvalidOrgInput) {
		t.Fatalf("expected invalid org input for unknown type, got %v", err)
	}
}

func TestGetOrgRequiresActiveMembership(t *testing.T) {
	module := newTestModule()
	created := mustCreateOrg(t, module, publicUser("user-a"), "Sunrise Bakery")

	if _, err := module.Handler.GetOrgHandler(context.Background(), publicUser("user-a"), created.Org.OrgID); err != nil {
		t.Fatalf("creator should read own org: %v", err)
	}

	_, err := module.Handler.GetOrgHandler(context.Background(), publicUser("user-b"), created.Org.OrgID)
	if !errors.Is(err, domainerrors.ErrNotOrgMember) {
		t.Fatalf("expected non-member rejection, got %v", err)
	}

	if _, err := module.Handler.GetOrgHandler(context.Background(), staffUser("staff-1"), created.Org.OrgID); err != nil {
		t.Fatalf("staff should bypass the membership gate: %v", err)
	}
}

func TestChangeOrgTypeWalksTheLadder(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")
	created := mustCreateOrg(t, module, actor, "Sunrise Bakery")

	upgraded, err := module.Handler.UpdateOrgHandler(context.Background(), actor, created.Org.OrgID, "UPGRADE", httptransport.UpdateOrgRequest{})
	if err != nil {
		t.Fatalf("upgrade failed: %v", err)
	}
	if upgraded.Org.OrgType != "PREMIUM" {
		t.Fatalf("expected PREMIUM after upgrade, got %s", upgraded.Org.OrgType)
	}

	_, err = module.Handler.UpdateOrgHandler(context.Background(), actor, created.Org.OrgID, "UPGRADE", httptransport.UpdateOrgRequest{})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected boundary failure at top tier, got %v", err)
	}

	_, err = module.Handler.UpdateOrgHandler(context.Background(), actor, created.Org.OrgID, "SIDEWAYS", httptransport.UpdateOrgRequest{})
	if !errors.Is(err, domainerrors.ErrInvalidOrgInput) {
		t.Fatalf("expected invalid direction rejection, got %v", err)
	}
}

func TestDeactivateOrgBlockedByActiveChildren(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")
	created := mustCreateOrg(t, module, actor, "Sunrise Bakery")

	// The creator's own admin membership counts.
	err := module.Handler.DeactivateOrgHandler(context.Background(), actor, created.Org.OrgID)
	if !errors.Is(err, domainerrors.ErrOrgHasActiveMembers) {
		t.Fatalf("expected active-members conflict, got %v", err)
	}

	module.Store.SeedPasscode("BN0001", "hunter2")
	if _, err := module.Handler.CreateAffiliationHandler(context.Background(), actor, created.Org.OrgID, httptransport.CreateAffiliationRequest{
		BusinessIdentifier: "BN0001",
		EntityName:         "Sunrise Bakery Ltd",
		Passcode:           "hunter2",
	}); err != nil {
		t.Fatalf("create affiliation failed: %v", err)
	}

	if err := module.Handler.DeactivateMembershipHandler(context.Background(), actor, created.Org.OrgID, created.AdminMembership.MembershipID); err != nil {
		t.Fatalf("self removal failed: %v", err)
	}

	// The creator left the org, so staff finish the teardown.
	staff := staffUser("staff-1")
	err = module.Handler.DeactivateOrgHandler(context.Background(), staff, created.Org.OrgID)
	if !errors.Is(err, domainerrors.ErrOrgHasAffiliations) {
		t.Fatalf("expected affiliation conflict, got %v", err)
	}

	if err := module.Handler.DeleteAffiliationHandler(context.Background(), staffAdmin("staff-admin-1"), created.Org.OrgID, "BN0001"); err != nil {
		t.Fatalf("delete affiliation failed: %v", err)
	}
	if err := module.Handler.DeactivateOrgHandler(context.Background(), staff, created.Org.OrgID); err != nil {
		t.Fatalf("deactivate should succeed once children are gone: %v", err)
	}

	got, err := module.Handler.GetOrgHandler(context.Background(), staffUser("staff-1"), created.Org.OrgID)
	if err != nil {
		t.Fatalf("staff read after deactivation failed: %v", err)
	}
	if got.Org.Status != "INACTIVE" {
		t.Fatalf("expected INACTIVE org, got %s", got.Org.Status)
	}
}

func TestOrgMutationsRequireOrgAdmin(t *testing.T) {
	module := newTestModule()
	created := mustCreateOrg(t, module, publicUser("user-a"), "Sunrise Bakery")
	module.Store.SeedPasscode("BN0001", "hunter2")
	stranger := publicUser("user-z")

	_, err := module.Handler.UpdateOrgHandler(context.Background(), stranger, created.Org.OrgID, "", httptransport.UpdateOrgRequest{
		Name: "Hijacked",
	})
	if !errors.Is(err, domainerrors.ErrNotOrgAdmin) {
		t.Fatalf("stranger rename: expected ErrNotOrgAdmin, got %v", err)
	}

	_, err = module.Handler.UpdateOrgHandler(context.Background(), stranger, created.Org.OrgID, "UPGRADE", httptransport.UpdateOrgRequest{})
	if !errors.Is(err, domainerrors.ErrNotOrgAdmin) {
		t.Fatalf("stranger upgrade: expected ErrNotOrgAdmin, got %v", err)
	}

	err = module.Handler.DeactivateOrgHandler(context.Background(), stranger, created.Org.OrgID)
	if !errors.Is(err, domainerrors.ErrNotOrgAdmin) {
		t.Fatalf("stranger deactivate: expected ErrNotOrgAdmin, got %v", err)
	}

	_, err = module.Handler.CreateAffiliationHandler(context.Background(), stranger, created.Org.OrgID, httptransport.CreateAffiliationRequest{
		BusinessIdentifier: "BN0001",
		Passcode:           "hunter2",
	})
	if !errors.Is(err, domainerrors.ErrNotOrgAdmin) {
		t.Fatalf("stranger affiliation: expected ErrNotOrgAdmin, got %v", err)
	}

	_, err = module.Handler.AddContactHandler(context.Background(), stranger, created.Org.OrgID, httptransport.ContactRequest{
		Email: "intruder@example.test",
	})
	if !errors.Is(err, domainerrors.ErrNotOrgAdmin) {
		t.Fatalf("stranger contact: expected ErrNotOrgAdmin, got %v", err)
	}

	// An ordinary active member is not enough either.
	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-m",
		OrgID:        created.Org.OrgID,
		UserID:       "user-m",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusActive,
		CreatedAt:    time.Now().UTC(),
	})
	_, err = module.Handler.UpdateOrgHandler(context.Background(), publicUser("user-m"), created.Org.OrgID, "", httptransport.UpdateOrgRequest{
		Name: "Hijacked",
	})
	if !errors.Is(err, domainerrors.ErrNotOrgAdmin) {
		t.Fatalf("plain member rename: expected ErrNotOrgAdmin, got %v", err)
	}

	got, err := module.Handler.GetOrgHandler(context.Background(), publicUser("user-a"), created.Org.OrgID)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if got.Org.Name != "Sunrise Bakery" || got.Org.OrgType != "BASIC" || got.Org.Status != "ACTIVE" {
		t.Fatalf("org should be untouched, got %+v", got.Org)
	}

	// Elevated roles bypass the membership gate.
	if _, err := module.Handler.UpdateOrgHandler(context.Background(), staffAdmin("staff-admin-1"), created.Org.OrgID, "", httptransport.UpdateOrgRequest{
		Name: "Sunrise Bakery Ltd",
	}); err != nil {
		t.Fatalf("staff admin rename failed: %v", err)
	}
}

func TestUpdateOrgBlankNameKeepsCurrent(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")
	created := mustCreateOrg(t, module, actor, "Sunrise Bakery")

	resp, err := module.Handler.UpdateOrgHandler(context.Background(), actor, created.Org.OrgID, "", httptransport.UpdateOrgRequest{})
	if err != nil {
		t.Fatalf("blank update failed: %v", err)
	}
	if resp.Org.Name != "Sunrise Bakery" {
		t.Fatalf("expected name preserved, got %s", resp.Org.Name)
	}

	renamed, err := module.Handler.UpdateOrgHandler(context.Background(), actor, created.Org.OrgID, "", httptransport.UpdateOrgRequest{
		Name: "Harbor Books",
	})
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Org.Name != "Harbor Books" {
		t.Fatalf("expected rename to stick, got %s", renamed.Org.Name)
	}
}

func TestMembershipApprovalQueuesNotification(t *testing.T) {
	module := newTestModule()
	admin := publicUser("user-a")
	created := mustCreateOrg(t, module, admin, "Sunrise Bakery")

	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-pending",
		OrgID:        created.Org.OrgID,
		UserID:       "user-b",
		Username:     "user-b@example.test",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusPendingApproval,
		CreatedAt:    time.Now().UTC(),
	})

	resp, err := module.Handler.UpdateMembershipHandler(context.Background(), admin, created.Org.OrgID, "mem-pending", httptransport.UpdateMembershipRequest{
		Status: strPtr("ACTIVE"),
	})
	if err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if resp.Membership.Status != "ACTIVE" {
		t.Fatalf("expected ACTIVE membership, got %s", resp.Membership.Status)
	}
	if got := module.Store.PendingNotificationCount(); got != 1 {
		t.Fatalf("expected one queued notification, got %d", got)
	}
}

func TestRoleChangeNotificationRules(t *testing.T) {
	module := newTestModule()
	admin := publicUser("user-a")
	created := mustCreateOrg(t, module, admin, "Sunrise Bakery")

	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-b",
		OrgID:        created.Org.OrgID,
		UserID:       "user-b",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusActive,
		CreatedAt:    time.Now().UTC(),
	})

	// Another actor promoting the member notifies them.
	if _, err := module.Handler.UpdateMembershipHandler(context.Background(), admin, created.Org.OrgID, "mem-b", httptransport.UpdateMembershipRequest{
		Role: strPtr("COORDINATOR"),
	}); err != nil {
		t.Fatalf("promotion failed: %v", err)
	}
	if got := module.Store.PendingNotificationCount(); got != 1 {
		t.Fatalf("expected one queued notification after promotion, got %d", got)
	}

	// Demotion to MEMBER stays silent.
	if _, err := module.Handler.UpdateMembershipHandler(context.Background(), admin, created.Org.OrgID, "mem-b", httptransport.UpdateMembershipRequest{
		Role: strPtr("MEMBER"),
	}); err != nil {
		t.Fatalf("demotion failed: %v", err)
	}
	if got := module.Store.PendingNotificationCount(); got != 1 {
		t.Fatalf("expected no notification for demotion to MEMBER, got %d", got)
	}

	// A self change stays silent even when the role is elevated.
	self := httpadapter.Actor{UserID: "user-b", Roles: []string{"STAFF_ADMIN"}}
	if _, err := module.Handler.UpdateMembershipHandler(context.Background(), self, created.Org.OrgID, "mem-b", httptransport.UpdateMembershipRequest{
		Role: strPtr("COORDINATOR"),
	}); err != nil {
		t.Fatalf("self role change failed: %v", err)
	}
	if got := module.Store.PendingNotificationCount(); got != 1 {
		t.Fatalf("expected no notification for self change, got %d", got)
	}
}

func TestMembershipStatusEdges(t *testing.T) {
	module := newTestModule()
	admin := publicUser("user-a")
	created := mustCreateOrg(t, module, admin, "Sunrise Bakery")

	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-rejected",
		OrgID:        created.Org.OrgID,
		UserID:       "user-b",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusRejected,
		CreatedAt:    time.Now().UTC(),
	})
	_, err := module.Handler.UpdateMembershipHandler(context.Background(), admin, created.Org.OrgID, "mem-rejected", httptransport.UpdateMembershipRequest{
		Status: strPtr("ACTIVE"),
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected REJECTED to be terminal, got %v", err)
	}

	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-pending",
		OrgID:        created.Org.OrgID,
		UserID:       "user-c",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusPendingApproval,
		CreatedAt:    time.Now().UTC(),
	})
	err = module.Handler.DeactivateMembershipHandler(context.Background(), admin, created.Org.OrgID, "mem-pending")
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected pending membership to reject removal, got %v", err)
	}

	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-gone",
		OrgID:        created.Org.OrgID,
		UserID:       "user-d",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusInactive,
		CreatedAt:    time.Now().UTC(),
	})
	err = module.Handler.DeactivateMembershipHandler(context.Background(), admin, created.Org.OrgID, "mem-gone")
	if !errors.Is(err, domainerrors.ErrMembershipAlreadyInactive) {
		t.Fatalf("expected already-inactive conflict, got %v", err)
	}
}

func TestMemberManagementRequiresOrgAdmin(t *testing.T) {
	module := newTestModule()
	admin := publicUser("user-a")
	created := mustCreateOrg(t, module, admin, "Sunrise Bakery")

	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-b",
		OrgID:        created.Org.OrgID,
		UserID:       "user-b",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusActive,
		CreatedAt:    time.Now().UTC(),
	})
	module.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-c",
		OrgID:        created.Org.OrgID,
		UserID:       "user-c",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusActive,
		CreatedAt:    time.Now().UTC(),
	})

	_, err := module.Handler.UpdateMembershipHandler(context.Background(), publicUser("user-b"), created.Org.OrgID, "mem-c", httptransport.UpdateMembershipRequest{
		Role: strPtr("COORDINATOR"),
	})
	if !errors.Is(err, domainerrors.ErrNotOrgAdmin) {
		t.Fatalf("expected plain member to be rejected, got %v", err)
	}
}

func TestAnonymousOrgMutationsNeedStaffAdmin(t *testing.T) {
	module := newTestModule()
	creator := staffAdmin("staff-admin-1")
	created, err := module.Handler.CreateOrgHandler(context.Background(), creator, httptransport.CreateOrgRequest{
		Name:       "Shielded Org",
		AccessType: "ANONYMOUS",
	})
	if err != nil {
		t.Fatalf("staff admin create failed: %v", err)
	}

	_, err = module.Handler.UpdateOrgHandler(context.Background(), publicUser("user-a"), created.Org.OrgID, "", httptransport.UpdateOrgRequest{
		Name: "Renamed Org",
	})
	if !errors.Is(err, accesserrors.ErrActionDenied) {
		t.Fatalf("expected denial for non staff admin, got %v", err)
	}

	renamed, err := module.Handler.UpdateOrgHandler(context.Background(), creator, created.Org.OrgID, "", httptransport.UpdateOrgRequest{
		Name: "Renamed Org",
	})
	if err != nil {
		t.Fatalf("staff admin rename failed: %v", err)
	}
	if renamed.Org.Name != "Renamed Org" {
		t.Fatalf("expected rename to stick, got %s", renamed.Org.Name)
	}
}

func TestAffiliationPasscodeValidation(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")
	created := mustCreateOrg(t, module, actor, "Sunrise Bakery")
	module.Store.SeedPasscode("BN0001", "hunter2")

	_, err := module.Handler.CreateAffiliationHandler(context.Background(), actor, created.Org.OrgID, httptransport.CreateAffiliationRequest{
		BusinessIdentifier: "BN0001",
		Passcode:           "wrong",
	})
	if !errors.Is(err, domainerrors.ErrPasscodeInvalid) {
		t.Fatalf("expected passcode rejection, got %v", err)
	}

	if _, err := module.Handler.CreateAffiliationHandler(context.Background(), actor, created.Org.OrgID, httptransport.CreateAffiliationRequest{
		BusinessIdentifier: "BN0001",
		EntityName:         "Sunrise Bakery Ltd",
		Passcode:           "hunter2",
	}); err != nil {
		t.Fatalf("create affiliation failed: %v", err)
	}

	_, err = module.Handler.CreateAffiliationHandler(context.Background(), actor, created.Org.OrgID, httptransport.CreateAffiliationRequest{
		BusinessIdentifier: "BN0001",
		Passcode:           "hunter2",
	})
	if !errors.Is(err, domainerrors.ErrAffiliationExists) {
		t.Fatalf("expected duplicate affiliation conflict, got %v", err)
	}

	if err := module.Handler.DeleteAffiliationHandler(context.Background(), actor, created.Org.OrgID, "BN0001"); err != nil {
		t.Fatalf("delete affiliation failed: %v", err)
	}
	err = module.Handler.DeleteAffiliationHandler(context.Background(), actor, created.Org.OrgID, "BN0001")
	if !errors.Is(err, domainerrors.ErrAffiliationNotFound) {
		t.Fatalf("expected missing affiliation, got %v", err)
	}
}

func TestContactLifecycle(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")
	created := mustCreateOrg(t, module, actor, "Sunrise Bakery")

	added, err := module.Handler.AddContactHandler(context.Background(), actor, created.Org.OrgID, httptransport.ContactRequest{
		Email: "ops@sunrise.test",
		Phone: "555-0100",
	})
	if err != nil {
		t.Fatalf("add contact failed: %v", err)
	}
	if added.Contact.Email != "ops@sunrise.test" {
		t.Fatalf("unexpected contact email %s", added.Contact.Email)
	}

	_, err = module.Handler.AddContactHandler(context.Background(), actor, created.Org.OrgID, httptransport.ContactRequest{
		Email: "second@sunrise.test",
	})
	if !errors.Is(err, domainerrors.ErrContactExists) {
		t.Fatalf("expected one contact per org, got %v", err)
	}

	updated, err := module.Handler.UpdateContactHandler(context.Background(), actor, created.Org.OrgID, httptransport.ContactRequest{
		Email: "hello@sunrise.test",
	})
	if err != nil {
		t.Fatalf("update contact failed: %v", err)
	}
	if updated.Contact.Email != "hello@sunrise.test" {
		t.Fatalf("expected updated email, got %s", updated.Contact.Email)
	}

	removed, err := module.Handler.DeleteContactHandler(context.Background(), actor, created.Org.OrgID)
	if err != nil {
		t.Fatalf("delete contact failed: %v", err)
	}
	if removed.Contact.Email != "hello@sunrise.test" {
		t.Fatalf("expected removed contact in response, got %s", removed.Contact.Email)
	}

	_, err = module.Handler.GetContactHandler(context.Background(), actor, created.Org.OrgID)
	if !errors.Is(err, domainerrors.ErrContactNotFound) {
		t.Fatalf("expected contact gone, got %v", err)
	}
}

func TestListMembersFilterValidation(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")
	created := mustCreateOrg(t, module, actor, "Sunrise Bakery")

	_, err := module.Handler.ListMembersHandler(context.Background(), actor, created.Org.OrgID, "BOGUS", nil)
	if !errors.Is(err, domainerrors.ErrInvalidMemberFilter) {
		t.Fatalf("expected filter rejection, got %v", err)
	}

	admins, err := module.Handler.ListMembersHandler(context.Background(), actor, created.Org.OrgID, "ACTIVE", []string{"admin"})
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(admins.Items) != 1 || admins.Items[0].Role != "ADMIN" {
		t.Fatalf("expected the creator's admin row, got %+v", admins.Items)
	}
}

func TestListInvitationsStatusFilter(t *testing.T) {
	module := newTestModule()
	actor := publicUser("user-a")
	created := mustCreateOrg(t, module, actor, "Sunrise Bakery")

	module.Store.SeedInvitation(entities.Invitation{
		InvitationID:   "inv-1",
		OrgID:          created.Org.OrgID,
		RecipientEmail: "new@sunrise.test",
		SenderID:       "user-a",
		Status:         entities.InvitationStatusPending,
		SentAt:         time.Now().UTC(),
	})
	module.Store.SeedInvitation(entities.Invitation{
		InvitationID:   "inv-2",
		OrgID:          created.Org.OrgID,
		RecipientEmail: "old@sunrise.test",
		SenderID:       "user-a",
		Status:         entities.InvitationStatusExpired,
		SentAt:         time.Now().UTC().Add(-time.Hour),
	})

	pending, err := module.Handler.ListInvitationsHandler(context.Background(), actor, created.Org.OrgID, "PENDING")
	if err != nil {
		t.Fatalf("list invitations failed: %v", err)
	}
	if len(pending.Items) != 1 || pending.Items[0].InvitationID != "inv-1" {
		t.Fatalf("expected only the pending invitation, got %+v", pending.Items)
	}

	_, err = module.Handler.ListInvitationsHandler(context.Background(), actor, created.Org.OrgID, "BOGUS")
	if !errors.Is(err, domainerrors.ErrInvalidMemberFilter) {
		t.Fatalf("expected status filter rejection, got %v", err)
	}
}
