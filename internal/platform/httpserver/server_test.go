package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	accountservice "keystone/contexts/account-management/account-service"
	"keystone/contexts/account-management/account-service/domain/entities"
	httptransport "keystone/contexts/account-management/account-service/transport/http"
	accessservice "keystone/contexts/identity-access/access-service"
)

const testJWTSecret = "test-secret"

func newTestServer() (*Server, accountservice.Module) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	access := accessservice.NewModule(accessservice.Dependencies{JWTSecret: testJWTSecret})
	account := accountservice.NewInMemoryModule(access.Policy, logger)
	return New(account, access, logger, ":0"), account
}

func signToken(t *testing.T, sub, username string, roles ...string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                sub,
		"preferred_username": username,
		"realm_access":       map[string]any{"roles": roles},
		"exp":                time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, server *Server, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func createOrgViaHTTP(t *testing.T, server *Server, token, name string) httptransport.CreateOrgResponse {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/orgs", token, httptransport.CreateOrgRequest{Name: name})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp httptransport.CreateOrgResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response failed: %v", err)
	}
	return resp
}

func TestOrgRoutesRequireBearerToken(t *testing.T) {
	server, _ := newTestServer()

	rr := doJSON(t, server, http.MethodGet, "/orgs?name=Sunrise", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	var errResp httptransport.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error body failed: %v", err)
	}
	if errResp.Code == "" || errResp.Message == "" {
		t.Fatalf("expected code and message, got %+v", errResp)
	}
}

func TestCreateOrgEndpointReturns201(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")

	resp := createOrgViaHTTP(t, server, token, "Sunrise Bakery")
	if resp.Org.OrgID == "" || resp.Org.Status != "ACTIVE" {
		t.Fatalf("unexpected create response %+v", resp.Org)
	}
	if resp.AdminMembership.Role != "ADMIN" || resp.AdminMembership.UserID != "user-a" {
		t.Fatalf("expected creator admin membership, got %+v", resp.AdminMembership)
	}
}

func TestCreateOrgRejectsInvalidJSON(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")

	req := httptest.NewRequest(http.MethodPost, "/orgs", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSearchOrgsNameMissReturns204(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")

	rr := doJSON(t, server, http.MethodGet, "/orgs?name=No+Such+Org", token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on name miss, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSearchOrgsNameHitReturns200(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	createOrgViaHTTP(t, server, token, "Sunrise Bakery")

	rr := doJSON(t, server, http.MethodGet, "/orgs?name=Sunrise+Bakery", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp httptransport.SearchOrgsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode search response failed: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Sunrise Bakery" {
		t.Fatalf("unexpected search result %+v", resp.Items)
	}
}

func TestGetUnknownOrgReturns404(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")

	rr := doJSON(t, server, http.MethodGet, "/orgs/missing-org", token, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestChangeOrgTypeViaActionParam(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	created := createOrgViaHTTP(t, server, token, "Sunrise Bakery")

	rr := doJSON(t, server, http.MethodPut, "/orgs/"+created.Org.OrgID+"?action=UPGRADE", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp httptransport.GetOrgResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.Org.OrgType != "PREMIUM" {
		t.Fatalf("expected PREMIUM after upgrade, got %s", resp.Org.OrgType)
	}

	rr = doJSON(t, server, http.MethodPut, "/orgs/"+created.Org.OrgID+"?action=UPGRADE", token, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 at the top tier, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeactivateOrgWithActiveMemberReturns409(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	created := createOrgViaHTTP(t, server, token, "Sunrise Bakery")

	rr := doJSON(t, server, http.MethodDelete, "/orgs/"+created.Org.OrgID, token, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeactivateMembershipThenOrg(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	created := createOrgViaHTTP(t, server, token, "Sunrise Bakery")

	rr := doJSON(t, server, http.MethodDelete, "/orgs/"+created.Org.OrgID+"/members/"+created.AdminMembership.MembershipID, token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on self removal, got %d body=%s", rr.Code, rr.Body.String())
	}

	// The creator gave up their membership, so only staff can finish.
	rr = doJSON(t, server, http.MethodDelete, "/orgs/"+created.Org.OrgID, token, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for ex-member, got %d body=%s", rr.Code, rr.Body.String())
	}

	staffToken := signToken(t, "staff-1", "staff-1@staff.test", "STAFF")
	rr = doJSON(t, server, http.MethodDelete, "/orgs/"+created.Org.OrgID, staffToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on deactivation, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOrgMutationByNonMemberReturns401(t *testing.T) {
	server, _ := newTestServer()
	ownerToken := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	created := createOrgViaHTTP(t, server, ownerToken, "Sunrise Bakery")

	strangerToken := signToken(t, "user-z", "user-z@example.test", "PUBLIC_USER")
	rr := doJSON(t, server, http.MethodPut, "/orgs/"+created.Org.OrgID, strangerToken, httptransport.UpdateOrgRequest{
		Name: "Hijacked",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stranger rename, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPut, "/orgs/"+created.Org.OrgID+"?action=UPGRADE", strangerToken, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stranger upgrade, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/orgs/"+created.Org.OrgID, ownerToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("owner read failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var got httptransport.GetOrgResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode org failed: %v", err)
	}
	if got.Org.Name != "Sunrise Bakery" || got.Org.OrgType != "BASIC" {
		t.Fatalf("org should be untouched, got %+v", got.Org)
	}
}

func TestApproveMembershipQueuesNotification(t *testing.T) {
	server, account := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	created := createOrgViaHTTP(t, server, token, "Sunrise Bakery")

	account.Store.SeedMembership(entities.Membership{
		MembershipID: "mem-pending",
		OrgID:        created.Org.OrgID,
		UserID:       "user-b",
		Role:         entities.MembershipRoleMember,
		Status:       entities.MembershipStatusPendingApproval,
		CreatedAt:    time.Now().UTC(),
	})

	rr := doJSON(t, server, http.MethodPatch, "/orgs/"+created.Org.OrgID+"/members/mem-pending", token, httptransport.UpdateMembershipRequest{
		Status: func() *string { s := "ACTIVE"; return &s }(),
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got := account.Store.PendingNotificationCount(); got != 1 {
		t.Fatalf("expected one queued notification, got %d", got)
	}
}

func TestAnonymousOrgMutationReturns401ForNonStaffAdmin(t *testing.T) {
	server, _ := newTestServer()
	adminToken := signToken(t, "staff-admin-1", "admin@staff.test", "STAFF_ADMIN")

	rr := doJSON(t, server, http.MethodPost, "/orgs", adminToken, httptransport.CreateOrgRequest{
		Name:       "Shielded Org",
		AccessType: "ANONYMOUS",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created httptransport.CreateOrgResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response failed: %v", err)
	}

	userToken := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	rr = doJSON(t, server, http.MethodPut, "/orgs/"+created.Org.OrgID, userToken, httptransport.UpdateOrgRequest{
		Name: "Renamed Org",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAffiliationPasscodeFailureReturns401(t *testing.T) {
	server, account := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	created := createOrgViaHTTP(t, server, token, "Sunrise Bakery")
	account.Store.SeedPasscode("BN0001", "hunter2")

	rr := doJSON(t, server, http.MethodPost, "/orgs/"+created.Org.OrgID+"/affiliations", token, httptransport.CreateAffiliationRequest{
		BusinessIdentifier: "BN0001",
		Passcode:           "wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/orgs/"+created.Org.OrgID+"/affiliations", token, httptransport.CreateAffiliationRequest{
		BusinessIdentifier: "BN0001",
		EntityName:         "Sunrise Bakery Ltd",
		Passcode:           "hunter2",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestContactEndpoints(t *testing.T) {
	server, _ := newTestServer()
	token := signToken(t, "user-a", "user-a@example.test", "PUBLIC_USER")
	created := createOrgViaHTTP(t, server, token, "Sunrise Bakery")

	rr := doJSON(t, server, http.MethodPost, "/orgs/"+created.Org.OrgID+"/contacts", token, httptransport.ContactRequest{
		Email: "ops@sunrise.test",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/orgs/"+created.Org.OrgID+"/contacts", token, httptransport.ContactRequest{
		Email: "second@sunrise.test",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate contact, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodDelete, "/orgs/"+created.Org.OrgID+"/contacts", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with removed contact, got %d body=%s", rr.Code, rr.Body.String())
	}
	var removed httptransport.ContactResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &removed); err != nil {
		t.Fatalf("decode removed contact failed: %v", err)
	}
	if removed.Contact.Email != "ops@sunrise.test" {
		t.Fatalf("expected removed contact in response, got %+v", removed.Contact)
	}
}
