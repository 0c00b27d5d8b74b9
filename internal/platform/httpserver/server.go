package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	accountservice "keystone/contexts/account-management/account-service"
	accounterrors "keystone/contexts/account-management/account-service/domain/errors"
	httpadapter "keystone/contexts/account-management/account-service/adapters/http"
	accounthttp "keystone/contexts/account-management/account-service/transport/http"
	accessservice "keystone/contexts/identity-access/access-service"
	accesserrors "keystone/contexts/identity-access/access-service/domain/errors"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "keystone/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	account accountservice.Module
	access  accessservice.Module
}

func New(
	account accountservice.Module,
	access accessservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		account: account,
		access:  access,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /orgs", s.handleCreateOrg)
	s.mux.HandleFunc("GET /orgs", s.handleSearchOrgs)
	s.mux.HandleFunc("GET /orgs/{org_id}", s.handleGetOrg)
	s.mux.HandleFunc("PUT /orgs/{org_id}", s.handleUpdateOrg)
	s.mux.HandleFunc("DELETE /orgs/{org_id}", s.handleDeactivateOrg)

	s.mux.HandleFunc("GET /orgs/{org_id}/payment_settings", s.handleGetPaymentSettings)

	s.mux.HandleFunc("GET /orgs/{org_id}/contacts", s.handleGetContact)
	s.mux.HandleFunc("POST /orgs/{org_id}/contacts", s.handleAddContact)
	s.mux.HandleFunc("PUT /orgs/{org_id}/contacts", s.handleUpdateContact)
	s.mux.HandleFunc("DELETE /orgs/{org_id}/contacts", s.handleDeleteContact)

	s.mux.HandleFunc("GET /orgs/{org_id}/affiliations", s.handleListAffiliations)
	s.mux.HandleFunc("POST /orgs/{org_id}/affiliations", s.handleCreateAffiliation)
	s.mux.HandleFunc("DELETE /orgs/{org_id}/affiliations/{business_identifier}", s.handleDeleteAffiliation)

	s.mux.HandleFunc("GET /orgs/{org_id}/members", s.handleListMembers)
	s.mux.HandleFunc("PATCH /orgs/{org_id}/members/{membership_id}", s.handleUpdateMembership)
	s.mux.HandleFunc("DELETE /orgs/{org_id}/members/{membership_id}", s.handleDeactivateMembership)

	s.mux.HandleFunc("GET /orgs/{org_id}/invitations", s.handleListInvitations)
}

// resolveActor verifies the bearer token and maps its claims to the handler
// actor. Every failure maps to 401.
func (s *Server) resolveActor(r *http.Request) (httpadapter.Actor, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return httpadapter.Actor{}, accesserrors.ErrTokenInvalid
	}
	claims, err := s.access.Parser.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	if err != nil {
		return httpadapter.Actor{}, err
	}
	return httpadapter.Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}

func (s *Server) handleCreateOrg(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req accounthttp.CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.account.Handler.CreateOrgHandler(r.Context(), actor, req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSearchOrgs(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	query := r.URL.Query()
	name := query.Get("name")
	resp, err := s.account.Handler.SearchOrgsHandler(
		r.Context(),
		actor,
		query.Get("affiliation"),
		name,
		query.Get("type"),
	)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	// Legacy contract: a name lookup with no match answers 204, not an
	// empty 200 list.
	if name != "" && len(resp.Items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrg(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.account.Handler.GetOrgHandler(r.Context(), actor, r.PathValue("org_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOrg(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	action := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("action")))
	var req accounthttp.UpdateOrgRequest
	if action == "" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.account.Handler.UpdateOrgHandler(r.Context(), actor, r.PathValue("org_id"), action, req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateOrg(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	if err := s.account.Handler.DeactivateOrgHandler(r.Context(), actor, r.PathValue("org_id")); err != nil {
		writeAccountDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPaymentSettings(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.account.Handler.GetPaymentSettingsHandler(r.Context(), actor, r.PathValue("org_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.account.Handler.GetContactHandler(r.Context(), actor, r.PathValue("org_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req accounthttp.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.account.Handler.AddContactHandler(r.Context(), actor, r.PathValue("org_id"), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req accounthttp.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.account.Handler.UpdateContactHandler(r.Context(), actor, r.PathValue("org_id"), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.account.Handler.DeleteContactHandler(r.Context(), actor, r.PathValue("org_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAffiliations(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.account.Handler.ListAffiliationsHandler(r.Context(), actor, r.PathValue("org_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateAffiliation(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req accounthttp.CreateAffiliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.account.Handler.CreateAffiliationHandler(r.Context(), actor, r.PathValue("org_id"), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteAffiliation(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	err = s.account.Handler.DeleteAffiliationHandler(
		r.Context(),
		actor,
		r.PathValue("org_id"),
		r.PathValue("business_identifier"),
	)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	query := r.URL.Query()
	resp, err := s.account.Handler.ListMembersHandler(
		r.Context(),
		actor,
		r.PathValue("org_id"),
		query.Get("status"),
		query["roles"],
	)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMembership(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req accounthttp.UpdateMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.account.Handler.UpdateMembershipHandler(
		r.Context(),
		actor,
		r.PathValue("org_id"),
		r.PathValue("membership_id"),
		req,
	)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateMembership(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	err = s.account.Handler.DeactivateMembershipHandler(
		r.Context(),
		actor,
		r.PathValue("org_id"),
		r.PathValue("membership_id"),
	)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.account.Handler.ListInvitationsHandler(
		r.Context(),
		actor,
		r.PathValue("org_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrInvalidOrgInput),
		errors.Is(err, accounterrors.ErrInvalidMembershipInput),
		errors.Is(err, accounterrors.ErrInvalidAffiliationInput),
		errors.Is(err, accounterrors.ErrInvalidContactInput),
		errors.Is(err, accounterrors.ErrInvalidMemberFilter):
		writeAccountError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidTransition):
		writeAccountError(w, http.StatusBadRequest, "invalid_transition", err.Error())
	case errors.Is(err, accesserrors.ErrTokenInvalid),
		errors.Is(err, accesserrors.ErrMissingClaim),
		errors.Is(err, accesserrors.ErrActionDenied),
		errors.Is(err, accounterrors.ErrNotOrgAdmin),
		errors.Is(err, accounterrors.ErrNotOrgMember),
		errors.Is(err, accounterrors.ErrPasscodeInvalid):
		writeAccountError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, accounterrors.ErrOrgNotFound),
		errors.Is(err, accounterrors.ErrMembershipNotFound),
		errors.Is(err, accounterrors.ErrAffiliationNotFound),
		errors.Is(err, accounterrors.ErrContactNotFound),
		errors.Is(err, accounterrors.ErrPaymentSettingsNotFound):
		writeAccountError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, accounterrors.ErrOrgNameTaken),
		errors.Is(err, accounterrors.ErrOrgHasActiveMembers),
		errors.Is(err, accounterrors.ErrOrgHasAffiliations),
		errors.Is(err, accounterrors.ErrDuplicateMembership),
		errors.Is(err, accounterrors.ErrMembershipAlreadyInactive),
		errors.Is(err, accounterrors.ErrAffiliationExists),
		errors.Is(err, accounterrors.ErrContactExists):
		writeAccountError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAccountError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccountError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accounthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
