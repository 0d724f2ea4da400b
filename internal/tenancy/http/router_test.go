package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/internal/tenancy/store/drivers/sqlite"
	"github.com/abyford453/FleetGuard/pkg/cryptox"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
	"github.com/abyford453/FleetGuard/pkg/httpx"
	"github.com/abyford453/FleetGuard/pkg/jwtx"
	"github.com/abyford453/FleetGuard/pkg/slogx"
	"github.com/abyford453/FleetGuard/pkg/validatex"
)

const (
	testIssuer   = "fleet-auth"
	testAudience = "fleetguard"
)

type user struct {
	id       string
	username string
	sid      string
	scopes   []string
}

type RouterSuite struct {
	suite.Suite

	store  *sqlite.Store
	signer jwtx.Signer
	router http.Handler

	alice user
	bob   user
	carol user
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	st, err := sqlite.NewStore(filepath.Join(s.T().TempDir(), "fleet.db"))
	s.Require().NoError(err)
	s.Require().NoError(st.ApplyMigrations())
	s.store = st

	pemKey, err := cryptox.GenerateEd25519Key()
	s.Require().NoError(err)
	s.signer, err = jwtx.NewSignerEdDSA("test-key", pemKey)
	s.Require().NoError(err)

	keys := jwtx.NewKeySet()
	s.Require().NoError(keys.AddSigner(s.signer))
	verifier := jwtx.NewVerifier(keys, testIssuer, []string{testAudience})

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	v := validatex.New()
	audit := &service.Recorder{Store: st, Metrics: m}

	limit := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	r := NewRouter(keys, verifier, "test", st, reg,
		httpx.RateLimitProfiles{Strict: limit, Moderate: limit, Lenient: limit},
		slogx.Discard(),
	)
	r.IdentityService = &service.IdentityService{Store: st}
	r.Resolver = &service.Resolver{Store: st, Metrics: m}
	r.Guard = &service.Guard{Store: st, Metrics: m}
	r.TenantService = &service.TenantService{Store: st, Audit: audit, Metrics: m, Validator: v}
	r.MembershipService = &service.MembershipService{Store: st, Audit: audit, Metrics: m}
	r.InviteService = &service.InviteService{Store: st, Audit: audit, Metrics: m, Validator: v, PublicURL: "http://fleet.test"}
	r.Recorder = audit
	r.ApplyRoutes()
	s.router = r

	s.alice = user{id: domain.NewID(), username: "alice", sid: "s-alice"}
	s.bob = user{id: domain.NewID(), username: "bob", sid: "s-bob"}
	s.carol = user{id: domain.NewID(), username: "carol", sid: "s-carol"}
}

func (s *RouterSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *RouterSuite) token(u user) string {
	tok, err := s.signer.Sign(jwtx.NewIdentityClaims(jwtx.IdentityClaimsParams{
		Subject:   u.id,
		SessionID: u.sid,
		Scopes:    u.scopes,
		Username:  u.username,
		Issuer:    testIssuer,
		Audience:  []string{testAudience},
	}))
	s.Require().NoError(err)
	return tok
}

func (s *RouterSuite) do(u *user, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(*u))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func (s *RouterSuite) requireError(rec *httptest.ResponseRecorder, status int, code string) fleetsdk.ErrorResponse {
	s.Require().Equal(status, rec.Code, rec.Body.String())
	var resp fleetsdk.ErrorResponse
	s.decode(rec, &resp)
	s.Require().Equal(code, resp.Error)
	return resp
}

// createTenant makes u the admin of a new tenant selected in u's session.
func (s *RouterSuite) createTenant(u user, name string) fleetsdk.Tenant {
	rec := s.do(&u, http.MethodPost, "/v1/tenants", fleetsdk.CreateTenantRequest{Name: name})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var t fleetsdk.Tenant
	s.decode(rec, &t)
	return t
}

func (s *RouterSuite) createInvite(admin user, req fleetsdk.CreateInviteRequest) (fleetsdk.Invite, string) {
	rec := s.do(&admin, http.MethodPost, "/v1/settings/invites", req)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var inv fleetsdk.Invite
	s.decode(rec, &inv)

	_, token, ok := strings.Cut(inv.AcceptURL, "/v1/invites/accept/")
	s.Require().True(ok, inv.AcceptURL)
	return inv, token
}

func (s *RouterSuite) join(u user, token string) fleetsdk.AcceptInviteResponse {
	rec := s.do(&u, http.MethodPost, "/v1/invites/accept/"+token, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp fleetsdk.AcceptInviteResponse
	s.decode(rec, &resp)
	return resp
}

func (s *RouterSuite) TestHealth() {
	rec := s.do(nil, http.MethodGet, "/livez", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(nil, http.MethodGet, "/readyz", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var health fleetsdk.HealthResponse
	s.decode(rec, &health)
	s.Equal("ok", health.Status)
	s.Require().NotNil(health.Checks)
	s.Equal("ok", health.Checks.Database)
	s.Equal("ok", health.Checks.Keys)
}

func (s *RouterSuite) TestMetricsExposed() {
	s.createTenant(s.alice, "Acme")

	rec := s.do(nil, http.MethodGet, "/metrics", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "fleetguard_tenants_created_total 1")
}

func (s *RouterSuite) TestTokenRequired() {
	rec := s.do(nil, http.MethodGet, "/v1/tenants", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestNoTenantSelected() {
	rec := s.do(&s.alice, http.MethodGet, "/v1/settings", nil)
	resp := s.requireError(rec, http.StatusConflict, fleetsdk.ErrorCodeNoTenantSelected)
	s.Equal("/v1/tenants", resp.Redirect)

	rec = s.do(&s.alice, http.MethodGet, "/v1/settings/members", nil)
	s.requireError(rec, http.StatusConflict, fleetsdk.ErrorCodeNoTenantSelected)
}

func (s *RouterSuite) TestCreateAndSelectTenant() {
	acme := s.createTenant(s.alice, "Acme Fleet")
	s.Equal("acme-fleet", acme.Slug)
	s.Equal("miles", acme.Settings.UnitsDistance)

	rec := s.do(&s.alice, http.MethodGet, "/v1/settings", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var ov fleetsdk.SettingsOverview
	s.decode(rec, &ov)
	s.Equal(acme.ID, ov.Tenant.ID)
	s.True(ov.IsAdmin)
	s.Equal(1, ov.MemberCount)
	s.Equal(1, ov.AdminCount)

	globex := s.createTenant(s.alice, "Globex")

	rec = s.do(&s.alice, http.MethodGet, "/v1/tenants", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list fleetsdk.TenantListResponse
	s.decode(rec, &list)
	s.Len(list.Tenants, 2)
	s.Equal(globex.ID, list.SelectedID)

	rec = s.do(&s.alice, http.MethodPost, "/v1/tenants/"+acme.ID+"/select", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(&s.alice, http.MethodGet, "/v1/tenants", nil)
	s.decode(rec, &list)
	s.Equal(acme.ID, list.SelectedID)

	// Bob has no membership in either
	rec = s.do(&s.bob, http.MethodPost, "/v1/tenants/"+acme.ID+"/select", nil)
	s.requireError(rec, http.StatusForbidden, fleetsdk.ErrorCodeTenantNotAllowed)

	rec = s.do(&s.bob, http.MethodPost, "/v1/tenants", fleetsdk.CreateTenantRequest{Name: "ACME FLEET"})
	s.requireError(rec, http.StatusUnprocessableEntity, service.ErrTenantNameTaken.Code)
}

func (s *RouterSuite) TestSuperuserFallsBackToOldestTenant() {
	acme := s.createTenant(s.alice, "Acme")
	globex := s.createTenant(s.bob, "Globex")
	root := user{id: domain.NewID(), username: "root", sid: "s-root", scopes: []string{domain.SuperuserScope}}

	rec := s.do(&root, http.MethodGet, "/v1/tenants", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list fleetsdk.TenantListResponse
	s.decode(rec, &list)
	s.Require().Len(list.Tenants, 1)
	s.Equal(acme.ID, list.Tenants[0].ID)
	s.Equal(acme.ID, list.SelectedID)

	// Only the offered tenant can be selected
	rec = s.do(&root, http.MethodPost, "/v1/tenants/"+globex.ID+"/select", nil)
	s.requireError(rec, http.StatusForbidden, fleetsdk.ErrorCodeTenantNotAllowed)

	rec = s.do(&root, http.MethodPost, "/v1/tenants/"+acme.ID+"/select", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(&root, http.MethodGet, "/v1/tenants", nil)
	s.decode(rec, &list)
	s.Equal(acme.ID, list.SelectedID)

	// Selection alone does not grant member access
	rec = s.do(&root, http.MethodGet, "/v1/settings", nil)
	resp := s.requireError(rec, http.StatusConflict, fleetsdk.ErrorCodeAccessDenied)
	s.Equal("/v1/tenants", resp.Redirect)

	rec = s.do(&root, http.MethodGet, "/v1/settings/members", nil)
	resp = s.requireError(rec, http.StatusConflict, fleetsdk.ErrorCodeAccessDenied)
	s.Equal("/v1/tenants", resp.Redirect)
}

func (s *RouterSuite) TestInviteLifecycle() {
	acme := s.createTenant(s.alice, "Acme")
	inv, token := s.createInvite(s.alice, fleetsdk.CreateInviteRequest{MaxUses: 2})
	s.Equal("user", inv.Role)
	s.Equal("redeemable", inv.Status)
	s.Equal(2, inv.MaxUses)
	s.Require().NotNil(inv.ExpiresAt)
	s.True(strings.HasPrefix(inv.AcceptURL, "http://fleet.test/v1/invites/accept/"))

	// Preview changes nothing
	rec := s.do(&s.bob, http.MethodGet, "/v1/invites/accept/"+token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var preview fleetsdk.InvitePreview
	s.decode(rec, &preview)
	s.Equal("Acme", preview.TenantName)
	s.False(preview.AlreadyMember)

	accepted := s.join(s.bob, token)
	s.Equal(acme.ID, accepted.Tenant.ID)
	s.Equal("user", accepted.Role)
	s.False(accepted.AlreadyMember)

	// Accepting selected the tenant for bob's session
	rec = s.do(&s.bob, http.MethodGet, "/v1/settings", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var ov fleetsdk.SettingsOverview
	s.decode(rec, &ov)
	s.False(ov.IsAdmin)
	s.Equal(2, ov.MemberCount)

	// Joining twice does not take a use
	again := s.join(s.bob, token)
	s.True(again.AlreadyMember)

	s.join(s.carol, token)

	dave := user{id: domain.NewID(), username: "dave", sid: "s-dave"}
	rec = s.do(&dave, http.MethodPost, "/v1/invites/accept/"+token, nil)
	resp := s.requireError(rec, http.StatusGone, "invite_exhausted")
	s.Equal("/v1/tenants", resp.Redirect)

	rec = s.do(&dave, http.MethodGet, "/v1/invites/accept/nonsense", nil)
	s.requireError(rec, http.StatusNotFound, "invite_invalid")

	rec = s.do(&s.alice, http.MethodGet, "/v1/settings/invites", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list fleetsdk.InviteListResponse
	s.decode(rec, &list)
	s.Require().Len(list.Invites, 1)
	s.Equal("exhausted", list.Invites[0].Status)
	s.Equal(2, list.Invites[0].Uses)

	rec = s.do(&s.alice, http.MethodPost, "/v1/settings/invites/"+inv.ID+"/revoke", nil)
	s.requireError(rec, http.StatusConflict, "invite_already_used")
}

func (s *RouterSuite) TestRevokeInvite() {
	s.createTenant(s.alice, "Acme")
	inv, token := s.createInvite(s.alice, fleetsdk.CreateInviteRequest{Role: "admin", MaxUses: 3, ExpiresInDays: 2})

	rec := s.do(&s.alice, http.MethodPost, "/v1/settings/invites/"+inv.ID+"/revoke", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var revoked fleetsdk.Invite
	s.decode(rec, &revoked)
	s.Equal("revoked", revoked.Status)
	s.NotNil(revoked.RevokedAt)

	rec = s.do(&s.alice, http.MethodPost, "/v1/settings/invites/"+inv.ID+"/revoke", nil)
	s.requireError(rec, http.StatusConflict, "invite_already_revoked")

	rec = s.do(&s.bob, http.MethodPost, "/v1/invites/accept/"+token, nil)
	s.requireError(rec, http.StatusGone, "invite_revoked")

	rec = s.do(&s.alice, http.MethodPost, "/v1/settings/invites/missing/revoke", nil)
	s.requireError(rec, http.StatusNotFound, "invite_not_found")
}

func (s *RouterSuite) TestInviteValidation() {
	s.createTenant(s.alice, "Acme")

	rec := s.do(&s.alice, http.MethodPost, "/v1/settings/invites", fleetsdk.CreateInviteRequest{ExpiresInDays: 400, Role: "owner"})
	resp := s.requireError(rec, http.StatusUnprocessableEntity, fleetsdk.ErrorCodeValidation)

	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	s.ElementsMatch([]string{"role", "expires_in_days"}, fields)

	req := httptest.NewRequest(http.MethodPost, "/v1/settings/invites", strings.NewReader(`{"role":`))
	req.Header.Set("Authorization", "Bearer "+s.token(s.alice))
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.requireError(rec, http.StatusBadRequest, fleetsdk.ErrorCodeInvalidRequest)
}

func (s *RouterSuite) TestAdminRequired() {
	s.createTenant(s.alice, "Acme")
	_, token := s.createInvite(s.alice, fleetsdk.CreateInviteRequest{})
	s.join(s.bob, token)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/settings/members"},
		{http.MethodGet, "/v1/settings/audit"},
		{http.MethodGet, "/v1/settings/invites"},
		{http.MethodPost, "/v1/settings/invites"},
		{http.MethodPatch, "/v1/settings/organization"},
	} {
		rec := s.do(&s.bob, tc.method, tc.path, map[string]any{})
		resp := s.requireError(rec, http.StatusForbidden, fleetsdk.ErrorCodeAdminRequired)
		s.Empty(resp.Redirect, tc.path)
	}

	// Member-level pages stay open
	rec := s.do(&s.bob, http.MethodGet, "/v1/settings", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestMemberManagement() {
	s.createTenant(s.alice, "Acme")
	_, token := s.createInvite(s.alice, fleetsdk.CreateInviteRequest{MaxUses: 2})
	s.join(s.bob, token)

	rec := s.do(&s.alice, http.MethodGet, "/v1/settings/members", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list fleetsdk.MemberListResponse
	s.decode(rec, &list)
	s.Require().Len(list.Members, 2)

	byName := map[string]fleetsdk.Member{}
	for _, m := range list.Members {
		byName[m.Username] = m
	}
	aliceRow, bobRow := byName["alice"], byName["bob"]
	s.False(aliceRow.CanRemove)
	s.NotEmpty(aliceRow.RemoveReason)
	s.True(bobRow.CanRemove)

	rec = s.do(&s.alice, http.MethodGet, "/v1/settings/members?role=admin", nil)
	s.decode(rec, &list)
	s.Len(list.Members, 1)

	// Own membership is protected
	rec = s.do(&s.alice, http.MethodDelete, "/v1/settings/members/"+aliceRow.MembershipID, nil)
	s.requireError(rec, http.StatusConflict, "cannot_remove_self")

	rec = s.do(&s.alice, http.MethodPut, "/v1/settings/members/"+aliceRow.MembershipID+"/role", fleetsdk.UpdateRoleRequest{Role: "user"})
	s.requireError(rec, http.StatusConflict, "cannot_change_own_role")

	rec = s.do(&s.alice, http.MethodPut, "/v1/settings/members/"+bobRow.MembershipID+"/role", fleetsdk.UpdateRoleRequest{Role: "owner"})
	s.requireError(rec, http.StatusUnprocessableEntity, "invalid_role")

	rec = s.do(&s.alice, http.MethodPut, "/v1/settings/members/"+bobRow.MembershipID+"/role", fleetsdk.UpdateRoleRequest{Role: "admin"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var change fleetsdk.UpdateRoleResponse
	s.decode(rec, &change)
	s.True(change.Changed)
	s.Equal("user", change.From)
	s.Equal("admin", change.To)

	// Bob, now admin, removes alice; bob is then the last admin
	rec = s.do(&s.bob, http.MethodDelete, "/v1/settings/members/"+aliceRow.MembershipID, nil)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(&s.alice, http.MethodGet, "/v1/settings", nil)
	s.requireError(rec, http.StatusConflict, fleetsdk.ErrorCodeNoTenantSelected)

	rec = s.do(&s.bob, http.MethodDelete, "/v1/settings/members/"+aliceRow.MembershipID, nil)
	s.requireError(rec, http.StatusNotFound, "member_not_found")
}

func (s *RouterSuite) TestAddMember() {
	s.createTenant(s.alice, "Acme")

	// Carol is known to the directory once she has made a request
	s.do(&s.carol, http.MethodGet, "/v1/tenants", nil)

	rec := s.do(&s.alice, http.MethodPost, "/v1/settings/members", fleetsdk.AddMemberRequest{Username: "carol", Role: "user"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var added fleetsdk.Member
	s.decode(rec, &added)
	s.Equal("carol", added.Username)

	rec = s.do(&s.alice, http.MethodPost, "/v1/settings/members", fleetsdk.AddMemberRequest{Username: "carol", Role: "user"})
	s.requireError(rec, http.StatusConflict, "already_member")

	rec = s.do(&s.alice, http.MethodPost, "/v1/settings/members", fleetsdk.AddMemberRequest{Username: "nobody", Role: "user"})
	s.requireError(rec, http.StatusNotFound, "identity_not_found")
}

func (s *RouterSuite) TestOrganizationAndAudit() {
	acme := s.createTenant(s.alice, "Acme")

	settings := acme.Settings
	settings.UnitsDistance = "km"
	rec := s.do(&s.alice, http.MethodPatch, "/v1/settings/organization", fleetsdk.UpdateOrganizationRequest{
		Name:     "Acme Logistics",
		Settings: settings,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var change fleetsdk.UpdateOrganizationResponse
	s.decode(rec, &change)
	s.Equal([]string{"name", "units_distance"}, change.Changed)
	s.Equal("acme", change.Tenant.Slug)

	bad := settings
	bad.InspectionAlertDaysBefore = bad.DefaultInspectionDueDays + 1
	rec = s.do(&s.alice, http.MethodPatch, "/v1/settings/organization", fleetsdk.UpdateOrganizationRequest{Name: "Acme Logistics", Settings: bad})
	resp := s.requireError(rec, http.StatusUnprocessableEntity, fleetsdk.ErrorCodeValidation)
	s.Require().Len(resp.Fields, 1)
	s.Equal("inspection_alert_days_before", resp.Fields[0].Field)

	s.createInvite(s.alice, fleetsdk.CreateInviteRequest{})

	rec = s.do(&s.alice, http.MethodGet, "/v1/settings/audit", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var audit fleetsdk.AuditListResponse
	s.decode(rec, &audit)
	s.Require().Len(audit.Events, 2)
	s.ElementsMatch([]string{"organization.updated", "invite.created"}, audit.Actions)

	rec = s.do(&s.alice, http.MethodGet, "/v1/settings/audit?action=invite.created", nil)
	s.decode(rec, &audit)
	s.Require().Len(audit.Events, 1)
	s.Equal(s.alice.id, audit.Events[0].ActorID)
	s.NotContains(rec.Body.String(), "/v1/invites/accept/")

	rec = s.do(&s.alice, http.MethodGet, "/v1/settings/audit?start=yesterday", nil)
	s.requireError(rec, http.StatusUnprocessableEntity, fleetsdk.ErrorCodeValidation)
}

func (s *RouterSuite) TestErrorCodesMatchService() {
	s.Equal(fleetsdk.ErrorCodeNoTenantSelected, service.ErrNoTenantSelected.Code)
	s.Equal(fleetsdk.ErrorCodeAccessDenied, service.ErrAccessDenied.Code)
	s.Equal(fleetsdk.ErrorCodeAdminRequired, service.ErrAdminRequired.Code)
	s.Equal(fleetsdk.ErrorCodeTenantNotAllowed, service.ErrTenantNotAllowed.Code)
	s.Equal(fleetsdk.ErrorCodeLastAdmin, service.ErrLastAdminRemoval.Code)
	s.Equal(fleetsdk.ErrorCodeLastAdminDemotion, service.ErrLastAdminDemotion.Code)
	s.Equal(fleetsdk.ErrorCodeValidation, service.ErrValidation.Code)
}
