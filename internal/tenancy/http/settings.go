package http

import (
	"net/http"

	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
	"github.com/abyford453/FleetGuard/pkg/httpx"
)

// SettingsHandler serves the settings overview and organization form.
type SettingsHandler struct {
	MembershipService *service.MembershipService
	TenantService     *service.TenantService
}

// HandleOverview handles GET /v1/settings
//
//	@Summary		Settings Overview
//	@Description	Returns the active tenant with member and admin counts and the caller's role.
//	@Tags			Settings
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	fleetsdk.SettingsOverview
//	@Failure		401	{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Router			/v1/settings [get].
func (h *SettingsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := TenantFromContext(ctx)
	membership, _ := MembershipFromContext(ctx)

	ov, err := h.MembershipService.Overview(ctx, *tenant, membership)
	if err != nil {
		writeError(w, r, err, "load settings")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, fleetsdk.SettingsOverview{
		Tenant:      toTenant(ov.Tenant),
		Role:        string(ov.Role),
		IsAdmin:     ov.IsAdmin,
		MemberCount: ov.MemberCount,
		AdminCount:  ov.AdminCount,
	})
}

// HandleUpdateOrganization handles PATCH /v1/settings/organization
//
//	@Summary		Update Organization
//	@Description	Replaces the tenant name and preferences. The slug never changes.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		fleetsdk.UpdateOrganizationRequest	true	"Name and settings"
//	@Success		200		{object}	fleetsdk.UpdateOrganizationResponse	"tenant, changed"
//	@Failure		400		{object}	fleetsdk.ErrorResponse				"error, error_description"
//	@Failure		403		{object}	fleetsdk.ErrorResponse				"error, error_description"
//	@Failure		422		{object}	fleetsdk.ErrorResponse				"error, error_description, fields"
//	@Router			/v1/settings/organization [patch].
func (h *SettingsHandler) HandleUpdateOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)
	tenant := TenantFromContext(ctx)

	var req fleetsdk.UpdateOrganizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	change, err := h.TenantService.UpdateOrganization(ctx, identity, *tenant, service.OrganizationInput{
		Name:     req.Name,
		Settings: fromSettings(req.Settings),
	})
	if err != nil {
		writeError(w, r, err, "update organization")
		return
	}

	changed := change.Changed
	if changed == nil {
		changed = []string{}
	}
	httpx.WriteJSON(w, http.StatusOK, fleetsdk.UpdateOrganizationResponse{
		Tenant:  toTenant(change.Tenant),
		Changed: changed,
	})
}
