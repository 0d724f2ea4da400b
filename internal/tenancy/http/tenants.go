package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
	"github.com/abyford453/FleetGuard/pkg/httpx"
)

// TenantsHandler serves tenant listing, creation and selection.
type TenantsHandler struct {
	TenantService *service.TenantService
}

// HandleList handles GET /v1/tenants
//
//	@Summary		List Selectable Tenants
//	@Description	Returns the tenants the caller belongs to (the oldest tenant for a superuser without memberships) and the session's active tenant.
//	@Tags			Tenants
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	fleetsdk.TenantListResponse	"tenants, selected_id"
//	@Failure		401	{object}	fleetsdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	fleetsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/tenants [get].
func (h *TenantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)

	tenants, err := h.TenantService.ListSelectable(ctx, identity)
	if err != nil {
		writeError(w, r, err, "list tenants")
		return
	}

	resp := fleetsdk.TenantListResponse{Tenants: make([]fleetsdk.Tenant, 0, len(tenants))}
	for _, t := range tenants {
		resp.Tenants = append(resp.Tenants, toTenant(t))
	}
	if active := TenantFromContext(ctx); active != nil {
		resp.SelectedID = active.ID
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /v1/tenants
//
//	@Summary		Create Tenant
//	@Description	Creates a tenant with the caller as its first admin and selects it for the session.
//	@Tags			Tenants
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		fleetsdk.CreateTenantRequest	true	"Tenant name"
//	@Success		201		{object}	fleetsdk.Tenant
//	@Failure		400		{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		422		{object}	fleetsdk.ErrorResponse	"error, error_description, fields"
//	@Router			/v1/tenants [post].
func (h *TenantsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)

	var req fleetsdk.CreateTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := h.TenantService.Create(ctx, identity, SessionKeyFromContext(ctx), service.CreateTenantInput{Name: req.Name})
	if err != nil {
		writeError(w, r, err, "create tenant")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTenant(created))
}

// HandleSelect handles POST /v1/tenants/{tenantID}/select
//
//	@Summary		Select Tenant
//	@Description	Makes the tenant active for the caller's session.
//	@Tags			Tenants
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Success		200			{object}	fleetsdk.Tenant
//	@Failure		401			{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		403			{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/tenants/{tenantID}/select [post].
func (h *TenantsHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)

	selected, err := h.TenantService.Select(ctx, identity, SessionKeyFromContext(ctx), chi.URLParam(r, "tenantID"))
	if err != nil {
		writeError(w, r, err, "select tenant")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTenant(selected))
}
