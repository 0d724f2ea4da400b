package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
	"github.com/abyford453/FleetGuard/pkg/httpx"
)

// InvitesHandler serves invite management for admins and acceptance for
// any authenticated identity.
type InvitesHandler struct {
	InviteService *service.InviteService
}

// HandleList handles GET /v1/settings/invites
//
//	@Summary		List Invites
//	@Description	Returns the newest 200 invites of the active tenant with status and accept URL.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	fleetsdk.InviteListResponse
//	@Failure		403	{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/settings/invites [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := TenantFromContext(ctx)

	views, err := h.InviteService.List(ctx, *tenant)
	if err != nil {
		writeError(w, r, err, "list invites")
		return
	}

	resp := fleetsdk.InviteListResponse{Invites: make([]fleetsdk.Invite, 0, len(views))}
	for _, v := range views {
		resp.Invites = append(resp.Invites, toInvite(v))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /v1/settings/invites
//
//	@Summary		Create Invite
//	@Description	Creates an invite link. Defaults: role user, 7 days, single use.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		fleetsdk.CreateInviteRequest	true	"Invite options"
//	@Success		201		{object}	fleetsdk.Invite
//	@Failure		400		{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		422		{object}	fleetsdk.ErrorResponse	"error, error_description, fields"
//	@Router			/v1/settings/invites [post].
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)
	tenant := TenantFromContext(ctx)

	var req fleetsdk.CreateInviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := h.InviteService.Create(ctx, identity, *tenant, service.CreateInviteInput{
		Role:          req.Role,
		Email:         req.Email,
		ExpiresInDays: req.ExpiresInDays,
		MaxUses:       req.MaxUses,
	})
	if err != nil {
		writeError(w, r, err, "create invite")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInvite(created))
}

// HandleRevoke handles POST /v1/settings/invites/{inviteID}/revoke
//
//	@Summary		Revoke Invite
//	@Description	Revokes an unused invite.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			inviteID	path		string	true	"Invite ID"
//	@Success		200			{object}	fleetsdk.Invite
//	@Failure		404			{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		409			{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Router			/v1/settings/invites/{inviteID}/revoke [post].
func (h *InvitesHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)
	tenant := TenantFromContext(ctx)

	revoked, err := h.InviteService.Revoke(ctx, identity, *tenant, chi.URLParam(r, "inviteID"))
	if err != nil {
		writeError(w, r, err, "revoke invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvite(service.InviteView{
		Invite:    revoked,
		Status:    domain.InviteRevoked,
		AcceptURL: h.InviteService.AcceptURL(revoked.Token),
	}))
}

// HandlePreview handles GET /v1/invites/accept/{token}
//
//	@Summary		Preview Invite
//	@Description	Shows the tenant and role an invite grants without accepting it.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token	path		string	true	"Invite token"
//	@Success		200		{object}	fleetsdk.InvitePreview
//	@Failure		404		{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		410		{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Router			/v1/invites/accept/{token} [get].
func (h *InvitesHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)

	preview, err := h.InviteService.Preview(ctx, identity, chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err, "load invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, fleetsdk.InvitePreview{
		TenantID:      preview.Tenant.ID,
		TenantName:    preview.Tenant.Name,
		Role:          string(preview.Invite.Role),
		ExpiresAt:     preview.Invite.ExpiresAt,
		AlreadyMember: preview.AlreadyMember,
	})
}

// HandleAccept handles POST /v1/invites/accept/{token}
//
//	@Summary		Accept Invite
//	@Description	Joins the invite's tenant and selects it for the session.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token	path		string	true	"Invite token"
//	@Success		200		{object}	fleetsdk.AcceptInviteResponse
//	@Failure		404		{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		410		{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Router			/v1/invites/accept/{token} [post].
func (h *InvitesHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)

	result, err := h.InviteService.Accept(ctx, identity, SessionKeyFromContext(ctx), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err, "accept invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, fleetsdk.AcceptInviteResponse{
		Tenant:        toTenant(result.Tenant),
		Role:          string(result.Role),
		AlreadyMember: result.AlreadyMember,
	})
}
