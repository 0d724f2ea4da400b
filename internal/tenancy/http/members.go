package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
	"github.com/abyford453/FleetGuard/pkg/httpx"
)

// MembersHandler serves the admin member management endpoints.
type MembersHandler struct {
	MembershipService *service.MembershipService
}

// HandleList handles GET /v1/settings/members
//
//	@Summary		List Members
//	@Description	Lists members of the active tenant with the actions the caller may take on each.
//	@Tags			Members
//	@Produce		json
//	@Security		BearerAuth
//	@Param			q		query		string	false	"Matches username, display name or email"
//	@Param			role	query		string	false	"admin or user"
//	@Success		200		{object}	fleetsdk.MemberListResponse
//	@Failure		403		{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/settings/members [get].
func (h *MembersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)
	tenant := TenantFromContext(ctx)

	q := r.URL.Query()
	views, err := h.MembershipService.List(ctx, identity, *tenant, service.MemberQuery{
		Query: q.Get("q"),
		Role:  q.Get("role"),
	})
	if err != nil {
		writeError(w, r, err, "list members")
		return
	}

	resp := fleetsdk.MemberListResponse{Members: make([]fleetsdk.Member, 0, len(views))}
	for _, v := range views {
		resp.Members = append(resp.Members, toMemberView(v))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAdd handles POST /v1/settings/members
//
//	@Summary		Add Member
//	@Description	Adds an existing identity to the active tenant by username.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		fleetsdk.AddMemberRequest	true	"username, role"
//	@Success		201		{object}	fleetsdk.Member
//	@Failure		404		{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		409		{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		422		{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/settings/members [post].
func (h *MembersHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)
	tenant := TenantFromContext(ctx)

	var req fleetsdk.AddMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	added, err := h.MembershipService.Add(ctx, identity, *tenant, req.Username, req.Role)
	if err != nil {
		writeError(w, r, err, "add member")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toMember(added))
}

// HandleRemove handles DELETE /v1/settings/members/{membershipID}
//
//	@Summary		Remove Member
//	@Description	Removes a member. Self-removal and removing the last admin are refused.
//	@Tags			Members
//	@Security		BearerAuth
//	@Param			membershipID	path	string	true	"Membership ID"
//	@Success		204
//	@Failure		403	{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		409	{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Router			/v1/settings/members/{membershipID} [delete].
func (h *MembersHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)
	tenant := TenantFromContext(ctx)

	if _, err := h.MembershipService.Remove(ctx, identity, *tenant, chi.URLParam(r, "membershipID")); err != nil {
		writeError(w, r, err, "remove member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateRole handles PUT /v1/settings/members/{membershipID}/role
//
//	@Summary		Change Member Role
//	@Description	Changes a member's role. Changing your own role and demoting the last admin are refused.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			membershipID	path		string						true	"Membership ID"
//	@Param			request			body		fleetsdk.UpdateRoleRequest	true	"role"
//	@Success		200				{object}	fleetsdk.UpdateRoleResponse
//	@Failure		404				{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		409				{object}	fleetsdk.ErrorResponse	"error, error_description, redirect"
//	@Failure		422				{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/settings/members/{membershipID}/role [put].
func (h *MembersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := IdentityFromContext(ctx)
	tenant := TenantFromContext(ctx)

	var req fleetsdk.UpdateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	change, err := h.MembershipService.UpdateRole(ctx, identity, *tenant, chi.URLParam(r, "membershipID"), req.Role)
	if err != nil {
		writeError(w, r, err, "change role")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, fleetsdk.UpdateRoleResponse{
		Member:  toMember(change.Member),
		From:    string(change.From),
		To:      string(change.To),
		Changed: change.Changed,
	})
}
