package http

import (
	"net/http"

	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
	"github.com/abyford453/FleetGuard/pkg/httpx"
)

type AuditHandler struct {
	Recorder *service.Recorder
}

// ServeHTTP godoc
//
//	@Summary		List Audit Events
//	@Description	Returns up to 200 audit events for the active tenant, newest first, plus every action tag recorded.
//	@Tags			Audit
//	@Produce		json
//	@Security		BearerAuth
//	@Param			action	query		string	false	"Action tag, e.g. member.removed"
//	@Param			start	query		string	false	"First day, YYYY-MM-DD (UTC)"
//	@Param			end		query		string	false	"Last day inclusive, YYYY-MM-DD (UTC)"
//	@Success		200		{object}	fleetsdk.AuditListResponse
//	@Failure		403		{object}	fleetsdk.ErrorResponse	"error, error_description"
//	@Failure		422		{object}	fleetsdk.ErrorResponse	"error, error_description, fields"
//	@Router			/v1/settings/audit [get].
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := TenantFromContext(ctx)

	q := r.URL.Query()
	listing, err := h.Recorder.List(ctx, *tenant, service.AuditQuery{
		Action: q.Get("action"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	})
	if err != nil {
		writeError(w, r, err, "list audit events")
		return
	}

	resp := fleetsdk.AuditListResponse{
		Events:  make([]fleetsdk.AuditEvent, 0, len(listing.Events)),
		Actions: make([]string, 0, len(listing.Actions)),
	}
	for _, e := range listing.Events {
		resp.Events = append(resp.Events, toAuditEvent(e))
	}
	for _, a := range listing.Actions {
		resp.Actions = append(resp.Actions, string(a))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
