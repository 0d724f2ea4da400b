package http

import (
	"errors"
	"net/http"

	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
	"github.com/abyford453/FleetGuard/pkg/httpx"
	"github.com/abyford453/FleetGuard/pkg/slogx"
)

// statusFor maps a rejection to its HTTP status.
func statusFor(r *service.Rejection) int {
	switch r.Class {
	case service.ClassForbidden:
		return http.StatusForbidden
	case service.ClassInvalid:
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(r, service.ErrMemberNotFound),
		errors.Is(r, service.ErrInviteNotFound),
		errors.Is(r, service.ErrIdentityNotFound),
		errors.Is(r, service.ErrInviteInvalid):
		return http.StatusNotFound
	case errors.Is(r, service.ErrInviteRevoked),
		errors.Is(r, service.ErrInviteExpired),
		errors.Is(r, service.ErrInviteExhausted):
		return http.StatusGone
	default:
		return http.StatusConflict
	}
}

// writeError renders err. Rejections become their mapped status and code;
// anything else is logged and reported as a server error.
func writeError(w http.ResponseWriter, r *http.Request, err error, failed string) {
	if rej, ok := service.AsRejection(err); ok {
		resp := fleetsdk.ErrorResponse{
			Error:            rej.Code,
			ErrorDescription: rej.Message,
			Redirect:         rej.Redirect,
		}
		for _, f := range rej.Fields {
			resp.Fields = append(resp.Fields, fleetsdk.FieldError{Field: f.Field, Message: f.Message})
		}
		httpx.WriteJSON(w, statusFor(rej), resp)
		return
	}

	slogx.FromContext(r.Context()).Error("request failed", "op", failed, "error", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, fleetsdk.ErrorResponse{
		Error:            fleetsdk.ErrorCodeServerError,
		ErrorDescription: "Failed to " + failed,
	})
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, fleetsdk.ErrorResponse{
		Error:            fleetsdk.ErrorCodeInvalidRequest,
		ErrorDescription: desc,
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusUnauthorized, fleetsdk.ErrorResponse{
		Error:            fleetsdk.ErrorCodeInvalidToken,
		ErrorDescription: "Authentication required",
	})
}
