package fleetsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes shared by the server and the client.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeInvalidToken   = "invalid_token"
	ErrorCodeServerError    = "server_error"
	ErrorCodeNotFound       = "not_found"

	ErrorCodeNoTenantSelected = "no_tenant_selected"
	ErrorCodeAccessDenied     = "access_denied"
	ErrorCodeAdminRequired    = "admin_required"
	ErrorCodeTenantNotAllowed = "tenant_not_allowed"

	ErrorCodeLastAdmin         = "last_admin_removal"
	ErrorCodeLastAdminDemotion = "last_admin_demotion"
	ErrorCodeValidation        = "validation_failed"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Redirect    string
	Fields      []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// parseErrorResponse turns an error body into an *APIError. Bodies that are
// not ErrorResponse JSON fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Redirect:    errResp.Redirect,
			Fields:      errResp.Fields,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
