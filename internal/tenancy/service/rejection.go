package service

import (
	"errors"

	"github.com/abyford453/FleetGuard/pkg/validatex"
)

// Class groups rejections by how a caller should react to them.
type Class int

const (
	// ClassWorkflow is an expected outcome the caller recovers from, usually
	// by going to Redirect.
	ClassWorkflow Class = iota + 1
	// ClassForbidden is a hard authorization failure. Retrying with other
	// parameters will not help.
	ClassForbidden
	// ClassInvalid is an input validation failure.
	ClassInvalid
)

func (c Class) String() string {
	switch c {
	case ClassWorkflow:
		return "workflow"
	case ClassForbidden:
		return "forbidden"
	case ClassInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Rejection is a named, expected refusal of an operation. Sentinel values
// are compared by Code, so errors.Is matches copies carrying Fields.
type Rejection struct {
	Code     string
	Message  string
	Class    Class
	Redirect string
	Fields   validatex.FieldErrors
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Code == r.Code
}

// AsRejection unwraps err into a *Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

const (
	redirectTenants  = "/v1/tenants"
	redirectMembers  = "/v1/settings/members"
	redirectInvites  = "/v1/settings/invites"
	redirectSettings = "/v1/settings"
)

func workflow(code, message, redirect string) *Rejection {
	return &Rejection{Code: code, Message: message, Class: ClassWorkflow, Redirect: redirect}
}

var (
	ErrNoTenantSelected = workflow("no_tenant_selected", "No active tenant selected. Please select a tenant first.", redirectTenants)
	ErrAccessDenied     = workflow("access_denied", "You do not have access to this tenant.", redirectTenants)
	ErrAdminRequired    = &Rejection{Code: "admin_required", Message: "Admin access required.", Class: ClassForbidden}

	ErrMemberNotFound      = workflow("member_not_found", "Member not found for this tenant.", redirectMembers)
	ErrCannotRemoveSelf    = workflow("cannot_remove_self", "You cannot remove yourself.", redirectMembers)
	ErrLastAdminRemoval    = workflow("last_admin_removal", "You cannot remove the last admin for this tenant.", redirectMembers)
	ErrCannotChangeOwnRole = workflow("cannot_change_own_role", "You cannot change your own role.", redirectMembers)
	ErrLastAdminDemotion   = workflow("last_admin_demotion", "You cannot demote the last admin for this tenant.", redirectMembers)
	ErrInvalidRole         = &Rejection{Code: "invalid_role", Message: "Invalid role selection.", Class: ClassInvalid, Redirect: redirectMembers}
	ErrIdentityNotFound    = workflow("identity_not_found", "No user with that username exists.", redirectMembers)
	ErrAlreadyMember       = workflow("already_member", "That user is already a member of this tenant.", redirectMembers)

	ErrInviteNotFound       = workflow("invite_not_found", "Invite not found for this tenant.", redirectInvites)
	ErrInviteAlreadyUsed    = workflow("invite_already_used", "This invite has already been used and cannot be revoked.", redirectInvites)
	ErrInviteAlreadyRevoked = workflow("invite_already_revoked", "This invite has already been revoked.", redirectInvites)
	ErrInviteInvalid        = workflow("invite_invalid", "Invalid invite link", redirectTenants)
	ErrInviteRevoked        = workflow("invite_revoked", "This invite link has been revoked.", redirectTenants)
	ErrInviteExpired        = workflow("invite_expired", "This invite link has expired.", redirectTenants)
	ErrInviteExhausted      = workflow("invite_exhausted", "This invite link has already been used.", redirectTenants)

	ErrTenantNotAllowed = &Rejection{Code: "tenant_not_allowed", Message: "Not allowed to access this tenant.", Class: ClassForbidden}
	ErrTenantNameTaken  = &Rejection{Code: "tenant_name_taken", Message: "A tenant with this name already exists.", Class: ClassInvalid, Redirect: redirectSettings}

	ErrValidation = &Rejection{Code: "validation_failed", Message: "Please correct the highlighted fields.", Class: ClassInvalid}
)

// invalid wraps validator output into a validation rejection. Errors that
// are not field errors are returned unchanged.
func invalid(err error) error {
	var fields validatex.FieldErrors
	if !errors.As(err, &fields) {
		return err
	}
	r := *ErrValidation
	r.Fields = fields
	return &r
}

// invalidField builds a validation rejection for a single field.
func invalidField(field, message string) error {
	r := *ErrValidation
	r.Fields = validatex.FieldErrors{{Field: field, Message: message}}
	return &r
}

var defaultValidator = validatex.New()

func validatorOrDefault(v *validatex.Validator) *validatex.Validator {
	if v != nil {
		return v
	}
	return defaultValidator
}
