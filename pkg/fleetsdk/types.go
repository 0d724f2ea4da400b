package fleetsdk

import "time"

// ============================================================================
// Errors
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a stable machine-readable code, e.g. "last_admin_removal"
	Error string `json:"error"`

	// ErrorDescription is a human-readable message
	ErrorDescription string `json:"error_description"`

	// Redirect suggests where a UI should send the user next
	Redirect string `json:"redirect,omitempty"`

	// Fields lists per-field validation failures
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError is one failed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports readiness of critical dependencies (/readyz only).
type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// ============================================================================
// Tenants
// ============================================================================

// Settings are the per-tenant preferences.
type Settings struct {
	DefaultInspectionDueDays    int    `json:"default_inspection_due_days"`
	InspectionAlertDaysBefore   int    `json:"inspection_alert_days_before"`
	MaintenanceAlertMilesBefore int    `json:"maintenance_alert_miles_before"`
	MaintenanceAlertDaysBefore  int    `json:"maintenance_alert_days_before"`
	UnitsDistance               string `json:"units_distance"`
	UnitsFuel                   string `json:"units_fuel"`
}

type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"created_at"`
}

// TenantListResponse lists the tenants the caller may select.
type TenantListResponse struct {
	Tenants []Tenant `json:"tenants"`

	// SelectedID is the active tenant of the caller's session, if any
	SelectedID string `json:"selected_id,omitempty"`
}

type CreateTenantRequest struct {
	Name string `json:"name"`
}

// ============================================================================
// Settings
// ============================================================================

// SettingsOverview is the settings landing page for any member.
type SettingsOverview struct {
	Tenant      Tenant `json:"tenant"`
	Role        string `json:"role"`
	IsAdmin     bool   `json:"is_admin"`
	MemberCount int    `json:"member_count"`
	AdminCount  int    `json:"admin_count"`
}

// UpdateOrganizationRequest replaces the tenant name and preferences.
type UpdateOrganizationRequest struct {
	Name     string   `json:"name"`
	Settings Settings `json:"settings"`
}

type UpdateOrganizationResponse struct {
	Tenant  Tenant   `json:"tenant"`
	Changed []string `json:"changed"`
}

// ============================================================================
// Members
// ============================================================================

// Member is one row of the member list, with the actions the caller may take.
type Member struct {
	MembershipID string    `json:"membership_id"`
	IdentityID   string    `json:"identity_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joined_at"`

	CanRemove        bool   `json:"can_remove"`
	RemoveReason     string `json:"remove_reason,omitempty"`
	CanChangeRole    bool   `json:"can_change_role"`
	ChangeRoleReason string `json:"change_role_reason,omitempty"`
}

type MemberListResponse struct {
	Members []Member `json:"members"`
}

// AddMemberRequest adds an identity known to the directory by username.
type AddMemberRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRoleResponse reports the role transition. Changed is false when the
// member already held the requested role.
type UpdateRoleResponse struct {
	Member  Member `json:"member"`
	From    string `json:"from"`
	To      string `json:"to"`
	Changed bool   `json:"changed"`
}

// ============================================================================
// Audit
// ============================================================================

type AuditEvent struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id,omitempty"`
	Action    string         `json:"action"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditListResponse holds the newest matching events and every action tag
// seen in the tenant, for filter menus.
type AuditListResponse struct {
	Events  []AuditEvent `json:"events"`
	Actions []string     `json:"actions"`
}

// ============================================================================
// Invites
// ============================================================================

type Invite struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Email     string     `json:"email,omitempty"`
	Status    string     `json:"status"`
	AcceptURL string     `json:"accept_url"`
	Uses      int        `json:"uses"`
	MaxUses   int        `json:"max_uses"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

type InviteListResponse struct {
	Invites []Invite `json:"invites"`
}

// CreateInviteRequest configures a new invite. Zero values take the server
// defaults: role user, 7 days, single use.
type CreateInviteRequest struct {
	Role          string `json:"role,omitempty"`
	Email         string `json:"email,omitempty"`
	ExpiresInDays int    `json:"expires_in_days,omitempty"`
	MaxUses       int    `json:"max_uses,omitempty"`
}

// InvitePreview is shown before the invitee confirms.
type InvitePreview struct {
	TenantID      string     `json:"tenant_id"`
	TenantName    string     `json:"tenant_name"`
	Role          string     `json:"role"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	AlreadyMember bool       `json:"already_member"`
}

type AcceptInviteResponse struct {
	Tenant        Tenant `json:"tenant"`
	Role          string `json:"role"`
	AlreadyMember bool   `json:"already_member"`
}
