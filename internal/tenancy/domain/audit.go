package domain

import "time"

// AuditAction is the closed set of recorded administrative actions.
type AuditAction string

const (
	ActionOrganizationUpdated AuditAction = "organization.updated"
	ActionMemberAdded         AuditAction = "member.added"
	ActionMemberRemoved       AuditAction = "member.removed"
	ActionMemberRoleChanged   AuditAction = "member.role_changed"
	ActionInviteCreated       AuditAction = "invite.created"
	ActionInviteRevoked       AuditAction = "invite.revoked"
	ActionInviteAccepted      AuditAction = "invite.accepted"
)

func AllAuditActions() []AuditAction {
	return []AuditAction{
		ActionOrganizationUpdated,
		ActionMemberAdded,
		ActionMemberRemoved,
		ActionMemberRoleChanged,
		ActionInviteCreated,
		ActionInviteRevoked,
		ActionInviteAccepted,
	}
}

func (a AuditAction) IsValid() bool {
	for _, known := range AllAuditActions() {
		if a == known {
			return true
		}
	}
	return false
}

// AuditEvent is write-once.
type AuditEvent struct {
	ID        string
	TenantID  string
	ActorID   string // empty for system actions
	Action    AuditAction
	Message   string
	Metadata  map[string]any
	CreatedAt time.Time
}
