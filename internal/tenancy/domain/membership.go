package domain

import "time"

type Membership struct {
	ID         string
	TenantID   string
	IdentityID string
	Role       Role
	CreatedAt  time.Time
}

func (m Membership) IsAdmin() bool { return m.Role == RoleAdmin }

// Member is a membership joined with its identity, as shown in member lists.
type Member struct {
	Membership

	Username    string
	DisplayName string
	Email       string
}

// Label is the human-readable name of the member.
func (m Member) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	if m.Username != "" {
		return m.Username
	}
	return m.IdentityID
}
