package domain

import "time"

// Session holds the per-session selected tenant slot.
type Session struct {
	ID         string
	IdentityID string
	TenantID   string // empty when nothing is selected
	UpdatedAt  time.Time
}

// SessionKey derives the slot key for a request. Tokens without a session id
// share one slot per identity.
func SessionKey(sessionID, identityID string) string {
	if sessionID != "" {
		return sessionID
	}
	return "sub:" + identityID
}
