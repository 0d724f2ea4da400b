package domain

import (
	"time"

	"github.com/abyford453/FleetGuard/pkg/idx"
)

// SuperuserScope marks an identity with system-wide privilege. A superuser
// without memberships falls back to the oldest tenant; it still needs a
// membership to pass the tenant guards.
const SuperuserScope = "fleet:superuser"

// Identity is an authenticated principal, mirrored from verified token claims.
type Identity struct {
	ID          string
	Username    string
	DisplayName string
	Email       string
	Superuser   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Label is the human-readable name used in audit messages.
func (i Identity) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Username != "" {
		return i.Username
	}
	return i.ID
}

// SameProfile reports whether the mirrored profile fields match.
func (i Identity) SameProfile(o Identity) bool {
	return i.Username == o.Username &&
		i.DisplayName == o.DisplayName &&
		i.Email == o.Email &&
		i.Superuser == o.Superuser
}

// NewID mints a ULID for a new record.
func NewID() string { return idx.New() }
