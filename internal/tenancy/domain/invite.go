package domain

import "time"

const (
	DefaultInviteExpiryDays = 7
	MaxInviteExpiryDays     = 365
	DefaultInviteMaxUses    = 1
)

// InviteStatus explains why an invite can or cannot be redeemed.
type InviteStatus string

const (
	InviteRedeemable InviteStatus = "redeemable"
	InviteRevoked    InviteStatus = "revoked"
	InviteExpired    InviteStatus = "expired"
	InviteExhausted  InviteStatus = "exhausted"
)

// Invite is a bearer token granting membership in one tenant at one role.
type Invite struct {
	ID        string
	TenantID  string
	Token     string
	Role      Role
	Email     string
	CreatedBy string
	CreatedAt time.Time
	ExpiresAt *time.Time
	Uses      int
	MaxUses   int
	IsActive  bool
	Revoked   bool
	RevokedAt *time.Time
	UsedAt    *time.Time
}

// Redeemable is the single source of truth for whether the invite may be
// accepted at now.
func (i Invite) Redeemable(now time.Time) bool {
	return i.IsActive &&
		!i.Revoked &&
		!i.expired(now) &&
		i.Uses < i.MaxUses
}

// Status discriminates the reason an invite is not redeemable, checking
// revoked, then expired, then exhausted.
func (i Invite) Status(now time.Time) InviteStatus {
	switch {
	case i.Revoked:
		return InviteRevoked
	case i.expired(now):
		return InviteExpired
	case !i.Redeemable(now):
		return InviteExhausted
	default:
		return InviteRedeemable
	}
}

// Used reports whether anyone has accepted the invite yet.
func (i Invite) Used() bool { return i.Uses > 0 }

func (i Invite) expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}
