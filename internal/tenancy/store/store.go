package store

import (
	"context"
	"errors"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// Sub-repositories are exposed as methods so a transaction-scoped Store can
// hand out the same repositories bound to the transaction.
type Store interface {
	Tenants() Tenants
	Memberships() Memberships
	Invites() Invites
	AuditEvents() AuditEvents
	Sessions() Sessions
	Identities() Identities

	ApplyMigrations() error

	// Tx starts a write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. The transaction is committed
	// when fn returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tenants interface {
	// CreateTenant inserts a tenant. Returns ErrAlreadyExists when the name
	// or slug is taken.
	CreateTenant(ctx context.Context, t domain.Tenant) error

	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	// GetTenantByName matches case-insensitively.
	GetTenantByName(ctx context.Context, name string) (domain.Tenant, error)

	SlugExists(ctx context.Context, slug string) (bool, error)

	// FirstTenant returns the oldest tenant.
	FirstTenant(ctx context.Context) (domain.Tenant, error)

	// ListTenantsForIdentity returns the tenants the identity is a member of,
	// ordered by name.
	ListTenantsForIdentity(ctx context.Context, identityID string) ([]domain.Tenant, error)

	// UpdateTenant rewrites the name and settings and stamps updated_at with
	// at. The slug is never touched.
	UpdateTenant(ctx context.Context, id, name string, settings domain.Settings, at time.Time) error
}

// MemberFilter narrows a member listing. Empty fields match everything.
type MemberFilter struct {
	Query string
	Role  domain.Role
}

type Memberships interface {
	// CreateMembership returns ErrAlreadyExists when the identity already
	// belongs to the tenant.
	CreateMembership(ctx context.Context, m domain.Membership) error

	// GetMembership looks up the membership of identityID in tenantID.
	GetMembership(ctx context.Context, tenantID, identityID string) (domain.Membership, error)

	// GetMember looks up a membership by id, scoped to tenantID, joined with
	// its identity.
	GetMember(ctx context.Context, tenantID, membershipID string) (domain.Member, error)

	// FirstMembershipForIdentity returns the oldest membership of the identity.
	FirstMembershipForIdentity(ctx context.Context, identityID string) (domain.Membership, error)

	ListMembers(ctx context.Context, tenantID string, filter MemberFilter) ([]domain.Member, error)

	CountMembers(ctx context.Context, tenantID string) (int, error)
	CountAdmins(ctx context.Context, tenantID string) (int, error)

	// DeleteMembershipKeepingAdmin deletes the membership unless it is the
	// tenant's only admin. The check and the delete are a single statement.
	// Returns false when no row was deleted.
	DeleteMembershipKeepingAdmin(ctx context.Context, tenantID, membershipID string) (bool, error)

	// UpdateRoleKeepingAdmin changes the role unless that would demote the
	// tenant's only admin. Returns false when no row was updated.
	UpdateRoleKeepingAdmin(ctx context.Context, tenantID, membershipID string, role domain.Role) (bool, error)
}

type Invites interface {
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByToken looks the token up across all tenants.
	GetInviteByToken(ctx context.Context, token string) (domain.Invite, error)

	// GetInvite looks up an invite by id, scoped to tenantID.
	GetInvite(ctx context.Context, tenantID, inviteID string) (domain.Invite, error)

	// ListInvites returns the newest invites of the tenant first.
	ListInvites(ctx context.Context, tenantID string, limit int) ([]domain.Invite, error)

	// ConsumeInvite records one redemption if the invite is still redeemable
	// at now, deactivating it when the last use is taken. Returns false when
	// the invite was not redeemable.
	ConsumeInvite(ctx context.Context, inviteID string, now time.Time) (bool, error)

	// RevokeInvite revokes an unused, unrevoked invite. Returns false when
	// nothing changed.
	RevokeInvite(ctx context.Context, tenantID, inviteID string, now time.Time) (bool, error)
}

// AuditFilter narrows an audit listing. From is inclusive and To exclusive.
type AuditFilter struct {
	Action domain.AuditAction
	From   *time.Time
	To     *time.Time
	Limit  int
}

type AuditEvents interface {
	CreateAuditEvent(ctx context.Context, ev domain.AuditEvent) error

	// ListAuditEvents returns matching events newest first.
	ListAuditEvents(ctx context.Context, tenantID string, filter AuditFilter) ([]domain.AuditEvent, error)

	// ListAuditActions returns the distinct actions recorded for the tenant.
	ListAuditActions(ctx context.Context, tenantID string) ([]domain.AuditAction, error)
}

type Sessions interface {
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// UpsertSession creates or replaces the session slot.
	UpsertSession(ctx context.Context, s domain.Session) error

	// DeleteIdleSessions removes sessions not touched since before.
	DeleteIdleSessions(ctx context.Context, before time.Time) (int64, error)
}

type Identities interface {
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByUsername matches case-insensitively.
	GetIdentityByUsername(ctx context.Context, username string) (domain.Identity, error)

	// UpsertIdentity inserts the identity or refreshes its profile fields.
	UpsertIdentity(ctx context.Context, i domain.Identity) error
}
