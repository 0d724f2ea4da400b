package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/internal/tenancy/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "fleet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedIdentity(t *testing.T, s store.Store, username string) domain.Identity {
	t.Helper()

	now := time.Now().UTC()
	id := domain.Identity{
		ID:        domain.NewID(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Identities().UpsertIdentity(context.Background(), id))
	return id
}

func seedTenant(t *testing.T, s store.Store, name string) domain.Tenant {
	t.Helper()

	tenant := domain.Tenant{
		ID:        domain.NewID(),
		Name:      name,
		Slug:      domain.Slugify(name),
		Settings:  domain.DefaultSettings(),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Tenants().CreateTenant(context.Background(), tenant))
	return tenant
}

func seedMembership(t *testing.T, s store.Store, tenantID, identityID string, role domain.Role) domain.Membership {
	t.Helper()

	m := domain.Membership{
		ID:         domain.NewID(),
		TenantID:   tenantID,
		IdentityID: identityID,
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.Memberships().CreateMembership(context.Background(), m))
	return m
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestTenantsRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	acme := seedTenant(t, s, "Acme Fleet")

	got, err := s.Tenants().GetTenantByID(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, acme.Name, got.Name)
	require.Equal(t, "acme-fleet", got.Slug)
	require.Equal(t, domain.DefaultSettings(), got.Settings)

	byName, err := s.Tenants().GetTenantByName(ctx, "ACME fleet")
	require.NoError(t, err)
	require.Equal(t, acme.ID, byName.ID)

	exists, err := s.Tenants().SlugExists(ctx, "acme-fleet")
	require.NoError(t, err)
	require.True(t, exists)

	dup := acme
	dup.ID = domain.NewID()
	dup.Slug = "other"
	require.ErrorIs(t, s.Tenants().CreateTenant(ctx, dup), store.ErrAlreadyExists)

	settings := got.Settings
	settings.UnitsDistance = domain.DistanceKM
	updatedAt := acme.CreatedAt.Add(36 * time.Hour).Truncate(time.Millisecond)
	require.NoError(t, s.Tenants().UpdateTenant(ctx, acme.ID, "Acme Logistics", settings, updatedAt))

	got, err = s.Tenants().GetTenantByID(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Logistics", got.Name)
	require.True(t, got.UpdatedAt.Equal(updatedAt), "updated_at comes from the caller")
	require.True(t, got.CreatedAt.Equal(acme.CreatedAt.Truncate(time.Millisecond)))
	require.Equal(t, "acme-fleet", got.Slug)
	require.Equal(t, domain.DistanceKM, got.Settings.UnitsDistance)

	require.ErrorIs(t, s.Tenants().UpdateTenant(ctx, "missing", "x", settings, updatedAt), store.ErrNotFound)

	_, err = s.Tenants().GetTenantByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMembershipUniqueness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	tenant := seedTenant(t, s, "Acme")
	alice := seedIdentity(t, s, "alice")
	seedMembership(t, s, tenant.ID, alice.ID, domain.RoleAdmin)

	err := s.Memberships().CreateMembership(ctx, domain.Membership{
		ID:         domain.NewID(),
		TenantID:   tenant.ID,
		IdentityID: alice.ID,
		Role:       domain.RoleUser,
		CreatedAt:  time.Now(),
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestListMembersFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	tenant := seedTenant(t, s, "Acme")
	for _, name := range []string{"carol", "alice", "bob"} {
		role := domain.RoleUser
		if name == "alice" {
			role = domain.RoleAdmin
		}
		seedMembership(t, s, tenant.ID, seedIdentity(t, s, name).ID, role)
	}

	all, err := s.Memberships().ListMembers(ctx, tenant.ID, store.MemberFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "alice", all[0].Username)
	require.Equal(t, "bob", all[1].Username)
	require.Equal(t, "carol", all[2].Username)

	admins, err := s.Memberships().ListMembers(ctx, tenant.ID, store.MemberFilter{Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)

	matched, err := s.Memberships().ListMembers(ctx, tenant.ID, store.MemberFilter{Query: "CAR"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "carol", matched[0].Username)

	none, err := s.Memberships().ListMembers(ctx, tenant.ID, store.MemberFilter{Query: "%"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestDeleteMembershipKeepingAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	tenant := seedTenant(t, s, "Acme")
	admin := seedMembership(t, s, tenant.ID, seedIdentity(t, s, "alice").ID, domain.RoleAdmin)
	user := seedMembership(t, s, tenant.ID, seedIdentity(t, s, "bob").ID, domain.RoleUser)

	ok, err := s.Memberships().DeleteMembershipKeepingAdmin(ctx, tenant.ID, admin.ID)
	require.NoError(t, err)
	require.False(t, ok, "sole admin must survive")

	ok, err = s.Memberships().DeleteMembershipKeepingAdmin(ctx, tenant.ID, user.ID)
	require.NoError(t, err)
	require.True(t, ok)

	other := seedTenant(t, s, "Other")
	ok, err = s.Memberships().DeleteMembershipKeepingAdmin(ctx, other.ID, admin.ID)
	require.NoError(t, err)
	require.False(t, ok, "membership is scoped to its tenant")
}

func TestConcurrentAdminDemotionKeepsOneAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	tenant := seedTenant(t, s, "Acme")
	a := seedMembership(t, s, tenant.ID, seedIdentity(t, s, "alice").ID, domain.RoleAdmin)
	b := seedMembership(t, s, tenant.ID, seedIdentity(t, s, "bob").ID, domain.RoleAdmin)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	errs := make([]error, 2)
	for i, id := range []string{a.ID, b.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.WithTx(ctx, func(tx store.Tx) error {
				ok, err := tx.Memberships().UpdateRoleKeepingAdmin(ctx, tenant.ID, id, domain.RoleUser)
				results[i] = ok
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	require.NotEqual(t, results[0], results[1], "exactly one demotion wins")

	n, err := s.Memberships().CountAdmins(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestConsumeInvite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	tenant := seedTenant(t, s, "Acme")

	now := time.Now().UTC()
	expires := now.Add(time.Hour)
	inv := domain.Invite{
		ID:        domain.NewID(),
		TenantID:  tenant.ID,
		Token:     "token-1",
		Role:      domain.RoleUser,
		CreatedAt: now,
		ExpiresAt: &expires,
		MaxUses:   2,
		IsActive:  true,
	}
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	ok, err := s.Invites().ConsumeInvite(ctx, inv.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Invites().GetInviteByToken(ctx, "token-1")
	require.NoError(t, err)
	require.Equal(t, 1, got.Uses)
	require.True(t, got.IsActive)
	require.NotNil(t, got.UsedAt)

	ok, err = s.Invites().ConsumeInvite(ctx, inv.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	got, err = s.Invites().GetInvite(ctx, tenant.ID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Uses)
	require.False(t, got.IsActive)

	ok, err = s.Invites().ConsumeInvite(ctx, inv.ID, now)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConsumeInviteRejectsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	tenant := seedTenant(t, s, "Acme")

	now := time.Now().UTC()
	expires := now.Add(-time.Minute)
	inv := domain.Invite{
		ID: domain.NewID(), TenantID: tenant.ID, Token: "t", Role: domain.RoleUser,
		CreatedAt: now, ExpiresAt: &expires, MaxUses: 1, IsActive: true,
	}
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	ok, err := s.Invites().ConsumeInvite(ctx, inv.ID, now)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevokeInvite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	tenant := seedTenant(t, s, "Acme")
	now := time.Now().UTC()

	unused := domain.Invite{ID: domain.NewID(), TenantID: tenant.ID, Token: "a", Role: domain.RoleUser, CreatedAt: now, MaxUses: 1, IsActive: true}
	used := domain.Invite{ID: domain.NewID(), TenantID: tenant.ID, Token: "b", Role: domain.RoleUser, CreatedAt: now, MaxUses: 3, Uses: 1, IsActive: true}
	require.NoError(t, s.Invites().CreateInvite(ctx, unused))
	require.NoError(t, s.Invites().CreateInvite(ctx, used))

	ok, err := s.Invites().RevokeInvite(ctx, tenant.ID, unused.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Invites().GetInvite(ctx, tenant.ID, unused.ID)
	require.NoError(t, err)
	require.True(t, got.Revoked)
	require.False(t, got.IsActive)
	require.NotNil(t, got.RevokedAt)

	ok, err = s.Invites().RevokeInvite(ctx, tenant.ID, unused.ID, now)
	require.NoError(t, err)
	require.False(t, ok, "already revoked")

	ok, err = s.Invites().RevokeInvite(ctx, tenant.ID, used.ID, now)
	require.NoError(t, err)
	require.False(t, ok, "used invites cannot be revoked")

	list, err := s.Invites().ListInvites(ctx, tenant.ID, 200)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestAuditEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	tenant := seedTenant(t, s, "Acme")

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []domain.AuditEvent{
		{ID: domain.NewID(), TenantID: tenant.ID, ActorID: "a", Action: domain.ActionInviteCreated, Message: "one", CreatedAt: base, Metadata: map[string]any{"role": "user"}},
		{ID: domain.NewID(), TenantID: tenant.ID, Action: domain.ActionMemberRemoved, Message: "two", CreatedAt: base.Add(24 * time.Hour)},
		{ID: domain.NewID(), TenantID: tenant.ID, ActorID: "a", Action: domain.ActionInviteCreated, Message: "three", CreatedAt: base.Add(48 * time.Hour)},
	}
	for _, ev := range events {
		require.NoError(t, s.AuditEvents().CreateAuditEvent(ctx, ev))
	}

	all, err := s.AuditEvents().ListAuditEvents(ctx, tenant.ID, store.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "three", all[0].Message)
	require.Equal(t, "user", all[2].Metadata["role"])
	require.Empty(t, all[1].ActorID)

	from := base.Add(24 * time.Hour)
	to := base.Add(48 * time.Hour)
	window, err := s.AuditEvents().ListAuditEvents(ctx, tenant.ID, store.AuditFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Equal(t, "two", window[0].Message)

	byAction, err := s.AuditEvents().ListAuditEvents(ctx, tenant.ID, store.AuditFilter{Action: domain.ActionInviteCreated, Limit: 1})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	require.Equal(t, "three", byAction[0].Message)

	actions, err := s.AuditEvents().ListAuditActions(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.AuditAction{domain.ActionInviteCreated, domain.ActionMemberRemoved}, actions)
}

func TestSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	tenant := seedTenant(t, s, "Acme")
	alice := seedIdentity(t, s, "alice")

	old := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, s.Sessions().UpsertSession(ctx, domain.Session{ID: "s1", IdentityID: alice.ID, UpdatedAt: old}))
	require.NoError(t, s.Sessions().UpsertSession(ctx, domain.Session{ID: "s2", IdentityID: alice.ID, TenantID: tenant.ID, UpdatedAt: time.Now()}))

	got, err := s.Sessions().GetSession(ctx, "s2")
	require.NoError(t, err)
	require.Equal(t, tenant.ID, got.TenantID)

	got, err = s.Sessions().GetSession(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, got.TenantID)

	n, err := s.Sessions().DeleteIdleSessions(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Sessions().GetSession(ctx, "s1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIdentities(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	alice := seedIdentity(t, s, "Alice")

	got, err := s.Identities().GetIdentityByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	alice.DisplayName = "Alice A."
	alice.Superuser = true
	require.NoError(t, s.Identities().UpsertIdentity(ctx, alice))

	got, err = s.Identities().GetIdentityByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice A.", got.DisplayName)
	require.True(t, got.Superuser)

	_, err = s.Identities().GetIdentityByUsername(ctx, "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestNestedTxIsRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err)
}
