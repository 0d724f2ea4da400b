package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
)

func TestSingleAdminScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	acme := f.tenant(t, "Acme", alice)
	aliceM := f.membership(t, acme, alice)

	// Alice cannot demote herself
	_, err := f.members.UpdateRole(ctx, alice, acme, aliceM.ID, "user")
	require.ErrorIs(t, err, ErrCannotChangeOwnRole)

	// Nor remove herself
	_, err = f.members.Remove(ctx, alice, acme, aliceM.ID)
	require.ErrorIs(t, err, ErrCannotRemoveSelf)

	bob := f.identity(t, "bob")
	added, err := f.members.Add(ctx, alice, acme, "bob", "user")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, added.Role)

	n, err := f.store.Memberships().CountMembers(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	removed, err := f.members.Remove(ctx, alice, acme, added.ID)
	require.NoError(t, err)
	require.Equal(t, bob.ID, removed.IdentityID)

	n, err = f.store.Memberships().CountMembers(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	events := f.auditEvents(t, acme, domain.ActionMemberRemoved)
	require.Len(t, events, 1)
	require.Equal(t, alice.ID, events[0].ActorID)
	require.Equal(t, bob.ID, events[0].Metadata["removed_identity"])
	require.Equal(t, "bob", events[0].Metadata["removed_username"])
	require.Equal(t, "user", events[0].Metadata["role"])
}

func TestTwoAdminsScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	bob := f.identity(t, "bob")
	acme := f.tenant(t, "Acme", alice)
	aliceM := f.membership(t, acme, alice)
	bobM := f.join(t, acme, bob, domain.RoleAdmin)

	change, err := f.members.UpdateRole(ctx, alice, acme, bobM.ID, "user")
	require.NoError(t, err)
	require.True(t, change.Changed)
	require.Equal(t, domain.RoleAdmin, change.From)
	require.Equal(t, domain.RoleUser, change.To)

	admins, err := f.store.Memberships().CountAdmins(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, 1, admins)

	// Self role changes are blocked regardless of admin count
	_, err = f.members.UpdateRole(ctx, alice, acme, aliceM.ID, "user")
	require.ErrorIs(t, err, ErrCannotChangeOwnRole)

	events := f.auditEvents(t, acme, domain.ActionMemberRoleChanged)
	require.Len(t, events, 1)
	require.Equal(t, map[string]any{
		"identity": bob.ID,
		"username": "bob",
		"from":     "admin",
		"to":       "user",
	}, events[0].Metadata)
}

func TestLastAdminProtection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	acme := f.tenant(t, "Acme", alice)
	aliceM := f.membership(t, acme, alice)

	// An actor other than the sole admin still cannot remove or demote her
	root := f.superuser(t, "root")

	_, err := f.members.Remove(ctx, root, acme, aliceM.ID)
	require.ErrorIs(t, err, ErrLastAdminRemoval)

	_, err = f.members.UpdateRole(ctx, root, acme, aliceM.ID, "user")
	require.ErrorIs(t, err, ErrLastAdminDemotion)

	admins, err := f.store.Memberships().CountAdmins(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, 1, admins)

	require.InDelta(t, 2, f.counter(t, "fleetguard_rejections_total"), 0)
}

func TestUpdateRoleOutcomes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	bob := f.identity(t, "bob")
	acme := f.tenant(t, "Acme", alice)
	bobM := f.join(t, acme, bob, domain.RoleUser)

	t.Run("no change is not an error", func(t *testing.T) {
		change, err := f.members.UpdateRole(ctx, alice, acme, bobM.ID, "user")
		require.NoError(t, err)
		require.False(t, change.Changed)
		require.Empty(t, f.auditEvents(t, acme, domain.ActionMemberRoleChanged))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.members.UpdateRole(ctx, alice, acme, bobM.ID, "owner")
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("promotion", func(t *testing.T) {
		change, err := f.members.UpdateRole(ctx, alice, acme, bobM.ID, "ADMIN")
		require.NoError(t, err)
		require.True(t, change.Changed)
		require.Equal(t, domain.RoleAdmin, f.membership(t, acme, bob).Role)
	})

	t.Run("membership of another tenant", func(t *testing.T) {
		carol := f.identity(t, "carol")
		other := f.tenant(t, "Other", carol)
		carolM := f.membership(t, other, carol)

		_, err := f.members.UpdateRole(ctx, alice, acme, carolM.ID, "user")
		require.ErrorIs(t, err, ErrMemberNotFound)

		_, err = f.members.Remove(ctx, alice, acme, carolM.ID)
		require.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestConcurrentAdminRemovalKeepsOneAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	bob := f.identity(t, "bob")
	root := f.superuser(t, "root")
	acme := f.tenant(t, "Acme", alice)
	aliceM := f.membership(t, acme, alice)
	bobM := f.join(t, acme, bob, domain.RoleAdmin)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{aliceM.ID, bobM.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.members.Remove(ctx, root, acme, id)
		}()
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrLastAdminRemoval):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, rejected)

	admins, err := f.store.Memberships().CountAdmins(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, 1, admins)
}

func TestListMembersPolicy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	bob := f.identity(t, "bob")
	acme := f.tenant(t, "Acme", alice)
	f.join(t, acme, bob, domain.RoleUser)

	views, err := f.members.List(ctx, alice, acme, MemberQuery{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	require.Equal(t, "alice", views[0].Username)
	require.False(t, views[0].CanRemove)
	require.Equal(t, ErrCannotRemoveSelf.Message, views[0].RemoveReason)
	require.False(t, views[0].CanChangeRole)
	require.Equal(t, ErrCannotChangeOwnRole.Message, views[0].ChangeRoleReason)

	require.Equal(t, "bob", views[1].Username)
	require.True(t, views[1].CanRemove)
	require.True(t, views[1].CanChangeRole)

	// Viewed by someone else, the sole admin is protected by the admin rule
	root := f.superuser(t, "root")
	views, err = f.members.List(ctx, root, acme, MemberQuery{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.False(t, views[0].CanRemove)
	require.Equal(t, ErrLastAdminRemoval.Message, views[0].RemoveReason)
	require.Equal(t, ErrLastAdminDemotion.Message, views[0].ChangeRoleReason)

	_, err = f.members.List(ctx, alice, acme, MemberQuery{Role: "owner"})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestAddMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	f.identity(t, "Bob")
	acme := f.tenant(t, "Acme", alice)

	added, err := f.members.Add(ctx, alice, acme, "bob", "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, added.Role)
	require.Equal(t, "Bob", added.Username)

	_, err = f.members.Add(ctx, alice, acme, "bob", "user")
	require.ErrorIs(t, err, ErrAlreadyMember)

	_, err = f.members.Add(ctx, alice, acme, "nobody", "user")
	require.ErrorIs(t, err, ErrIdentityNotFound)

	_, err = f.members.Add(ctx, alice, acme, "  ", "user")
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.members.Add(ctx, alice, acme, "bob", "owner")
	require.ErrorIs(t, err, ErrInvalidRole)

	require.Len(t, f.auditEvents(t, acme, domain.ActionMemberAdded), 1)
}

func TestOverview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	alice := f.identity(t, "alice")
	bob := f.identity(t, "bob")
	acme := f.tenant(t, "Acme", alice)
	bobM := f.join(t, acme, bob, domain.RoleUser)

	ov, err := f.members.Overview(ctx, acme, bobM)
	require.NoError(t, err)
	require.Equal(t, 2, ov.MemberCount)
	require.Equal(t, 1, ov.AdminCount)
	require.Equal(t, domain.RoleUser, ov.Role)
	require.False(t, ov.IsAdmin)
}
