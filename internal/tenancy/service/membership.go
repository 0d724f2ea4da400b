package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/pkg/slogx"
)

// MembershipService manages who belongs to a tenant and with which role.
// Callers are expected to have passed Guard.RequireAdmin for mutations.
type MembershipService struct {
	Store   store.Store
	Audit   *Recorder
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// RoleChange reports the outcome of UpdateRole. Changed is false when the
// requested role equals the current one.
type RoleChange struct {
	Member  domain.Member
	From    domain.Role
	To      domain.Role
	Changed bool
}

// MemberView is a member row with the actions the viewer may take on it.
type MemberView struct {
	domain.Member

	CanRemove        bool
	RemoveReason     string
	CanChangeRole    bool
	ChangeRoleReason string
}

type MemberQuery struct {
	Query string
	Role  string
}

// Overview summarizes the tenant for any member.
type Overview struct {
	Tenant      domain.Tenant
	Role        domain.Role
	IsAdmin     bool
	MemberCount int
	AdminCount  int
}

// removalBlock returns the rejection that forbids actor removing target, or
// nil when removal is allowed.
func removalBlock(actorID string, target domain.Member, adminCount int) *Rejection {
	if target.IdentityID == actorID {
		return ErrCannotRemoveSelf
	}
	if target.IsAdmin() && adminCount <= 1 {
		return ErrLastAdminRemoval
	}
	return nil
}

// roleChangeBlock returns the rejection that forbids actor setting target to
// desired, or nil. Pass an empty desired role to check only what holds for
// every role.
func roleChangeBlock(actorID string, target domain.Member, desired domain.Role, adminCount int) *Rejection {
	if target.IdentityID == actorID {
		return ErrCannotChangeOwnRole
	}
	if desired == "" {
		return nil
	}
	if !desired.IsValid() {
		return ErrInvalidRole
	}
	if target.IsAdmin() && desired == domain.RoleUser && adminCount <= 1 {
		return ErrLastAdminDemotion
	}
	return nil
}

// Remove deletes a membership from tenant.
func (s *MembershipService) Remove(ctx context.Context, actor domain.Identity, tenant domain.Tenant, membershipID string) (removed domain.Member, err error) {
	ctx, span := startSpan(ctx, "tenancy.member.remove",
		attribute.String("tenant.id", tenant.ID),
		attribute.String("membership.id", membershipID),
	)
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Load the target within this tenant
		target, err := tx.Memberships().GetMember(ctx, tenant.ID, membershipID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("load member: %w", err)
		}

		// 2. Policy checks
		admins, err := tx.Memberships().CountAdmins(ctx, tenant.ID)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if r := removalBlock(actor.ID, target, admins); r != nil {
			return r
		}

		// 3. Conditional delete keeps at least one admin
		ok, err := tx.Memberships().DeleteMembershipKeepingAdmin(ctx, tenant.ID, membershipID)
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		if !ok {
			return ErrLastAdminRemoval
		}

		removed = target
		return nil
	})
	if err != nil {
		if _, ok := AsRejection(err); ok {
			log.Warn("member removal rejected",
				slog.String("tenant_id", tenant.ID),
				slog.String("membership_id", membershipID),
				slog.String("reason", err.Error()),
			)
		}
		return domain.Member{}, err
	}

	// 4. Audit after commit
	s.Metrics.IncMembershipChange("removed")
	s.Audit.Record(ctx, AuditEntry{
		TenantID: tenant.ID,
		ActorID:  actor.ID,
		Action:   domain.ActionMemberRemoved,
		Message:  fmt.Sprintf("%s removed %s from %s.", actor.Label(), removed.Label(), tenant.Name),
		Metadata: map[string]any{
			"removed_identity": removed.IdentityID,
			"removed_username": removed.Username,
			"role":             string(removed.Role),
		},
	})

	log.Info("member removed",
		slog.String("tenant_id", tenant.ID),
		slog.String("membership_id", removed.ID),
		slog.String("identity_id", removed.IdentityID),
	)

	return removed, nil
}

// UpdateRole sets the role of a membership in tenant.
func (s *MembershipService) UpdateRole(ctx context.Context, actor domain.Identity, tenant domain.Tenant, membershipID string, desired string) (change RoleChange, err error) {
	ctx, span := startSpan(ctx, "tenancy.member.update_role",
		attribute.String("tenant.id", tenant.ID),
		attribute.String("membership.id", membershipID),
	)
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Load the target within this tenant
		target, err := tx.Memberships().GetMember(ctx, tenant.ID, membershipID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("load member: %w", err)
		}

		// 2. Policy checks, self first
		if r := roleChangeBlock(actor.ID, target, "", 0); r != nil {
			return r
		}
		role, err := domain.ParseRole(desired)
		if err != nil {
			return ErrInvalidRole
		}
		change = RoleChange{Member: target, From: target.Role, To: role}
		if role == target.Role {
			return nil
		}

		admins, err := tx.Memberships().CountAdmins(ctx, tenant.ID)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if r := roleChangeBlock(actor.ID, target, role, admins); r != nil {
			return r
		}

		// 3. Conditional update keeps at least one admin
		ok, err := tx.Memberships().UpdateRoleKeepingAdmin(ctx, tenant.ID, membershipID, role)
		if err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		if !ok {
			return ErrLastAdminDemotion
		}

		change.Changed = true
		change.Member.Role = role
		return nil
	})
	if err != nil {
		if _, ok := AsRejection(err); ok {
			log.Warn("role change rejected",
				slog.String("tenant_id", tenant.ID),
				slog.String("membership_id", membershipID),
				slog.String("reason", err.Error()),
			)
		}
		return RoleChange{}, err
	}

	if !change.Changed {
		return change, nil
	}

	// 4. Audit after commit
	s.Metrics.IncMembershipChange("role_changed")
	s.Audit.Record(ctx, AuditEntry{
		TenantID: tenant.ID,
		ActorID:  actor.ID,
		Action:   domain.ActionMemberRoleChanged,
		Message:  fmt.Sprintf("%s changed %s from %s to %s.", actor.Label(), change.Member.Label(), change.From, change.To),
		Metadata: map[string]any{
			"identity": change.Member.IdentityID,
			"username": change.Member.Username,
			"from":     string(change.From),
			"to":       string(change.To),
		},
	})

	log.Info("member role changed",
		slog.String("tenant_id", tenant.ID),
		slog.String("membership_id", membershipID),
		slog.String("from", string(change.From)),
		slog.String("to", string(change.To)),
	)

	return change, nil
}

// List returns the tenant's members, each annotated for the viewer.
func (s *MembershipService) List(ctx context.Context, viewer domain.Identity, tenant domain.Tenant, q MemberQuery) ([]MemberView, error) {
	filter := store.MemberFilter{Query: strings.TrimSpace(q.Query)}
	if q.Role != "" {
		role, err := domain.ParseRole(q.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		filter.Role = role
	}

	members, err := s.Store.Memberships().ListMembers(ctx, tenant.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	admins, err := s.Store.Memberships().CountAdmins(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}

	out := make([]MemberView, 0, len(members))
	for _, m := range members {
		v := MemberView{Member: m, CanRemove: true, CanChangeRole: true}
		if r := removalBlock(viewer.ID, m, admins); r != nil {
			v.CanRemove, v.RemoveReason = false, r.Message
		}
		if r := roleChangeBlock(viewer.ID, m, "", admins); r != nil {
			v.CanChangeRole, v.ChangeRoleReason = false, r.Message
		} else if m.IsAdmin() && admins <= 1 {
			// Promotion is moot for an admin, so the only change is a demotion
			v.CanChangeRole, v.ChangeRoleReason = false, ErrLastAdminDemotion.Message
		}
		out = append(out, v)
	}
	return out, nil
}

// Add grants an existing identity membership in tenant.
func (s *MembershipService) Add(ctx context.Context, actor domain.Identity, tenant domain.Tenant, username, role string) (added domain.Member, err error) {
	ctx, span := startSpan(ctx, "tenancy.member.add", attribute.String("tenant.id", tenant.ID))
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)

	// 1. Validate input
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Member{}, invalidField("username", "is required")
	}
	r := domain.RoleUser
	if role != "" {
		if r, err = domain.ParseRole(role); err != nil {
			return domain.Member{}, ErrInvalidRole
		}
	}

	// 2. Find the identity
	identity, err := s.Store.Identities().GetIdentityByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Member{}, ErrIdentityNotFound
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("load identity: %w", err)
	}

	// 3. Create the membership, relying on the unique constraint
	m := domain.Membership{
		ID:         domain.NewID(),
		TenantID:   tenant.ID,
		IdentityID: identity.ID,
		Role:       r,
		CreatedAt:  now(s.Now),
	}
	if err := s.Store.Memberships().CreateMembership(ctx, m); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Member{}, ErrAlreadyMember
		}
		return domain.Member{}, fmt.Errorf("create membership: %w", err)
	}

	added = domain.Member{
		Membership:  m,
		Username:    identity.Username,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
	}

	// 4. Audit
	s.Metrics.IncMembershipChange("added")
	s.Audit.Record(ctx, AuditEntry{
		TenantID: tenant.ID,
		ActorID:  actor.ID,
		Action:   domain.ActionMemberAdded,
		Message:  fmt.Sprintf("%s added %s as %s.", actor.Label(), added.Label(), r),
		Metadata: map[string]any{
			"identity": identity.ID,
			"username": identity.Username,
			"role":     string(r),
		},
	})

	log.Info("member added",
		slog.String("tenant_id", tenant.ID),
		slog.String("identity_id", identity.ID),
		slog.String("role", string(r)),
	)

	return added, nil
}

// Overview returns member and admin counts plus the viewer's own role.
func (s *MembershipService) Overview(ctx context.Context, tenant domain.Tenant, viewer domain.Membership) (Overview, error) {
	members, err := s.Store.Memberships().CountMembers(ctx, tenant.ID)
	if err != nil {
		return Overview{}, fmt.Errorf("count members: %w", err)
	}
	admins, err := s.Store.Memberships().CountAdmins(ctx, tenant.ID)
	if err != nil {
		return Overview{}, fmt.Errorf("count admins: %w", err)
	}

	return Overview{
		Tenant:      tenant,
		Role:        viewer.Role,
		IsAdmin:     viewer.IsAdmin(),
		MemberCount: members,
		AdminCount:  admins,
	}, nil
}
