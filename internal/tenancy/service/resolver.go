package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/pkg/slogx"
)

// sessionTouchInterval bounds how often an unchanged slot is rewritten just
// to keep it from being swept as idle.
const sessionTouchInterval = 5 * time.Minute

// Resolver picks the active tenant for a request.
type Resolver struct {
	Store   store.Store
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Resolve returns the active tenant for identity in the session slot named
// sessionKey, or nil when the identity has no tenant. In order it tries:
//  1. the tenant selected in the session, if the identity is a member;
//  2. the identity's oldest membership;
//  3. for superusers, the oldest tenant.
//
// Choices made by steps 2 and 3 are saved into the session slot.
func (r *Resolver) Resolve(ctx context.Context, identity domain.Identity, sessionKey string) (tenant *domain.Tenant, err error) {
	ctx, span := startSpan(ctx, "tenancy.resolve", attribute.String("identity.id", identity.ID))
	defer func() { endSpan(span, r.Metrics, err) }()
	defer r.Metrics.ObserveResolve(time.Now())

	log := slogx.FromContext(ctx)

	// 1. Session selection, if still backed by a membership
	sess, err := r.Store.Sessions().GetSession(ctx, sessionKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err == nil && sess.TenantID != "" && sess.IdentityID == identity.ID {
		t, ok, err := r.memberTenant(ctx, identity.ID, sess.TenantID)
		if err != nil {
			return nil, err
		}
		if ok {
			if now(r.Now).Sub(sess.UpdatedAt) > sessionTouchInterval {
				if err := r.remember(ctx, identity.ID, sessionKey, t.ID); err != nil {
					return nil, err
				}
			}
			return &t, nil
		}
		log.Debug("session tenant no longer accessible",
			slog.String("tenant_id", sess.TenantID),
		)
	}

	// 2. Oldest membership
	m, err := r.Store.Memberships().FirstMembershipForIdentity(ctx, identity.ID)
	switch {
	case err == nil:
		t, err := r.Store.Tenants().GetTenantByID(ctx, m.TenantID)
		if err != nil {
			return nil, fmt.Errorf("load tenant %s: %w", m.TenantID, err)
		}
		if err := r.remember(ctx, identity.ID, sessionKey, t.ID); err != nil {
			return nil, err
		}
		return &t, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load first membership: %w", err)
	}

	// 3. Superuser fallback
	if identity.Superuser {
		t, err := r.Store.Tenants().FirstTenant(ctx)
		switch {
		case err == nil:
			if err := r.remember(ctx, identity.ID, sessionKey, t.ID); err != nil {
				return nil, err
			}
			return &t, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("load first tenant: %w", err)
		}
	}

	// 4. No tenant at all
	return nil, nil
}

func (r *Resolver) memberTenant(ctx context.Context, identityID, tenantID string) (domain.Tenant, bool, error) {
	_, err := r.Store.Memberships().GetMembership(ctx, tenantID, identityID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Tenant{}, false, nil
	}
	if err != nil {
		return domain.Tenant{}, false, fmt.Errorf("load membership: %w", err)
	}

	t, err := r.Store.Tenants().GetTenantByID(ctx, tenantID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Tenant{}, false, nil
	}
	if err != nil {
		return domain.Tenant{}, false, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	return t, true, nil
}

func (r *Resolver) remember(ctx context.Context, identityID, sessionKey, tenantID string) error {
	return rememberTenant(ctx, r.Store, identityID, sessionKey, tenantID, now(r.Now))
}

// rememberTenant points the session slot at tenantID.
func rememberTenant(ctx context.Context, s store.Store, identityID, sessionKey, tenantID string, at time.Time) error {
	err := s.Sessions().UpsertSession(ctx, domain.Session{
		ID:         sessionKey,
		IdentityID: identityID,
		TenantID:   tenantID,
		UpdatedAt:  at,
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
