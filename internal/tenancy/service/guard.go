package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/pkg/slogx"
)

// Guard checks tenant, then membership, then role, in that order.
type Guard struct {
	Store   store.Store
	Metrics *metrics.Metrics
}

// RequireMember returns the identity's membership in tenant.
func (g *Guard) RequireMember(ctx context.Context, identity domain.Identity, tenant *domain.Tenant) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if tenant == nil {
		g.Metrics.IncRejection(ErrNoTenantSelected.Code)
		return domain.Membership{}, ErrNoTenantSelected
	}

	m, err := g.Store.Memberships().GetMembership(ctx, tenant.ID, identity.ID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("tenant access denied",
			slog.String("tenant_id", tenant.ID),
		)
		g.Metrics.IncRejection(ErrAccessDenied.Code)
		return domain.Membership{}, ErrAccessDenied
	}
	if err != nil {
		return domain.Membership{}, fmt.Errorf("load membership: %w", err)
	}

	return m, nil
}

// RequireAdmin is RequireMember plus an admin role check.
func (g *Guard) RequireAdmin(ctx context.Context, identity domain.Identity, tenant *domain.Tenant) (domain.Membership, error) {
	m, err := g.RequireMember(ctx, identity, tenant)
	if err != nil {
		return domain.Membership{}, err
	}

	if !m.IsAdmin() {
		slogx.FromContext(ctx).Warn("admin access required",
			slog.String("tenant_id", tenant.ID),
			slog.String("role", string(m.Role)),
		)
		g.Metrics.IncRejection(ErrAdminRequired.Code)
		return domain.Membership{}, ErrAdminRequired
	}

	return m, nil
}
