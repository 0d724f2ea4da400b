package http

import (
	"context"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
)

type ctxKey int

const (
	ctxKeyIdentity ctxKey = iota
	ctxKeySessionKey
	ctxKeyTenant
	ctxKeyMembership
)

// WithIdentity stores the synced identity and its session slot key.
func WithIdentity(ctx context.Context, identity domain.Identity, sessionKey string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIdentity, identity)
	return context.WithValue(ctx, ctxKeySessionKey, sessionKey)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(domain.Identity)
	return id, ok
}

func SessionKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(ctxKeySessionKey).(string)
	return key
}

// WithTenant stores the active tenant. A nil tenant means none is selected.
func WithTenant(ctx context.Context, tenant *domain.Tenant) context.Context {
	return context.WithValue(ctx, ctxKeyTenant, tenant)
}

// TenantFromContext returns the active tenant, or nil when none is selected.
func TenantFromContext(ctx context.Context) *domain.Tenant {
	t, _ := ctx.Value(ctxKeyTenant).(*domain.Tenant)
	return t
}

// WithMembership stores the membership that passed the guard.
func WithMembership(ctx context.Context, m domain.Membership) context.Context {
	return context.WithValue(ctx, ctxKeyMembership, m)
}

func MembershipFromContext(ctx context.Context) (domain.Membership, bool) {
	m, ok := ctx.Value(ctxKeyMembership).(domain.Membership)
	return m, ok
}
