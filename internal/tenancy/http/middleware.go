package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/httpx"
	"github.com/abyford453/FleetGuard/pkg/slogx"
)

// IdentityMiddleware mirrors the verified claims into the identity
// directory and stores the identity in the request context. It must run
// after httpx.AuthnMiddleware.
func IdentityMiddleware(ids *service.IdentityService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, ok := httpx.ClaimsFromContext(ctx)
			if !ok || claims.Subject == "" {
				writeUnauthorized(w)
				return
			}

			identity, err := ids.Sync(ctx, domain.Identity{
				ID:          claims.Subject,
				Username:    strings.TrimSpace(claims.Username),
				DisplayName: strings.TrimSpace(claims.PreferredName),
				Email:       strings.TrimSpace(claims.Email),
				Superuser:   claims.HasScope(domain.SuperuserScope),
			})
			if err != nil {
				writeError(w, r, err, "load identity")
				return
			}

			sessionKey := domain.SessionKey(claims.SID, claims.Subject)
			ctx = WithIdentity(ctx, identity, sessionKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantMiddleware resolves the active tenant for the session. A request
// without a resolvable tenant still proceeds, carrying a nil tenant.
func TenantMiddleware(resolver *service.Resolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identity, ok := IdentityFromContext(ctx)
			if !ok {
				writeUnauthorized(w)
				return
			}

			tenant, err := resolver.Resolve(ctx, identity, SessionKeyFromContext(ctx))
			if err != nil {
				writeError(w, r, err, "resolve tenant")
				return
			}

			ctx = WithTenant(ctx, tenant)
			if tenant != nil {
				ctx = slogx.With(ctx, "tenant_id", tenant.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMember rejects requests whose identity is not a member of the
// active tenant.
func RequireMember(guard *service.Guard) httpx.Middleware {
	return requireRole(guard.RequireMember)
}

// RequireAdmin rejects requests whose identity is not an admin of the
// active tenant.
func RequireAdmin(guard *service.Guard) httpx.Middleware {
	return requireRole(guard.RequireAdmin)
}

type guardFunc func(ctx context.Context, identity domain.Identity, tenant *domain.Tenant) (domain.Membership, error)

func requireRole(check guardFunc) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identity, ok := IdentityFromContext(ctx)
			if !ok {
				writeUnauthorized(w)
				return
			}

			m, err := check(ctx, identity, TenantFromContext(ctx))
			if err != nil {
				writeError(w, r, err, "check membership")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithMembership(ctx, m)))
		})
	}
}
