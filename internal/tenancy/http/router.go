package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/abyford453/FleetGuard/api/tenancy" // Swagger docs
	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/pkg/httpx"
	"github.com/abyford453/FleetGuard/pkg/jwtx"
	"github.com/abyford453/FleetGuard/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux chi.Router

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	gatherer     prometheus.Gatherer
	limits       httpx.RateLimitProfiles
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	IdentityService   *service.IdentityService
	Resolver          *service.Resolver
	Guard             *service.Guard
	TenantService     *service.TenantService
	MembershipService *service.MembershipService
	InviteService     *service.InviteService
	Recorder          *service.Recorder
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	gatherer prometheus.Gatherer,
	limits httpx.RateLimitProfiles,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          chi.NewRouter(),
		keys:         keys,
		verifier:     verifier,
		gatherer:     gatherer,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.Mux.Use(slogx.HTTPMiddleware(r.logger))

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()

	r.Mux.Route("/v1", func(v1 chi.Router) {
		v1.Use(
			httpx.AuthnMiddleware(r.verifier),
			IdentityMiddleware(r.IdentityService),
			TenantMiddleware(r.Resolver),
		)

		r.registerTenants(v1)
		r.registerSettings(v1)
		r.registerInviteAcceptance(v1)
	})

	r.Mux.Handle("/swagger/*", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler.
//
//	@title			FleetGuard Tenancy API
//	@version		0.1.0
//	@description	Tenant selection, membership, invite and audit management for FleetGuard.
//	@description
//	@description				Identity tokens are EdDSA-signed JWTs issued by the upstream auth service.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT identity token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Mux.ServeHTTP(w, req)
}

func (r *Router) registerTenants(v1 chi.Router) {
	h := &TenantsHandler{TenantService: r.TenantService}

	v1.With(httpx.RateLimitByUser(r.limits.Lenient)).Get("/tenants", h.HandleList)
	v1.With(httpx.RateLimitByUser(r.limits.Moderate)).Post("/tenants", h.HandleCreate)
	v1.With(httpx.RateLimitByUser(r.limits.Moderate)).Post("/tenants/{tenantID}/select", h.HandleSelect)
}

func (r *Router) registerSettings(v1 chi.Router) {
	settings := &SettingsHandler{MembershipService: r.MembershipService, TenantService: r.TenantService}
	members := &MembersHandler{MembershipService: r.MembershipService}
	invites := &InvitesHandler{InviteService: r.InviteService}
	audit := &AuditHandler{Recorder: r.Recorder}

	v1.Route("/settings", func(s chi.Router) {
		// Any member of the active tenant
		s.With(
			RequireMember(r.Guard),
			httpx.RateLimitByUser(r.limits.Lenient),
		).Get("/", settings.HandleOverview)

		// Admins only
		s.Group(func(admin chi.Router) {
			admin.Use(RequireAdmin(r.Guard))

			lenient := admin.With(httpx.RateLimitByUser(r.limits.Lenient))
			lenient.Get("/members", members.HandleList)
			lenient.Get("/audit", audit.ServeHTTP)
			lenient.Get("/invites", invites.HandleList)

			moderate := admin.With(httpx.RateLimitByUser(r.limits.Moderate))
			moderate.Patch("/organization", settings.HandleUpdateOrganization)
			moderate.Post("/members", members.HandleAdd)
			moderate.Delete("/members/{membershipID}", members.HandleRemove)
			moderate.Put("/members/{membershipID}/role", members.HandleUpdateRole)
			moderate.Post("/invites", invites.HandleCreate)
			moderate.Post("/invites/{inviteID}/revoke", invites.HandleRevoke)
		})
	})
}

func (r *Router) registerInviteAcceptance(v1 chi.Router) {
	h := &InvitesHandler{InviteService: r.InviteService}

	// Tokens could be guessed here, so both routes share the strict limit
	strict := v1.With(httpx.RateLimitByUser(r.limits.Strict))
	strict.Get("/invites/accept/{token}", h.HandlePreview)
	strict.Post("/invites/accept/{token}", h.HandleAccept)
}

func (r *Router) registerSystem() {
	lenient := r.Mux.With(httpx.RateLimitByIP(r.limits.Lenient))
	lenient.Get("/livez", LivezHandler(r.startTime, r.buildVersion))
	lenient.Get("/readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
	lenient.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
}
