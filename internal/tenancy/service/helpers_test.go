package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/internal/tenancy/store/drivers/sqlite"
	"github.com/abyford453/FleetGuard/pkg/validatex"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store    *sqlite.Store
	clock    *testClock
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	audit    *Recorder
	resolver *Resolver
	guard    *Guard
	members  *MembershipService
	invites  *InviteService
	tenants  *TenantService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "fleet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &testClock{t: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	v := validatex.New()

	audit := &Recorder{Store: st, Metrics: m, Now: clock.Now}

	return &fixture{
		store:    st,
		clock:    clock,
		registry: reg,
		metrics:  m,
		audit:    audit,
		resolver: &Resolver{Store: st, Metrics: m, Now: clock.Now},
		guard:    &Guard{Store: st, Metrics: m},
		members:  &MembershipService{Store: st, Audit: audit, Metrics: m, Now: clock.Now},
		invites: &InviteService{
			Store:     st,
			Audit:     audit,
			Metrics:   m,
			Validator: v,
			PublicURL: "https://fleet.example.com/",
			Now:       clock.Now,
		},
		tenants: &TenantService{Store: st, Audit: audit, Metrics: m, Validator: v, Now: clock.Now},
	}
}

func (f *fixture) identity(t *testing.T, username string) domain.Identity {
	t.Helper()

	at := f.clock.Now()
	id := domain.Identity{
		ID:          domain.NewID(),
		Username:    username,
		DisplayName: "",
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	require.NoError(t, f.store.Identities().UpsertIdentity(context.Background(), id))
	return id
}

func (f *fixture) superuser(t *testing.T, username string) domain.Identity {
	t.Helper()

	id := f.identity(t, username)
	id.Superuser = true
	require.NoError(t, f.store.Identities().UpsertIdentity(context.Background(), id))
	return id
}

// tenant creates a tenant whose first admin is admin.
func (f *fixture) tenant(t *testing.T, name string, admin domain.Identity) domain.Tenant {
	t.Helper()

	tenant, err := f.tenants.Create(context.Background(), admin, "seed:"+admin.ID, CreateTenantInput{Name: name})
	require.NoError(t, err)
	return tenant
}

func (f *fixture) join(t *testing.T, tenant domain.Tenant, who domain.Identity, role domain.Role) domain.Membership {
	t.Helper()

	m := domain.Membership{
		ID:         domain.NewID(),
		TenantID:   tenant.ID,
		IdentityID: who.ID,
		Role:       role,
		CreatedAt:  f.clock.Now(),
	}
	require.NoError(t, f.store.Memberships().CreateMembership(context.Background(), m))
	return m
}

func (f *fixture) membership(t *testing.T, tenant domain.Tenant, who domain.Identity) domain.Membership {
	t.Helper()

	m, err := f.store.Memberships().GetMembership(context.Background(), tenant.ID, who.ID)
	require.NoError(t, err)
	return m
}

func (f *fixture) auditEvents(t *testing.T, tenant domain.Tenant, action domain.AuditAction) []domain.AuditEvent {
	t.Helper()

	events, err := f.store.AuditEvents().ListAuditEvents(context.Background(), tenant.ID, store.AuditFilter{Action: action})
	require.NoError(t, err)
	return events
}

func (f *fixture) counter(t *testing.T, name string) float64 {
	t.Helper()

	families, err := f.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}
