package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the tenancy service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	AuditWriteFailures  prometheus.Counter
	AuditEventsRecorded prometheus.Counter
	Rejections          *prometheus.CounterVec
	TenantsCreated      prometheus.Counter
	InvitesAccepted     prometheus.Counter
	MembershipChanges   *prometheus.CounterVec
	ResolveDuration     prometheus.Histogram
	SessionsSwept       prometheus.Counter
}

// New registers all collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		AuditWriteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "fleetguard_audit_write_failures_total",
			Help: "Total number of audit events that could not be persisted",
		}),
		AuditEventsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "fleetguard_audit_events_recorded_total",
			Help: "Total number of audit events persisted",
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetguard_rejections_total",
			Help: "Total number of rejected tenancy operations by rejection code",
		}, []string{"code"}),
		TenantsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "fleetguard_tenants_created_total",
			Help: "Total number of tenants created",
		}),
		InvitesAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "fleetguard_invites_accepted_total",
			Help: "Total number of invites redeemed into a new membership",
		}),
		MembershipChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetguard_membership_changes_total",
			Help: "Total number of membership mutations by kind",
		}, []string{"kind"}),
		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetguard_tenant_resolve_duration_seconds",
			Help:    "Duration of active tenant resolution per request",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		SessionsSwept: f.NewCounter(prometheus.CounterOpts{
			Name: "fleetguard_sessions_swept_total",
			Help: "Total number of idle session slots deleted",
		}),
	}
}

func (m *Metrics) IncAuditWriteFailures() {
	if m == nil {
		return
	}
	m.AuditWriteFailures.Inc()
}

func (m *Metrics) IncAuditEventsRecorded() {
	if m == nil {
		return
	}
	m.AuditEventsRecorded.Inc()
}

func (m *Metrics) IncRejection(code string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(code).Inc()
}

func (m *Metrics) IncTenantsCreated() {
	if m == nil {
		return
	}
	m.TenantsCreated.Inc()
}

func (m *Metrics) IncInvitesAccepted() {
	if m == nil {
		return
	}
	m.InvitesAccepted.Inc()
}

// IncMembershipChange counts a membership mutation; kind is one of added,
// removed or role_changed.
func (m *Metrics) IncMembershipChange(kind string) {
	if m == nil {
		return
	}
	m.MembershipChanges.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveResolve(start time.Time) {
	if m == nil {
		return
	}
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddSessionsSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsSwept.Add(float64(n))
}
