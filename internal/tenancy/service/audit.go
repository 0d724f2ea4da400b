package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/pkg/slogx"
)

const (
	defaultAuditWriteTimeout = 2 * time.Second
	auditListLimit           = 200
	auditDateLayout          = "2006-01-02"
)

// AuditEntry is one administrative action to record.
type AuditEntry struct {
	TenantID string
	ActorID  string // empty for system actions
	Action   domain.AuditAction
	Message  string
	Metadata map[string]any
}

// Recorder writes and lists the tenant audit log. Record never fails: the
// outcome of the operation being audited does not depend on it.
type Recorder struct {
	Store        store.Store
	Metrics      *metrics.Metrics
	WriteTimeout time.Duration
	Now          func() time.Time
}

// Record persists the entry on a context detached from the caller's
// cancellation. Failures, including panics in the store, are logged and
// counted, never returned.
func (r *Recorder) Record(ctx context.Context, e AuditEntry) {
	log := slogx.FromContext(ctx)

	defer func() {
		if p := recover(); p != nil {
			r.Metrics.IncAuditWriteFailures()
			log.Warn("audit write panicked",
				slog.String("action", string(e.Action)),
				slog.String("tenant_id", e.TenantID),
				slog.Any("panic", p),
			)
		}
	}()

	timeout := r.WriteTimeout
	if timeout <= 0 {
		timeout = defaultAuditWriteTimeout
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	ev := domain.AuditEvent{
		ID:        domain.NewID(),
		TenantID:  e.TenantID,
		ActorID:   e.ActorID,
		Action:    e.Action,
		Message:   e.Message,
		Metadata:  e.Metadata,
		CreatedAt: now(r.Now),
	}

	if err := r.Store.AuditEvents().CreateAuditEvent(writeCtx, ev); err != nil {
		r.Metrics.IncAuditWriteFailures()
		log.Warn("audit write failed",
			slog.String("action", string(e.Action)),
			slog.String("tenant_id", e.TenantID),
			slog.Any("error", err),
		)
		return
	}

	r.Metrics.IncAuditEventsRecorded()
	log.Debug("audit event recorded",
		slog.String("audit_id", ev.ID),
		slog.String("action", string(e.Action)),
	)
}

// AuditQuery filters the audit listing. Start and End are YYYY-MM-DD dates
// in UTC and both are inclusive.
type AuditQuery struct {
	Action string
	Start  string
	End    string
}

type AuditListing struct {
	Events  []domain.AuditEvent
	Actions []domain.AuditAction
}

// List returns up to 200 matching events newest first, plus the distinct
// actions recorded for the tenant.
func (r *Recorder) List(ctx context.Context, tenant domain.Tenant, q AuditQuery) (AuditListing, error) {
	filter := store.AuditFilter{Limit: auditListLimit}

	// 1. Parse the filter
	if q.Action != "" {
		action := domain.AuditAction(q.Action)
		if !action.IsValid() {
			return AuditListing{}, invalidField("action", "is not a recorded action")
		}
		filter.Action = action
	}
	if q.Start != "" {
		from, err := time.ParseInLocation(auditDateLayout, q.Start, time.UTC)
		if err != nil {
			return AuditListing{}, invalidField("start", "must be a date formatted YYYY-MM-DD")
		}
		filter.From = &from
	}
	if q.End != "" {
		end, err := time.ParseInLocation(auditDateLayout, q.End, time.UTC)
		if err != nil {
			return AuditListing{}, invalidField("end", "must be a date formatted YYYY-MM-DD")
		}
		to := end.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return AuditListing{}, invalidField("end", "must not be before start")
	}

	// 2. Load events and the action list
	events, err := r.Store.AuditEvents().ListAuditEvents(ctx, tenant.ID, filter)
	if err != nil {
		return AuditListing{}, fmt.Errorf("list audit events: %w", err)
	}
	actions, err := r.Store.AuditEvents().ListAuditActions(ctx, tenant.ID)
	if err != nil {
		return AuditListing{}, fmt.Errorf("list audit actions: %w", err)
	}

	return AuditListing{Events: events, Actions: actions}, nil
}

func now(f func() time.Time) time.Time {
	if f != nil {
		return f().UTC()
	}
	return time.Now().UTC()
}
