package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
)

type auditEventsRepo struct {
	db dbtx
}

func (r *auditEventsRepo) CreateAuditEvent(ctx context.Context, ev domain.AuditEvent) error {
	metadata := []byte("{}")
	if len(ev.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(ev.Metadata); err != nil {
			return fmt.Errorf("encode audit metadata: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, tenant_id, actor_id, action, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.TenantID, mapStringNull(ev.ActorID), string(ev.Action),
		ev.Message, string(metadata), toMillis(ev.CreatedAt),
	)
	return err
}

func (r *auditEventsRepo) ListAuditEvents(ctx context.Context, tenantID string, filter store.AuditFilter) ([]domain.AuditEvent, error) {
	var (
		sb   strings.Builder
		args = []any{tenantID}
	)
	sb.WriteString(`
		SELECT id, tenant_id, actor_id, action, message, metadata, created_at
		FROM audit_events
		WHERE tenant_id = ?`)

	if filter.Action != "" {
		sb.WriteString(` AND action = ?`)
		args = append(args, string(filter.Action))
	}
	if filter.From != nil {
		sb.WriteString(` AND created_at >= ?`)
		args = append(args, toMillis(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(` AND created_at < ?`)
		args = append(args, toMillis(*filter.To))
	}
	sb.WriteString(` ORDER BY created_at DESC, id DESC`)
	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var (
			ev        domain.AuditEvent
			actorID   sql.NullString
			action    string
			metadata  string
			createdAt int64
		)
		if err := rows.Scan(&ev.ID, &ev.TenantID, &actorID, &action, &ev.Message, &metadata, &createdAt); err != nil {
			return nil, err
		}
		ev.ActorID = actorID.String
		ev.Action = domain.AuditAction(action)
		ev.CreatedAt = fromMillis(createdAt)
		if err := json.Unmarshal([]byte(metadata), &ev.Metadata); err != nil {
			return nil, fmt.Errorf("decode audit metadata %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *auditEventsRepo) ListAuditActions(ctx context.Context, tenantID string) ([]domain.AuditAction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT action FROM audit_events WHERE tenant_id = ? ORDER BY action`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditAction
	for rows.Next() {
		var action string
		if err := rows.Scan(&action); err != nil {
			return nil, err
		}
		out = append(out, domain.AuditAction(action))
	}
	return out, rows.Err()
}
