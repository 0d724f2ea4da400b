package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var (
		s         domain.Session
		tenantID  sql.NullString
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, identity_id, tenant_id, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.IdentityID, &tenantID, &updatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.TenantID = tenantID.String
	s.UpdatedAt = fromMillis(updatedAt)
	return s, nil
}

func (r *sessionsRepo) UpsertSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, identity_id, tenant_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			identity_id = excluded.identity_id,
			tenant_id = excluded.tenant_id,
			updated_at = excluded.updated_at`,
		s.ID, s.IdentityID, mapStringNull(s.TenantID), toMillis(s.UpdatedAt),
	)
	return err
}

func (r *sessionsRepo) DeleteIdleSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, toMillis(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
