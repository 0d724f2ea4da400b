package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
)

const inviteColumns = `id, tenant_id, token, role, email, created_by, created_at,
	expires_at, uses, max_uses, is_active, revoked, revoked_at, used_at`

type invitesRepo struct {
	db dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (
			id, tenant_id, token, role, email, created_by, created_at,
			expires_at, uses, max_uses, is_active, revoked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TenantID, inv.Token, string(inv.Role), inv.Email, inv.CreatedBy,
		toMillis(inv.CreatedAt), toNullMillis(inv.ExpiresAt),
		inv.Uses, inv.MaxUses, boolToInt(inv.IsActive), boolToInt(inv.Revoked),
	)
	return mapConflict(err)
}

func (r *invitesRepo) GetInviteByToken(ctx context.Context, token string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM invites WHERE token = ?`, token)
	inv, err := scanInvite(row)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) GetInvite(ctx context.Context, tenantID, inviteID string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ? AND tenant_id = ?`,
		inviteID, tenantID,
	)
	inv, err := scanInvite(row)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) ListInvites(ctx context.Context, tenantID string, limit int) ([]domain.Invite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+inviteColumns+`
		FROM invites
		WHERE tenant_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitesRepo) ConsumeInvite(ctx context.Context, inviteID string, now time.Time) (bool, error) {
	ms := toMillis(now)
	return affected(r.db.ExecContext(ctx, `
		UPDATE invites SET
			uses = uses + 1,
			is_active = CASE WHEN uses + 1 >= max_uses THEN 0 ELSE 1 END,
			used_at = ?
		WHERE id = ?
			AND is_active = 1
			AND revoked = 0
			AND uses < max_uses
			AND (expires_at IS NULL OR expires_at > ?)`,
		ms, inviteID, ms,
	))
}

func (r *invitesRepo) RevokeInvite(ctx context.Context, tenantID, inviteID string, now time.Time) (bool, error) {
	return affected(r.db.ExecContext(ctx, `
		UPDATE invites SET revoked = 1, is_active = 0, revoked_at = ?
		WHERE id = ? AND tenant_id = ? AND uses = 0 AND revoked = 0`,
		toMillis(now), inviteID, tenantID,
	))
}

func scanInvite(s scanner) (domain.Invite, error) {
	var (
		inv       domain.Invite
		role      string
		createdAt int64
		expiresAt sql.NullInt64
		revokedAt sql.NullInt64
		usedAt    sql.NullInt64
	)
	err := s.Scan(
		&inv.ID, &inv.TenantID, &inv.Token, &role, &inv.Email, &inv.CreatedBy, &createdAt,
		&expiresAt, &inv.Uses, &inv.MaxUses, &inv.IsActive, &inv.Revoked, &revokedAt, &usedAt,
	)
	if err != nil {
		return domain.Invite{}, err
	}
	inv.Role = domain.Role(role)
	inv.CreatedAt = fromMillis(createdAt)
	inv.ExpiresAt = fromNullMillis(expiresAt)
	inv.RevokedAt = fromNullMillis(revokedAt)
	inv.UsedAt = fromNullMillis(usedAt)
	return inv, nil
}
