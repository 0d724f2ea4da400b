package sqlite

import (
	"context"
	"strings"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
)

// keepsAnAdmin holds when the targeted row is not an admin or the tenant has
// another admin besides it. Parameters: tenant id.
const keepsAnAdmin = `(role <> 'admin' OR (
	SELECT COUNT(*) FROM memberships WHERE tenant_id = ? AND role = 'admin'
) > 1)`

const memberColumns = `m.id, m.tenant_id, m.identity_id, m.role, m.created_at,
	COALESCE(i.username, ''), COALESCE(i.display_name, ''), COALESCE(i.email, '')`

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (id, tenant_id, identity_id, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.TenantID, m.IdentityID, string(m.Role), toMillis(m.CreatedAt),
	)
	return mapConflict(err)
}

func (r *membershipsRepo) GetMembership(ctx context.Context, tenantID, identityID string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, identity_id, role, created_at
		FROM memberships
		WHERE tenant_id = ? AND identity_id = ?`, tenantID, identityID)
	m, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) GetMember(ctx context.Context, tenantID, membershipID string) (domain.Member, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM memberships m
		LEFT JOIN identities i ON i.id = m.identity_id
		WHERE m.id = ? AND m.tenant_id = ?`, membershipID, tenantID)
	m, err := scanMember(row)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) FirstMembershipForIdentity(ctx context.Context, identityID string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, identity_id, role, created_at
		FROM memberships
		WHERE identity_id = ?
		ORDER BY created_at, id
		LIMIT 1`, identityID)
	m, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) ListMembers(ctx context.Context, tenantID string, filter store.MemberFilter) ([]domain.Member, error) {
	var (
		sb   strings.Builder
		args = []any{tenantID}
	)
	sb.WriteString(`
		SELECT ` + memberColumns + `
		FROM memberships m
		LEFT JOIN identities i ON i.id = m.identity_id
		WHERE m.tenant_id = ?`)

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		sb.WriteString(` AND (
			LOWER(COALESCE(i.username, '')) LIKE ? ESCAPE '\' OR
			LOWER(COALESCE(i.display_name, '')) LIKE ? ESCAPE '\' OR
			LOWER(COALESCE(i.email, '')) LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}
	if filter.Role != "" {
		sb.WriteString(` AND m.role = ?`)
		args = append(args, string(filter.Role))
	}
	sb.WriteString(` ORDER BY COALESCE(NULLIF(i.display_name, ''), i.username, m.identity_id) COLLATE NOCASE, i.username COLLATE NOCASE, m.id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipsRepo) CountMembers(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memberships WHERE tenant_id = ?`, tenantID).Scan(&n)
	return n, err
}

func (r *membershipsRepo) CountAdmins(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE tenant_id = ? AND role = 'admin'`, tenantID,
	).Scan(&n)
	return n, err
}

func (r *membershipsRepo) DeleteMembershipKeepingAdmin(ctx context.Context, tenantID, membershipID string) (bool, error) {
	return affected(r.db.ExecContext(ctx, `
		DELETE FROM memberships
		WHERE id = ? AND tenant_id = ? AND `+keepsAnAdmin,
		membershipID, tenantID, tenantID,
	))
}

func (r *membershipsRepo) UpdateRoleKeepingAdmin(ctx context.Context, tenantID, membershipID string, role domain.Role) (bool, error) {
	if role == domain.RoleAdmin {
		// Promotion can never drop the admin count
		return affected(r.db.ExecContext(ctx,
			`UPDATE memberships SET role = ? WHERE id = ? AND tenant_id = ?`,
			string(role), membershipID, tenantID,
		))
	}
	return affected(r.db.ExecContext(ctx, `
		UPDATE memberships SET role = ?
		WHERE id = ? AND tenant_id = ? AND `+keepsAnAdmin,
		string(role), membershipID, tenantID, tenantID,
	))
}

func scanMembership(s scanner) (domain.Membership, error) {
	var (
		m         domain.Membership
		role      string
		createdAt int64
	)
	if err := s.Scan(&m.ID, &m.TenantID, &m.IdentityID, &role, &createdAt); err != nil {
		return domain.Membership{}, err
	}
	m.Role = domain.Role(role)
	m.CreatedAt = fromMillis(createdAt)
	return m, nil
}

func scanMember(s scanner) (domain.Member, error) {
	var (
		m         domain.Member
		role      string
		createdAt int64
	)
	err := s.Scan(
		&m.ID, &m.TenantID, &m.IdentityID, &role, &createdAt,
		&m.Username, &m.DisplayName, &m.Email,
	)
	if err != nil {
		return domain.Member{}, err
	}
	m.Role = domain.Role(role)
	m.CreatedAt = fromMillis(createdAt)
	return m, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
