package sqlite

import (
	"context"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
)

const identityColumns = `id, username, display_name, email, superuser, created_at, updated_at`

type identitiesRepo struct {
	db dbtx
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	i, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return i, nil
}

func (r *identitiesRepo) GetIdentityByUsername(ctx context.Context, username string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE username = ? COLLATE NOCASE AND username <> ''
		ORDER BY created_at, id
		LIMIT 1`, username)
	i, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return i, nil
}

func (r *identitiesRepo) UpsertIdentity(ctx context.Context, i domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, username, display_name, email, superuser, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			display_name = excluded.display_name,
			email = excluded.email,
			superuser = excluded.superuser,
			updated_at = excluded.updated_at`,
		i.ID, i.Username, i.DisplayName, i.Email, boolToInt(i.Superuser),
		toMillis(i.CreatedAt), toMillis(i.UpdatedAt),
	)
	return err
}

func scanIdentity(s scanner) (domain.Identity, error) {
	var (
		i         domain.Identity
		createdAt int64
		updatedAt int64
	)
	err := s.Scan(&i.ID, &i.Username, &i.DisplayName, &i.Email, &i.Superuser, &createdAt, &updatedAt)
	if err != nil {
		return domain.Identity{}, err
	}
	i.CreatedAt = fromMillis(createdAt)
	i.UpdatedAt = fromMillis(updatedAt)
	return i, nil
}
